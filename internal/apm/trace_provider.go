package apm

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/arbx-labs/routeval/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

type Provider string

const (
	OTLPGRPCProvider Provider = "OTLP_GRPC_PROVIDER"
	OTLPHTTPProvider Provider = "OTLP_HTTP_PROVIDER"
	ZipkinProvider   Provider = "ZIPKIN_PROVIDER"
	ConsoleProvider  Provider = "CONSOLE_PROVIDER"
	EmptyProvider    Provider = "EMPTY_PROVIDER"
)

type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

// emptyTraceProvider backs the disabled-tracing path: the global otel
// provider is left untouched, so every span started against it is a
// no-op, and there is nothing to flush on Stop.
type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }

type TracerOptions struct {
	exporter           sdktrace.SpanExporter
	tracerProviderName string
	useEmpty           bool
}

type TracerOption func(*TracerOptions)

func WithProvider(provider Provider, log *logger.Logger) TracerOption {
	if provider == OTLPGRPCProvider {
		return useOTLPGRPC(log)
	}

	if provider == OTLPHTTPProvider {
		return useOTLPHTTP(log)
	}

	if provider == ZipkinProvider {
		return useZipkin(log)
	}

	if provider == ConsoleProvider {
		return useConsole(log)
	}

	log.Warn(context.Background(), "TracerProvider not found, using EmptyProvider")

	return useEmpty()
}

func useEmpty() TracerOption {
	return func(option *TracerOptions) {
		option.useEmpty = true
		option.tracerProviderName = string(EmptyProvider)
	}
}

func useConsole(log *logger.Logger) TracerOption {
	return func(option *TracerOptions) {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			panic(err)
		}

		option.exporter = exp
		option.tracerProviderName = string(ConsoleProvider)
	}
}

func useZipkin(log *logger.Logger) TracerOption {
	return func(option *TracerOptions) {
		url := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

		exp, err := zipkin.New(url)
		if err != nil {
			panic(err)
		}

		option.exporter = exp
		option.tracerProviderName = string(ZipkinProvider)
	}
}

func useOTLPGRPC(log *logger.Logger) TracerOption {
	return func(option *TracerOptions) {
		url := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

		log.Info(context.Background(), "Initializing gRPC trace exporter", "endpoint", url)

		exp, err := otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpointURL(url),
			otlptracegrpc.WithHeaders(otlpHeaders(log)),
		)
		if err != nil {
			log.Error(context.Background(), "Error initializing gRPC trace exporter", "error", err)
			panic(err)
		}

		option.exporter = exp
		option.tracerProviderName = string(OTLPGRPCProvider)
	}
}

func useOTLPHTTP(log *logger.Logger) TracerOption {
	return func(option *TracerOptions) {
		url := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

		log.Info(context.Background(), "Initializing HTTP/Protobuf trace exporter", "endpoint", url)

		exp, err := otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpointURL(url),
			otlptracehttp.WithHeaders(otlpHeaders(log)),
		)
		if err != nil {
			log.Error(context.Background(), "Error initializing HTTP trace exporter", "error", err)
			panic(err)
		}

		option.exporter = exp
		option.tracerProviderName = string(OTLPHTTPProvider)
	}
}

// otlpHeaders parses OTEL_EXPORTER_OTLP_HEADERS as a single key=value pair.
func otlpHeaders(log *logger.Logger) map[string]string {
	headers := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")
	if headers == "" {
		return nil
	}

	headerKeyValue := strings.Split(headers, "=")
	if len(headerKeyValue) != 2 {
		log.Error(context.Background(), "Invalid OTEL_EXPORTER_OTLP_HEADERS format, expected key=value")
		panic("Invalid OTEL_EXPORTER_OTLP_HEADERS format")
	}

	return map[string]string{headerKeyValue[0]: headerKeyValue[1]}
}

func NewTraceProvider(log *logger.Logger, options ...TracerOption) TraceProvider {
	serviceName := os.Getenv("OTEL_SERVICE_NAME")

	if len(options) == 0 {
		options = []TracerOption{useEmpty()}
	}

	opts := &TracerOptions{}

	for _, opt := range options {
		opt(opts)
	}

	if opts.useEmpty {
		return emptyTraceProvider{}
	}

	exp := opts.exporter

	rsrc, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("otel.provider", opts.tracerProviderName),
		))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	// Set global trace provider
	otel.SetTracerProvider(tp)

	// Set trace propagator
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	return &traceProvider{
		tp,
	}
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := o.tp.Shutdown(ctx); err != nil {
		return err
	}

	return nil
}
