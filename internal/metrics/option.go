package metrics

// Provider identifies a metrics export backend.
type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "otelCollector"
)

// Config aggregates provider configuration for the meter provider.
type Config struct {
	ServiceName string
	Provider    []ProviderCfg
}

// ProviderCfg configures a single export backend.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// NewOtelCollectorConfig builds an OTLP collector provider config.
func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Provider: OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}
}

// OptionFn mutates the metrics Config.
type OptionFn func(config Config) Config

// WithProviderConfig appends an export backend.
func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Provider = append(config.Provider, provider)
		return config
	}
}

// WithServiceName sets the service name attached to exported metrics.
func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

// PromServerConfig configures the Prometheus scrape server.
type PromServerConfig struct {
	port string
}

// PromOptionFn mutates the Prometheus server config.
type PromOptionFn func(config PromServerConfig) PromServerConfig

// WithPort sets the scrape server port.
func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
