// Package main is the entry point for the route evaluation engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	evalApp "github.com/arbx-labs/routeval/business/evaluation/app"
	evalInfra "github.com/arbx-labs/routeval/business/evaluation/infra"
	marketInfra "github.com/arbx-labs/routeval/business/marketdata/infra"
	"github.com/arbx-labs/routeval/internal/apm"
	"github.com/arbx-labs/routeval/internal/config"
	"github.com/arbx-labs/routeval/internal/health"
	"github.com/arbx-labs/routeval/internal/logger"
	"github.com/arbx-labs/routeval/internal/metrics"
	"github.com/arbx-labs/routeval/internal/ratelimit"
	"github.com/arbx-labs/routeval/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type options struct {
	configPath   string
	snapshotPath string
	tuiMode      bool
	watch        bool
	verbose      bool
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	snapshotPath := flag.String("snapshot", "", "Path to market snapshot file (overrides config)")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	watch := flag.Bool("watch", false, "Re-evaluate the snapshot continuously (CLI mode)")
	verbose := flag.Bool("verbose", false, "Print full cost breakdown per route (CLI mode)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("routeval %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for scripting and debugging
	opts := options{
		configPath:   *configPath,
		snapshotPath: *snapshotPath,
		tuiMode:      !*cliMode,
		watch:        *watch,
		verbose:      *verbose,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !opts.tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Scan.TUIMode = opts.tuiMode
	if opts.snapshotPath != "" {
		cfg.Scan.SnapshotPath = opts.snapshotPath
	}
	if cfg.Scan.SnapshotPath == "" {
		return fmt.Errorf("no snapshot path: set scan.snapshot_path or pass -snapshot")
	}

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.ParseLevel(cfg.App.LogLevel)
	var log *logger.Logger
	if opts.tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, apm.TraceID)
		log.Info(ctx, "starting route evaluation engine",
			"version", version,
			"environment", cfg.App.Environment,
			"snapshot", cfg.Scan.SnapshotPath,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server
	healthPort := cfg.Telemetry.HealthPort
	if healthPort == 0 {
		healthPort = 8081
	}
	healthServer := health.NewServer(healthPort, version)
	healthServer.RegisterCheck("snapshot", func(ctx context.Context) (bool, string) {
		if _, err := os.Stat(cfg.Scan.SnapshotPath); err != nil {
			return false, err.Error()
		}
		return true, "snapshot readable"
	})
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", healthPort)
	}
	defer healthServer.Stop(ctx)

	// Wire the evaluation pipeline
	provider := marketInfra.NewFileProvider(cfg.Scan.SnapshotPath, log)

	calculator := evalApp.NewRouteCalculator(
		cfg.Engine.MinProfitBpsDecimal(),
		cfg.Engine.MaxSlippageBpsDecimal(),
		cfg.Engine.SafetyMarginDecimal(),
		log,
	)
	universal := evalApp.NewUniversalCalculator(
		decimal.NewFromFloat(cfg.FlashLoan.VolatilityCoeff),
		decimal.NewFromFloat(cfg.FlashLoan.MaxSlippagePct).Div(decimal.NewFromInt(100)),
		decimal.NewFromFloat(cfg.FlashLoan.MinViableVolumeUSD),
		cfg.FlashLoan.OptimizerIterations,
		log,
	)
	analyzer := evalApp.NewRiskAnalyzer(
		cfg.Engine.MaxSlippageBpsDecimal(),
		decimal.NewFromFloat(cfg.Sizing.KellyMultiplier),
		decimal.NewFromFloat(cfg.Sizing.MaxFraction),
		log,
	)
	selector := evalApp.NewHybridSelector(
		decimal.NewFromFloat(cfg.Selector.LegacyBelowPct),
		decimal.NewFromFloat(cfg.Selector.UniversalAbovePct),
	)
	evaluator := evalApp.NewEvaluator(calculator, universal, analyzer, selector, evalApp.EvaluatorConfig{
		MinProfitBps:    cfg.Engine.MinProfitBpsDecimal(),
		Workers:         cfg.Scan.Workers,
		CMin:            decimal.NewFromFloat(cfg.FlashLoan.CMin),
		CMax:            decimal.NewFromFloat(cfg.FlashLoan.CMax),
		DefaultFlashFee: decimal.NewFromFloat(cfg.FlashLoan.FeeRate),
	}, log)

	capitals := cfg.Scan.CapitalDecimal()

	if opts.tuiMode {
		return runTUI(ctx, cfg, provider, evaluator, capitals)
	}

	reporter := evalInfra.NewConsoleReporter(opts.verbose)
	return runCLI(ctx, cfg, provider, evaluator, reporter, capitals, opts.watch, log)
}

// scanOnce loads the snapshot and evaluates every route at every
// configured capital tier, returning the flattened outcomes.
func scanOnce(ctx context.Context, provider *marketInfra.FileProvider, evaluator *evalApp.Evaluator, capitals []decimal.Decimal) ([]evalApp.Outcome, error) {
	snapshot, err := provider.Load(ctx)
	if err != nil {
		return nil, err
	}

	var outcomes []evalApp.Outcome
	for _, capital := range capitals {
		outcomes = append(outcomes, evaluator.EvaluateBatch(ctx, snapshot, capital)...)
	}
	return outcomes, nil
}

func runCLI(ctx context.Context, cfg *config.Config, provider *marketInfra.FileProvider, evaluator *evalApp.Evaluator, reporter *evalInfra.ConsoleReporter, capitals []decimal.Decimal, watch bool, log *logger.Logger) error {
	if !watch {
		outcomes, err := scanOnce(ctx, provider, evaluator, capitals)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		return reporter.Report(ctx, outcomes)
	}

	log.Info(ctx, "watch mode", "cycles_per_minute", cfg.Scan.CyclesPerMin)
	pacer := ratelimit.New(cfg.Scan.CyclesPerMin)

	for {
		if err := pacer.Wait(ctx); err != nil {
			log.Info(ctx, "shutting down")
			return nil
		}

		outcomes, err := scanOnce(ctx, provider, evaluator, capitals)
		if err != nil {
			// Snapshot may be mid-rewrite by the producer; log and retry
			// on the next cycle instead of dying.
			log.Error(ctx, "scan failed", "error", err)
			continue
		}
		if err := reporter.Report(ctx, outcomes); err != nil {
			log.Error(ctx, "report failed", "error", err)
		}
	}
}

func runTUI(ctx context.Context, cfg *config.Config, provider *marketInfra.FileProvider, evaluator *evalApp.Evaluator, capitals []decimal.Decimal) error {
	program := ui.NewProgram()
	reporter := evalInfra.NewTUIReporter(program)

	// Scan loop runs in the background; the dashboard owns the terminal.
	errCh := make(chan error, 1)
	go func() {
		pacer := ratelimit.New(cfg.Scan.CyclesPerMin)
		for {
			if err := pacer.Wait(ctx); err != nil {
				errCh <- nil
				return
			}

			start := time.Now()
			outcomes, err := scanOnce(ctx, provider, evaluator, capitals)
			if err != nil {
				program.Send(ui.ErrorMsg{Error: err})
				continue
			}
			_ = reporter.Report(evalInfra.WithScanStart(ctx, start), outcomes)
		}
	}()

	// Quit the dashboard when the context is cancelled (signal received).
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
