// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Sizing    SizingConfig    `mapstructure:"sizing"`
	FlashLoan FlashLoanConfig `mapstructure:"flash_loan"`
	Selector  SelectorConfig  `mapstructure:"selector"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EngineConfig holds thresholds for the route profit calculator.
type EngineConfig struct {
	MinProfitBps   float64 `mapstructure:"min_profit_bps"`
	MaxSlippageBps float64 `mapstructure:"max_slippage_bps"`
	SafetyMargin   float64 `mapstructure:"safety_margin"`
}

// SizingConfig holds position sizing parameters.
type SizingConfig struct {
	KellyMultiplier float64 `mapstructure:"kelly_multiplier"` // fraction of full Kelly
	MaxFraction     float64 `mapstructure:"max_fraction"`     // hard cap on recommended fraction
}

// FlashLoanConfig holds defaults for the universal flash-loan equation.
type FlashLoanConfig struct {
	FeeRate             float64 `mapstructure:"fee_rate"`       // e.g. 0.0009 for Aave
	CMin                float64 `mapstructure:"c_min"`          // min fraction of TVL
	CMax                float64 `mapstructure:"c_max"`          // max fraction of TVL
	VolatilityCoeff     float64 `mapstructure:"c_vol"`          // volatility -> slippage widening
	MaxSlippagePct      float64 `mapstructure:"max_slippage_pct"`
	MinViableVolumeUSD  float64 `mapstructure:"min_viable_volume_usd"`
	OptimizerIterations int     `mapstructure:"optimizer_iterations"`
}

// SelectorConfig holds the hybrid model-selection spread bands, in percent.
type SelectorConfig struct {
	LegacyBelowPct    float64 `mapstructure:"legacy_below_pct"`
	UniversalAbovePct float64 `mapstructure:"universal_above_pct"`
}

// ScanConfig holds batch evaluation settings.
type ScanConfig struct {
	SnapshotPath   string        `mapstructure:"snapshot_path"`
	Capital        []float64     `mapstructure:"capital"`
	Workers        int           `mapstructure:"workers"`
	Interval       time.Duration `mapstructure:"interval"`
	CyclesPerMin   int           `mapstructure:"cycles_per_minute"`
	TUIMode        bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// CapitalDecimal returns scan capital amounts as decimal.Decimal slice.
func (c *ScanConfig) CapitalDecimal() []decimal.Decimal {
	result := make([]decimal.Decimal, len(c.Capital))
	for i, s := range c.Capital {
		result[i] = decimal.NewFromFloat(s)
	}
	return result
}

// MinProfitBpsDecimal returns min profit bps as decimal.Decimal.
func (c *EngineConfig) MinProfitBpsDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitBps)
}

// MaxSlippageBpsDecimal returns max slippage bps as decimal.Decimal.
func (c *EngineConfig) MaxSlippageBpsDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxSlippageBps)
}

// SafetyMarginDecimal returns the safety margin as decimal.Decimal.
func (c *EngineConfig) SafetyMarginDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SafetyMargin)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ROUTEVAL")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ROUTEVAL_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ROUTEVAL_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ROUTEVAL_LOG_LEVEL", "LOG_LEVEL")

	// Engine
	v.BindEnv("engine.min_profit_bps", "ROUTEVAL_MIN_PROFIT_BPS")
	v.BindEnv("engine.max_slippage_bps", "ROUTEVAL_MAX_SLIPPAGE_BPS")
	v.BindEnv("engine.safety_margin", "ROUTEVAL_SAFETY_MARGIN")

	// Flash loan
	v.BindEnv("flash_loan.fee_rate", "ROUTEVAL_FLASH_FEE_RATE")
	v.BindEnv("flash_loan.c_min", "ROUTEVAL_FLASH_C_MIN")
	v.BindEnv("flash_loan.c_max", "ROUTEVAL_FLASH_C_MAX")

	// Scan
	v.BindEnv("scan.snapshot_path", "ROUTEVAL_SNAPSHOT_PATH")
	v.BindEnv("scan.workers", "ROUTEVAL_SCAN_WORKERS")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ROUTEVAL_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ROUTEVAL_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ROUTEVAL_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "routeval")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Engine defaults
	v.SetDefault("engine.min_profit_bps", 30.0)
	v.SetDefault("engine.max_slippage_bps", 50.0)
	v.SetDefault("engine.safety_margin", 0.20)

	// Sizing defaults: quarter-Kelly, never above 25% of bankroll
	v.SetDefault("sizing.kelly_multiplier", 0.25)
	v.SetDefault("sizing.max_fraction", 0.25)

	// Flash loan defaults (Aave fee, TVL utilization sweet spot)
	v.SetDefault("flash_loan.fee_rate", 0.0009)
	v.SetDefault("flash_loan.c_min", 0.05)
	v.SetDefault("flash_loan.c_max", 0.20)
	v.SetDefault("flash_loan.c_vol", 0.5)
	v.SetDefault("flash_loan.max_slippage_pct", 0.5)
	v.SetDefault("flash_loan.min_viable_volume_usd", 1000.0)
	v.SetDefault("flash_loan.optimizer_iterations", 100)

	// Selector defaults: spread bands in percent
	v.SetDefault("selector.legacy_below_pct", 1.0)
	v.SetDefault("selector.universal_above_pct", 1.5)

	// Scan defaults
	v.SetDefault("scan.capital", []float64{10000})
	v.SetDefault("scan.workers", 4)
	v.SetDefault("scan.interval", "5s")
	v.SetDefault("scan.cycles_per_minute", 12)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "routeval")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.SafetyMargin < 0 || c.Engine.SafetyMargin >= 1 {
		return fmt.Errorf("engine.safety_margin must be in [0,1): %f", c.Engine.SafetyMargin)
	}
	if c.Engine.MaxSlippageBps <= 0 {
		return fmt.Errorf("engine.max_slippage_bps must be positive: %f", c.Engine.MaxSlippageBps)
	}
	if c.FlashLoan.CMin <= 0 || c.FlashLoan.CMax <= c.FlashLoan.CMin {
		return fmt.Errorf("flash_loan coefficients must satisfy 0 < c_min < c_max: c_min=%f c_max=%f",
			c.FlashLoan.CMin, c.FlashLoan.CMax)
	}
	if c.Sizing.MaxFraction <= 0 || c.Sizing.MaxFraction > 1 {
		return fmt.Errorf("sizing.max_fraction must be in (0,1]: %f", c.Sizing.MaxFraction)
	}
	if c.Selector.LegacyBelowPct > c.Selector.UniversalAbovePct {
		return fmt.Errorf("selector.legacy_below_pct (%f) must not exceed selector.universal_above_pct (%f)",
			c.Selector.LegacyBelowPct, c.Selector.UniversalAbovePct)
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive: %d", c.Scan.Workers)
	}
	if len(c.Scan.Capital) == 0 {
		return fmt.Errorf("scan.capital cannot be empty")
	}
	return nil
}
