// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Venue     VenueConfig     `mapstructure:"venue"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	HealthPort  int    `mapstructure:"health_port"`
}

// VaultConfig identifies the leveraged vault and its leverage band.
type VaultConfig struct {
	Address       string `mapstructure:"address"`
	ChainID       uint64 `mapstructure:"chain_id"`
	TargetBps     uint64 `mapstructure:"target_bps"`
	LowerBps      uint64 `mapstructure:"lower_bps"`
	UpperBps      uint64 `mapstructure:"upper_bps"`
	MaxSubsidyBps uint64 `mapstructure:"max_subsidy_bps"`
}

// AddressHex returns the vault address as common.Address.
func (c *VaultConfig) AddressHex() common.Address {
	return common.HexToAddress(c.Address)
}

// PolicyConfig holds the sizing policy knobs.
type PolicyConfig struct {
	SlippageBps     uint32 `mapstructure:"slippage_bps"`
	FlashFeeBps     uint64 `mapstructure:"flash_fee_bps"`
	ProtocolFeeBps  uint64 `mapstructure:"protocol_fee_bps"`
	MinProfitBps    uint64 `mapstructure:"min_profit_bps"`
	AcceptBreakEven bool   `mapstructure:"accept_break_even"`

	// MinProfitUSD is a display-only floor used by the reporter, not the
	// engine.
	MinProfitUSD float64 `mapstructure:"min_profit_usd"`
}

// MinProfitUSDDecimal returns the display floor as decimal.Decimal.
func (c *PolicyConfig) MinProfitUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitUSD)
}

// VenueConfig holds swap venue settings: evaluation pacing and circuit
// breaker thresholds.
type VenueConfig struct {
	EvaluationsPerMinute int           `mapstructure:"evaluations_per_minute"`
	QuoteTimeout         time.Duration `mapstructure:"quote_timeout"`
	BreakerMaxFailures   uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout   time.Duration `mapstructure:"breaker_open_timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
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
	v.SetEnvPrefix("SIZER")
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
	v.BindEnv("app.name", "SIZER_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SIZER_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SIZER_LOG_LEVEL", "LOG_LEVEL")

	// Vault
	v.BindEnv("vault.address", "SIZER_VAULT_ADDRESS", "VAULT_ADDRESS")
	v.BindEnv("vault.chain_id", "SIZER_VAULT_CHAIN_ID", "VAULT_CHAIN_ID")
	v.BindEnv("vault.target_bps", "SIZER_TARGET_BPS")
	v.BindEnv("vault.lower_bps", "SIZER_LOWER_BPS")
	v.BindEnv("vault.upper_bps", "SIZER_UPPER_BPS")

	// Policy
	v.BindEnv("policy.slippage_bps", "SIZER_SLIPPAGE_BPS")
	v.BindEnv("policy.flash_fee_bps", "SIZER_FLASH_FEE_BPS")
	v.BindEnv("policy.protocol_fee_bps", "SIZER_PROTOCOL_FEE_BPS")
	v.BindEnv("policy.min_profit_bps", "SIZER_MIN_PROFIT_BPS")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SIZER_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SIZER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SIZER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "flashsizer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.health_port", 8081)

	// Vault defaults: 3x target inside a 2x-4x band on Fraxtal.
	v.SetDefault("vault.chain_id", 252)
	v.SetDefault("vault.target_bps", 30000)
	v.SetDefault("vault.lower_bps", 20000)
	v.SetDefault("vault.upper_bps", 40000)
	v.SetDefault("vault.max_subsidy_bps", 0)

	// Policy defaults
	v.SetDefault("policy.slippage_bps", 50)
	v.SetDefault("policy.flash_fee_bps", 9)
	v.SetDefault("policy.protocol_fee_bps", 0)
	v.SetDefault("policy.min_profit_bps", 0)
	v.SetDefault("policy.accept_break_even", false)
	v.SetDefault("policy.min_profit_usd", 0)

	// Venue defaults
	v.SetDefault("venue.evaluations_per_minute", 60)
	v.SetDefault("venue.quote_timeout", "5s")
	v.SetDefault("venue.breaker_max_failures", 5)
	v.SetDefault("venue.breaker_open_timeout", "30s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "flashsizer")
	v.SetDefault("telemetry.trace_provider", "CONSOLE_PROVIDER")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Vault.Address != "" && !common.IsHexAddress(c.Vault.Address) {
		return fmt.Errorf("invalid vault.address: %s", c.Vault.Address)
	}
	if c.Vault.TargetBps < 10000 {
		return fmt.Errorf("vault.target_bps must be at least 10000, got %d", c.Vault.TargetBps)
	}
	if c.Vault.LowerBps > c.Vault.TargetBps || c.Vault.TargetBps > c.Vault.UpperBps {
		return fmt.Errorf("vault leverage band [%d, %d] must contain target %d",
			c.Vault.LowerBps, c.Vault.UpperBps, c.Vault.TargetBps)
	}
	if c.Policy.SlippageBps >= 10000 {
		return fmt.Errorf("policy.slippage_bps must be below 10000, got %d", c.Policy.SlippageBps)
	}
	if c.Venue.EvaluationsPerMinute <= 0 {
		return fmt.Errorf("venue.evaluations_per_minute must be positive")
	}
	return nil
}
