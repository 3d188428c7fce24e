// Package config loads service configuration from config.yaml, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"solana-trade-desk/internal/alerts"
	"solana-trade-desk/internal/llm"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config stores all configuration for the application.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	LLM       llm.Config      `mapstructure:"llm"`
	Reasoning ReasoningConfig `mapstructure:"reasoning"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Solana    SolanaConfig    `mapstructure:"solana"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig selects the ledger backend. ClickHouseDSN, when set, moves
// the equity curve to ClickHouse regardless of Driver.
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	ClickHouseDSN string `mapstructure:"clickhouse_dsn"`
}

type LedgerConfig struct {
	InitialBalance float64 `mapstructure:"initial_balance"` // SOL
}

// TrackerConfig configures the Solana Tracker provider. Empty APIKey runs
// the risk analyzer in simulation mode.
type TrackerConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

type ReasoningConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig enables the analysis cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SolanaConfig enables on-chain mint lookups when RPCEndpoint is set.
type SolanaConfig struct {
	RPCEndpoint string        `mapstructure:"rpc_endpoint"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// TelegramConfig enables Telegram alerts when Token is set.
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type AlertsConfig struct {
	Thresholds alerts.Thresholds `mapstructure:"thresholds"`
	Cooldown   time.Duration     `mapstructure:"cooldown"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.sqlite_path", "trading_performance.db")
	v.SetDefault("storage.clickhouse_dsn", "")

	v.SetDefault("ledger.initial_balance", 0.0)

	v.SetDefault("tracker.api_key", "")
	v.SetDefault("tracker.base_url", "https://data.solanatracker.io")
	v.SetDefault("tracker.timeout", 10*time.Second)
	v.SetDefault("tracker.call_timeout", 10*time.Second)

	llmDefaults := llm.DefaultConfig()
	v.SetDefault("llm.provider", string(llmDefaults.Provider))
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", llmDefaults.Model)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_tokens", llmDefaults.MaxTokens)
	v.SetDefault("llm.temperature", llmDefaults.Temperature)
	v.SetDefault("llm.timeout", llmDefaults.Timeout)

	v.SetDefault("reasoning.timeout", 30*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("solana.rpc_endpoint", "")
	v.SetDefault("solana.timeout", 10*time.Second)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	th := alerts.DefaultThresholds()
	v.SetDefault("alerts.thresholds.max_drawdown", th.MaxDrawdown)
	v.SetDefault("alerts.thresholds.min_win_rate", th.MinWinRate)
	v.SetDefault("alerts.thresholds.min_trades_for_win_rate", th.MinTradesForWinRate)
	v.SetDefault("alerts.thresholds.daily_loss_limit", th.DailyLossLimit)
	v.SetDefault("alerts.cooldown", alerts.DefaultCooldown)
}

// Load reads configuration. path names a config file; empty searches for
// config.yaml in the working directory and tolerates its absence.
// A .env file in the working directory is loaded into the environment first.
// Environment variables override file values: llm.api_key is LLM_API_KEY.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by the upstream services' own tooling.
	_ = v.BindEnv("tracker.api_key", "TRACKER_API_KEY", "SOLANA_TRACKER_API_KEY")
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY", "ANTHROPIC_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks driver names, required DSNs, thresholds and timeouts.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			fail("storage.postgres_dsn is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			fail("storage.sqlite_path is required for the sqlite driver")
		}
	default:
		fail("storage.driver %q is not one of memory, postgres, sqlite", c.Storage.Driver)
	}

	if c.Ledger.InitialBalance < 0 {
		fail("ledger.initial_balance must be >= 0")
	}

	if c.LLM.APIKey != "" {
		switch c.LLM.Provider {
		case llm.ProviderClaude, llm.ProviderOpenAI:
		default:
			fail("llm.provider %q is not one of claude, openai", c.LLM.Provider)
		}
	}

	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		fail("telegram.chat_id is required when telegram.token is set")
	}

	th := c.Alerts.Thresholds
	if th.MaxDrawdown < 0 || th.MinWinRate < 0 || th.MinWinRate > 1 ||
		th.MinTradesForWinRate < 0 || th.DailyLossLimit < 0 {
		fail("alerts.thresholds out of range")
	}

	for name, d := range map[string]time.Duration{
		"tracker.timeout":      c.Tracker.Timeout,
		"tracker.call_timeout": c.Tracker.CallTimeout,
		"reasoning.timeout":    c.Reasoning.Timeout,
		"solana.timeout":       c.Solana.Timeout,
	} {
		if d <= 0 {
			fail("%s must be positive", name)
		}
	}
	if c.Alerts.Cooldown < 0 {
		fail("alerts.cooldown must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SimulationMode reports whether the risk analyzer runs without a provider.
func (c *Config) SimulationMode() bool {
	return c.Tracker.APIKey == ""
}
