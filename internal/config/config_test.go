package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-trade-desk/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, llm.ProviderClaude, cfg.LLM.Provider)
	assert.Equal(t, 0.1, cfg.Alerts.Thresholds.MaxDrawdown)
	assert.Equal(t, 10, cfg.Alerts.Thresholds.MinTradesForWinRate)
	assert.Equal(t, 30*time.Minute, cfg.Alerts.Cooldown)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.SimulationMode())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "desk.yaml")
	yaml := `
storage:
  driver: sqlite
  sqlite_path: /tmp/ledger.db
ledger:
  initial_balance: 12.5
llm:
  provider: openai
  model: gpt-4o
alerts:
  thresholds:
    max_drawdown: 0.2
  cooldown: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("SOLANA_TRACKER_API_KEY", "tracker-key")
	t.Setenv("SERVER_ADDR", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/ledger.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 12.5, cfg.Ledger.InitialBalance)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "tracker-key", cfg.Tracker.APIKey)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 0.2, cfg.Alerts.Thresholds.MaxDrawdown)
	assert.Equal(t, 0.3, cfg.Alerts.Thresholds.MinWinRate)
	assert.Equal(t, 5*time.Minute, cfg.Alerts.Cooldown)
	assert.False(t, cfg.SimulationMode())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_DRIVER=postgres\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STORAGE_DRIVER") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"negative balance", func(c *Config) { c.Ledger.InitialBalance = -1 }},
		{"bad llm provider", func(c *Config) { c.LLM.APIKey = "k"; c.LLM.Provider = "gemini" }},
		{"telegram without chat", func(c *Config) { c.Telegram.Token = "t" }},
		{"win rate above one", func(c *Config) { c.Alerts.Thresholds.MinWinRate = 1.5 }},
		{"zero timeout", func(c *Config) { c.Reasoning.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
