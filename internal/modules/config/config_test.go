package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(body), 0o600))
	t.Setenv(configDirENV, dir)
	t.Setenv(configFilePathENV, "test.yaml")
}

func TestNewConfig_DefaultsWithoutFile(t *testing.T) {
	t.Setenv(configDirENV, t.TempDir())
	t.Setenv(configFilePathENV, "missing.yaml")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://www.okx.com", cfg.OKX.BaseURL)
	assert.Equal(t, "BTC-USDT", cfg.Strategy.InstID)
	assert.Equal(t, "1m", cfg.Strategy.Timeframe)
	assert.Equal(t, 100, cfg.Strategy.CandleLimit)
	assert.Equal(t, 60*time.Second, cfg.Strategy.PollInterval)
	assert.Equal(t, 14, cfg.Strategy.RSIPeriod)
	assert.Equal(t, "limit", cfg.Order.Type)
	assert.Equal(t, "0.001", cfg.OrderSize().String())
}

func TestNewConfig_FileThenEnv(t *testing.T) {
	writeConfig(t, `
okx:
  api_key: file-key
  timeout: 3s
strategy:
  inst_id: ETH-USDT
  timeframe: 5m
  poll_interval: 30s
order:
  size: "0.5"
  type: market
telegram:
  chat_id: 77
`)
	t.Setenv("API_KEY", "env-key")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("POLL_INTERVAL", "2m")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.OKX.APIKey)
	assert.Equal(t, 3*time.Second, cfg.OKX.Timeout)
	assert.Equal(t, "ETH-USDT", cfg.Strategy.InstID)
	assert.Equal(t, "5m", cfg.Strategy.Timeframe)
	assert.Equal(t, 2*time.Minute, cfg.Strategy.PollInterval)
	assert.Equal(t, "market", cfg.Order.Type)
	assert.Equal(t, int64(12345), cfg.Telegram.ChatID)
	// не задано в файле — остаётся дефолт
	assert.Equal(t, 26, cfg.Strategy.MACDSlow)
}

func TestNewConfig_BrokenYAML(t *testing.T) {
	writeConfig(t, "strategy: [oops")

	_, err := NewConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty instrument", func(c *Config) { c.Strategy.InstID = " " }},
		{"zero interval", func(c *Config) { c.Strategy.PollInterval = 0 }},
		{"sub-second interval", func(c *Config) { c.Strategy.PollInterval = 60 * time.Nanosecond }},
		{"thresholds swapped", func(c *Config) { c.Strategy.RSIOSold, c.Strategy.RSIOverbought = 70, 30 }},
		{"macd fast >= slow", func(c *Config) { c.Strategy.MACDFast = 26 }},
		{"bad size", func(c *Config) { c.Order.Size = "abc" }},
		{"negative size", func(c *Config) { c.Order.Size = "-1" }},
		{"unknown order type", func(c *Config) { c.Order.Type = "stop" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	c := Default()
	assert.NoError(t, c.Validate())
}

func TestNewConfig_PollIntervalUnits(t *testing.T) {
	tests := []struct {
		env  string
		want time.Duration
	}{
		{"60", 60 * time.Second},
		{" 5 ", 5 * time.Second},
		{"90s", 90 * time.Second},
		{"2m", 2 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(configDirENV, t.TempDir())
			t.Setenv(configFilePathENV, "missing.yaml")
			t.Setenv("POLL_INTERVAL", tt.env)

			cfg, err := NewConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Strategy.PollInterval)
		})
	}
}

func TestNewConfig_PollIntervalRejected(t *testing.T) {
	for _, env := range []string{"abc", "500ms", "0", "-5"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(configDirENV, t.TempDir())
			t.Setenv(configFilePathENV, "missing.yaml")
			t.Setenv("POLL_INTERVAL", env)

			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewConfig_OrderTypeNormalized(t *testing.T) {
	t.Setenv(configDirENV, t.TempDir())
	t.Setenv(configFilePathENV, "missing.yaml")
	t.Setenv("ORDER_TYPE", "LIMIT")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "limit", cfg.Order.Type)
}

func TestValidate_RejectsUnnormalizedOrderType(t *testing.T) {
	c := Default()
	c.Order.Type = "Market"
	assert.Error(t, c.Validate())

	c.normalize()
	assert.NoError(t, c.Validate())
	assert.Equal(t, "market", c.Order.Type)
}
