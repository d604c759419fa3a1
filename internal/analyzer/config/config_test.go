package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.Scoring.Weights.Fundamental)
	assert.Equal(t, 75.0, cfg.Scoring.Thresholds.StrongBuy)
	assert.Equal(t, 70.0, cfg.Technical.RSIOverbought)
	assert.Equal(t, time.Hour, cfg.YahooFinance.CacheDuration)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Scoring, cfg.Scoring)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scoring:
  weights:
    fundamental: 40
  thresholds:
    strong_buy: 80
technical:
  rsi_oversold: 25
yahoo_finance:
  cache_duration: 30m
scheduler:
  enabled: true
  cron: "*/30 * * * *"
  watchlist: [AAPL, MSFT]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Scoring.Weights.Fundamental)
	assert.Equal(t, 25, cfg.Scoring.Weights.Valuation)
	assert.Equal(t, 80.0, cfg.Scoring.Thresholds.StrongBuy)
	assert.Equal(t, 60.0, cfg.Scoring.Thresholds.Buy)
	assert.Equal(t, "Strong Buy", cfg.Scoring.Labels.StrongBuy.EN)
	assert.Equal(t, 25.0, cfg.Technical.RSIOversold)
	assert.Equal(t, 70.0, cfg.Technical.RSIOverbought)
	assert.Equal(t, 30*time.Minute, cfg.YahooFinance.CacheDuration)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Scheduler.Watchlist)
}

func TestLoad_RejectsInvalidScoring(t *testing.T) {
	path := writeConfig(t, `
scoring:
  thresholds:
    buy: 90
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "scoring")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Technical.RSIOversold = 80
	assert.ErrorContains(t, cfg.Validate(), "technical")

	cfg = Default()
	cfg.YahooFinance.MaxRequestPerMinute = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Scheduler.Enabled = true
	cfg.Scheduler.Cron = ""
	assert.Error(t, cfg.Validate())
}
