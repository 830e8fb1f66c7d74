package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, cfg.Symbols)
	require.Equal(t, 300*time.Second, cfg.PollInterval)
	require.Equal(t, 300*time.Second, cfg.Cooldown)
	require.Equal(t, "5m", cfg.CandlePeriod)
	require.Equal(t, 50, cfg.CandleLimit)
	require.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	require.False(t, cfg.Debug)
	require.False(t, cfg.AnalysisEnabled())
}

func TestLoad_RequiresTelegramToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	_, err := Load("")
	require.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
}

func TestLoad_RequiresChatID(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:token")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	_, err := Load("")
	require.ErrorContains(t, err, "TELEGRAM_CHAT_ID")
}

func TestLoad_IntervalAsBareSeconds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "60")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, time.Minute, cfg.PollInterval)
}

func TestLoad_IntervalAsDurationString(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "5m")
	t.Setenv("NOTIFY_COOLDOWN", "1h30m")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, cfg.PollInterval)
	require.Equal(t, 90*time.Minute, cfg.Cooldown)
}

func TestLoad_RejectsMalformedInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "soon")

	_, err := Load("")
	require.ErrorContains(t, err, "POLL_INTERVAL")
}

func TestLoad_SymbolsNormalized(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SYMBOLS", " btcusdt, ETHUSDT ,,solusdt ")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, cfg.Symbols)
}

func TestLoad_AnalysisEnabledByKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.AnalysisEnabled())
	require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
}

func TestLoad_MissingExplicitEnvFileFails(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load("/nonexistent/.env")
	require.Error(t, err)
}
