// Package config handles application configuration loaded from the
// environment, with optional .env file support
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Default configuration values
const (
	DefaultModel         = "gpt-4o-mini"
	DefaultPollInterval  = 300 * time.Second
	DefaultCooldown      = 300 * time.Second
	DefaultCandlePeriod  = "5m"
	DefaultCandleLimit   = 50
	DefaultStoragePath   = "./chartpulse.db"
	DefaultLogLevel      = "debug"
	DefaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultSymbols       = "BTCUSDT,ETHUSDT,SOLUSDT"
)

// Config is the immutable application configuration, read once at startup
// and passed to collaborators at construction time
type Config struct {
	Telegram TelegramConfig
	OpenAI   OpenAIConfig
	Log      LogConfig

	Symbols      []string
	PollInterval time.Duration
	Cooldown     time.Duration
	CandlePeriod string
	CandleLimit  int
	StoragePath  string
	Debug        bool
}

// TelegramConfig holds chat delivery credentials
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// OpenAIConfig holds text-generation service credentials.
// An empty APIKey disables the analysis section.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// LogConfig holds logger output settings
type LogConfig struct {
	Level      string
	TimeFormat string
	Colored    bool
	JSON       bool
}

// AnalysisEnabled reports whether the text-generation service is configured
func (c *Config) AnalysisEnabled() bool {
	return c.OpenAI.APIKey != ""
}

// Load reads the configuration from the environment. When envFile is not
// empty it is loaded first; a missing default .env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		// Best effort: a missing ./.env just means plain process env
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("OPENAI_MODEL", DefaultModel)
	v.SetDefault("SYMBOLS", defaultSymbols)
	v.SetDefault("CANDLE_INTERVAL", DefaultCandlePeriod)
	v.SetDefault("CANDLE_LIMIT", DefaultCandleLimit)
	v.SetDefault("STORAGE_PATH", DefaultStoragePath)
	v.SetDefault("DEBUG_MODE", false)
	v.SetDefault("CHARTPULSE_LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("CHARTPULSE_LOG_TIME_FORMAT", DefaultLogTimeFormat)
	v.SetDefault("CHARTPULSE_LOG_COLOR", true)
	v.SetDefault("CHARTPULSE_LOG_JSON", false)

	pollInterval, err := parseInterval(v.GetString("POLL_INTERVAL"), DefaultPollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}

	cooldown, err := parseInterval(v.GetString("NOTIFY_COOLDOWN"), DefaultCooldown)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_COOLDOWN: %w", err)
	}

	config := &Config{
		Telegram: TelegramConfig{
			Token:  v.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID: v.GetInt64("TELEGRAM_CHAT_ID"),
		},
		OpenAI: OpenAIConfig{
			APIKey: v.GetString("OPENAI_API_KEY"),
			Model:  v.GetString("OPENAI_MODEL"),
		},
		Log: LogConfig{
			Level:      v.GetString("CHARTPULSE_LOG_LEVEL"),
			TimeFormat: v.GetString("CHARTPULSE_LOG_TIME_FORMAT"),
			Colored:    v.GetBool("CHARTPULSE_LOG_COLOR"),
			JSON:       v.GetBool("CHARTPULSE_LOG_JSON"),
		},
		Symbols:      splitSymbols(v.GetString("SYMBOLS")),
		PollInterval: pollInterval,
		Cooldown:     cooldown,
		CandlePeriod: v.GetString("CANDLE_INTERVAL"),
		CandleLimit:  v.GetInt("CANDLE_LIMIT"),
		StoragePath:  v.GetString("STORAGE_PATH"),
		Debug:        v.GetBool("DEBUG_MODE"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate enforces the settings the process cannot run without
func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}

	if len(c.Symbols) == 0 {
		return fmt.Errorf("SYMBOLS must name at least one pair")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}

	if c.CandleLimit <= 0 {
		return fmt.Errorf("CANDLE_LIMIT must be positive")
	}

	return nil
}

// parseInterval accepts either a bare integer (seconds) or a duration
// string such as "5m"
func parseInterval(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	return str2duration.ParseDuration(raw)
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}
