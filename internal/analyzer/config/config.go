package config

import (
	"errors"
	"fmt"
	"time"

	"golang-stock-analyst/internal/analyzer/evaluator"
	"golang-stock-analyst/internal/analyzer/scorer"
	"golang-stock-analyst/pkg/config"
)

// Analyzer holds the stream worker settings for serve mode.
type Analyzer struct {
	RedisStreamStockAnalyzerTimeout         time.Duration `mapstructure:"redis_stream_stock_analyzer_timeout"`
	RedisStreamStockAnalyzerRetryInterval   time.Duration `mapstructure:"redis_stream_stock_analyzer_retry_interval"`
	RedisStreamStockAnalyzerMaxIdleDuration time.Duration `mapstructure:"redis_stream_stock_analyzer_max_idle_duration"`
	RedisStreamStockAnalyzerMaxRetry        int           `mapstructure:"redis_stream_stock_analyzer_max_retry"`
}

// Scheduler holds the watchlist publishing schedule.
type Scheduler struct {
	Enabled         bool          `mapstructure:"enabled"`
	Cron            string        `mapstructure:"cron"`
	PollingInterval time.Duration `mapstructure:"polling_interval"`
	NotifyUser      bool          `mapstructure:"notify_user"`
	Watchlist       []string      `mapstructure:"watchlist"`
}

// YahooFinance holds the market data endpoints and client limits.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	NewsBaseURL         string        `mapstructure:"news_base_url"`
	HoldersBaseURL      string        `mapstructure:"holders_base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
	CacheDuration       time.Duration `mapstructure:"cache_duration"`
	BreakerMaxFailures  uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout      time.Duration `mapstructure:"breaker_timeout"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the stock analyzer.
type Config struct {
	App          config.App                `mapstructure:"app"`
	Logger       config.Logger             `mapstructure:"logger"`
	Redis        config.Redis              `mapstructure:"redis"`
	API          config.API                `mapstructure:"api"`
	Analyzer     Analyzer                  `mapstructure:"analyzer"`
	Scheduler    Scheduler                 `mapstructure:"scheduler"`
	Scoring      scorer.Config             `mapstructure:"scoring"`
	Technical    evaluator.TechnicalConfig `mapstructure:"technical"`
	YahooFinance YahooFinance              `mapstructure:"yahoo_finance"`
	Telegram     Telegram                  `mapstructure:"telegram"`
}

// Default returns a configuration the CLI can run with when no file is given.
func Default() Config {
	return Config{
		App: config.App{
			Name:    "stock-analyzer",
			Env:     "development",
			Version: "1.0.0",
		},
		Logger: config.Logger{
			Level:    "info",
			Encoding: "console",
		},
		Redis: config.Redis{
			Host:         "localhost",
			Port:         6379,
			PoolSize:     10,
			StreamMaxLen: 1000,
		},
		API: config.API{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Analyzer: Analyzer{
			RedisStreamStockAnalyzerTimeout:         2 * time.Minute,
			RedisStreamStockAnalyzerRetryInterval:   time.Minute,
			RedisStreamStockAnalyzerMaxIdleDuration: 5 * time.Minute,
			RedisStreamStockAnalyzerMaxRetry:        3,
		},
		Scheduler: Scheduler{
			Cron:            "0 22 * * 1-5",
			PollingInterval: 30 * time.Second,
			NotifyUser:      true,
		},
		Scoring:   scorer.DefaultConfig(),
		Technical: evaluator.DefaultTechnicalConfig(),
		YahooFinance: YahooFinance{
			BaseURL:             "https://query2.finance.yahoo.com",
			NewsBaseURL:         "https://feeds.finance.yahoo.com/rss/2.0/headline",
			HoldersBaseURL:      "https://finance.yahoo.com/quote",
			MaxRequestPerMinute: 60,
			Timeout:             15 * time.Second,
			CacheDuration:       time.Hour,
			BreakerMaxFailures:  3,
			BreakerTimeout:      time.Minute,
		},
	}
}

// Validate checks the settings the analysis cannot run without.
func (c *Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Technical.Validate(); err != nil {
		return fmt.Errorf("technical: %w", err)
	}
	if c.YahooFinance.BaseURL == "" {
		return errors.New("yahoo_finance.base_url is required")
	}
	if c.YahooFinance.MaxRequestPerMinute <= 0 {
		return errors.New("yahoo_finance.max_request_per_minute must be positive")
	}
	if c.Scheduler.Enabled && c.Scheduler.Cron == "" {
		return errors.New("scheduler.cron is required when the scheduler is enabled")
	}
	if c.Scheduler.Enabled && c.Scheduler.PollingInterval <= 0 {
		return errors.New("scheduler.polling_interval must be positive")
	}
	return nil
}

// Load loads the analyzer configuration from the given path on top of Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
