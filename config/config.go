package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/adapters/logger"
)

// Config holds all application configuration.
type Config struct {
	// HTTP server
	ServerAddr string // listen address for the dashboard API (e.g. ":8080")

	// Trade ledger store
	DBPath string

	// Equity quote feed
	FeedURL   string
	FeedToken string

	// Crypto quote feed (Binance ticker stream for crypto-pair symbols)
	EnableCryptoFeed bool

	// Logging
	LogLevel logger.LogLevel

	// Feed connection settings
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration

	// Minimum interval between dashboard refresh pushes to websocket clients
	RefreshInterval time.Duration
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.ServerAddr = getEnv("SERVER_ADDR", ":8080")
	cfg.DBPath = getEnv("DB_PATH", "./data/portfolio.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	cfg.FeedURL = getEnv("FEED_URL", "wss://ws.finnhub.io")
	if cfg.FeedURL == "" {
		errs = append(errs, "FEED_URL must be set")
	}
	cfg.FeedToken = getEnv("FEED_TOKEN", "")
	if cfg.FeedToken == "" {
		errs = append(errs, "FEED_TOKEN must be set")
	}

	cfg.EnableCryptoFeed = getEnvAsBool("ENABLE_CRYPTO_FEED", true)

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	reconnectDelaySeconds := getEnvAsInt("RECONNECT_DELAY_SECONDS", 1)
	if reconnectDelaySeconds <= 0 {
		errs = append(errs, "RECONNECT_DELAY_SECONDS must be positive")
	}
	cfg.ReconnectDelay = time.Duration(reconnectDelaySeconds) * time.Second

	maxReconnectSeconds := getEnvAsInt("MAX_RECONNECT_DELAY_SECONDS", 60)
	if maxReconnectSeconds < reconnectDelaySeconds {
		errs = append(errs, "MAX_RECONNECT_DELAY_SECONDS cannot be below RECONNECT_DELAY_SECONDS")
	}
	cfg.MaxReconnectDelay = time.Duration(maxReconnectSeconds) * time.Second

	refreshMillis := getEnvAsInt("REFRESH_INTERVAL_MS", 2000)
	if refreshMillis <= 0 {
		errs = append(errs, "REFRESH_INTERVAL_MS must be positive")
	}
	cfg.RefreshInterval = time.Duration(refreshMillis) * time.Millisecond

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
