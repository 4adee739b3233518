package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the gateway
type Config struct {
	Server   ServerConfig
	Exchange ExchangeConfig
	Trading  TradingConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// ExchangeConfig holds exchange endpoint configuration. Credentials are
// not configured here: callers supply them per request.
type ExchangeConfig struct {
	BaseURL      string
	WSBaseURL    string
	Timeout      time.Duration
	MaxRetries   int
	RateLimit    float64
	RateBurst    int
	StreamEnable bool
}

// TradingConfig holds order-building policy
type TradingConfig struct {
	// LimitPriceOffset is the fractional distance from the market price
	// used for derived limit prices. 0.01 places buys 1% below and
	// sells 1% above market.
	LimitPriceOffset decimal.Decimal

	// PriceMaxAge bounds how stale a streamed price may be before the
	// REST ticker is consulted instead.
	PriceMaxAge time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	offset, err := getEnvAsDecimal("TRADING_LIMIT_PRICE_OFFSET", "0.01")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 4000),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "30s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "30s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", "10s"),
			CORSOrigins:     getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		},
		Exchange: ExchangeConfig{
			BaseURL:      getEnv("EXCHANGE_BASE_URL", "https://api.binance.com"),
			WSBaseURL:    getEnv("EXCHANGE_WS_BASE_URL", "wss://stream.binance.com:9443"),
			Timeout:      getEnvAsDuration("EXCHANGE_TIMEOUT", "10s"),
			MaxRetries:   getEnvAsInt("EXCHANGE_MAX_RETRIES", 3),
			RateLimit:    getEnvAsFloat("EXCHANGE_RATE_LIMIT", 10),
			RateBurst:    getEnvAsInt("EXCHANGE_RATE_BURST", 5),
			StreamEnable: getEnvAsBool("EXCHANGE_STREAM_ENABLE", true),
		},
		Trading: TradingConfig{
			LimitPriceOffset: offset,
			PriceMaxAge:      getEnvAsDuration("TRADING_PRICE_MAX_AGE", "5s"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Exchange.BaseURL == "" {
		return fmt.Errorf("EXCHANGE_BASE_URL is required")
	}
	if c.Trading.LimitPriceOffset.IsNegative() || c.Trading.LimitPriceOffset.GreaterThanOrEqual(decimal.New(1, 0)) {
		return fmt.Errorf("TRADING_LIMIT_PRICE_OFFSET must be in [0, 1), got %s", c.Trading.LimitPriceOffset)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		return parts
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue string) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return d, nil
}
