package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Store backends
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Storage
	StoreBackend string
	DataDir      string
	DatabaseURL  string

	// Loans
	Currency      string
	MaxLoanMonths int
	MaxLoanAmount decimal.Decimal

	// Notifications; zero disables the background check
	NotifyInterval time.Duration

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// S3 backups, optional
	S3 S3Config
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether backups to S3 are configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:          getEnv("ENV", "development"),
		StoreBackend: getEnv("STORE_BACKEND", StoreBackendFile),
		DataDir:      getEnv("DATA_DIR", "./data"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		Currency:     strings.ToUpper(getEnv("CURRENCY", "INR")),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
	}

	var err error
	if cfg.MaxLoanMonths, err = getEnvInt("MAX_LOAN_MONTHS", 360); err != nil {
		return nil, err
	}
	if cfg.MaxLoanAmount, err = decimal.NewFromString(getEnv("MAX_LOAN_AMOUNT", "100000000")); err != nil {
		return nil, fmt.Errorf("MAX_LOAN_AMOUNT must be a number: %w", err)
	}
	if cfg.NotifyInterval, err = time.ParseDuration(getEnv("NOTIFY_INTERVAL", "1h")); err != nil {
		return nil, fmt.Errorf("NOTIFY_INTERVAL must be a duration: %w", err)
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreBackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file store")
		}
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of file, postgres, memory (got %q)", c.StoreBackend)
	}
	if c.MaxLoanMonths <= 0 {
		return fmt.Errorf("MAX_LOAN_MONTHS must be positive")
	}
	if !c.MaxLoanAmount.IsPositive() {
		return fmt.Errorf("MAX_LOAN_AMOUNT must be positive")
	}
	if c.NotifyInterval < 0 {
		return fmt.Errorf("NOTIFY_INTERVAL must not be negative")
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
