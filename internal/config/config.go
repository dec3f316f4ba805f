package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PaymentConfig holds gateway and signing configuration.
//
// PrivateKeyB64, PrivateKey and PrivateKeyFile are alternative sources for
// the same key material. Resolution order is base64 inline, then raw inline,
// then file path; deployments that set more than one rely on that order.
type PaymentConfig struct {
	MerchantCode   string
	GatewayBaseURL string
	CallbackURL    string
	ResultURL      string
	FailureURL     string
	PrivateKeyB64  string
	PrivateKey     string
	PrivateKeyFile string
	IdempotencyTTL time.Duration
	GatewayTimeout time.Duration
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "lnmb_payments"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Payment: PaymentConfig{
			MerchantCode:   getEnv("PAYMENT_MERCHANT_CODE", ""),
			GatewayBaseURL: getEnv("PAYMENT_GATEWAY_URL", ""),
			CallbackURL:    getEnv("PAYMENT_CALLBACK_URL", ""),
			ResultURL:      getEnv("PAYMENT_RESULT_URL", "/payment/result"),
			FailureURL:     getEnv("PAYMENT_FAILURE_URL", "/payment/failed"),
			PrivateKeyB64:  getEnv("PAYMENT_PRIVATE_KEY_B64", ""),
			PrivateKey:     getEnv("PAYMENT_PRIVATE_KEY", ""),
			PrivateKeyFile: getEnv("PAYMENT_PRIVATE_KEY_FILE", ""),
			IdempotencyTTL: getDurationEnv("PAYMENT_IDEMPOTENCY_TTL", time.Hour),
			GatewayTimeout: getDurationEnv("PAYMENT_GATEWAY_TIMEOUT", 15*time.Second),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "lnmb-payments"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
