// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session backends.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// SessionBackend selects where booking sessions live: "redis" (default)
	// or "postgres".
	SessionBackend string

	// RedisAddr is host:port of the Redis server. Defaults to "localhost:6379".
	RedisAddr string

	// DatabaseURL is the Postgres connection string.
	// Required only when SessionBackend is "postgres".
	DatabaseURL string

	// SessionTTL is how long an untouched session survives. Defaults to 24h.
	SessionTTL time.Duration

	// SweepInterval is how often expired Postgres sessions are purged.
	SweepInterval time.Duration

	// PaymentDelay is the simulated card processing time. Defaults to 2s.
	PaymentDelay time.Duration

	// PaymentTimeout bounds a single charge. Defaults to 30s.
	PaymentTimeout time.Duration

	// PaymentDeclineSuffixes lists card number endings the simulated
	// processor declines. Defaults to ["0002"].
	PaymentDeclineSuffixes []string

	// ConfirmationRedirect is how long clients show the confirmation before
	// returning to the trip form. Defaults to 3s.
	ConfirmationRedirect time.Duration

	// AMQPURL is the RabbitMQ URL for booking events. Empty disables publishing.
	AMQPURL string

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns one error listing every variable that is missing or invalid.
func Load() (Config, error) {
	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CORSOrigins:            splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SessionBackend:         strings.ToLower(getEnv("SESSION_BACKEND", BackendRedis)),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		PaymentDeclineSuffixes: splitCSV(getEnv("PAYMENT_DECLINE_SUFFIXES", "0002")),
		AMQPURL:                os.Getenv("AMQP_URL"),
	}

	var missing, invalid []string

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
		zeroOK   bool
	}{
		{"SESSION_TTL", "24h", &cfg.SessionTTL, false},
		{"SESSION_SWEEP_INTERVAL", "1m", &cfg.SweepInterval, false},
		{"PAYMENT_DELAY", "2s", &cfg.PaymentDelay, true},
		{"PAYMENT_TIMEOUT", "30s", &cfg.PaymentTimeout, false},
		{"CONFIRMATION_REDIRECT", "3s", &cfg.ConfirmationRedirect, true},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil || v < 0 || (v == 0 && !d.zeroOK) {
			invalid = append(invalid, d.key)
			continue
		}
		*d.dst = v
	}

	n, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	cfg.MaxBodyBytes = n

	switch cfg.SessionBackend {
	case BackendRedis:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		invalid = append(invalid, "SESSION_BACKEND")
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("config.Load: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
