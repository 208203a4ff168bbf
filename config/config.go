// Package config collects every runtime setting into one struct built
// at startup. Nothing else in the codebase reads the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr  string
	DBDSN string

	JWTSecret string
	TokenTTL  time.Duration

	ProcessorURL   string
	ProcessorKey   string
	Currency       string
	PaymentTimeout time.Duration

	PageSize int

	ReconcileAge      time.Duration
	ReconcileInterval time.Duration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func Load() Config {
	return Config{
		Addr:              ":" + getEnv("APP_PORT", "8080"),
		DBDSN:             getEnv("DB_DSN", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          getDuration("TOKEN_TTL", 24*time.Hour),
		ProcessorURL:      getEnv("PROCESSOR_URL", "https://api.stripe.com"),
		ProcessorKey:      getEnv("PROCESSOR_KEY", ""),
		Currency:          getEnv("CURRENCY", "usd"),
		PaymentTimeout:    getDuration("PAYMENT_TIMEOUT", 10*time.Second),
		PageSize:          getInt("PAGE_SIZE", 2),
		ReconcileAge:      getDuration("RECONCILE_AGE", 30*time.Minute),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", 5*time.Minute),
	}
}
