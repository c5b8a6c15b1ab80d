package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string

	LedgerBaseURL string
	LedgerTimeout time.Duration

	// ResolveDelay is the reveal-animation pause between bet and outcome.
	ResolveDelay time.Duration

	// CrashTick paces the live crash multiplier clock.
	CrashTick time.Duration

	StartingBalance int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:       getEnv("REDIS_PASSWORD", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		LedgerBaseURL:   getEnv("LEDGER_BASE_URL", "http://localhost:9090"),
		LedgerTimeout:   getDuration("LEDGER_TIMEOUT", 5*time.Second),
		ResolveDelay:    getDuration("RESOLVE_DELAY", 800*time.Millisecond),
		CrashTick:       getDuration("CRASH_TICK", 100*time.Millisecond),
		StartingBalance: getInt64("STARTING_BALANCE", 1000),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
