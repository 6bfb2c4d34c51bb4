package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	devJWTSecret   = "dev-secret-change-in-production"
	devAuditPepper = "dev-pepper-change-in-production"
)

var ErrInsecureDefaults = errors.New("JWT_SECRET and AUDIT_PEPPER must be set in production environment")

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	AuditPepper string

	RedisAddr string

	BreachAPIURL      string
	BreachUserAgent   string
	BreachTimeout     time.Duration
	BreachMaxRetries  int
	BreachConcurrency int
	BreachRPS         float64
	BreachCacheTTL    time.Duration

	WordlistPath string
	BatchWorkers int
}

func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/securepass?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:   getDuration("JWT_EXPIRY", 24*time.Hour),
		AuditPepper: getEnv("AUDIT_PEPPER", devAuditPepper),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		BreachAPIURL:      getEnv("BREACH_API_URL", "https://api.pwnedpasswords.com"),
		BreachUserAgent:   getEnv("BREACH_USER_AGENT", "securepass-go/1.0"),
		BreachTimeout:     getDuration("BREACH_TIMEOUT", 10*time.Second),
		BreachMaxRetries:  getInt("BREACH_MAX_RETRIES", 3),
		BreachConcurrency: getInt("BREACH_CONCURRENCY", 4),
		BreachRPS:         getFloat("BREACH_RPS", 10),
		BreachCacheTTL:    getDuration("BREACH_CACHE_TTL", 24*time.Hour),

		WordlistPath: os.Getenv("WORDLIST_PATH"),
		BatchWorkers: getInt("BATCH_WORKERS", 4),
	}

	if cfg.Env == "production" && (cfg.JWTSecret == devJWTSecret || cfg.AuditPepper == devAuditPepper) {
		return cfg, ErrInsecureDefaults
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "default", fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "default", fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "default", fallback)
		return fallback
	}
	return d
}
