// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// DevJWTSecret is the fallback signing key. Validate rejects it in production.
const DevJWTSecret = "splitzy-dev-secret-change-me"

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBPath string

	// Sessions
	JWTSecret string
	TokenTTL  time.Duration

	// Summary cache
	CacheBackend string
	RedisAddr    string
	CacheTTL     time.Duration
	CacheSize    int

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies lists proxy addresses or CIDR ranges whose
	// X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []string

	// Logging
	LogLevel  string
	LogFormat string

	AppEnv string
}

// Load reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/splitzy.db"),

		JWTSecret: getEnv("JWT_SECRET", DevJWTSecret),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 30*24*time.Hour),

		CacheBackend: strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize:    getEnvInt("CACHE_SIZE", 1000),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AppEnv: getEnv("APP_ENV", "development"),
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT secret cannot be empty")
	} else if c.IsProduction() && c.JWTSecret == DevJWTSecret {
		errs = append(errs, "JWT_SECRET must be set in production")
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, "token TTL must be positive")
	}

	validBackends := []string{CacheMemory, CacheRedis, CacheNone}
	if !slices.Contains(validBackends, c.CacheBackend) {
		errs = append(errs, fmt.Sprintf("invalid cache backend '%s': must be one of %v", c.CacheBackend, validBackends))
	}
	if c.CacheBackend == CacheRedis && c.RedisAddr == "" {
		errs = append(errs, "REDIS_ADDR is required when using the redis cache backend")
	}
	if c.CacheBackend != CacheNone && c.CacheTTL <= 0 {
		errs = append(errs, "cache TTL must be positive")
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		errs = append(errs, "rate limit must allow at least one request")
	}
	if _, err := middleware.ParseProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES: %v", err))
	}

	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, c.LogFormat) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
