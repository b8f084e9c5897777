package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port             string
	GinMode          string
	DBPath           string
	JWTSecret        []byte
	TokenTTL         time.Duration
	NATSURL          string
	SubscriberBuffer int
	LogLevel         slog.Level
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		DBPath:    getEnv("DB_PATH", "food_ordering.db"),
		JWTSecret: []byte(getEnv("JWT_SECRET", "food_ordering_dev_secret")),
		NATSURL:   os.Getenv("NATS_URL"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	buf, err := strconv.Atoi(getEnv("SUBSCRIBER_BUFFER", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUBSCRIBER_BUFFER: %w", err)
	}
	if buf < 1 {
		return nil, fmt.Errorf("invalid SUBSCRIBER_BUFFER: must be positive, got %d", buf)
	}
	cfg.SubscriberBuffer = buf

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
}
