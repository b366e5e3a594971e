package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/wordchain/backend/internal/engine"
)

type Config struct {
	Addr        string
	DatabaseDSN string
	Rules       engine.Rules
}

// Load reads .env if present, then the environment, falling back to the
// defaults the original game shipped with.
func Load() Config {
	_ = godotenv.Load()

	rules := engine.DefaultRules()
	rules.TurnTimeout = duration("TURN_TIMEOUT", rules.TurnTimeout)
	rules.MaxWordAge = duration("MAX_WORD_AGE", rules.MaxWordAge)
	rules.ResetOnLeave = boolean("RESET_ON_LEAVE", rules.ResetOnLeave)

	return Config{
		Addr:        envOr("ADDR", ":8080"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		Rules:       rules,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
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

func boolean(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
