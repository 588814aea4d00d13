package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultEnv            = "development"
	defaultPort           = "8080"
	defaultPriceDBPath    = ":memory:"
	defaultLogLevel       = "info"
	defaultSessionTTL     = 30 * time.Minute
	defaultHighlight      = 1000 * time.Millisecond
	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 10
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env            string
	Port           string
	PriceDBPath    string
	SessionSecret  string
	SessionTTL     time.Duration
	LogLevel       string
	Highlight      time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// IsDev reports whether the process runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := Config{
		Env:            stringEnv("APP_ENV", defaultEnv),
		Port:           stringEnv("PORT", defaultPort),
		PriceDBPath:    stringEnv("PRICE_DB_PATH", defaultPriceDBPath),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     durationEnv("SESSION_TTL", defaultSessionTTL),
		LogLevel:       stringEnv("LOG_LEVEL", defaultLogLevel),
		Highlight:      millisEnv("HIGHLIGHT_MS", defaultHighlight),
		RateLimitRPS:   floatEnv("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst: intEnv("RATE_LIMIT_BURST", defaultRateLimitBurst),
	}

	if cfg.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is not set; visitor sessions will not survive a restart")
		cfg.SessionSecret = randomSecret()
	}

	return cfg
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func millisEnv(key string, fallback time.Duration) time.Duration {
	ms := intEnv(key, int(fallback/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return fallback
	}
	return v
}

func floatEnv(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid number, using default")
		return fallback
	}
	return v
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal().Err(err).Msg("generate session secret")
	}
	return hex.EncodeToString(buf)
}
