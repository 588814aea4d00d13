package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "PRICE_DB_PATH", "SESSION_SECRET", "SESSION_TTL",
		"LOG_LEVEL", "HIGHLIGHT_MS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "8080" || cfg.PriceDBPath != ":memory:" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Highlight != time.Second {
		t.Fatalf("Highlight = %v, want 1s", cfg.Highlight)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if len(cfg.SessionSecret) != 64 {
		t.Fatalf("expected generated 32-byte hex secret, got %q", cfg.SessionSecret)
	}
	if !cfg.IsDev() {
		t.Fatalf("default environment must be development")
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("HIGHLIGHT_MS", "250")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "2")

	cfg := Load()

	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
	if cfg.Port != "9000" || cfg.SessionSecret != "s3cret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.SessionTTL != 5*time.Minute || cfg.Highlight != 250*time.Millisecond {
		t.Fatalf("unexpected durations: %v %v", cfg.SessionTTL, cfg.Highlight)
	}
	if cfg.RateLimitRPS != 0.5 || cfg.RateLimitBurst != 2 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("HIGHLIGHT_MS", "-3")
	t.Setenv("RATE_LIMIT_BURST", "many")

	cfg := Load()

	if cfg.SessionTTL != 30*time.Minute || cfg.Highlight != time.Second || cfg.RateLimitBurst != 10 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
