package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("KV_BACKEND", "")
	t.Setenv("RELAY_MODE", "")
	t.Setenv("RELAY_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" || !cfg.IsDevelopment() {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.KVBackend != "memory" {
		t.Fatalf("expected memory kv backend, got %s", cfg.KVBackend)
	}
	if cfg.RelayMode != "stub" {
		t.Fatalf("expected stub relay, got %s", cfg.RelayMode)
	}
	if cfg.RelayTimeout != 10*time.Second {
		t.Fatalf("expected default relay timeout, got %s", cfg.RelayTimeout)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("KV_BACKEND", "Redis")
	t.Setenv("RELAY_MODE", "formspree")
	t.Setenv("RELAY_ENDPOINT", "https://formspree.io/f/abc")
	t.Setenv("RELAY_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://primer.example, ,https://www.primer.example")
	t.Setenv("METRICS_ENABLED", "false")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production env")
	}
	if cfg.KVBackend != "redis" {
		t.Fatalf("expected lowercased backend, got %s", cfg.KVBackend)
	}
	if cfg.RelayEndpoint != "https://formspree.io/f/abc" {
		t.Fatalf("expected relay endpoint override, got %s", cfg.RelayEndpoint)
	}
	if cfg.RelayTimeout != 3*time.Second {
		t.Fatalf("expected relay timeout override, got %s", cfg.RelayTimeout)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate override, got %v", cfg.RateLimitRPS)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("expected metrics disabled")
	}
}

func TestNeedsAWS(t *testing.T) {
	cases := map[string]struct {
		cfg  Config
		want bool
	}{
		"local":    {Config{KVBackend: "redis", FixtureSource: "file", EmailProvider: "sendgrid"}, false},
		"dynamodb": {Config{KVBackend: "dynamodb", FixtureSource: "file"}, true},
		"s3":       {Config{KVBackend: "memory", FixtureSource: "s3"}, true},
		"ses":      {Config{KVBackend: "memory", EmailProvider: "ses"}, true},
	}
	for name, tc := range cases {
		if got := tc.cfg.NeedsAWS(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, got)
		}
	}
}
