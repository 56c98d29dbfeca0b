package goCred

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/goCred/password"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{name: "baseline", mutate: func(c *Config) {}, wantValid: true},
		{name: "short password key", mutate: func(c *Config) { c.Password.Key = []byte("short") }},
		{name: "short token key", mutate: func(c *Config) { c.Token.Key = c.Token.Key[:31] }},
		{name: "low argon memory", mutate: func(c *Config) { c.Password.Memory = 4096 }},
		{name: "zero argon time", mutate: func(c *Config) { c.Password.Time = 0 }},
		{name: "zero parallelism", mutate: func(c *Config) { c.Password.Parallelism = 0 }},
		{name: "short argon output", mutate: func(c *Config) { c.Password.KeyLength = 8 }},
		{name: "argon time over bound", mutate: func(c *Config) { c.Password.Time = password.MaxArgon2Time + 1 }},
		{name: "argon memory over bound", mutate: func(c *Config) { c.Password.Memory = password.MaxArgon2Memory + 1 }},
		{name: "argon output over bound", mutate: func(c *Config) { c.Password.KeyLength = password.MaxArgon2KeyLength + 1 }},
		{name: "argon time at bound", mutate: func(c *Config) { c.Password.Time = password.MaxArgon2Time }, wantValid: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Token.TTL = 0 }},
		{name: "ttl over 30 days", mutate: func(c *Config) { c.Token.TTL = 31 * 24 * time.Hour }},
		{name: "sub-second ttl", mutate: func(c *Config) { c.Token.TTL = 500 * time.Millisecond }, wantValid: true},
		{name: "throttle zero attempts", mutate: func(c *Config) { c.Security.MaxLoginAttempts = 0 }},
		{name: "throttle zero cooldown", mutate: func(c *Config) { c.Security.LoginCooldownDuration = 0 }},
		{
			name: "throttle off ignores budget",
			mutate: func(c *Config) {
				c.Security.EnableLoginThrottle = false
				c.Security.MaxLoginAttempts = 0
			},
			wantValid: true,
		},
		{name: "empty prefix", mutate: func(c *Config) { c.Store.RedisPrefix = "" }},
		{
			name: "latency without metrics",
			mutate: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.EnableLatencyHistograms = true
			},
		},
		{
			name: "audit without buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
		},
		{name: "audit off ignores buffer", mutate: func(c *Config) { c.Audit.BufferSize = 0 }, wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultConfigNeedsKeys(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("default config without keys must not validate")
	}
	if cfg.Token.TTL != 30*time.Minute {
		t.Fatalf("unexpected default TTL %v", cfg.Token.TTL)
	}
}

func TestWithConfigCopiesKeys(t *testing.T) {
	cfg := testConfig()
	up := newMockUserProvider()
	e := buildEngine(t, cfg, up, nil)

	cfg.Token.Key[0] ^= 0xFF
	if e.config.Token.Key[0] == cfg.Token.Key[0] {
		t.Fatal("engine shares the caller's key slice")
	}
}

func setKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SERVICE_PWD_KEY", base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("p", 64))))
	t.Setenv("SERVICE_TOKEN_KEY", base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("t", 64))))
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	setKeyEnv(t)

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv error: %v", err)
	}
	if len(cfg.Password.Key) != 64 || len(cfg.Token.Key) != 64 {
		t.Fatalf("unexpected key lengths %d/%d", len(cfg.Password.Key), len(cfg.Token.Key))
	}
	if cfg.Token.TTL != 30*time.Minute {
		t.Fatalf("unexpected TTL %v", cfg.Token.TTL)
	}
	if cfg.Store.RedisPrefix != "gocred" || !cfg.Password.UpgradeOnLogin {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	setKeyEnv(t)
	t.Setenv("SERVICE_TOKEN_DURATION_SEC", "0.25")
	t.Setenv("SERVICE_REDIS_PREFIX", "svc")
	t.Setenv("SERVICE_MAX_LOGIN_ATTEMPTS", "9")
	t.Setenv("SERVICE_LOGIN_COOLDOWN", "2m")
	t.Setenv("SERVICE_PWD_UPGRADE_ON_LOGIN", "false")
	t.Setenv("SERVICE_METRICS_ENABLED", "true")
	t.Setenv("SERVICE_METRICS_LATENCY", "true")
	t.Setenv("SERVICE_AUDIT_ENABLED", "true")
	t.Setenv("SERVICE_AUDIT_BUFFER", "16")
	t.Setenv("SERVICE_AUDIT_DROP_IF_FULL", "false")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv error: %v", err)
	}
	if cfg.Token.TTL != 250*time.Millisecond {
		t.Fatalf("unexpected TTL %v", cfg.Token.TTL)
	}
	if cfg.Store.RedisPrefix != "svc" ||
		cfg.Security.MaxLoginAttempts != 9 ||
		cfg.Security.LoginCooldownDuration != 2*time.Minute ||
		cfg.Password.UpgradeOnLogin ||
		!cfg.Metrics.EnableLatencyHistograms ||
		!cfg.Audit.Enabled || cfg.Audit.BufferSize != 16 || cfg.Audit.DropIfFull {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "padded key", env: map[string]string{"SERVICE_PWD_KEY": base64.URLEncoding.EncodeToString([]byte("x"))}},
		{name: "short key", env: map[string]string{"SERVICE_TOKEN_KEY": base64.RawURLEncoding.EncodeToString([]byte("short"))}},
		{name: "negative duration", env: map[string]string{"SERVICE_TOKEN_DURATION_SEC": "-1"}},
		{name: "zero duration", env: map[string]string{"SERVICE_TOKEN_DURATION_SEC": "0"}},
		{name: "nan duration", env: map[string]string{"SERVICE_TOKEN_DURATION_SEC": "NaN"}},
		{name: "huge duration", env: map[string]string{"SERVICE_TOKEN_DURATION_SEC": "1e12"}},
		{name: "bad number", env: map[string]string{"SERVICE_TOKEN_DURATION_SEC": "soon"}},
		{name: "argon time over bound", env: map[string]string{"SERVICE_PWD_ARGON2_TIME": "65"}},
		{name: "audit without buffer", env: map[string]string{"SERVICE_AUDIT_ENABLED": "true", "SERVICE_AUDIT_BUFFER": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setKeyEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfigFromEnv(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
