package goCred

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig mirrors the SERVICE_* environment. Keys are base64url without
// padding, as printed by cmd/gocred-keygen.
type envConfig struct {
	PasswordKey        string        `env:"SERVICE_PWD_KEY" env-required:"true"`
	PasswordUpgrade    bool          `env:"SERVICE_PWD_UPGRADE_ON_LOGIN" env-default:"true"`
	Argon2Memory       uint32        `env:"SERVICE_PWD_ARGON2_MEMORY_KIB" env-default:"19456"`
	Argon2Time         uint32        `env:"SERVICE_PWD_ARGON2_TIME" env-default:"2"`
	Argon2Parallelism  uint8         `env:"SERVICE_PWD_ARGON2_PARALLELISM" env-default:"1"`
	TokenKey           string        `env:"SERVICE_TOKEN_KEY" env-required:"true"`
	TokenDurationSec   float64       `env:"SERVICE_TOKEN_DURATION_SEC" env-default:"1800"`
	RedisPrefix        string        `env:"SERVICE_REDIS_PREFIX" env-default:"gocred"`
	LoginThrottle      bool          `env:"SERVICE_LOGIN_THROTTLE" env-default:"true"`
	IPThrottle         bool          `env:"SERVICE_LOGIN_IP_THROTTLE" env-default:"false"`
	MaxLoginAttempts   int           `env:"SERVICE_MAX_LOGIN_ATTEMPTS" env-default:"5"`
	LoginCooldown      time.Duration `env:"SERVICE_LOGIN_COOLDOWN" env-default:"15m"`
	MetricsEnabled     bool          `env:"SERVICE_METRICS_ENABLED" env-default:"false"`
	MetricsLatencyHist bool          `env:"SERVICE_METRICS_LATENCY" env-default:"false"`
	AuditEnabled       bool          `env:"SERVICE_AUDIT_ENABLED" env-default:"false"`
	AuditBuffer        int           `env:"SERVICE_AUDIT_BUFFER" env-default:"1024"`
	AuditDropIfFull    bool          `env:"SERVICE_AUDIT_DROP_IF_FULL" env-default:"true"`
}

// LoadConfigFromEnv builds a Config from SERVICE_* environment variables on
// top of DefaultConfig. The result is validated.
func LoadConfigFromEnv() (Config, error) {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	return env.toConfig()
}

func (env envConfig) toConfig() (Config, error) {
	pwdKey, err := decodeKey("SERVICE_PWD_KEY", env.PasswordKey)
	if err != nil {
		return Config{}, err
	}
	tokenKey, err := decodeKey("SERVICE_TOKEN_KEY", env.TokenKey)
	if err != nil {
		return Config{}, err
	}
	ttl, err := durationFromSeconds(env.TokenDurationSec)
	if err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	cfg.Password.Key = pwdKey
	cfg.Password.UpgradeOnLogin = env.PasswordUpgrade
	cfg.Password.Memory = env.Argon2Memory
	cfg.Password.Time = env.Argon2Time
	cfg.Password.Parallelism = env.Argon2Parallelism
	cfg.Token.Key = tokenKey
	cfg.Token.TTL = ttl
	cfg.Store.RedisPrefix = env.RedisPrefix
	cfg.Security.EnableLoginThrottle = env.LoginThrottle
	cfg.Security.EnableIPThrottle = env.IPThrottle
	cfg.Security.MaxLoginAttempts = env.MaxLoginAttempts
	cfg.Security.LoginCooldownDuration = env.LoginCooldown
	cfg.Metrics.Enabled = env.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = env.MetricsEnabled && env.MetricsLatencyHist
	cfg.Audit.Enabled = env.AuditEnabled
	cfg.Audit.BufferSize = env.AuditBuffer
	cfg.Audit.DropIfFull = env.AuditDropIfFull

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decodeKey(name, value string) ([]byte, error) {
	key, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not base64url: %w", name, err)
	}
	return key, nil
}

// durationFromSeconds accepts fractional seconds so sub-second lifetimes
// can be configured.
func durationFromSeconds(sec float64) (time.Duration, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec <= 0 {
		return 0, fmt.Errorf("SERVICE_TOKEN_DURATION_SEC must be a positive number, got %v", sec)
	}
	if sec > maxTokenTTL.Seconds() {
		return 0, fmt.Errorf("SERVICE_TOKEN_DURATION_SEC must be <= %v", maxTokenTTL.Seconds())
	}
	return time.Duration(sec * float64(time.Second)), nil
}
