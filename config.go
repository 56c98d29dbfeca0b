package goCred

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goCred/password"
	"github.com/MrEthical07/goCred/token"
)

// Config is the full engine configuration. Keys are treated as immutable
// for the life of the Engine; Build copies them.
type Config struct {
	Password PasswordConfig
	Token    TokenConfig
	Security SecurityConfig
	Store    StoreConfig
	Metrics  MetricsConfig
	Audit    AuditConfig
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds the password hashing secret and Argon2id costs.
type PasswordConfig struct {
	Key            []byte
	Memory         uint32 // in KiB
	Time           uint32
	Parallelism    uint8
	KeyLength      uint32
	UpgradeOnLogin bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig holds the token signing key and lifetime.
type TokenConfig struct {
	Key []byte
	TTL time.Duration
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig controls the Redis login limiter. It only takes effect
// when the Builder has a Redis client.
type SecurityConfig struct {
	EnableLoginThrottle   bool
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// StoreConfig holds the Redis key prefix shared by the limiter and the
// userstore package.
type StoreConfig struct {
	RedisPrefix string
}

// MetricsConfig toggles the in-process counters and the hash latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// AuditConfig controls the asynchronous audit dispatcher. Events only flow
// when Enabled is set and the Builder has a sink.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

const (
	minKeyBytes = 32
	maxTokenTTL = 30 * 24 * time.Hour
)

// DefaultConfig returns production defaults without keys. Callers must set
// Password.Key and Token.Key, usually through LoadConfigFromEnv.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	argon := password.DefaultArgon2Config()

	return Config{
		Password: PasswordConfig{
			Memory:         argon.Memory,
			Time:           argon.Time,
			Parallelism:    argon.Parallelism,
			KeyLength:      argon.KeyLength,
			UpgradeOnLogin: true,
		},
		Token: TokenConfig{
			TTL: token.DefaultTTL,
		},
		Security: SecurityConfig{
			EnableLoginThrottle:   true,
			EnableIPThrottle:      false,
			MaxLoginAttempts:      5,
			LoginCooldownDuration: 15 * time.Minute,
		},
		Store: StoreConfig{
			RedisPrefix: "gocred",
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Password.Key = cloneBytes(cfg.Password.Key)
	out.Token.Key = cloneBytes(cfg.Token.Key)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (c PasswordConfig) argon2() password.Argon2Config {
	return password.Argon2Config{
		Memory:      c.Memory,
		Time:        c.Time,
		Parallelism: c.Parallelism,
		KeyLength:   c.KeyLength,
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations that would produce weak or unusable
// credentials. It does not touch Redis.
func (c *Config) Validate() error {
	if len(c.Password.Key) < minKeyBytes {
		return errors.New("Password Key must be at least 32 bytes")
	}
	if err := c.Password.argon2().Validate(); err != nil {
		return fmt.Errorf("Password: %w", err)
	}

	if len(c.Token.Key) < minKeyBytes {
		return errors.New("Token Key must be at least 32 bytes")
	}
	if c.Token.TTL <= 0 {
		return errors.New("Token TTL must be > 0")
	}
	if c.Token.TTL > maxTokenTTL {
		return errors.New("Token TTL must be <= 30 days")
	}

	if c.Security.EnableLoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("Security MaxLoginAttempts must be > 0")
		}
		if c.Security.LoginCooldownDuration <= 0 {
			return errors.New("Security LoginCooldownDuration must be > 0")
		}
	}

	if c.Store.RedisPrefix == "" {
		return errors.New("Store RedisPrefix must not be empty")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
