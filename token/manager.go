package token

import (
	"fmt"
	"time"
)

// DefaultTTL is the session token lifetime used when Config.TTL is zero.
const DefaultTTL = 30 * time.Minute

// Config binds the process token key and lifetime.
type Config struct {
	Key []byte
	TTL time.Duration
}

// Manager issues and validates tokens under one key and TTL. It is
// immutable after NewManager and safe for concurrent use.
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewManager validates cfg and copies the key.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidConfig)
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("%w: negative TTL", ErrInvalidConfig)
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}

	key := make([]byte, len(cfg.Key))
	copy(key, cfg.Key)

	return &Manager{key: key, ttl: cfg.TTL, now: time.Now}, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a token for ident signed with salt.
func (m *Manager) Issue(ident, salt string) (Token, error) {
	return issueAt(m.now(), ident, m.ttl, salt, m.key)
}

// Validate checks t against salt and the manager's key.
func (m *Manager) Validate(t Token, salt string) error {
	return validateAt(m.now(), t, salt, m.key)
}

// ParseAndValidate parses a wire token and validates it. The parsed token is
// returned alongside any validation error so callers can inspect Ident.
func (m *Manager) ParseAndValidate(raw, salt string) (Token, error) {
	t, err := Parse(raw)
	if err != nil {
		return Token{}, err
	}
	return t, m.Validate(t, salt)
}
