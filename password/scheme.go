package password

import (
	"fmt"

	"github.com/google/uuid"
)

// SchemeID names a hashing scheme inside a stored envelope.
type SchemeID string

const (
	// SchemeHMAC is the legacy keyed HMAC-SHA512 scheme.
	SchemeHMAC SchemeID = "01"
	// SchemeArgon2 is the memory-hard Argon2id scheme.
	SchemeArgon2 SchemeID = "02"

	// DefaultScheme is used for every new hash.
	DefaultScheme = SchemeArgon2
)

// SchemeStatus is the outcome of a validation. Only a nil error comes with
// a status other than [StatusUnknown].
type SchemeStatus uint8

const (
	// StatusUnknown is returned with every validation error.
	StatusUnknown SchemeStatus = iota
	// StatusOK means the hash was produced by [DefaultScheme].
	StatusOK
	// StatusOutdated means the hash verified but was produced by an older scheme.
	StatusOutdated
)

func (s SchemeStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusOutdated:
		return "outdated"
	default:
		return "unknown"
	}
}

// ContentToHash is the clear content and the per-record salt of one hash
// operation. The salt comes from the user record; it is never generated here.
type ContentToHash struct {
	Content string
	Salt    uuid.UUID
}

// Config holds the process-wide hashing secret and Argon2 cost parameters.
type Config struct {
	// Key keys SchemeHMAC and is mixed into SchemeArgon2 as its secret.
	Key    []byte
	Argon2 Argon2Config
}

// Hasher resolves schemes and runs the envelope codec. Build it once with
// [NewHasher] and share it; it is immutable and safe for concurrent use.
type Hasher struct {
	hmac   hmacScheme
	argon2 argon2Scheme
}

// NewHasher validates cfg and builds the scheme set. The key is copied.
func NewHasher(cfg Config) (*Hasher, error) {
	if len(cfg.Key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidConfig)
	}
	if err := cfg.Argon2.Validate(); err != nil {
		return nil, err
	}

	key := make([]byte, len(cfg.Key))
	copy(key, cfg.Key)

	return &Hasher{
		hmac:   hmacScheme{key: key},
		argon2: argon2Scheme{config: cfg.Argon2, secret: key},
	}, nil
}

// Scheme is one member of the closed scheme set, obtained from [Hasher.Resolve].
// The zero value resolves to nothing and fails every call.
type Scheme struct {
	id     SchemeID
	hasher *Hasher
}

// Resolve maps a scheme identifier to its implementation. Unknown identifiers
// return a [*SchemeNotFoundError].
func (h *Hasher) Resolve(id string) (Scheme, error) {
	switch SchemeID(id) {
	case SchemeHMAC, SchemeArgon2:
		return Scheme{id: SchemeID(id), hasher: h}, nil
	default:
		return Scheme{}, &SchemeNotFoundError{ID: id}
	}
}

// ID returns the scheme identifier.
func (s Scheme) ID() SchemeID {
	return s.id
}

// Hash returns the scheme payload for c, without the envelope.
func (s Scheme) Hash(c ContentToHash) (string, error) {
	if s.hasher == nil {
		return "", &SchemeNotFoundError{ID: string(s.id)}
	}

	switch s.id {
	case SchemeHMAC:
		return s.hasher.hmac.hash(c)
	case SchemeArgon2:
		return s.hasher.argon2.hash(c)
	default:
		return "", &SchemeNotFoundError{ID: string(s.id)}
	}
}

// Validate checks c against a payload previously returned by Hash.
func (s Scheme) Validate(c ContentToHash, payload string) error {
	if s.hasher == nil {
		return &SchemeNotFoundError{ID: string(s.id)}
	}

	switch s.id {
	case SchemeHMAC:
		return s.hasher.hmac.validate(c, payload)
	case SchemeArgon2:
		// The salt inside the PHC payload is authoritative; c.Salt is not used.
		return s.hasher.argon2.validate(c, payload)
	default:
		return &SchemeNotFoundError{ID: string(s.id)}
	}
}
