package password

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEnvelope is returned when a stored value does not match "#<scheme>#<payload>".
	ErrMalformedEnvelope = errors.New("password: malformed scheme envelope")
	// ErrSchemeNotFound is matched by every [SchemeNotFoundError].
	ErrSchemeNotFound = errors.New("password: scheme not found")
	// ErrInvalidKey is returned when the hashing secret cannot key the scheme.
	ErrInvalidKey = errors.New("password: invalid key")
	// ErrInvalidSalt is returned when the per-record salt cannot be encoded.
	ErrInvalidSalt = errors.New("password: invalid salt")
	// ErrMalformedHash is returned when a scheme payload cannot be parsed.
	ErrMalformedHash = errors.New("password: malformed hash")
	// ErrPasswordMismatch is returned when the content does not match the stored hash.
	ErrPasswordMismatch = errors.New("password: content does not match")
	// ErrInvalidConfig is returned by [NewHasher] for unusable parameters.
	ErrInvalidConfig = errors.New("password: invalid config")
)

// SchemeNotFoundError carries the scheme identifier that failed to resolve.
// The identifier comes from stored data and belongs in internal logs only.
type SchemeNotFoundError struct {
	ID string
}

func (e *SchemeNotFoundError) Error() string {
	return fmt.Sprintf("password: scheme %q not found", e.ID)
}

// Is reports whether target is [ErrSchemeNotFound].
func (e *SchemeNotFoundError) Is(target error) bool {
	return target == ErrSchemeNotFound
}
