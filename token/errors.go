package token

import "errors"

var (
	// ErrInvalidKey is returned when the signing key is empty.
	ErrInvalidKey = errors.New("token: invalid signing key")
	// ErrInvalidFormat is returned when a token does not have exactly three segments.
	ErrInvalidFormat = errors.New("token: invalid format")
	// ErrCannotDecodeIdent is returned when the ident segment is not base64url UTF-8.
	ErrCannotDecodeIdent = errors.New("token: cannot decode ident")
	// ErrCannotDecodeExp is returned when the exp segment is not base64url UTF-8.
	ErrCannotDecodeExp = errors.New("token: cannot decode exp")
	// ErrSignatureMismatch is returned when the recomputed signature differs.
	ErrSignatureMismatch = errors.New("token: signature mismatch")
	// ErrExpNotRFC3339 is returned when a correctly signed exp is not an RFC3339 timestamp.
	ErrExpNotRFC3339 = errors.New("token: exp is not RFC3339")
	// ErrExpired is returned when exp is before the current time.
	ErrExpired = errors.New("token: expired")
	// ErrInvalidConfig is returned by NewManager.
	ErrInvalidConfig = errors.New("token: invalid config")
)
