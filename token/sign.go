package token

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS512

// Issue creates a token for ident that expires ttl from now. ttl may be
// fractional seconds; a non-positive ttl yields an already-expired token.
func Issue(ident string, ttl time.Duration, salt string, key []byte) (Token, error) {
	return issueAt(time.Now(), ident, ttl, salt, key)
}

// Validate checks the signature of t under salt and key, then its expiry.
func Validate(t Token, salt string, key []byte) error {
	return validateAt(time.Now(), t, salt, key)
}

func issueAt(now time.Time, ident string, ttl time.Duration, salt string, key []byte) (Token, error) {
	exp := now.Add(ttl).UTC().Format(time.RFC3339Nano)

	sig, err := sign(ident, exp, salt, key)
	if err != nil {
		return Token{}, err
	}

	return Token{
		Ident: ident,
		Exp:   exp,
		Sign:  base64.RawURLEncoding.EncodeToString(sig),
	}, nil
}

func validateAt(now time.Time, t Token, salt string, key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}

	// A signature that is not even base64url cannot match.
	sig, err := segmentParser.DecodeSegment(t.Sign)
	if err != nil {
		return ErrSignatureMismatch
	}
	if err := signingMethod.Verify(signingInput(t.Ident, t.Exp)+salt, sig, key); err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return ErrSignatureMismatch
		}
		return ErrInvalidKey
	}

	exp, err := time.Parse(time.RFC3339, t.Exp)
	if err != nil {
		return ErrExpNotRFC3339
	}
	if exp.Before(now) {
		return ErrExpired
	}

	return nil
}

func sign(ident, exp, salt string, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}

	sig, err := signingMethod.Sign(signingInput(ident, exp)+salt, key)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return sig, nil
}
