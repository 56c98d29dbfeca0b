package password

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
)

// hmacScheme is scheme "01": HMAC-SHA512(key, content || salt), base64url
// without padding. The output is deterministic, so validation recomputes.
type hmacScheme struct {
	key []byte
}

func (s hmacScheme) hash(c ContentToHash) (string, error) {
	if len(s.key) == 0 {
		return "", ErrInvalidKey
	}

	mac := hmac.New(sha512.New, s.key)
	mac.Write([]byte(c.Content))
	mac.Write(c.Salt[:])

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

func (s hmacScheme) validate(c ContentToHash, payload string) error {
	computed, err := s.hash(c)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(computed), []byte(payload)) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}
