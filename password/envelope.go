package password

import (
	"regexp"
)

// The payload is the whole remainder, newlines included.
var envelopePattern = regexp.MustCompile(`(?s)^#(\w+)#(.*)$`)

// Envelope is the stored form of a password hash: "#<scheme>#<payload>".
type Envelope struct {
	Scheme  string
	Payload string
}

// ParseEnvelope splits a stored hash into scheme id and payload. Anything that
// does not match the grammar is an error; it is never treated as plaintext.
func ParseEnvelope(stored string) (Envelope, error) {
	m := envelopePattern.FindStringSubmatch(stored)
	if m == nil {
		return Envelope{}, ErrMalformedEnvelope
	}

	return Envelope{Scheme: m[1], Payload: m[2]}, nil
}

func (e Envelope) String() string {
	return "#" + e.Scheme + "#" + e.Payload
}

// Hash hashes c with [DefaultScheme] and returns the envelope.
func (h *Hasher) Hash(c ContentToHash) (string, error) {
	return h.HashWithScheme(DefaultScheme, c)
}

// HashWithScheme hashes c with the given scheme. Only migrations and tests
// should need a scheme other than the default.
func (h *Hasher) HashWithScheme(id SchemeID, c ContentToHash) (string, error) {
	scheme, err := h.Resolve(string(id))
	if err != nil {
		return "", err
	}

	payload, err := scheme.Hash(c)
	if err != nil {
		return "", err
	}

	return Envelope{Scheme: string(id), Payload: payload}.String(), nil
}

// Validate checks c against a stored envelope. On success it reports
// [StatusOutdated] when the envelope names a scheme other than [DefaultScheme].
func (h *Hasher) Validate(c ContentToHash, stored string) (SchemeStatus, error) {
	env, err := ParseEnvelope(stored)
	if err != nil {
		return StatusUnknown, err
	}

	scheme, err := h.Resolve(env.Scheme)
	if err != nil {
		return StatusUnknown, err
	}

	if err := scheme.Validate(c, env.Payload); err != nil {
		return StatusUnknown, err
	}

	if scheme.ID() == DefaultScheme {
		return StatusOK, nil
	}
	return StatusOutdated, nil
}

// NeedsRehash reports whether a stored envelope should be replaced: it names
// a non-default scheme, or default-scheme parameters weaker than the current
// config. It does not verify any content.
func (h *Hasher) NeedsRehash(stored string) (bool, error) {
	env, err := ParseEnvelope(stored)
	if err != nil {
		return false, err
	}

	scheme, err := h.Resolve(env.Scheme)
	if err != nil {
		return false, err
	}

	if scheme.ID() != DefaultScheme {
		return true, nil
	}

	return h.argon2.needsUpgrade(env.Payload)
}
