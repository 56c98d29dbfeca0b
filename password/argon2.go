package password

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

// Argon2 cost bounds. New hashes and stored hashes are held to the same
// limits, so every hash this package writes can be read back.
const (
	MinArgon2Memory      uint32 = 8 * 1024        // KiB
	MaxArgon2Memory      uint32 = 4 * 1024 * 1024 // KiB
	MinArgon2Time        uint32 = 1
	MaxArgon2Time        uint32 = 64
	MinArgon2Parallelism uint8  = 1
	MinArgon2KeyLength   uint32 = 16
	MaxArgon2KeyLength   uint32 = 1024
)

const (
	minSaltLength = 8

	algorithmID = "argon2id"
)

// Argon2Config holds the Argon2id cost parameters used for new hashes.
// Existing hashes always verify with the parameters embedded in them.
type Argon2Config struct {
	Memory      uint32 // in KiB
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultArgon2Config returns m=19456 KiB, t=2, p=1 with a 32-byte output.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      19 * 1024,
		Time:        2,
		Parallelism: 1,
		KeyLength:   32,
	}
}

// argon2Scheme is scheme "02". The process secret is applied as an
// HMAC-SHA512 pre-key of the content before Argon2id runs, so a stored PHC
// string verifies only under the secret that produced it.
type argon2Scheme struct {
	config Argon2Config
	secret []byte
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func (a argon2Scheme) hash(c ContentToHash) (string, error) {
	if c.Salt == uuid.Nil {
		return "", ErrInvalidSalt
	}
	if len(a.secret) == 0 {
		return "", ErrInvalidKey
	}

	salt := c.Salt[:]
	hash := argon2.IDKey(
		a.keyed(c.Content),
		salt,
		a.config.Time,
		a.config.Memory,
		a.config.Parallelism,
		a.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (a argon2Scheme) validate(c ContentToHash, payload string) error {
	if len(a.secret) == 0 {
		return ErrInvalidKey
	}

	parsed, err := parsePHC(payload)
	if err != nil {
		return err
	}

	computed := argon2.IDKey(
		a.keyed(c.Content),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		uint32(len(parsed.hash)),
	)

	if subtle.ConstantTimeCompare(computed, parsed.hash) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}

// needsUpgrade reports whether payload was produced with weaker parameters
// than the current config.
func (a argon2Scheme) needsUpgrade(payload string) (bool, error) {
	parsed, err := parsePHC(payload)
	if err != nil {
		return false, err
	}

	if a.config.Memory > parsed.memory {
		return true, nil
	}
	if a.config.Time > parsed.time {
		return true, nil
	}
	if a.config.Parallelism > parsed.parallelism {
		return true, nil
	}
	if a.config.KeyLength != uint32(len(parsed.hash)) {
		return true, nil
	}

	return false, nil
}

func (a argon2Scheme) keyed(content string) []byte {
	mac := hmac.New(sha512.New, a.secret)
	mac.Write([]byte(content))
	return mac.Sum(nil)
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: invalid PHC format", ErrMalformedHash)
	}

	if parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: unsupported algorithm", ErrMalformedHash)
	}

	versionPart := parts[2]
	if !strings.HasPrefix(versionPart, "v=") {
		return nil, fmt.Errorf("%w: missing argon2 version", ErrMalformedHash)
	}

	version, err := strconv.Atoi(strings.TrimPrefix(versionPart, "v="))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid argon2 version", ErrMalformedHash)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported argon2 version", ErrMalformedHash)
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := decodePHCBase64(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt encoding", ErrMalformedHash)
	}
	if len(salt) < minSaltLength {
		return nil, fmt.Errorf("%w: invalid salt length", ErrMalformedHash)
	}

	hash, err := decodePHCBase64(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hash encoding", ErrMalformedHash)
	}
	if len(hash) < int(MinArgon2KeyLength) || len(hash) > int(MaxArgon2KeyLength) {
		return nil, fmt.Errorf("%w: invalid hash length", ErrMalformedHash)
	}

	return &parsedPHC{
		memory:      params.memory,
		time:        params.time,
		parallelism: params.parallelism,
		salt:        salt,
		hash:        hash,
	}, nil
}

// PHC strings omit padding; padded input from older encoders is accepted.
func decodePHCBase64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

type parsedParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func parseParams(part string) (*parsedParams, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return nil, fmt.Errorf("%w: invalid parameter format", ErrMalformedHash)
	}

	var (
		memorySet, timeSet, parallelismSet bool
		params                             parsedParams
	)

	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: invalid parameter entry", ErrMalformedHash)
		}

		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(MinArgon2Memory) || v > uint64(MaxArgon2Memory) || memorySet {
				return nil, fmt.Errorf("%w: invalid memory parameter", ErrMalformedHash)
			}
			params.memory = uint32(v)
			memorySet = true
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(MinArgon2Time) || v > uint64(MaxArgon2Time) || timeSet {
				return nil, fmt.Errorf("%w: invalid time parameter", ErrMalformedHash)
			}
			params.time = uint32(v)
			timeSet = true
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil || v < uint64(MinArgon2Parallelism) || parallelismSet {
				return nil, fmt.Errorf("%w: invalid parallelism parameter", ErrMalformedHash)
			}
			params.parallelism = uint8(v)
			parallelismSet = true
		default:
			return nil, fmt.Errorf("%w: unsupported parameter", ErrMalformedHash)
		}
	}

	if !memorySet || !timeSet || !parallelismSet {
		return nil, fmt.Errorf("%w: missing parameters", ErrMalformedHash)
	}

	return &params, nil
}

// Validate rejects costs outside the bounds stored hashes are parsed with.
func (c Argon2Config) Validate() error {
	if c.Memory < MinArgon2Memory || c.Memory > MaxArgon2Memory {
		return fmt.Errorf("%w: argon2 memory must be within [%d, %d] KiB", ErrInvalidConfig, MinArgon2Memory, MaxArgon2Memory)
	}
	if c.Time < MinArgon2Time || c.Time > MaxArgon2Time {
		return fmt.Errorf("%w: argon2 time must be within [%d, %d]", ErrInvalidConfig, MinArgon2Time, MaxArgon2Time)
	}
	if c.Parallelism < MinArgon2Parallelism {
		return fmt.Errorf("%w: argon2 parallelism must be >= %d", ErrInvalidConfig, MinArgon2Parallelism)
	}
	if c.KeyLength < MinArgon2KeyLength || c.KeyLength > MaxArgon2KeyLength {
		return fmt.Errorf("%w: argon2 key length must be within [%d, %d]", ErrInvalidConfig, MinArgon2KeyLength, MaxArgon2KeyLength)
	}

	return nil
}
