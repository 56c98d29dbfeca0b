package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	goCred "github.com/MrEthical07/goCred"
)

// ErrRedisUnavailable wraps Redis command failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrCorruptRecord is returned when a stored hash is missing fields or holds
// unparsable salts.
var ErrCorruptRecord = errors.New("corrupt user record")

const (
	fieldIdentifier = "identifier"
	fieldPwdHash    = "pwd_hash"
	fieldPwdSalt    = "pwd_salt"
	fieldTokenSalt  = "token_salt"
)

const createUserScript = `
if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[2], "identifier", ARGV[2], "pwd_hash", ARGV[3], "pwd_salt", ARGV[4], "token_salt", ARGV[5])
return 1
`

var createUserLua = redis.NewScript(createUserScript)

const updateFieldScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`

var updateFieldLua = redis.NewScript(updateFieldScript)

// Redis stores credential records in Redis hashes.
type Redis struct {
	redis  redis.UniversalClient
	prefix string
}

var (
	_ goCred.UserProvider = (*Redis)(nil)
	_ goCred.UserCreator  = (*Redis)(nil)
)

// NewRedis returns a store using prefix for every key. The prefix is
// wrapped in a Redis Cluster hash tag, so all keys of one store share a slot
// and the multi-key create and delete paths work on Cluster. An empty prefix
// falls back to "gocred".
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "gocred"
	}
	return &Redis{redis: client, prefix: "{" + prefix + "}"}
}

func (s *Redis) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

func (s *Redis) identKey(identifier string) string {
	return s.prefix + ":ident:" + identifier
}

// CreateUser stores a new record under a fresh UUID user id.
func (s *Redis) CreateUser(ctx context.Context, input goCred.CreateUserInput) (goCred.UserRecord, error) {
	userID := uuid.NewString()

	created, err := createUserLua.Run(ctx, s.redis,
		[]string{s.identKey(input.Identifier), s.userKey(userID)},
		userID,
		input.Identifier,
		input.PasswordHash,
		input.PasswordSalt.String(),
		input.TokenSalt.String(),
	).Int64()
	if err != nil {
		return goCred.UserRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if created == 0 {
		return goCred.UserRecord{}, goCred.ErrAccountExists
	}

	return goCred.UserRecord{
		UserID:       userID,
		Identifier:   input.Identifier,
		PasswordHash: input.PasswordHash,
		PasswordSalt: input.PasswordSalt,
		TokenSalt:    input.TokenSalt,
	}, nil
}

// GetUserByIdentifier resolves the identifier index, then loads the record.
func (s *Redis) GetUserByIdentifier(ctx context.Context, identifier string) (goCred.UserRecord, error) {
	userID, err := s.redis.Get(ctx, s.identKey(identifier)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return goCred.UserRecord{}, goCred.ErrUserNotFound
		}
		return goCred.UserRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return s.GetUserByID(ctx, userID)
}

// GetUserByID loads a record by user id.
func (s *Redis) GetUserByID(ctx context.Context, userID string) (goCred.UserRecord, error) {
	fields, err := s.redis.HGetAll(ctx, s.userKey(userID)).Result()
	if err != nil {
		return goCred.UserRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return goCred.UserRecord{}, goCred.ErrUserNotFound
	}

	return decodeRecord(userID, fields)
}

// UpdatePasswordHash replaces the stored password envelope.
func (s *Redis) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return s.updateField(ctx, userID, fieldPwdHash, newHash)
}

// UpdateTokenSalt replaces the token salt, revoking outstanding tokens.
func (s *Redis) UpdateTokenSalt(ctx context.Context, userID string, salt uuid.UUID) error {
	return s.updateField(ctx, userID, fieldTokenSalt, salt.String())
}

// DeleteUser removes the record and its identifier index. Deleting an
// unknown user is not an error.
func (s *Redis) DeleteUser(ctx context.Context, userID string) error {
	identifier, err := s.redis.HGet(ctx, s.userKey(userID), fieldIdentifier).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.userKey(userID))
		pipe.Del(ctx, s.identKey(identifier))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

func (s *Redis) updateField(ctx context.Context, userID, field, value string) error {
	updated, err := updateFieldLua.Run(ctx, s.redis, []string{s.userKey(userID)}, field, value).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if updated == 0 {
		return goCred.ErrUserNotFound
	}
	return nil
}

func decodeRecord(userID string, fields map[string]string) (goCred.UserRecord, error) {
	identifier, ok := fields[fieldIdentifier]
	if !ok {
		return goCred.UserRecord{}, fmt.Errorf("%w: missing identifier", ErrCorruptRecord)
	}

	pwdSalt, err := uuid.Parse(fields[fieldPwdSalt])
	if err != nil {
		return goCred.UserRecord{}, fmt.Errorf("%w: pwd_salt", ErrCorruptRecord)
	}
	tokenSalt, err := uuid.Parse(fields[fieldTokenSalt])
	if err != nil {
		return goCred.UserRecord{}, fmt.Errorf("%w: token_salt", ErrCorruptRecord)
	}

	return goCred.UserRecord{
		UserID:       userID,
		Identifier:   identifier,
		PasswordHash: fields[fieldPwdHash],
		PasswordSalt: pwdSalt,
		TokenSalt:    tokenSalt,
	}, nil
}

// ErrNotFound is goCred.ErrUserNotFound, re-exported for callers that only
// import this package.
var ErrNotFound = goCred.ErrUserNotFound
