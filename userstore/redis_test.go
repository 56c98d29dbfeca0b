package userstore

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goCred "github.com/MrEthical07/goCred"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedis(client, "test")
}

func sampleInput(identifier string) goCred.CreateUserInput {
	return goCred.CreateUserInput{
		Identifier:   identifier,
		PasswordHash: "#02#$argon2id$placeholder",
		PasswordSalt: uuid.New(),
		TokenSalt:    uuid.New(),
	}
}

func TestCreateAndLookup(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()
	in := sampleInput("demo1")

	rec, err := s.CreateUser(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, rec.UserID)
	_, err = uuid.Parse(rec.UserID)
	require.NoError(t, err)

	byIdent, err := s.GetUserByIdentifier(ctx, "demo1")
	require.NoError(t, err)
	assert.Equal(t, rec, byIdent)

	byID, err := s.GetUserByID(ctx, rec.UserID)
	require.NoError(t, err)
	assert.Equal(t, rec, byID)

	assert.Equal(t, rec.UserID, mustGet(t, mr, "{test}:ident:demo1"))
	assert.Equal(t, in.PasswordSalt.String(), mr.HGet("{test}:user:"+rec.UserID, "pwd_salt"))
}

func TestCreateDuplicateIdentifier(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, sampleInput("demo1"))
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, sampleInput("demo1"))
	require.ErrorIs(t, err, goCred.ErrAccountExists)
}

func TestConcurrentCreateOnlyOneWins(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateUser(ctx, sampleInput("race")); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, success)
}

func TestLookupUnknown(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUserByIdentifier(ctx, "nobody")
	require.ErrorIs(t, err, goCred.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, goCred.ErrUserNotFound)
}

func TestUpdates(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.CreateUser(ctx, sampleInput("demo1"))
	require.NoError(t, err)

	require.NoError(t, s.UpdatePasswordHash(ctx, rec.UserID, "#02#new"))
	salt := uuid.New()
	require.NoError(t, s.UpdateTokenSalt(ctx, rec.UserID, salt))

	got, err := s.GetUserByID(ctx, rec.UserID)
	require.NoError(t, err)
	assert.Equal(t, "#02#new", got.PasswordHash)
	assert.Equal(t, salt, got.TokenSalt)
	assert.Equal(t, rec.PasswordSalt, got.PasswordSalt)
}

func TestUpdateUnknownDoesNotCreate(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	require.ErrorIs(t, s.UpdatePasswordHash(ctx, id, "#02#x"), goCred.ErrUserNotFound)
	require.ErrorIs(t, s.UpdateTokenSalt(ctx, id, uuid.New()), goCred.ErrUserNotFound)
	assert.False(t, mr.Exists("{test}:user:"+id))
}

func TestDeleteUser(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.CreateUser(ctx, sampleInput("demo1"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, rec.UserID))
	require.NoError(t, s.DeleteUser(ctx, rec.UserID))
	assert.False(t, mr.Exists("{test}:ident:demo1"))

	_, err = s.GetUserByIdentifier(ctx, "demo1")
	require.ErrorIs(t, err, goCred.ErrUserNotFound)

	// The identifier is free again.
	_, err = s.CreateUser(ctx, sampleInput("demo1"))
	require.NoError(t, err)
}

// hashTag returns the part of key Redis Cluster hashes to pick a slot.
func hashTag(key string) string {
	start := strings.IndexByte(key, '{')
	if start < 0 {
		return key
	}
	end := strings.IndexByte(key[start+1:], '}')
	if end <= 0 {
		return key
	}
	return key[start+1 : start+1+end]
}

func TestKeysShareClusterSlot(t *testing.T) {
	_, s := newTestStore(t)

	for _, ident := range []string{"demo1", "a{b}c", "{x}", "x}"} {
		userKey := s.userKey(uuid.NewString())
		identKey := s.identKey(ident)
		assert.Equal(t, "test", hashTag(userKey), userKey)
		assert.Equal(t, "test", hashTag(identKey), identKey)
	}

	fallback := NewRedis(nil, "")
	assert.Equal(t, "gocred", hashTag(fallback.userKey("u")))
}

func TestCorruptRecord(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	mr.HSet("{test}:user:broken", "identifier", "x", "pwd_salt", "not-a-uuid", "token_salt", uuid.NewString())

	_, err := s.GetUserByID(ctx, "broken")
	require.ErrorIs(t, err, ErrCorruptRecord)
}

func TestRedisDown(t *testing.T) {
	mr, s := newTestStore(t)
	mr.Close()

	_, err := s.GetUserByIdentifier(context.Background(), "demo1")
	require.ErrorIs(t, err, ErrRedisUnavailable)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
