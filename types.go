package goCred

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRecord is the credential view of one account.
//
// PasswordSalt feeds the password hasher; TokenSalt signs session tokens and
// is rotated to revoke them. Neither ever leaves the server.
type UserRecord struct {
	UserID       string
	Identifier   string
	PasswordHash string
	PasswordSalt uuid.UUID
	TokenSalt    uuid.UUID
}

// UserProvider is the storage boundary the engine reads and writes
// credentials through. Lookups for unknown users must return an error
// matching [ErrUserNotFound].
type UserProvider interface {
	GetUserByIdentifier(ctx context.Context, identifier string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
	UpdateTokenSalt(ctx context.Context, userID string, salt uuid.UUID) error
}

// CreateUserInput carries everything a provider persists for a new account.
// The provider assigns UserID.
type CreateUserInput struct {
	Identifier   string
	PasswordHash string
	PasswordSalt uuid.UUID
	TokenSalt    uuid.UUID
}

// UserCreator is an optional UserProvider capability used by [Engine.Register].
// A taken identifier must return an error matching [ErrAccountExists].
type UserCreator interface {
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	UserID     string
	Identifier string
	Token      string
	ExpiresAt  time.Time

	// PasswordUpgraded reports that the stored hash was rewritten with the
	// current default scheme during this login.
	PasswordUpgraded bool
}

// AuthResult is returned by [Engine.Authenticate]. Token is a freshly
// issued replacement with a new expiry.
type AuthResult struct {
	UserID     string
	Identifier string
	Token      string
	ExpiresAt  time.Time
}
