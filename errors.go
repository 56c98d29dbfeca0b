package goCred

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for every password-side failure:
	// unknown identifier, empty password, mismatch, unreadable stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned by Authenticate for malformed, forged or
	// revoked tokens and for tokens whose subject no longer exists.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenExpired is returned by Authenticate for a correctly signed token
	// past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrLoginRateLimited is returned when the login attempt budget is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUserNotFound is returned by UserProvider implementations for unknown users.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is returned by UserCreator implementations for a taken identifier.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountCreationDisabled is returned by Register when the provider cannot create users.
	ErrAccountCreationDisabled = errors.New("account creation disabled")
	// ErrPasswordPolicy is returned for empty identifiers or passwords on write paths.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrCredentialUpdateFailed is returned when a provider write fails.
	ErrCredentialUpdateFailed = errors.New("credential update failed")
)
