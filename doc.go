// Package goCred wires password hashing and signed session tokens into a
// login and request-authentication engine.
//
// The engine owns one [password.Hasher] and one [token.Manager], both built
// once by [Builder.Build] from [Config]. User records come from a caller-supplied
// [UserProvider]; the userstore sub-package ships a Redis implementation.
//
// Engine methods are safe to call from multiple goroutines after Build.
//
// # Credential flow
//
//   - Login validates the password envelope, transparently rehashes envelopes
//     produced by an outdated scheme, and issues a token signed with the user's
//     token salt.
//   - Authenticate parses and validates a token, then issues a refreshed one
//     (sliding expiry).
//   - RevokeTokens rotates the token salt; every outstanding token for that
//     user stops validating.
//
// Builder.WithAuditSink streams login, token and password events to an
// [AuditSink] through a buffered dispatcher; call [Engine.Close] on shutdown.
//
// # What this package must NOT do
//
//   - Log passwords, salts, keys, or token strings.
//   - Tell an external caller which part of a credential check failed.
//   - Import any sub-package that re-imports goCred (no import cycles).
package goCred
