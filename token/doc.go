// Package token issues and validates compact signed session tokens.
//
// Wire form:
//
//	base64url(ident) "." base64url(exp) "." base64url(signature)
//
// exp is an RFC3339 UTC timestamp. The signature is HMAC-SHA512 over the
// first two segments joined by "." followed by a caller-supplied salt,
// keyed by the process token key. The salt is never transmitted; rotating a
// subject's salt invalidates every token issued for it.
//
// Validate checks the signature before the expiry, so a token signed under
// another key or salt reports [ErrSignatureMismatch] whether or not it has
// also expired.
//
// Architecture boundaries:
//
//	Must NOT pick a transport (cookie or header).
//	Must NOT persist tokens or revocation lists.
//	Must NOT log token strings, salts or keys.
package token
