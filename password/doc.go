// Package password hashes and verifies passwords under versioned schemes.
//
// # Stored format
//
// Every hash leaves this package wrapped in a scheme envelope:
//
//	#<scheme_id>#<scheme payload>
//
// The scheme id selects the algorithm on validation, so old records keep
// verifying after the default scheme changes. Two schemes exist:
//
//	"01"  HMAC-SHA512 over content and salt, base64url without padding (legacy)
//	"02"  Argon2id in PHC string format (default)
//
// [Hasher.Validate] reports [StatusOutdated] when a record verified under a
// scheme other than [DefaultScheme]. Callers use it to rehash on the next
// successful login; this package never writes anything back.
//
// # Architecture boundaries
//
// A [Hasher] is built once per process by the composition root and shared.
// It holds the process-wide secret and the Argon2 cost parameters and is safe
// for concurrent use.
//
// # What this package must NOT do
//
//   - Generate per-record salts. Callers supply them from the user record.
//   - Store or retrieve hashes.
//   - Log content, salts or keys.
package password
