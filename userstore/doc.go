// Package userstore implements goCred.UserProvider and goCred.UserCreator on
// Redis.
//
// # Key layout
//
//   - {<prefix>}:user:<id>             hash: identifier, pwd_hash, pwd_salt, token_salt
//   - {<prefix>}:ident:<identifier>    string: user id
//
// The braces are a Cluster hash tag: every key of one store lands in the
// same slot, so the create script and the delete transaction are valid on
// Redis Cluster. The trade-off is that one store lives on one shard.
//
// Creation claims the identifier index with SETNX inside a Lua script, so two
// concurrent registrations of one identifier cannot both succeed. Field
// updates refuse to resurrect a deleted user.
//
// # What this package must NOT do
//
//   - Hash passwords or generate salts (the engine does).
//   - Return records for unknown users; lookups fail with goCred.ErrUserNotFound.
package userstore
