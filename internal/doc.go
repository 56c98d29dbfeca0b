// Package internal holds goCred coordination code that is not part of the
// public API.
//
// # Sub-packages
//
//   - audit: buffered event dispatch (Dispatcher and Sink implementations)
//   - rate: Redis-backed login attempt counters
//
// Nothing here is imported outside the goCred module.
package internal
