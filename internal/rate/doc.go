// Package rate provides the Redis-backed fixed-window login limiter used by
// the goCred engine.
//
// # Window semantics
//
// Fixed-window counters: INCR + EXPIRE on the first hit of a window. Keys:
//   - <prefix>:rl:login:<identifier>  failed logins per identifier
//   - <prefix>:rl:loginip:<ip>        failed logins per client IP
//
// # What this package must NOT do
//
//   - Decide what counts as a failed login (the engine calls IncrementLogin).
//   - Be imported outside the goCred module.
package rate
