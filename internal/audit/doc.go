// Package audit relays credential events to a sink without blocking the
// calling flow.
//
// # Components
//
//   - [Sink]: event consumer (channel, zap logger, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full or block-if-full
//     semantics. Lost events are reported through [Options].OnDrop; the
//     engine turns them into a metric.
//   - [Event]: one record with timestamp, type, user, IP, outcome and metadata.
//
// # What this package must NOT do
//
//   - Decide which events to emit (the engine does).
//   - Count anything itself.
//   - Import goCred or any sibling internal package.
package audit
