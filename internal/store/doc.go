// Package store provides SQLite-backed durable storage for bridge sessions.
//
// A session is one run of a mod against a host. The store keeps:
//   - Sessions: mod name, mod directory and the canonical bridge settings
//   - Events: the trace of every hook, instruction and menu action
//
// # Ordering
//
// Events are keyed by (session_id, seq). seq comes from the bridge's
// logical clock, never from wall time, and every query orders by it. Two
// runs of the same mod against the same fixture therefore read back
// identically, apart from the session id.
//
// # Identity
//
// Each event row stores its content address (trace.Event.ID). Verify
// recomputes it from the stored columns, so a tampered or truncated log is
// detected on read.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
