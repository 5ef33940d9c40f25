// Package store provides SQLite-backed durable storage for the run log.
//
// The run log is append-only. Each row records one evaluation: what was
// evaluated (sources and expression), how it ended (ok or an engine error
// code), and the observed result as canonical JSON plus its digest. The
// graph itself is never persisted; only observations are.
//
// # Patterns
//
// Logical ordering:
//   - Every run gets a monotonic seq INTEGER assigned inside the insert
//     transaction, NEVER a timestamp
//   - All listing queries use ORDER BY seq, id COLLATE BINARY
//
// Idempotent writes:
//   - Run IDs are primary keys; re-appending an existing ID is a no-op
//     that returns the stored row
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single connection: SQLite allows one writer at a time
package store
