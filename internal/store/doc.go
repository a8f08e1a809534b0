// Package store provides SQLite-backed history of filter compilations.
//
// Each compilation records the resource it ran against, the raw filter, the
// generated SQL, its parameters and the diagnostics the compiler produced.
// The log is append-only and ordered by a logical seq assigned on insert;
// reads always ORDER BY seq ASC, id ASC COLLATE BINARY so listings are
// deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
