// Package repositories implements SQLite persistence for the run history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Runs support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [RunRepository] : Migration run history with status and counter tracking
//   - [EntryRepository] : Per-run source entry snapshots with their final states
//   - [HistoryRecorder] : The [tasks.RunRecorder] adapter the engine writes through
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
