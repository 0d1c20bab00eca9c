// Package tasks orchestrates the Mylar → Kapowarr migration with real-time
// progress reporting.
//
// # Core Operation
//
// The [Engine] interface defines one operation:
//
//	[Engine.Run] : Full Mylar → Kapowarr migration pass
//	  - Fetches the Mylar series list and the wanted-issue set
//	  - Applies limit and best-effort resume
//	  - Creates one Kapowarr volume per series, skipping duplicates
//	  - Optionally moves issue files via a [FileTransfer] strategy
//	  - Queues rescan/rename tasks for volumes that received files
//
// # Processing Model
//
// Entries are processed strictly one at a time; the external constraint is
// Kapowarr's ComicVine quota, not local throughput, so an inter-entry delay
// paces the loop via [rate.Limiter]. Failures are isolated to the smallest
// unit (issue over entry over run): only a failed Kapowarr auth check aborts
// a run before it starts.
//
// # File Strategies
//
// [DirectCopy] places files under the volume folder itself, copying from the
// shared filesystem when the source file is reachable and downloading through
// Mylar's API otherwise. [LibraryImport] leaves files in place and submits
// them to Kapowarr's library import endpoint. Both honor dry-run by logging
// instead of writing.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default to
// prevent blocking.
//
// # Run History
//
// An optional [RunRecorder] persists the outcome of each pass. The engine
// only ever writes history; resume decisions stay title-based and best-effort.
package tasks
