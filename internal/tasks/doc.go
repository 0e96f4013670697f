// Package tasks mirrors liked songs into a database with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines two operations:
//
//  1. [SyncEngine.Plan] : Dry run
//     - Fetches the liked songs from the [services.Source]
//     - Reads every existing row from the [services.Destination]
//     - Computes the tracks to add with [Diff]
//
//  2. [SyncEngine.Run] : Full sync
//     - Performs Plan
//     - Appends one row per pending track, sequentially
//     - Returns a [WriteResult] per submitted track
//
// # Failure Handling
//
// A row rejected by the destination ([*services.NotionError]) is logged, recorded and skipped. Transport faults and
// malformed responses stop the run; Run returns the partial [RunResult] alongside the error.
//
// A row without an identifier stops the run before anything is written ([MissingIdentifierError]).
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
