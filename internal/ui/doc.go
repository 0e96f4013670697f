// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a review-then-sync workflow for liked songs:
//  1. [LoadingView] : Fetch liked songs and existing rows, compute the diff
//  2. [PendingView] : Browse the songs that would be added
//  3. [ConfirmView] : Confirm the sync
//  4. [SyncView] : Monitor real-time progress updates
//  5. [ResultView] : Display created rows and rejected songs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the sync engine, providing non-blocking status reporting during writes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
