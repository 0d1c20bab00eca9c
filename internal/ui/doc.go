// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for library migration:
//  1. [EntryListView] : Browse the series tracked by Mylar
//  2. [ConfirmView] : Review the run options before committing
//  3. [MigrateView] : Monitor real-time progress updates
//  4. [ResultView] : Display outcome counters and failed series
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the MigrationEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
