package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgEntriesFetched MsgKind = iota
	MsgProgressUpdate
	MsgMigrationComplete
)

type entriesPayload struct {
	entries []models.SourceEntry
	err     error
}

type runPayload struct {
	result *tasks.RunResult
	err    error
}

// entriesFetchedMsg is the constructor for [MsgEntriesFetched]
func entriesFetchedMsg(entries []models.SourceEntry, err error) Msg {
	return Msg{kind: MsgEntriesFetched, data: entriesPayload{entries, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// migrationCompleteMsg is the constructor for [MsgMigrationComplete]
func migrationCompleteMsg(result *tasks.RunResult, err error) Msg {
	return Msg{kind: MsgMigrationComplete, data: runPayload{result, err}}
}
