package repositories

import (
	"database/sql"
	"time"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/tasks"
)

// HistoryRecorder implements [tasks.RunRecorder] on top of the run and entry
// repositories. The engine calls it at start, per entry, and at finish; it
// never influences migration decisions.
type HistoryRecorder struct {
	runs    *RunRepository
	entries *EntryRepository
}

// NewHistoryRecorder creates a recorder backed by the given database.
func NewHistoryRecorder(db *sql.DB) *HistoryRecorder {
	return &HistoryRecorder{
		runs:    NewRunRepository(db),
		entries: NewEntryRepository(db),
	}
}

// StartRun opens a run record in the running state.
func (h *HistoryRecorder) StartRun(dryRun bool, resumeFrom string) (*models.MigrationRun, error) {
	run := models.NewMigrationRun(0, dryRun, resumeFrom)
	if err := h.runs.Create(run); err != nil {
		return nil, err
	}
	return run, nil
}

// RecordEntry snapshots one processed entry with its final state.
func (h *HistoryRecorder) RecordEntry(runID string, entry models.SourceEntry, state tasks.EntryState) error {
	return h.entries.Create(models.NewCachedEntry(runID, entry, state.String()))
}

// FinishRun writes the final counters and marks the run completed, or failed
// when every processed entry failed.
func (h *HistoryRecorder) FinishRun(run *models.MigrationRun, result *tasks.RunResult) error {
	run.SetEntriesTotal(result.EntriesTotal)
	run.SetCreated(result.Created)
	run.SetAlreadyPresent(result.AlreadyPresent)
	run.SetSkipped(result.Skipped)
	run.SetFailed(result.Failed)
	run.SetFilesCopied(result.FilesCopied)

	status := models.RunStatusCompleted
	if result.EntriesTotal > 0 && result.Failed == result.EntriesTotal {
		status = models.RunStatusFailed
	}
	run.SetStatus(status)

	now := time.Now()
	run.SetCompletedAt(&now)

	return h.runs.Update(run)
}
