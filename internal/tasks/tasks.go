// package tasks implements the comic library migration between the two servers.
//
// The core abstraction is MigrationEngine, which walks the Mylar series list
// and recreates each entry as a Kapowarr volume, optionally moving files along.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"mylar2kapowarr/internal/matcher"
	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/services"
	"mylar2kapowarr/internal/shared"
)

// EntryState is the terminal migration state of a single series.
type EntryState int

const (
	StatePending EntryState = iota
	StateSkipped
	StateAlreadyPresent
	StateCreated
	StateFilesProcessed
	StateRescanned
	StateRenamed
	StateDone
	StateFailed
)

func (s EntryState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSkipped:
		return "skipped"
	case StateAlreadyPresent:
		return "already_present"
	case StateCreated:
		return "created"
	case StateFilesProcessed:
		return "files_processed"
	case StateRescanned:
		return "rescanned"
	case StateRenamed:
		return "renamed"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// RunOpts carries the per-run knobs for a migration pass.
type RunOpts struct {
	ListCmd      string        // Mylar listing command (default getIndex)
	RootFolderID int           // Kapowarr root folder new volumes land in
	SourceRoot   string        // Host path of Mylar's /comics/ root
	TargetRoot   string        // Host path of Kapowarr's /comics-1/ root
	CopyFiles    bool          // Move issue files along with the catalog entry
	UseImport    bool          // Hand files to Kapowarr's library import instead of copying
	RenameFiles  bool          // Let the library import rename on ingest
	RefreshScan  bool          // Queue a refresh-and-scan task per volume with new files
	MassRename   bool          // Queue a mass rename task per volume with new files
	DryRun       bool          // Log file operations without performing them
	Limit        int           // Process only the first N series (0 = all)
	ResumeFrom   string        // Skip forward to this title, case-insensitive
	Delay        time.Duration // Inter-entry wait, a ComicVine rate-limit courtesy
}

// EntryResult is the outcome for a single series.
type EntryResult struct {
	Entry       models.SourceEntry
	State       EntryState
	VolumeID    int
	FilesCopied int
	Err         error
}

// RunResult contains the counters and per-entry outcomes of a migration pass.
type RunResult struct {
	EntriesTotal   int
	Created        int
	AlreadyPresent int
	Skipped        int
	Failed         int
	FilesCopied    int
	WantedIssues   int
	DryRun         bool
	Entries        []EntryResult
}

// RunRecorder persists run history. The engine never reads it back; a nil
// recorder disables persistence entirely.
type RunRecorder interface {
	// StartRun opens a run record and returns it with its id assigned.
	StartRun(dryRun bool, resumeFrom string) (*models.MigrationRun, error)

	// RecordEntry snapshots one processed entry with its final state.
	RecordEntry(runID string, entry models.SourceEntry, state EntryState) error

	// FinishRun writes the final counters and status.
	FinishRun(run *models.MigrationRun, result *RunResult) error
}

// Engine defines the migration operation.
type Engine interface {
	// Run performs a full Mylar → Kapowarr migration pass.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error)
}

// MigrationEngine implements Engine against the two gateways.
type MigrationEngine struct {
	source   services.SourceGateway
	target   services.TargetGateway
	recorder RunRecorder
}

// NewMigrationEngine creates an engine with the provided gateways.
func NewMigrationEngine(source services.SourceGateway, target services.TargetGateway) *MigrationEngine {
	return &MigrationEngine{
		source: source,
		target: target,
	}
}

// WithRecorder attaches a run history recorder and returns the engine.
func (e *MigrationEngine) WithRecorder(recorder RunRecorder) *MigrationEngine {
	e.recorder = recorder
	return e
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MigrationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	sendUpdate(progress, update)
}

// Run performs a full Mylar → Kapowarr migration pass.
//
// Only a failed Kapowarr auth check aborts the run; every later failure is
// isolated to its entry (or issue) and the loop advances. A run interrupted
// partway leaves Kapowarr valid because volume creation and file placement
// are individually re-checkable on the next invocation.
func (e *MigrationEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: Mylar service not initialized", shared.ErrServiceUnavailable)
	}
	if e.target == nil {
		return nil, fmt.Errorf("%w: Kapowarr service not initialized", shared.ErrServiceUnavailable)
	}

	if err := e.target.CheckAuth(ctx); err != nil {
		return nil, err
	}

	result := &RunResult{DryRun: opts.DryRun}

	e.sendProgress(progress, fetchEntriesUpdate(1, 1))
	raw, err := e.source.ListEntries(ctx, opts.ListCmd)
	if err != nil {
		// Best-effort run: an unreachable Mylar yields an empty pass, not an abort.
		e.sendProgress(progress, entriesFailedUpdate(err))
		raw = nil
	}
	e.sendProgress(progress, entriesFoundUpdate(len(raw)))

	// Fetched up front for monitoring decisions; informational for now.
	wanted, err := e.source.WantedIssueIDs(ctx)
	e.sendProgress(progress, fetchWantedUpdate(len(wanted), err))
	result.WantedIssues = len(wanted)

	entries := make([]models.SourceEntry, len(raw))
	for i, record := range raw {
		entries[i] = matcher.Normalize(record)
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
		e.sendProgress(progress, limitUpdate(opts.Limit))
	}

	if opts.ResumeFrom != "" {
		entries = e.applyResume(progress, entries, opts.ResumeFrom)
	}

	result.EntriesTotal = len(entries)

	var run *models.MigrationRun
	if e.recorder != nil {
		if run, err = e.recorder.StartRun(opts.DryRun, opts.ResumeFrom); err != nil {
			e.sendProgress(progress, fileWarningUpdate(fmt.Sprintf("Run history unavailable: %v", err)))
			run = nil
		}
	}

	var limiter *rate.Limiter
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	} else {
		e.sendProgress(progress, noDelayUpdate())
	}

	transfer := e.transferFor(opts)

	for i, entry := range entries {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		} else if ctx.Err() != nil {
			break
		}

		e.sendProgress(progress, entryUpdate(i+1, len(entries), entry))

		res := e.processEntry(ctx, progress, i+1, len(entries), entry, transfer, opts)
		result.Entries = append(result.Entries, res)
		result.FilesCopied += res.FilesCopied

		switch res.State {
		case StateSkipped:
			result.Skipped++
		case StateAlreadyPresent:
			result.AlreadyPresent++
		case StateFailed:
			result.Failed++
		default:
			result.Created++
		}

		if e.recorder != nil && run != nil {
			if err := e.recorder.RecordEntry(run.ID(), entry, res.State); err != nil {
				e.sendProgress(progress, fileWarningUpdate(fmt.Sprintf("Failed to record entry: %v", err)))
			}
		}
	}

	if e.recorder != nil && run != nil {
		if err := e.recorder.FinishRun(run, result); err != nil {
			e.sendProgress(progress, fileWarningUpdate(fmt.Sprintf("Failed to finalize run record: %v", err)))
		}
	}

	e.sendProgress(progress, finishedUpdate(result))
	return result, nil
}

// applyResume skips forward to the entry whose title matches resumeFrom,
// case-insensitive. A miss processes the full list rather than none of it.
func (e *MigrationEngine) applyResume(progress chan<- ProgressUpdate, entries []models.SourceEntry, resumeFrom string) []models.SourceEntry {
	for i, entry := range entries {
		if strings.EqualFold(entry.Title, resumeFrom) {
			e.sendProgress(progress, resumeUpdate(entry.Title, len(entries)-i))
			return entries[i:]
		}
	}

	e.sendProgress(progress, resumeMissUpdate(resumeFrom))
	return entries
}

// transferFor picks the file strategy for this run, or nil when files stay put.
func (e *MigrationEngine) transferFor(opts RunOpts) FileTransfer {
	if !opts.CopyFiles {
		return nil
	}

	if opts.UseImport {
		return &LibraryImport{
			target:      e.target,
			sourceRoot:  opts.SourceRoot,
			targetRoot:  opts.TargetRoot,
			renameFiles: opts.RenameFiles,
			dryRun:      opts.DryRun,
		}
	}

	return &DirectCopy{
		source:     e.source,
		sourceRoot: opts.SourceRoot,
		targetRoot: opts.TargetRoot,
		dryRun:     opts.DryRun,
	}
}

func (e *MigrationEngine) processEntry(ctx context.Context, progress chan<- ProgressUpdate, step, total int, entry models.SourceEntry, transfer FileTransfer, opts RunOpts) EntryResult {
	res := EntryResult{Entry: entry, State: StatePending}

	if entry.ExternalID == "" {
		e.sendProgress(progress, entrySkippedUpdate(step, total, entry.Title))
		res.State = StateSkipped
		return res
	}

	exists, err := e.target.VolumeExists(ctx, entry.ExternalID)
	if err != nil {
		e.sendProgress(progress, entryFailedUpdate(step, total, entry.Title, err))
		res.State, res.Err = StateFailed, err
		return res
	}
	if exists {
		e.sendProgress(progress, entryExistsUpdate(step, total, entry.Title))
		res.State = StateAlreadyPresent
		return res
	}

	spec := models.VolumeSpec{
		ExternalID:   entry.ExternalID,
		RootFolderID: opts.RootFolderID,
	}
	// Kapowarr monitors new volumes by default; flags are sent only to opt out.
	if !entry.Monitored {
		unmonitored := false
		spec.Monitor = &unmonitored
		spec.MonitorNewIssues = &unmonitored
	}

	volume, err := e.target.CreateVolume(ctx, spec)
	if errors.Is(err, shared.ErrVolumeExists) {
		e.sendProgress(progress, entryExistsUpdate(step, total, entry.Title))
		res.State = StateAlreadyPresent
		return res
	}
	if err != nil {
		e.sendProgress(progress, entryFailedUpdate(step, total, entry.Title, err))
		res.State, res.Err = StateFailed, err
		return res
	}

	res.State = StateCreated
	res.VolumeID = volume.ID
	e.sendProgress(progress, volumeCreatedUpdate(step, total, entry.Title, volume.ID))

	if transfer != nil {
		copied := e.transferEntry(ctx, progress, entry, volume.ID, transfer, opts)
		res.FilesCopied = copied
		if copied > 0 {
			res.State = StateFilesProcessed
		}

		// Post-processing tasks are fire-and-forget; a failed submission is
		// logged and the entry stays migrated.
		if copied > 0 && !opts.DryRun {
			if opts.RefreshScan {
				if err := e.target.TriggerRescan(ctx, volume.ID); err != nil {
					e.sendProgress(progress, taskFailedUpdate("refresh and scan", entry.Title, err))
				} else {
					e.sendProgress(progress, taskQueuedUpdate("refresh and scan", entry.Title))
					res.State = StateRescanned
				}
			}
			if opts.MassRename {
				if err := e.target.TriggerRename(ctx, volume.ID, 0); err != nil {
					e.sendProgress(progress, taskFailedUpdate("mass rename", entry.Title, err))
				} else {
					e.sendProgress(progress, taskQueuedUpdate("mass rename", entry.Title))
					res.State = StateRenamed
				}
			}
		}

		return res
	}

	res.State = StateDone
	return res
}

// transferEntry runs the file strategy for one freshly created volume.
// Any failure here is a warning; the entry itself stays migrated.
func (e *MigrationEngine) transferEntry(ctx context.Context, progress chan<- ProgressUpdate, entry models.SourceEntry, volumeID int, transfer FileTransfer, opts RunOpts) int {
	detail, err := e.target.VolumeDetail(ctx, volumeID)
	if err != nil {
		e.sendProgress(progress, fileWarningUpdate(fmt.Sprintf("Failed to fetch volume detail for %s: %v", entry.Title, err)))
		return 0
	}

	sourceID := entry.SourceID
	if sourceID == "" {
		sourceID = entry.ExternalID
	}

	issues, err := e.source.Issues(ctx, sourceID)
	if err != nil {
		e.sendProgress(progress, fileWarningUpdate(fmt.Sprintf("Failed to fetch Mylar issues for %s: %v", entry.Title, err)))
		return 0
	}

	copied, err := transfer.Process(ctx, progress, detail, issues)
	if err != nil {
		e.sendProgress(progress, fileWarningUpdate(fmt.Sprintf("File transfer for %s: %v", entry.Title, err)))
	}
	e.sendProgress(progress, filesCopiedUpdate(entry.Title, copied))

	return copied
}
