package tasks

import (
	"fmt"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchEntries Phase = iota
	FetchWanted
	Resume
	ProcessEntry
	CreateVolume
	TransferFiles
	PostProcess
	Finalize
)

func (p Phase) String() string {
	switch p {
	case FetchEntries:
		return "fetch_entries"
	case FetchWanted:
		return "fetch_wanted"
	case Resume:
		return "resume"
	case ProcessEntry:
		return "process_entry"
	case CreateVolume:
		return "create_volume"
	case TransferFiles:
		return "transfer_files"
	case PostProcess:
		return "post_process"
	case Finalize:
		return "finalize"
	default:
		return ""
	}
}

func fetchEntriesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    step,
		Total:   total,
		Message: "Fetching series list from Mylar...",
	}
}

func entriesFoundUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d series in Mylar", count),
	}
}

func entriesFailedUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Failed to fetch series from Mylar: %v", err),
	}
}

func fetchWantedUpdate(count int, err error) ProgressUpdate {
	update := ProgressUpdate{Phase: FetchWanted, Step: 1, Total: 1}
	if err != nil {
		update.Message = fmt.Sprintf("Failed to fetch wanted issues: %v", err)
		return update
	}
	update.Message = fmt.Sprintf("Found %d wanted issues in Mylar", count)
	return update
}

func limitUpdate(limit int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resume,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Limiting migration to the first %d series", limit),
	}
}

func resumeUpdate(title string, remaining int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resume,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resuming migration from %s (%d series remaining)", title, remaining),
	}
}

func resumeMissUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resume,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Could not find series '%s' to resume from; processing the full list", title),
	}
}

func entryUpdate(step, total int, entry models.SourceEntry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessEntry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, entry.Title),
		Data:    entry,
	}
}

func entrySkippedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessEntry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ⚠ %s has no ComicVine ID, skipping", step, total, title),
	}
}

func entryExistsUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessEntry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s already in Kapowarr", step, total, title),
	}
}

func entryFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessEntry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func volumeCreatedUpdate(step, total int, title string, volumeID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateVolume,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s added to Kapowarr (ID: %d)", step, total, title, volumeID),
	}
}

func filesCopiedUpdate(title string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TransferFiles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Processed %d files for %s", count, title),
	}
}

func issueSkippedUpdate(number string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TransferFiles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✗ No matching Mylar issue found for issue #%s", number),
		Data:    fmt.Errorf("%w: issue #%s", shared.ErrNoMatchingIssue, number),
	}
}

func fileWarningUpdate(message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TransferFiles,
		Step:    1,
		Total:   1,
		Message: message,
	}
}

func taskQueuedUpdate(name, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PostProcess,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ Queued %s for %s", name, title),
	}
}

func taskFailedUpdate(name, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PostProcess,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✗ Failed to queue %s for %s: %v", name, title, err),
	}
}

func noDelayUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessEntry,
		Step:    1,
		Total:   1,
		Message: "No delay between series, this may hit ComicVine API rate limits",
	}
}

func finishedUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Finalize,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("Migration complete: %d created, %d already present, %d skipped, %d failed, %d files",
			result.Created, result.AlreadyPresent, result.Skipped, result.Failed, result.FilesCopied),
		Data: result,
	}
}
