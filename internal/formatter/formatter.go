// package formatter renders migration run reports in various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"mylar2kapowarr/internal/shared"
	"mylar2kapowarr/internal/tasks"
)

// reportEntry is the serialization view of a single entry outcome.
type reportEntry struct {
	Title       string `json:"title"`
	ExternalID  string `json:"external_id,omitempty"`
	State       string `json:"state"`
	VolumeID    int    `json:"volume_id,omitempty"`
	FilesCopied int    `json:"files_copied,omitempty"`
	Error       string `json:"error,omitempty"`
}

// reportSummary is the serialization view of a full run.
type reportSummary struct {
	DryRun         bool          `json:"dry_run"`
	EntriesTotal   int           `json:"entries_total"`
	Created        int           `json:"created"`
	AlreadyPresent int           `json:"already_present"`
	Skipped        int           `json:"skipped"`
	Failed         int           `json:"failed"`
	FilesCopied    int           `json:"files_copied"`
	WantedIssues   int           `json:"wanted_issues"`
	Entries        []reportEntry `json:"entries"`
}

func summarize(result *tasks.RunResult) reportSummary {
	summary := reportSummary{
		DryRun:         result.DryRun,
		EntriesTotal:   result.EntriesTotal,
		Created:        result.Created,
		AlreadyPresent: result.AlreadyPresent,
		Skipped:        result.Skipped,
		Failed:         result.Failed,
		FilesCopied:    result.FilesCopied,
		WantedIssues:   result.WantedIssues,
		Entries:        make([]reportEntry, 0, len(result.Entries)),
	}

	for _, entry := range result.Entries {
		re := reportEntry{
			Title:       entry.Entry.Title,
			ExternalID:  entry.Entry.ExternalID,
			State:       entry.State.String(),
			VolumeID:    entry.VolumeID,
			FilesCopied: entry.FilesCopied,
		}
		if entry.Err != nil {
			re.Error = entry.Err.Error()
		}
		summary.Entries = append(summary.Entries, re)
	}

	return summary
}

// ExportToJSON converts a run result to pretty-printed JSON
func ExportToJSON(result *tasks.RunResult) ([]byte, error) {
	return shared.MarshalJSON(summarize(result), true)
}

// ExportToCSV converts a run result to CSV format with columns: Title, ExternalID, State, VolumeID, FilesCopied, Error
func ExportToCSV(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "ExternalID", "State", "VolumeID", "FilesCopied", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range summarize(result).Entries {
		record := []string{
			entry.Title,
			entry.ExternalID,
			entry.State,
			strconv.Itoa(entry.VolumeID),
			strconv.Itoa(entry.FilesCopied),
			entry.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a run result to Markdown format
func ExportToMarkdown(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	summary := summarize(result)

	buf.WriteString("# Migration Report\n\n")
	if summary.DryRun {
		buf.WriteString("**Dry run**: no files were written and no tasks were queued.\n\n")
	}

	buf.WriteString(fmt.Sprintf("**Series processed**: %d\n", summary.EntriesTotal))
	buf.WriteString(fmt.Sprintf("**Created**: %d\n", summary.Created))
	buf.WriteString(fmt.Sprintf("**Already present**: %d\n", summary.AlreadyPresent))
	buf.WriteString(fmt.Sprintf("**Skipped**: %d\n", summary.Skipped))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n", summary.Failed))
	buf.WriteString(fmt.Sprintf("**Files copied**: %d\n\n", summary.FilesCopied))

	buf.WriteString("## Series\n\n")
	for i, entry := range summary.Entries {
		line := fmt.Sprintf("%d. %s: %s", i+1, entry.Title, entry.State)
		if entry.FilesCopied > 0 {
			line += fmt.Sprintf(" (%d files)", entry.FilesCopied)
		}
		if entry.Error != "" {
			line += fmt.Sprintf(": %s", entry.Error)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a run result to plain text format
func ExportToText(result *tasks.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	summary := summarize(result)

	buf.WriteString(fmt.Sprintf("Series processed: %d\n", summary.EntriesTotal))
	buf.WriteString(fmt.Sprintf("Created: %d, already present: %d, skipped: %d, failed: %d\n",
		summary.Created, summary.AlreadyPresent, summary.Skipped, summary.Failed))
	buf.WriteString(fmt.Sprintf("Files copied: %d\n\n", summary.FilesCopied))

	for i, entry := range summary.Entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, entry.Title, entry.State))
	}

	return buf.Bytes(), nil
}

// WriteRunReport renders a run result in the requested format and writes it to
// path. An empty path defaults to migration_report_{epoch}.{ext}; the chosen
// path is returned.
func WriteRunReport(result *tasks.RunResult, format, path string) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(result)
		ext = "csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(result)
		ext = "md"
	case "txt", "text":
		data, err = ExportToText(result)
		ext = "txt"
	case "json", "":
		data, err = ExportToJSON(result)
		ext = "json"
	default:
		return "", fmt.Errorf("%w: unsupported format '%s'", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if path == "" {
		path = fmt.Sprintf("migration_report_%d.%s", time.Now().Unix(), ext)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
