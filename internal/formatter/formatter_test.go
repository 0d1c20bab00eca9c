package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/tasks"
)

func sampleResult() *tasks.RunResult {
	return &tasks.RunResult{
		EntriesTotal:   3,
		Created:        1,
		AlreadyPresent: 1,
		Skipped:        0,
		Failed:         1,
		FilesCopied:    2,
		Entries: []tasks.EntryResult{
			{
				Entry:       models.SourceEntry{Title: "Saga", ExternalID: "56001"},
				State:       tasks.StateFilesProcessed,
				VolumeID:    10,
				FilesCopied: 2,
			},
			{
				Entry: models.SourceEntry{Title: "Monstress", ExternalID: "77412"},
				State: tasks.StateAlreadyPresent,
			},
			{
				Entry: models.SourceEntry{Title: "Paper Girls", ExternalID: "84321"},
				State: tasks.StateFailed,
				Err:   errors.New("boom"),
			},
		},
	}
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(sampleResult())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var summary map[string]any
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}

	if summary["entries_total"] != float64(3) {
		t.Errorf("expected entries_total 3, got %v", summary["entries_total"])
	}

	entries, ok := summary["entries"].([]any)
	if !ok || len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %v", summary["entries"])
	}

	failed := entries[2].(map[string]any)
	if failed["state"] != "failed" || failed["error"] != "boom" {
		t.Errorf("unexpected failed entry: %v", failed)
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleResult())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("expected valid CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(records))
	}
	if records[0][0] != "Title" {
		t.Errorf("expected Title header, got %s", records[0][0])
	}
	if records[1][0] != "Saga" || records[1][2] != "files_processed" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[3][5] != "boom" {
		t.Errorf("expected error in last row, got %v", records[3])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleResult())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	for _, want := range []string{"# Migration Report", "**Created**: 1", "Saga", "(2 files)", "boom"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
	if strings.Contains(text, "Dry run") {
		t.Error("expected no dry run banner")
	}

	t.Run("dry run banner", func(t *testing.T) {
		result := sampleResult()
		result.DryRun = true
		data, err := ExportToMarkdown(result)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "Dry run") {
			t.Error("expected dry run banner")
		}
	})
}

func TestWriteRunReport(t *testing.T) {
	t.Run("writes the requested format", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "report.csv")

		written, err := WriteRunReport(sampleResult(), "csv", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.HasPrefix(string(data), "Title,") {
			t.Errorf("expected CSV content, got %q", string(data)[:20])
		}
	})

	t.Run("defaults to JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report")
		if _, err := WriteRunReport(sampleResult(), "", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var summary map[string]any
		if err := json.Unmarshal(data, &summary); err != nil {
			t.Errorf("expected JSON content: %v", err)
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		if _, err := WriteRunReport(sampleResult(), "xml", ""); err == nil {
			t.Fatal("expected an error for an unknown format")
		}
	})
}
