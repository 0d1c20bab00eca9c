package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mylar2kapowarr/internal/matcher"
	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/paths"
	"mylar2kapowarr/internal/services"
	"mylar2kapowarr/internal/shared"
)

// FileTransfer moves issue files for one freshly created volume.
//
// The engine's control flow stays strategy-agnostic: direct copy and library
// import are interchangeable implementations picked once per run.
type FileTransfer interface {
	// Process moves the files for volume, matching its issues against the raw
	// Mylar issue list, and returns how many files were handled. Failures on
	// individual issues are reported as progress warnings, not errors.
	Process(ctx context.Context, progress chan<- ProgressUpdate, volume models.TargetVolume, issues []map[string]any) (int, error)
}

// sendUpdate sends a progress update without blocking; transfers share the
// engine's never-block policy.
func sendUpdate(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// DirectCopy places issue files under the volume's host folder itself, copying
// the Mylar-side file when it is reachable on the shared filesystem and
// falling back to a download through Mylar's API otherwise.
type DirectCopy struct {
	source     services.SourceGateway
	sourceRoot string
	targetRoot string
	dryRun     bool
}

// NewDirectCopy creates the direct-copy strategy.
func NewDirectCopy(source services.SourceGateway, sourceRoot, targetRoot string, dryRun bool) *DirectCopy {
	return &DirectCopy{source: source, sourceRoot: sourceRoot, targetRoot: targetRoot, dryRun: dryRun}
}

func (d *DirectCopy) Process(ctx context.Context, progress chan<- ProgressUpdate, volume models.TargetVolume, issues []map[string]any) (int, error) {
	if volume.Folder == "" {
		return 0, fmt.Errorf("%w: volume %d", shared.ErrMissingFolder, volume.ID)
	}

	destDir := paths.TargetToHost(volume.Folder, d.targetRoot)
	if !d.dryRun {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w", destDir, err)
		}
	}

	copied := 0
	for _, issue := range volume.Issues {
		src, ok := matcher.MatchIssue(issue.Number, issues)
		if !ok {
			sendUpdate(progress, issueSkippedUpdate(issue.Number))
			continue
		}

		if src.FilePath != "" {
			sourceHost := paths.SourceToHost(src.FilePath, d.sourceRoot)
			if _, err := os.Stat(sourceHost); err == nil {
				placed, err := placeFile(sourceHost, destDir, issue.Number, d.dryRun)
				if err != nil {
					sendUpdate(progress, fileWarningUpdate(fmt.Sprintf("✗ Issue #%s: %v", issue.Number, err)))
					continue
				}
				if placed {
					copied++
				}
				continue
			}
		}

		if src.ID == "" {
			sendUpdate(progress, fileWarningUpdate(fmt.Sprintf("✗ Issue #%s has no Mylar issue id", issue.Number)))
			continue
		}

		if d.dryRun {
			sendUpdate(progress, fileWarningUpdate(fmt.Sprintf("DRY RUN: Would download issue #%s", issue.Number)))
			copied++
			continue
		}

		if _, err := d.source.FetchIssueFile(ctx, src.ID, destDir); err != nil {
			if errors.Is(err, shared.ErrNoFileAvailable) {
				sendUpdate(progress, fileWarningUpdate(fmt.Sprintf("⚠ Issue #%s not yet released or downloaded", issue.Number)))
			} else {
				sendUpdate(progress, fileWarningUpdate(fmt.Sprintf("✗ Issue #%s download failed: %v", issue.Number, err)))
			}
			continue
		}
		copied++
	}

	return copied, nil
}

// LibraryImport hands files to Kapowarr's own library import endpoint instead
// of placing them by hand. Files stay where Mylar put them; Kapowarr matches
// each path to the issue id supplied here, with the volume id as the fallback
// when no issue number lines up.
type LibraryImport struct {
	target      services.TargetGateway
	sourceRoot  string
	targetRoot  string
	renameFiles bool
	dryRun      bool
}

// NewLibraryImport creates the library-import strategy.
func NewLibraryImport(target services.TargetGateway, sourceRoot, targetRoot string, renameFiles, dryRun bool) *LibraryImport {
	return &LibraryImport{target: target, sourceRoot: sourceRoot, targetRoot: targetRoot, renameFiles: renameFiles, dryRun: dryRun}
}

func (l *LibraryImport) Process(ctx context.Context, progress chan<- ProgressUpdate, volume models.TargetVolume, issues []map[string]any) (int, error) {
	var entries []models.ImportEntry

	for _, raw := range issues {
		src := matcher.NormalizeIssue(raw)
		if src.FilePath == "" {
			continue
		}

		sourceHost := paths.SourceToHost(src.FilePath, l.sourceRoot)
		if l.dryRun {
			sendUpdate(progress, fileWarningUpdate(fmt.Sprintf("DRY RUN: Would prepare file for import: %s", sourceHost)))
			entries = append(entries, models.ImportEntry{})
			continue
		}

		if _, err := os.Stat(sourceHost); err != nil {
			sendUpdate(progress, fileWarningUpdate(fmt.Sprintf("⚠ Source file does not exist: %s", sourceHost)))
			continue
		}

		entry := models.ImportEntry{
			Filepath: paths.HostToTargetContainer(sourceHost, l.sourceRoot, l.targetRoot),
			ID:       volume.ID,
		}
		for _, issue := range volume.Issues {
			if issue.Number == src.Number {
				entry.ID = issue.ID
				break
			}
		}

		entries = append(entries, entry)
	}

	if l.dryRun || len(entries) == 0 {
		return len(entries), nil
	}

	if err := l.target.ImportLibrary(ctx, entries, l.renameFiles); err != nil {
		return 0, err
	}

	return len(entries), nil
}

// issueTagPattern reports whether a filename already carries a #-tagged issue
// number, e.g. "Saga #001.cbz" or "Saga # 1.cbz".
func issueTagPattern(number string) *regexp.Regexp {
	return regexp.MustCompile(`#\s*` + regexp.QuoteMeta(number))
}

// destFileName derives the destination filename for a copied issue file.
// The issue number is appended as a zero-padded #NNN token before the
// extension unless the name already carries one.
func destFileName(base, number string) string {
	if number == "" || issueTagPattern(number).MatchString(base) {
		return base
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s #%s%s", stem, zeroPad(number, 3), ext)
}

// zeroPad left-pads s with zeros to at least width characters.
func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// placeFile copies a source file into destDir under the derived name.
//
// An existing destination file counts as already migrated and is not
// re-written, which keeps repeated runs idempotent at the file level.
func placeFile(sourceHost, destDir, number string, dryRun bool) (bool, error) {
	destPath := filepath.Join(destDir, destFileName(filepath.Base(sourceHost), number))

	if _, err := os.Stat(destPath); err == nil {
		return true, nil
	}

	if dryRun {
		return true, nil
	}

	in, err := os.Open(sourceHost)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", sourceHost, err)
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	_, err = io.Copy(out, in)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return false, fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	if err := os.Chmod(destPath, 0o644); err != nil {
		return false, fmt.Errorf("failed to set permissions on %s: %w", destPath, err)
	}

	return true, nil
}
