package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"mylar2kapowarr/internal/formatter"
	"mylar2kapowarr/internal/repositories"
	"mylar2kapowarr/internal/shared"
	"mylar2kapowarr/internal/tasks"
)

// MigrateRun runs a full Mylar → Kapowarr migration pass.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	if r.config.Mylar.APIKey == "" {
		return fmt.Errorf("%w: mylar api key not configured", shared.ErrMissingCredentials)
	}
	if r.config.Kapowarr.APIKey == "" {
		return fmt.Errorf("%w: kapowarr api key not configured", shared.ErrMissingCredentials)
	}

	opts := r.runOpts()
	opts.RootFolderID = cmd.Int("root-folder-id")
	opts.SourceRoot = cmd.String("mylar-root")
	opts.TargetRoot = cmd.String("kapowarr-root")
	opts.CopyFiles = cmd.Bool("copy-files")
	opts.UseImport = cmd.Bool("use-import")
	opts.RenameFiles = cmd.Bool("rename-files")
	opts.RefreshScan = cmd.Bool("refresh-scan")
	opts.MassRename = cmd.Bool("mass-rename")
	opts.DryRun = cmd.Bool("dry-run")
	opts.Limit = cmd.Int("limit")
	opts.ResumeFrom = cmd.String("resume-from")
	opts.Delay = time.Duration(cmd.Int("delay")) * time.Second

	r.logger.Info("starting migration",
		"source", r.source.Name(),
		"target", r.target.Name(),
		"dry_run", opts.DryRun,
		"copy_files", opts.CopyFiles,
	)

	if !cmd.Bool("no-history") {
		db, err := r.openDatabase()
		if err != nil {
			r.logger.Warn("run history disabled", "error", err)
		} else {
			defer db.Close()
			r.engine.WithRecorder(repositories.NewHistoryRecorder(db))
		}
	}

	r.writePlain("Starting library migration...\n")
	if opts.DryRun {
		r.writePlain("Dry run: no files will be written\n")
	}
	r.writePlain("\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchEntries, tasks.FetchWanted, tasks.Resume:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ProcessEntry:
				if update.Total > 0 {
					r.writePlain("\n[%d/%d] %s\n", update.Step, update.Total, update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.CreateVolume, tasks.TransferFiles, tasks.PostProcess:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Run(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Migration Complete!")
	r.writePlain("Series: %d\n", result.EntriesTotal)
	r.writePlain("Created: %d\n", result.Created)
	r.writePlain("Already present: %d\n", result.AlreadyPresent)
	r.writePlain("Skipped: %d\n", result.Skipped)
	r.writePlain("Failed: %d\n", result.Failed)
	r.writePlain("Files copied: %d\n", result.FilesCopied)
	if result.WantedIssues > 0 {
		r.writePlain("Issues Mylar is still hunting: %d\n", result.WantedIssues)
	}

	if result.Failed > 0 {
		r.writePlain("\nFailed series:\n")
		for _, entry := range result.Entries {
			if entry.Err != nil {
				r.writePlain("  - %s: %v\n", entry.Entry.Title, entry.Err)
			}
		}
	}

	savePath := cmd.String("save")
	format := cmd.String("format")
	if savePath != "" || format != "" {
		path, err := formatter.WriteRunReport(result, format, savePath)
		if err != nil {
			return fmt.Errorf("failed to write run report: %w", err)
		}
		r.writePlain("\nRun report saved to: %s\n", path)
	}

	return nil
}
