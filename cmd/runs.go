package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"mylar2kapowarr/internal/repositories"
	"mylar2kapowarr/internal/shared"
)

// RunsList lists recorded migration runs, newest first.
func (r *Runner) RunsList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	status := cmd.String("status")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if limit > 0 {
		criteria["limit"] = limit
	}
	if status != "" {
		criteria["status"] = status
	}

	runs, err := repositories.NewRunRepository(db).List(criteria)
	if err != nil {
		return err
	}

	r.writePlainHeader("Migration Runs")
	for _, run := range runs {
		r.writePlain("#%d %s %s", run.Sequence(), run.StartedAt().Format("2006-01-02 15:04"), run.Status())
		if run.DryRun() {
			r.writePlain(" (dry run)")
		}
		r.writePlain("\n")
		r.writePlain("   series %d, created %d, present %d, skipped %d, failed %d, files %d\n",
			run.EntriesTotal(), run.Created(), run.AlreadyPresent(), run.Skipped(), run.Failed(), run.FilesCopied())
	}
	r.writePlain("\nTotal: %d\n", len(runs))
	return nil
}

// RunsPurge soft-deletes a run and removes its recorded entry snapshots.
func (r *Runner) RunsPurge(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	if id == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewRunRepository(db).Delete(id); err != nil {
		return err
	}

	purged, err := repositories.NewEntryRepository(db).Purge(id)
	if err != nil {
		return err
	}

	r.writePlain("Purged run %s (%d entries removed)\n", id, purged)
	return nil
}
