package main

import (
	"context"
	"sort"

	"github.com/urfave/cli/v3"
	"mylar2kapowarr/internal/matcher"
	"mylar2kapowarr/internal/models"
)

// MylarTest probes the Mylar API connection with a listing command.
func (r *Runner) MylarTest(ctx context.Context, cmd *cli.Command) error {
	listCmd := cmd.String("cmd")

	r.logger.Info("probing mylar", "cmd", listCmd)

	raw, err := r.source.ListEntries(ctx, listCmd)
	if err != nil {
		return err
	}

	r.writePlain("✓ Mylar responded to %s\n", listCmd)
	r.writePlain("Series tracked: %d\n", len(raw))
	return nil
}

// MylarEntries lists the series tracked by Mylar.
func (r *Runner) MylarEntries(ctx context.Context, cmd *cli.Command) error {
	listCmd := cmd.String("cmd")
	useJSON := cmd.Bool("json")

	raw, err := r.source.ListEntries(ctx, listCmd)
	if err != nil {
		return err
	}

	entries := make([]models.SourceEntry, len(raw))
	for i, item := range raw {
		entries[i] = matcher.Normalize(item)
	}

	if useJSON {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader("Mylar Series")
	for i, entry := range entries {
		r.writePlain("%d. %s", i+1, entry.Title)
		if entry.ExternalID != "" {
			r.writePlain(" [%s]", entry.ExternalID)
		}
		if entry.Status != "" {
			r.writePlain(" (%s)", entry.Status)
		}
		r.writePlain("\n")
	}
	r.writePlain("\nTotal: %d\n", len(entries))
	return nil
}

// MylarWanted lists the issue ids Mylar is still hunting.
func (r *Runner) MylarWanted(ctx context.Context, cmd *cli.Command) error {
	wanted, err := r.source.WantedIssueIDs(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r.writePlainHeader("Wanted Issues")
	for _, id := range ids {
		r.writePlain("%s\n", id)
	}
	r.writePlain("\nTotal: %d\n", len(ids))
	return nil
}

// MylarFiles lists series that have issue files on disk.
func (r *Runner) MylarFiles(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	raw, err := r.source.ListEntries(ctx, "")
	if err != nil {
		return err
	}
	if limit > 0 && limit < len(raw) {
		raw = raw[:limit]
	}

	r.writePlainHeader("Series With Files")

	total := 0
	withFiles := 0
	for _, item := range raw {
		entry := matcher.Normalize(item)
		id := entry.SourceID
		if id == "" {
			id = entry.ExternalID
		}
		if id == "" {
			continue
		}

		issues, err := r.source.Issues(ctx, id)
		if err != nil {
			r.logger.Warn("failed to fetch issues", "series", entry.Title, "error", err)
			continue
		}

		count := 0
		for _, rawIssue := range issues {
			if matcher.NormalizeIssue(rawIssue).FilePath != "" {
				count++
			}
		}

		if count > 0 {
			withFiles++
			total += count
			r.writePlain("%s: %d files\n", entry.Title, count)
		}
	}

	r.writePlain("\n%d series with %d files\n", withFiles, total)
	return nil
}
