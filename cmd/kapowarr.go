package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// KapowarrAuth verifies the configured Kapowarr API key.
func (r *Runner) KapowarrAuth(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking kapowarr auth", "target", r.target.Name())

	if err := r.target.CheckAuth(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Kapowarr API key accepted\n")
	return nil
}

// KapowarrRootFolders lists the root folders configured in Kapowarr.
func (r *Runner) KapowarrRootFolders(ctx context.Context, cmd *cli.Command) error {
	folders, err := r.target.RootFolders(ctx)
	if err != nil {
		return err
	}

	r.writePlainHeader("Kapowarr Root Folders")
	for _, folder := range folders {
		r.writePlain("%d. %s\n", folder.ID, folder.Folder)
	}
	r.writePlain("\nTotal: %d\n", len(folders))
	return nil
}

// KapowarrVolumes lists the volumes in the Kapowarr library.
func (r *Runner) KapowarrVolumes(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	volumes, err := r.target.ListVolumes(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(volumes, true)
	}

	r.writePlainHeader("Kapowarr Volumes")
	for _, volume := range volumes {
		r.writePlain("%d. %s", volume.ID, volume.Title)
		if volume.ExternalID != "" {
			r.writePlain(" [%s]", volume.ExternalID)
		}
		r.writePlain("\n")
	}
	r.writePlain("\nTotal: %d\n", len(volumes))
	return nil
}

// KapowarrProposeImport previews Kapowarr's library import matches.
func (r *Runner) KapowarrProposeImport(ctx context.Context, cmd *cli.Command) error {
	folderFilter := cmd.String("folder-filter")

	proposals, err := r.target.ProposeImport(ctx, folderFilter)
	if err != nil {
		return err
	}

	r.writePlainHeader("Library Import Proposal")
	for _, proposal := range proposals {
		r.writePlain("%s → volume %d\n", proposal.Filepath, proposal.ID)
	}
	r.writePlain("\nTotal: %d\n", len(proposals))
	return nil
}
