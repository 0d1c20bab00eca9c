// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		migrateCommand, mylarCommand, kapowarrCommand, runsCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// migrateCommand handles the Mylar → Kapowarr migration run
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate the Mylar library into Kapowarr",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a full migration pass",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "root-folder-id",
						Usage: "Kapowarr root folder id for new volumes",
						Value: r.config.Kapowarr.RootFolderID,
					},
					&cli.StringFlag{
						Name:  "mylar-root",
						Usage: "Host path of Mylar's comics root",
						Value: r.config.Mylar.HostRoot,
					},
					&cli.StringFlag{
						Name:  "kapowarr-root",
						Usage: "Host path of Kapowarr's comics root",
						Value: r.config.Kapowarr.HostRoot,
					},
					&cli.BoolFlag{
						Name:  "copy-files",
						Usage: "Transfer issue files along with catalog entries",
						Value: r.config.Options.CopyFiles,
					},
					&cli.BoolFlag{
						Name:  "use-import",
						Usage: "Hand files to Kapowarr's library import instead of copying",
						Value: r.config.Options.UseImport,
					},
					&cli.BoolFlag{
						Name:  "rename-files",
						Usage: "Let the library import rename files on ingest",
						Value: r.config.Options.RenameFiles,
					},
					&cli.BoolFlag{
						Name:  "refresh-scan",
						Usage: "Queue a refresh and scan task per volume with new files",
						Value: r.config.Options.RefreshScan,
					},
					&cli.BoolFlag{
						Name:  "mass-rename",
						Usage: "Queue a mass rename task per volume with new files",
						Value: r.config.Options.MassRename,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Log file operations without performing them",
						Value: r.config.Options.DryRun,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Process only the first N series (0 = all)",
						Value: r.config.Options.Limit,
					},
					&cli.StringFlag{
						Name:  "resume-from",
						Usage: "Skip forward to this series title",
					},
					&cli.IntFlag{
						Name:  "delay",
						Usage: "Seconds to wait between series",
						Value: r.config.Options.DelaySeconds,
					},
					&cli.StringFlag{
						Name:  "save",
						Usage: "Write a run report to this path",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Run report format (json, csv, markdown, txt)",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Skip recording the run in the history database",
					},
				},
				Action: r.MigrateRun,
			},
		},
	}
}

// mylarCommand handles Mylar inspection operations
func mylarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mylar",
		Usage: "Inspect the Mylar library",
		Commands: []*cli.Command{
			{
				Name:  "test",
				Usage: "Probe the Mylar API connection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cmd",
						Usage: "Listing command to probe with",
						Value: "getIndex",
					},
				},
				Action: r.MylarTest,
			},
			{
				Name:  "entries",
				Usage: "List the series tracked by Mylar",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cmd",
						Usage: "Listing command (getIndex, getComics, getSeries)",
						Value: "getIndex",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: r.MylarEntries,
			},
			{
				Name:   "wanted",
				Usage:  "List issue ids Mylar is still hunting",
				Action: r.MylarWanted,
			},
			{
				Name:  "files",
				Usage: "List series that have issue files on disk",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Inspect only the first N series (0 = all)",
					},
				},
				Action: r.MylarFiles,
			},
		},
	}
}

// kapowarrCommand handles Kapowarr inspection operations
func kapowarrCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "kapowarr",
		Usage: "Inspect the Kapowarr library",
		Commands: []*cli.Command{
			{
				Name:   "auth",
				Usage:  "Verify the Kapowarr API key",
				Action: r.KapowarrAuth,
			},
			{
				Name:   "rootfolders",
				Usage:  "List Kapowarr root folders",
				Action: r.KapowarrRootFolders,
			},
			{
				Name:  "volumes",
				Usage: "List volumes in the Kapowarr library",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: r.KapowarrVolumes,
			},
			{
				Name:  "propose-import",
				Usage: "Preview Kapowarr's library import matches",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "folder-filter",
						Usage: "Restrict the proposal to this folder",
					},
				},
				Action: r.KapowarrProposeImport,
			},
		},
	}
}

// runsCommand handles migration run history
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect past migration runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded migration runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Show at most N runs (0 = all)",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by run status",
					},
				},
				Action: r.RunsList,
			},
			{
				Name:  "purge",
				Usage: "Delete a run and its recorded entry snapshots",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Run ID to purge",
					},
				},
				Action: r.RunsPurge,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive migration.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Log file operations without performing them",
				Value: r.config.Options.DryRun,
			},
		},
		Action: r.TUI,
	}
}
