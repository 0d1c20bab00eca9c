package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"mylar2kapowarr/internal/shared"
	"mylar2kapowarr/internal/ui"
)

// TUI launches the interactive terminal UI for library migration.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil || r.target == nil {
		return fmt.Errorf("%w: gateways not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mylar2kapowarr-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	opts := r.runOpts()
	opts.DryRun = cmd.Bool("dry-run")

	model := ui.NewModel(ctx, r.source, r.engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
