package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ponyseeo/internal/shared"
	"github.com/desertthunder/ponyseeo/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal gallery.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.media == nil {
		return fmt.Errorf("%w: media service not initialized", shared.ErrServiceUnavailable)
	}

	ts, err := r.tokenSource(ctx)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ponyseeo-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.media, ts).WithOpener(r.open)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
