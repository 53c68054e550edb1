package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"tunedeck/internal/shared"
	"tunedeck/internal/ui"
)

// Play launches the interactive catalog browser and player.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tunedeck-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	// Best-effort warm-up so favorite and pick markers render on first
	// paint; failures surface as toasts once the user acts.
	if ownerKey, _, err := r.ids.CurrentOwnerKey(); err == nil {
		r.favorites.Refresh(ctx, ownerKey)
	}
	r.picks.Refresh(ctx)

	model := ui.NewModel(ctx, r.gw, r.engine, r.favorites, r.picks, r.sess, r.ids)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	r.engine.Stop()
	return nil
}
