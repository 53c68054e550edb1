package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/shared"
)

// PicksList prints the picked track ids for the current owner.
func (r *Runner) PicksList(ctx context.Context, cmd *cli.Command) error {
	if err := r.picks.Refresh(ctx); err != nil {
		return err
	}

	ids := r.picks.IDs()
	if cmd.Bool("json") {
		return r.writeJSON(ids, true)
	}

	if len(ids) == 0 {
		return r.writePlain("No picks yet\n")
	}
	for i, id := range ids {
		r.writePlain("%d. %s\n", i+1, id)
	}
	return nil
}

// PicksToggle flips pick membership for a track.
func (r *Runner) PicksToggle(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	if err := r.picks.Refresh(ctx); err != nil {
		return err
	}

	selected, err := r.picks.Toggle(ctx, musicID)
	if err != nil {
		return err
	}

	if selected {
		return r.writePlain("✓ Picked %s\n", musicID)
	}
	return r.writePlain("✓ Unpicked %s\n", musicID)
}
