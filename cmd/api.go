package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/shared"
)

// APIGet performs a direct GET against the backend and prints the raw JSON.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	raw, err := r.gw.GetRaw(ctx, path, r.sess.Token())
	if err != nil {
		return err
	}

	if cmd.Bool("pretty") {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return r.writeJSON(decoded, true)
		}
	}

	if _, err := r.output.Write(raw); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	_, err = r.output.Write([]byte("\n"))
	return err
}

// APIHealth checks backend connectivity.
func (r *Runner) APIHealth(ctx context.Context, cmd *cli.Command) error {
	if err := r.gw.Health(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Backend is reachable at %s\n", r.gw.BaseURL())
}
