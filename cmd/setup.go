package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/shared"
)

// Setup creates the config file from the embedded template and provisions the
// local state store with a guest device id.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	// Round-trip a throwaway key so storage failures surface here rather
	// than on first real use.
	if err := r.store.Set("setup_check", "ok"); err != nil {
		return fmt.Errorf("state store is not writable: %w", err)
	}
	if err := r.store.Delete("setup_check"); err != nil {
		return fmt.Errorf("state store is not writable: %w", err)
	}

	deviceID, err := r.ids.GetOrCreateDeviceID()
	if err != nil {
		return fmt.Errorf("failed to provision device id: %w", err)
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Backend: %s\n", r.gw.BaseURL())
	r.writePlain("Device id: %s\n", deviceID)
	return nil
}
