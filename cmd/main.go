package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/collections"
	"tunedeck/internal/gateway"
	"tunedeck/internal/identity"
	"tunedeck/internal/picks"
	"tunedeck/internal/player"
	"tunedeck/internal/session"
	"tunedeck/internal/shared"
	"tunedeck/internal/storage"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	statePath, err := resolveStatePath(config.Storage.Path)
	if err != nil {
		logger.Fatalf("failed to prepare state path: %v", err)
	}

	db, err := shared.NewDatabase(statePath)
	if err != nil {
		logger.Fatalf("failed to open state database: %v", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		logger.Fatalf("failed to initialize state store: %v", err)
	}

	cache := gateway.NewSnapshotCache(nil)
	cache.SetTTL(gateway.CacheCatalog, config.API.CatalogTTL())
	cache.SetTTL(gateway.CacheUsers, config.API.UsersTTL())

	gw := gateway.New(config.API.BaseURL, nil, cache, logger)
	ids := identity.New(store, logger)
	picksStore := picks.New(gw, ids, logger)
	sess := session.NewManager(gw, store, picksStore, logger)
	favorites := collections.NewFavorites(gw, logger)
	downloads := collections.NewDownloads(gw, logger)

	handle := player.NewExecHandle(config.Player.Command, logger)
	engine := player.NewEngine(handle, logger)
	handle.OnEnded = engine.HandleEnded
	handle.OnError = engine.HandleError
	if config.Player.Volume > 0 {
		engine.SetVolume(config.Player.Volume)
	}

	sess.RestoreOnStartup()

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Gateway:   gw,
		Store:     store,
		Identity:  ids,
		Session:   sess,
		Favorites: favorites,
		Downloads: downloads,
		Picks:     picksStore,
		Engine:    engine,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "tunedeck",
		Usage:    "Browse, play and curate the shared music catalog",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// resolveStatePath expands a leading ~ and ensures the parent directory
// exists. An empty path falls back to ~/.tunedeck/state.db.
func resolveStatePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if path == "" {
		path = "~/.tunedeck/state.db"
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, nil
}
