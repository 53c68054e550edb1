package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/formatter"
	"tunedeck/internal/models"
	"tunedeck/internal/shared"
	"tunedeck/internal/tasks"
)

// FavList prints the favorites collection for the current owner.
func (r *Runner) FavList(ctx context.Context, cmd *cli.Command) error {
	ownerKey, _, err := r.ids.CurrentOwnerKey()
	if err != nil {
		return err
	}
	if err := r.favorites.Refresh(ctx, ownerKey); err != nil {
		return err
	}

	entries := r.favorites.Entries()
	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	_, err = r.output.Write(formatter.EntriesToText(entries))
	return err
}

// FavAdd adds a track to favorites.
func (r *Runner) FavAdd(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	ownerKey, _, err := r.ids.CurrentOwnerKey()
	if err != nil {
		return err
	}
	if err := r.favorites.Add(ctx, ownerKey, musicID); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s to favorites\n", musicID)
}

// FavRemove removes a track from favorites.
func (r *Runner) FavRemove(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	ownerKey, _, err := r.ids.CurrentOwnerKey()
	if err != nil {
		return err
	}
	if err := r.favorites.Remove(ctx, ownerKey, musicID); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s from favorites\n", musicID)
}

// DownloadsList prints the recorded downloads for the current owner.
func (r *Runner) DownloadsList(ctx context.Context, cmd *cli.Command) error {
	ownerKey, _, err := r.ids.CurrentOwnerKey()
	if err != nil {
		return err
	}
	if err := r.downloads.Refresh(ctx, ownerKey); err != nil {
		return err
	}

	entries := r.downloads.Entries()
	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	_, err = r.output.Write(formatter.EntriesToText(entries))
	return err
}

// DownloadsGet downloads one track's audio and records the download.
func (r *Runner) DownloadsGet(ctx context.Context, cmd *cli.Command) error {
	musicID := cmd.StringArg("id")
	if musicID == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	track, err := r.findTrack(ctx, musicID)
	if err != nil {
		return err
	}

	return r.runDownloads(ctx, []models.Track{track}, tasks.BulkDownloadOpts{
		OutputDir: cmd.String("output"),
	})
}

// DownloadsAll downloads the audio of every favorite concurrently.
func (r *Runner) DownloadsAll(ctx context.Context, cmd *cli.Command) error {
	ownerKey, _, err := r.ids.CurrentOwnerKey()
	if err != nil {
		return err
	}
	if err := r.favorites.Refresh(ctx, ownerKey); err != nil {
		return err
	}

	catalog, err := r.gw.ListCatalog(ctx, true)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Track, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	var tracks []models.Track
	for _, entry := range r.favorites.Entries() {
		if track, ok := byID[entry.MusicID]; ok {
			tracks = append(tracks, track)
		}
	}
	if len(tracks) == 0 {
		return r.writePlain("No favorites to download\n")
	}

	return r.runDownloads(ctx, tracks, tasks.BulkDownloadOpts{
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
}

// runDownloads executes a download batch, streaming progress to the output.
func (r *Runner) runDownloads(ctx context.Context, tracks []models.Track, opts tasks.BulkDownloadOpts) error {
	ownerKey, _, err := r.ids.CurrentOwnerKey()
	if err != nil {
		return err
	}
	opts.Token = r.sess.Token()

	downloader := tasks.NewDownloader(nil, r.downloads, r.logger)

	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
		close(done)
	}()

	result, err := downloader.Run(ctx, prog, ownerKey, tracks, opts)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("Downloaded %d/%d tracks to %s\n", result.Succeeded, result.TotalTracks, result.OutputDirectory)
	if result.Failed > 0 {
		r.writePlain("%d downloads failed\n", result.Failed)
	}
	return nil
}

// findTrack resolves a catalog track by id.
func (r *Runner) findTrack(ctx context.Context, musicID string) (models.Track, error) {
	catalog, err := r.gw.ListCatalog(ctx, true)
	if err != nil {
		return models.Track{}, err
	}
	for _, t := range catalog {
		if t.ID == musicID {
			return t, nil
		}
	}
	return models.Track{}, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, musicID)
}
