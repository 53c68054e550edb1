package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/formatter"
)

// CatalogList prints every track in the catalog.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	tracks, err := r.gw.ListCatalog(ctx, !cmd.Bool("fresh"))
	if err != nil {
		return err
	}

	if base := cmd.String("save"); base != "" {
		file, err := formatter.WriteTracksCSV(tracks, base)
		if err != nil {
			return err
		}
		r.logger.Info("catalog exported", "file", file)
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(tracks, true)
	case cmd.Bool("csv"):
		data, err := formatter.TracksToCSV(tracks)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	default:
		_, err = r.output.Write(formatter.TracksToText(tracks))
		return err
	}
}

// CatalogSections prints the trending / for-you / browse split of the catalog.
func (r *Runner) CatalogSections(ctx context.Context, cmd *cli.Command) error {
	sections, err := r.gw.CatalogSections(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sections, true)
	}

	r.writePlainln("Trending")
	r.output.Write(formatter.TracksToText(sections.Trending))
	r.writePlainln("For You")
	r.output.Write(formatter.TracksToText(sections.ForYou))
	r.writePlainln("Browse")
	r.output.Write(formatter.TracksToText(sections.Others))
	return nil
}

// CatalogRefresh drops cached snapshots so the next read hits the backend.
func (r *Runner) CatalogRefresh(ctx context.Context, cmd *cli.Command) error {
	r.gw.Cache().InvalidateAll()
	return r.writePlain("✓ Cache invalidated\n")
}
