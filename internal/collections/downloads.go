package collections

import (
	"context"

	"github.com/charmbracelet/log"

	"tunedeck/internal/gateway"
	"tunedeck/internal/models"
)

// Downloads mirrors the server's download history for one owner. Downloads
// are append-only: recording the same track again refreshes its timestamp
// instead of duplicating the entry.
type Downloads struct {
	*Mirror
}

// NewDownloads wires a downloads mirror to the gateway. The collection has no
// remove operation.
func NewDownloads(gw *gateway.Client, logger *log.Logger) *Downloads {
	return &Downloads{
		Mirror: newMirror("downloads", gw.ListDownloads, gw.RecordDownload, nil, logger),
	}
}

// Record registers a download with the server and mirrors it locally with the
// track's metadata, deduplicating on (owner, music).
func (d *Downloads) Record(ctx context.Context, ownerKey string, track models.Track) error {
	if err := d.add(ctx, ownerKey, track.ID); err != nil {
		d.mu.Lock()
		d.lastErr = err
		d.mu.Unlock()
		return err
	}

	d.confirm(models.CollectionEntry{
		OwnerKey:  ownerKey,
		MusicID:   track.ID,
		Title:     track.Title,
		Artist:    track.Artist,
		Genre:     track.Genre,
		CreatedAt: d.now(),
	})
	return nil
}
