package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"tunedeck/internal/models"
)

// ListCatalog returns the catalog. With useCache, a snapshot younger than the
// catalog freshness window is returned as-is (the identical slice, no network
// call); otherwise the catalog is fetched, normalized, cached, and returned.
func (c *Client) ListCatalog(ctx context.Context, useCache bool) ([]models.Track, error) {
	if useCache {
		if data, ok := c.cache.Get(CacheCatalog); ok {
			c.logger.Debug("returning cached catalog snapshot")
			return data.([]models.Track), nil
		}
	}

	var raw []map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/musics", "", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	tracks := NormalizeTracks(raw)
	if useCache {
		c.cache.Set(CacheCatalog, tracks)
	}
	return tracks, nil
}

// Sections is the landing-page split of the catalog: the first six tracks are
// trending, the next six personalized, the rest everything else.
type Sections struct {
	Trending []models.Track
	ForYou   []models.Track
	Others   []models.Track
}

// CatalogSections fetches the catalog once (through the cache) and distributes
// it into landing-page sections.
func (c *Client) CatalogSections(ctx context.Context) (*Sections, error) {
	tracks, err := c.ListCatalog(ctx, true)
	if err != nil {
		return nil, err
	}

	total := len(tracks)
	sections := &Sections{
		Trending: tracks[:min(6, total)],
	}
	if total > 6 {
		sections.ForYou = tracks[6:min(12, total)]
	}
	if total > 12 {
		sections.Others = tracks[12:]
	}
	return sections, nil
}

// TrackUpload describes a new catalog entry. Music and thumbnail are paths to
// local files sent as multipart form files.
type TrackUpload struct {
	Title         string
	Artist        string
	Genre         string
	Duration      string
	MusicPath     string
	ThumbnailPath string
}

// CreateTrack uploads a new track (admin). Invalidates the catalog snapshot on
// success so the next read is fresh.
func (c *Client) CreateTrack(ctx context.Context, token string, up TrackUpload) (models.Track, error) {
	body, contentType, err := encodeUpload(up)
	if err != nil {
		return models.Track{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/musics", body)
	if err != nil {
		return models.Track{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	var raw map[string]any
	if err := c.send(req, &raw); err != nil {
		return models.Track{}, fmt.Errorf("failed to create track: %w", err)
	}

	c.cache.Invalidate(CacheCatalog)
	return NormalizeTrack(raw), nil
}

// UpdateTrack applies a partial update to a track (admin) and invalidates the
// catalog snapshot.
func (c *Client) UpdateTrack(ctx context.Context, token, id string, fields map[string]any) (models.Track, error) {
	var raw map[string]any
	if err := c.doJSON(ctx, http.MethodPut, "/musics/"+id, token, fields, &raw); err != nil {
		return models.Track{}, fmt.Errorf("failed to update track: %w", err)
	}

	c.cache.Invalidate(CacheCatalog)
	return NormalizeTrack(raw), nil
}

// DeleteTrack removes a track (admin) and invalidates the catalog snapshot.
func (c *Client) DeleteTrack(ctx context.Context, token, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/musics/"+id, token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	c.cache.Invalidate(CacheCatalog)
	return nil
}

// encodeUpload builds the multipart body for a track upload.
func encodeUpload(up TrackUpload) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for field, path := range map[string]string{
		"musicFile":     up.MusicPath,
		"thumbnailFile": up.ThumbnailPath,
	} {
		if path == "" {
			continue
		}
		if err := attachFile(writer, field, path); err != nil {
			return nil, "", err
		}
	}

	for field, value := range map[string]string{
		"title":    up.Title,
		"artist":   up.Artist,
		"genre":    up.Genre,
		"duration": up.Duration,
	} {
		if err := writer.WriteField(field, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize upload body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func attachFile(writer *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", field, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file %q: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", field, err)
	}
	return nil
}
