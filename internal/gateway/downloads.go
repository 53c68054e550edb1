package gateway

import (
	"context"
	"fmt"
	"net/http"

	"tunedeck/internal/models"
)

// ListDownloads returns the downloads collection for a user. A 404 surfaces
// as [*ServerError]; the downloads store treats it as a legitimate empty set.
func (c *Client) ListDownloads(ctx context.Context, userID string) ([]models.CollectionEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	var payload any
	if err := c.doJSON(ctx, http.MethodGet, "/downloads/users/"+userID, "", nil, &payload); err != nil {
		return nil, err
	}
	return NormalizeEntries(payload), nil
}

// RecordDownload registers that userID downloaded musicID.
func (c *Client) RecordDownload(ctx context.Context, userID, musicID string) error {
	body := map[string]any{"userId": userID, "musicId": musicID}
	if err := c.doJSON(ctx, http.MethodPost, "/downloads", "", body, nil); err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}
