package gateway

import (
	"context"
	"fmt"
	"net/http"

	"tunedeck/internal/models"
)

// ListFavorites returns the favorites collection for a user. A 404 surfaces
// as [*ServerError]; callers decide whether that means "empty".
func (c *Client) ListFavorites(ctx context.Context, userID string) ([]models.CollectionEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	var payload any
	if err := c.doJSON(ctx, http.MethodGet, "/favorites/users/"+userID, "", nil, &payload); err != nil {
		return nil, err
	}
	return NormalizeEntries(payload), nil
}

// AddFavorite records (userID, musicID) in the favorites collection.
func (c *Client) AddFavorite(ctx context.Context, userID, musicID string) error {
	body := map[string]any{"userId": userID, "musicId": musicID}
	if err := c.doJSON(ctx, http.MethodPost, "/favorites", "", body, nil); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes (userID, musicID) from the favorites collection.
func (c *Client) RemoveFavorite(ctx context.Context, userID, musicID string) error {
	body := map[string]any{"userId": userID, "musicId": musicID}
	if err := c.doJSON(ctx, http.MethodDelete, "/favorites", "", body, nil); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
