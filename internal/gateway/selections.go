package gateway

import (
	"context"
	"fmt"
	"net/http"

	"tunedeck/internal/models"
)

// ListSelections returns the landing-page picks for an owner (user id or
// device id, exactly one).
func (c *Client) ListSelections(ctx context.Context, owner Owner) ([]models.CollectionEntry, error) {
	if err := owner.validate(); err != nil {
		return nil, err
	}

	var payload any
	if err := c.doJSON(ctx, http.MethodGet, "/selections?"+owner.queryParam(), "", nil, &payload); err != nil {
		return nil, err
	}
	return NormalizeEntries(payload), nil
}

// AddSelection records a pick for the owner.
func (c *Client) AddSelection(ctx context.Context, owner Owner, musicID string) error {
	if err := owner.validate(); err != nil {
		return err
	}

	body := map[string]any{"musicId": musicID}
	owner.bodyField(body)
	if err := c.doJSON(ctx, http.MethodPost, "/selections", "", body, nil); err != nil {
		return fmt.Errorf("failed to add selection: %w", err)
	}
	return nil
}

// RemoveSelection deletes a pick for the owner.
func (c *Client) RemoveSelection(ctx context.Context, owner Owner, musicID string) error {
	if err := owner.validate(); err != nil {
		return err
	}

	body := map[string]any{"musicId": musicID}
	owner.bodyField(body)
	if err := c.doJSON(ctx, http.MethodDelete, "/selections", "", body, nil); err != nil {
		return fmt.Errorf("failed to remove selection: %w", err)
	}
	return nil
}

// MergeSelections reassigns every record owned by deviceID (selections,
// favorites, downloads) to userID. Called once, right after a successful
// login or registration while a device id exists.
func (c *Client) MergeSelections(ctx context.Context, userID, deviceID string) error {
	if userID == "" || deviceID == "" {
		return fmt.Errorf("merge requires both userId and deviceId")
	}

	body := map[string]any{"userId": userID, "deviceId": deviceID}
	if err := c.doJSON(ctx, http.MethodPost, "/selections/associate", "", body, nil); err != nil {
		return fmt.Errorf("failed to merge guest selections: %w", err)
	}
	return nil
}
