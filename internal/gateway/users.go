package gateway

import (
	"context"
	"fmt"
	"net/http"

	"tunedeck/internal/models"
)

// ListUsers returns every account (admin). With useCache, a snapshot younger
// than the users freshness window is returned without a network call.
func (c *Client) ListUsers(ctx context.Context, token string, useCache bool) ([]models.User, error) {
	if useCache {
		if data, ok := c.cache.Get(CacheUsers); ok {
			c.logger.Debug("returning cached users snapshot")
			return data.([]models.User), nil
		}
	}

	var raw []map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/users", token, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	users := make([]models.User, 0, len(raw))
	for _, item := range raw {
		users = append(users, NormalizeUser(item))
	}

	if useCache {
		c.cache.Set(CacheUsers, users)
	}
	return users, nil
}

// UpdateUser applies a partial update to an account (admin) and invalidates
// the users snapshot.
func (c *Client) UpdateUser(ctx context.Context, token, id string, fields map[string]any) (models.User, error) {
	var raw map[string]any
	if err := c.doJSON(ctx, http.MethodPut, "/users/"+id, token, fields, &raw); err != nil {
		return models.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	c.cache.Invalidate(CacheUsers)
	return NormalizeUser(raw), nil
}

// DeleteUser removes an account (admin) and invalidates the users snapshot.
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/users/"+id, token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	c.cache.Invalidate(CacheUsers)
	return nil
}
