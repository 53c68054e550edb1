package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tunedeck/internal/shared"
)

// AuthResult is the normalized outcome of a login or registration call. The
// backend has shipped the identifier and token under several names
// (id/_id/userId, token/accessToken, sometimes nested under user); every
// observed fallback is resolved here.
type AuthResult struct {
	UserID   string
	Name     string
	Token    string
	UserType string

	// Payload is the raw decoded response for callers that need
	// fields the normalization does not cover.
	Payload map[string]any
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]any{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	return c.authCall(ctx, "/auth/login", body)
}

// Register creates a new account. The backend expects the legacy FullName
// field casing.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	body := map[string]any{
		"FullName": fullName,
		"email":    email,
		"password": password,
	}
	return c.authCall(ctx, "/auth/register", body)
}

func (c *Client) authCall(ctx context.Context, path string, body map[string]any) (*AuthResult, error) {
	var payload map[string]any
	if err := c.doJSON(ctx, http.MethodPost, path, "", body, &payload); err != nil {
		var se *ServerError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, se.Message)
		}
		return nil, err
	}

	result := &AuthResult{
		UserID:   firstNonEmpty(stringField(payload, "id", "_id", "userId"), nestedField(payload, "user", "id", "_id", "userId")),
		Name:     firstNonEmpty(stringField(payload, "name", "FullName", "fullName"), nestedField(payload, "user", "name", "FullName", "fullName")),
		Token:    firstNonEmpty(stringField(payload, "token", "accessToken"), nestedField(payload, "user", "token", "accessToken")),
		UserType: firstNonEmpty(stringField(payload, "userType", "type", "role"), nestedField(payload, "user", "userType", "type", "role")),
		Payload:  payload,
	}

	if result.UserID == "" {
		return nil, fmt.Errorf("%w: no user id in response", shared.ErrAuthFailed)
	}
	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
