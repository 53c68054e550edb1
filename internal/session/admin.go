package session

import (
	"context"
	"encoding/json"
	"fmt"

	"tunedeck/internal/models"
	"tunedeck/internal/shared"
	"tunedeck/internal/storage"
)

// AdminLogin authenticates against the same endpoint as Login but requires
// the account to carry the Admin user type, and persists the session under a
// separate namespace so an admin session never shadows a listener session.
// No guest merge runs for admin logins.
func (m *Manager) AdminLogin(ctx context.Context, email, password string) (models.Session, error) {
	result, err := m.gw.Login(ctx, email, password)
	if err != nil {
		m.toasts.Push(SeverityError, loginFailureMessage(err))
		return models.Session{}, err
	}

	if result.UserType != "Admin" {
		err := fmt.Errorf("%w: account %q is not an admin", shared.ErrNotAdmin, email)
		m.toasts.Push(SeverityError, "This account does not have admin access")
		return models.Session{}, err
	}

	sess := models.Session{
		UserID: result.UserID,
		Name:   result.Name,
		Email:  email,
		Token:  result.Token,
	}

	encoded, err := json.Marshal(sess)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to encode admin session: %w", err)
	}
	if err := m.store.Set(storage.KeyAdminUser, string(encoded)); err != nil {
		return models.Session{}, err
	}
	if err := m.store.Set(storage.KeyAdminToken, sess.Token); err != nil {
		return models.Session{}, err
	}

	m.toasts.Push(SeveritySuccess, "Admin login successful!")
	return sess, nil
}

// AdminToken returns the persisted admin token, empty when no admin session
// exists.
func (m *Manager) AdminToken() string {
	token, ok, err := m.store.Get(storage.KeyAdminToken)
	if err != nil || !ok {
		return ""
	}
	return token
}

// AdminLogout clears the persisted admin session.
func (m *Manager) AdminLogout() {
	m.store.Delete(storage.KeyAdminUser)
	m.store.Delete(storage.KeyAdminToken)
	m.toasts.Push(SeverityInfo, "Admin logged out")
}
