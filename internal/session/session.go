// Package session owns the authentication lifecycle and is the single source
// of truth for the current actor.
//
// The [Manager] moves through Unknown → Guest → Authenticated → Guest. Login
// and registration persist the session, trigger the best-effort guest merge,
// and emit toasts; startup restore trusts a persisted token optimistically
// (invalid tokens are only discovered when an authenticated call fails).
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"tunedeck/internal/gateway"
	"tunedeck/internal/models"
	"tunedeck/internal/shared"
	"tunedeck/internal/storage"
)

// State is the authentication lifecycle state.
type State int

const (
	StateUnknown State = iota
	StateGuest
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// GuestMerger reassigns guest-scoped records to a freshly authenticated user.
// Implemented by the picks store; merge failures never fail the login flow.
// The bool result reports whether a merge actually ran (false when no device
// id existed, which is a no-op rather than an error).
type GuestMerger interface {
	MergeGuest(ctx context.Context, userID string) (bool, error)
}

// Manager orchestrates login, registration, logout, and startup restore.
type Manager struct {
	mu      sync.Mutex
	gw      *gateway.Client
	store   storage.Store
	merger  GuestMerger
	logger  *log.Logger
	toasts  *ToastQueue
	state   State
	session models.Session
}

// NewManager creates a session manager. The merger may be nil (no guest
// migration is attempted).
func NewManager(gw *gateway.Client, store storage.Store, merger GuestMerger, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		gw:     gw,
		store:  store,
		merger: merger,
		logger: logger,
		toasts: NewToastQueue(nil),
		state:  StateUnknown,
	}
}

// Toasts exposes the notification queue.
func (m *Manager) Toasts() *ToastQueue { return m.toasts }

// Current returns the session and lifecycle state.
func (m *Manager) Current() (models.Session, State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.state
}

// Token returns the current auth token, empty for guests.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token
}

// RestoreOnStartup reads the persisted session. A present token is trusted
// optimistically: no validation round trip is made, and an expired token will
// only surface when a later authenticated call fails.
func (m *Manager) RestoreOnStartup() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok, err := m.store.Get(storage.KeyToken)
	if err != nil || !ok || token == "" {
		m.state = StateGuest
		return m.state
	}

	raw, ok, err := m.store.Get(storage.KeyUser)
	if err != nil || !ok {
		m.state = StateGuest
		return m.state
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.UserID == "" {
		m.logger.Warn("persisted session is malformed, starting as guest", "err", err)
		m.state = StateGuest
		return m.state
	}

	sess.Token = token
	m.session = sess
	m.state = StateAuthenticated
	m.logger.Debug("restored session", "userId", sess.UserID)
	return m.state
}

// Login authenticates and transitions to Authenticated. On success the guest
// merge step runs best-effort; on failure the prior state is kept and an
// error toast is emitted.
func (m *Manager) Login(ctx context.Context, email, password string) (models.Session, error) {
	result, err := m.gw.Login(ctx, email, password)
	if err != nil {
		m.toasts.Push(SeverityError, loginFailureMessage(err))
		return models.Session{}, err
	}

	sess, err := m.establish(ctx, result, email, "")
	if err != nil {
		return models.Session{}, err
	}

	m.toasts.Push(SeveritySuccess, "Login successful!")
	return sess, nil
}

// Register creates an account and transitions to Authenticated, running the
// same guest merge step as login.
func (m *Manager) Register(ctx context.Context, fullName, email, password string) (models.Session, error) {
	result, err := m.gw.Register(ctx, fullName, email, password)
	if err != nil {
		m.toasts.Push(SeverityError, loginFailureMessage(err))
		return models.Session{}, err
	}

	sess, err := m.establish(ctx, result, email, fullName)
	if err != nil {
		return models.Session{}, err
	}

	m.toasts.Push(SeveritySuccess, "Registration successful!")
	return sess, nil
}

// Logout clears the persisted session and transitions to Guest. The device id
// is left alone; a fresh one is created on demand.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.store.Delete(storage.KeyUser)
	m.store.Delete(storage.KeyToken)
	m.session = models.Session{}
	m.state = StateGuest
	m.mu.Unlock()

	m.toasts.Push(SeverityInfo, "Logged out successfully")
}

// establish persists the session, runs the best-effort guest merge, and
// flips the state.
func (m *Manager) establish(ctx context.Context, result *gateway.AuthResult, email, fallbackName string) (models.Session, error) {
	name := result.Name
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = "User"
	}

	sess := models.Session{
		UserID: result.UserID,
		Name:   name,
		Email:  email,
		Token:  result.Token,
	}

	encoded, err := json.Marshal(sess)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Set(storage.KeyUser, string(encoded)); err != nil {
		return models.Session{}, err
	}
	if err := m.store.Set(storage.KeyToken, sess.Token); err != nil {
		return models.Session{}, err
	}

	// Merge is best-effort: a failure is logged and toasted but never fails
	// the login/registration flow.
	if m.merger != nil {
		merged, err := m.merger.MergeGuest(ctx, sess.UserID)
		switch {
		case err != nil:
			m.logger.Warn("guest merge failed", "err", err)
		case merged:
			m.toasts.Push(SeveritySuccess, "Your previous selections have been linked to your account!")
		}
	}

	m.mu.Lock()
	m.session = sess
	m.state = StateAuthenticated
	m.mu.Unlock()

	return sess, nil
}

func loginFailureMessage(err error) string {
	if err == nil {
		return "Authentication failed"
	}
	return err.Error()
}
