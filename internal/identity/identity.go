// Package identity is the single authority for "who is acting now".
//
// Guests get a lazily generated device id persisted in local state; once a
// session exists, the authenticated user id always wins. Every call site asks
// this package instead of reading storage keys directly, so the scoping rules
// cannot drift between features.
package identity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"tunedeck/internal/shared"
	"tunedeck/internal/storage"
)

// Provider resolves the current actor and owns the guest device id lifecycle.
type Provider struct {
	store  storage.Store
	logger *log.Logger
	now    func() time.Time
}

// New creates a Provider over the given state store.
func New(store storage.Store, logger *log.Logger) *Provider {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Provider{store: store, logger: logger, now: time.Now}
}

// GetOrCreateDeviceID returns the persisted device id, generating and
// persisting one first if absent. The id is persisted before it is returned
// so two calls never observe different ids.
func (p *Provider) GetOrCreateDeviceID() (string, error) {
	id, ok, err := p.store.Get(storage.KeyDeviceID)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id = generateDeviceID(p.now())
	if err := p.store.Set(storage.KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	p.logger.Debug("generated guest device id", "deviceId", id)
	return id, nil
}

// DeviceID returns the persisted device id without creating one.
func (p *Provider) DeviceID() (string, bool) {
	id, ok, err := p.store.Get(storage.KeyDeviceID)
	if err != nil || id == "" {
		return "", false
	}
	return id, ok
}

// ClearDeviceID removes the persisted device id. Called exactly once, right
// after a successful guest-to-account merge.
func (p *Provider) ClearDeviceID() error {
	return p.store.Delete(storage.KeyDeviceID)
}

// CurrentUserID returns the persisted session's user id, or empty for guests.
// Malformed or missing stored session data yields empty rather than an error;
// when both a user id and a device id are present the user id wins.
func (p *Provider) CurrentUserID() string {
	raw, ok, err := p.store.Get(storage.KeyUser)
	if err != nil || !ok {
		return ""
	}

	var user map[string]any
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		p.logger.Warn("stored session is malformed, treating as guest", "err", err)
		return ""
	}

	for _, key := range []string{"id", "userId", "_id"} {
		if id, ok := user[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// IsGuest reports whether no authenticated session is present.
func (p *Provider) IsGuest() bool {
	return p.CurrentUserID() == ""
}

// CurrentOwnerKey returns the scoping identifier for new writes: the session
// user id when authenticated, else the (possibly fresh) device id.
func (p *Provider) CurrentOwnerKey() (key string, isUser bool, err error) {
	if id := p.CurrentUserID(); id != "" {
		return id, true, nil
	}
	id, err := p.GetOrCreateDeviceID()
	return id, false, err
}

// generateDeviceID builds a device id unique with overwhelming probability:
// a base-36 timestamp plus a random suffix. Cryptographic strength is not
// required, only collision avoidance across installs.
func generateDeviceID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := strings.ReplaceAll(shared.GenerateID(), "-", "")[:12]
	return fmt.Sprintf("device_%s_%s", ts, suffix)
}
