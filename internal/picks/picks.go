// Package picks tracks the catalog items a visitor has curated for the
// "for you" view, scoped by device id while guest and by user id once
// authenticated, with a one-time merge carrying guest picks into a new
// account.
package picks

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"tunedeck/internal/gateway"
	"tunedeck/internal/identity"
	"tunedeck/internal/shared"
)

// Store is an optimistic membership cache over the selections collection.
type Store struct {
	gw     *gateway.Client
	ids    *identity.Provider
	logger *log.Logger

	mu       sync.Mutex
	selected map[string]struct{}
	lastErr  error
}

// New creates a picks store over the gateway and identity provider.
func New(gw *gateway.Client, ids *identity.Provider, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		gw:       gw,
		ids:      ids,
		logger:   logger,
		selected: map[string]struct{}{},
	}
}

// owner resolves the current scope: user id when authenticated, else the
// (possibly fresh) device id.
func (s *Store) owner() (gateway.Owner, error) {
	key, isUser, err := s.ids.CurrentOwnerKey()
	if err != nil {
		return gateway.Owner{}, err
	}
	if isUser {
		return gateway.UserOwner(key), nil
	}
	return gateway.DeviceOwner(key), nil
}

// Refresh replaces the membership cache with the server's set for the current
// owner. A 404 is a legitimate empty set; other failures keep prior state.
func (s *Store) Refresh(ctx context.Context) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}

	entries, err := s.gw.ListSelections(ctx, owner)
	if err != nil {
		if gateway.IsNotFound(err) {
			s.replace(nil)
			return nil
		}
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MusicID)
	}
	s.replace(ids)
	return nil
}

// Toggle flips membership for musicID, calling the gateway before mutating
// the local cache (write-after-confirm). Returns the resulting membership.
func (s *Store) Toggle(ctx context.Context, musicID string) (bool, error) {
	owner, err := s.owner()
	if err != nil {
		return false, err
	}

	if s.Contains(musicID) {
		if err := s.gw.RemoveSelection(ctx, owner, musicID); err != nil {
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
			return true, err
		}
		s.mu.Lock()
		delete(s.selected, musicID)
		s.lastErr = nil
		s.mu.Unlock()
		return false, nil
	}

	if err := s.gw.AddSelection(ctx, owner, musicID); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return false, err
	}
	s.mu.Lock()
	s.selected[musicID] = struct{}{}
	s.lastErr = nil
	s.mu.Unlock()
	return true, nil
}

// Contains reports pick membership.
func (s *Store) Contains(musicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[musicID]
	return ok
}

// IDs returns the picked music ids in stable order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Err returns the last operation error, nil once a later operation succeeds.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// MergeGuest reassigns every record owned by the persisted device id to
// userID, then retires the device id. With no device id present it is a
// no-op, not an error, and issues no network call. Implements
// session.GuestMerger; runs at most once per login because the device id is
// cleared on success.
func (s *Store) MergeGuest(ctx context.Context, userID string) (bool, error) {
	deviceID, ok := s.ids.DeviceID()
	if !ok {
		return false, nil
	}

	if err := s.gw.MergeSelections(ctx, userID, deviceID); err != nil {
		return false, err
	}

	if err := s.ids.ClearDeviceID(); err != nil {
		// The merge itself succeeded; a stale device id only costs a
		// redundant merge attempt on the next login.
		s.logger.Warn("failed to clear device id after merge", "err", err)
	}

	s.logger.Info("guest selections merged", "userId", userID, "deviceId", deviceID)
	return true, nil
}

func (s *Store) replace(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
	s.lastErr = nil
}
