// Package collections implements client-local mirrors of server-owned
// per-owner collections (favorites, downloads).
//
// Mutations follow a write-after-confirm discipline: the local entry is only
// inserted or removed after the server accepts the mutation, so the mirror
// can lag behind the server but never diverge ahead of it. No rollback or
// conflict reconciliation is needed.
package collections

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"tunedeck/internal/gateway"
	"tunedeck/internal/models"
	"tunedeck/internal/shared"
)

type fetchFunc func(ctx context.Context, ownerKey string) ([]models.CollectionEntry, error)
type mutateFunc func(ctx context.Context, ownerKey, musicID string) error

// Mirror is the shared optimistic-mirror mechanic. Favorites and Downloads
// wrap it with their gateway endpoints.
type Mirror struct {
	name   string
	logger *log.Logger
	now    func() time.Time

	fetch  fetchFunc
	add    mutateFunc
	remove mutateFunc

	mu      sync.Mutex
	owner   string
	entries []models.CollectionEntry
	lastErr error
}

func newMirror(name string, fetch fetchFunc, add, remove mutateFunc, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Mirror{
		name:   name,
		logger: logger.With("collection", name),
		now:    time.Now,
		fetch:  fetch,
		add:    add,
		remove: remove,
	}
}

// Refresh replaces the mirror with the server's current set for ownerKey.
// A 404 is a legitimate empty collection (entries cleared, no error); any
// other failure preserves the prior entries and records the error.
func (m *Mirror) Refresh(ctx context.Context, ownerKey string) error {
	entries, err := m.fetch(ctx, ownerKey)
	if err != nil {
		if gateway.IsNotFound(err) {
			m.mu.Lock()
			m.owner = ownerKey
			m.entries = nil
			m.lastErr = nil
			m.mu.Unlock()
			return nil
		}

		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		m.logger.Warn("refresh failed, keeping prior entries", "err", err)
		return err
	}

	m.mu.Lock()
	m.owner = ownerKey
	m.entries = entries
	m.lastErr = nil
	m.mu.Unlock()
	return nil
}

// Add asks the server to record (ownerKey, musicID) and, only after the
// server confirms, inserts the local entry so the change is visible
// immediately without a re-fetch.
func (m *Mirror) Add(ctx context.Context, ownerKey, musicID string) error {
	if m.add == nil {
		return fmt.Errorf("%w: %s does not support add", shared.ErrNotImplemented, m.name)
	}
	if err := m.add(ctx, ownerKey, musicID); err != nil {
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		return err
	}

	m.confirm(models.CollectionEntry{OwnerKey: ownerKey, MusicID: musicID, CreatedAt: m.now()})
	return nil
}

// Remove asks the server to delete (ownerKey, musicID) and, only after the
// server confirms, drops the matching local entry. On failure the entry
// stays in place.
func (m *Mirror) Remove(ctx context.Context, ownerKey, musicID string) error {
	if m.remove == nil {
		return fmt.Errorf("%w: %s does not support remove", shared.ErrNotImplemented, m.name)
	}
	if err := m.remove(ctx, ownerKey, musicID); err != nil {
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.MusicID != musicID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	m.lastErr = nil
	m.mu.Unlock()
	return nil
}

// Contains reports membership, used by views to render filled/outline marks.
func (m *Mirror) Contains(musicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.MusicID == musicID {
			return true
		}
	}
	return false
}

// Entries returns a copy of the mirrored collection.
func (m *Mirror) Entries() []models.CollectionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.CollectionEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Err returns the last mutation or refresh error, nil once a later operation
// succeeds.
func (m *Mirror) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// confirm inserts or refreshes an entry after server confirmation,
// deduplicating on (owner, music).
func (m *Mirror) confirm(entry models.CollectionEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastErr = nil
	for i, e := range m.entries {
		if e.OwnerKey == entry.OwnerKey && e.MusicID == entry.MusicID {
			m.entries[i].CreatedAt = entry.CreatedAt
			return
		}
	}
	m.entries = append(m.entries, entry)
}
