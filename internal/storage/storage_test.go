package storage

import (
	"testing"

	"tunedeck/internal/shared"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestSQLiteStore(t *testing.T) {
	t.Run("GetMissingKey", func(t *testing.T) {
		store := newTestStore(t)

		value, ok, err := store.Get(KeyToken)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if ok || value != "" {
			t.Errorf("missing key should report absent, got %q ok=%v", value, ok)
		}
	})

	t.Run("SetAndGet", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Set(KeyToken, "tok-123"); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		value, ok, err := store.Get(KeyToken)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok || value != "tok-123" {
			t.Errorf("got %q ok=%v, want tok-123", value, ok)
		}
	})

	t.Run("SetReplacesPriorValue", func(t *testing.T) {
		store := newTestStore(t)

		store.Set(KeyUser, `{"id":"u1"}`)
		if err := store.Set(KeyUser, `{"id":"u2"}`); err != nil {
			t.Fatalf("second set failed: %v", err)
		}
		value, _, _ := store.Get(KeyUser)
		if value != `{"id":"u2"}` {
			t.Errorf("upsert kept stale value %q", value)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := newTestStore(t)

		store.Set(KeyDeviceID, "device_abc")
		if err := store.Delete(KeyDeviceID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, ok, _ := store.Get(KeyDeviceID); ok {
			t.Error("deleted key should be absent")
		}
	})

	t.Run("DeleteAbsentKeyIsNoop", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Delete("never_written"); err != nil {
			t.Errorf("deleting an absent key should not fail: %v", err)
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		store := newTestStore(t)

		store.Set(KeyToken, "tok-1")
		store.Set(KeyAdminToken, "tok-admin")
		store.Delete(KeyToken)

		if value, ok, _ := store.Get(KeyAdminToken); !ok || value != "tok-admin" {
			t.Errorf("admin token should survive deleting the listener token, got %q", value)
		}
	})
}
