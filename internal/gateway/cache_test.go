package gateway

import (
	"testing"
	"time"

	tu "tunedeck/internal/testing"
)

func TestSnapshotCache(t *testing.T) {
	t.Run("GetMissing", func(t *testing.T) {
		cache := NewSnapshotCache(nil)
		if _, ok := cache.Get(CacheCatalog); ok {
			t.Error("expected miss for empty cache")
		}
	})

	t.Run("FreshWithinWindow", func(t *testing.T) {
		clock := tu.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
		cache := NewSnapshotCache(clock.Now)

		cache.Set(CacheCatalog, "snapshot")
		clock.Advance(4 * time.Minute)

		data, ok := cache.Get(CacheCatalog)
		if !ok {
			t.Fatal("expected hit within the freshness window")
		}
		if data != "snapshot" {
			t.Errorf("expected cached snapshot, got %v", data)
		}
	})

	t.Run("StaleAfterWindow", func(t *testing.T) {
		clock := tu.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
		cache := NewSnapshotCache(clock.Now)

		cache.Set(CacheCatalog, "snapshot")
		clock.Advance(5 * time.Minute)

		if _, ok := cache.Get(CacheCatalog); ok {
			t.Error("expected miss once the freshness window elapsed")
		}
	})

	t.Run("PerKeyWindows", func(t *testing.T) {
		clock := tu.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
		cache := NewSnapshotCache(clock.Now)

		cache.Set(CacheCatalog, "tracks")
		cache.Set(CacheUsers, "users")
		clock.Advance(7 * time.Minute)

		if _, ok := cache.Get(CacheCatalog); ok {
			t.Error("catalog snapshot should be stale after 7m")
		}
		if _, ok := cache.Get(CacheUsers); !ok {
			t.Error("users snapshot should still be fresh after 7m")
		}
	})

	t.Run("SetTTLOverride", func(t *testing.T) {
		clock := tu.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
		cache := NewSnapshotCache(clock.Now)
		cache.SetTTL(CacheCatalog, time.Minute)

		cache.Set(CacheCatalog, "snapshot")
		clock.Advance(90 * time.Second)

		if _, ok := cache.Get(CacheCatalog); ok {
			t.Error("expected configured one-minute window to apply")
		}
	})

	t.Run("Invalidate", func(t *testing.T) {
		cache := NewSnapshotCache(nil)
		cache.Set(CacheCatalog, "snapshot")
		cache.Set(CacheUsers, "users")

		cache.Invalidate(CacheCatalog)
		if _, ok := cache.Get(CacheCatalog); ok {
			t.Error("invalidated key should miss")
		}
		if _, ok := cache.Get(CacheUsers); !ok {
			t.Error("untouched key should still hit")
		}

		cache.InvalidateAll()
		if _, ok := cache.Get(CacheUsers); ok {
			t.Error("expected empty cache after InvalidateAll")
		}
	})
}
