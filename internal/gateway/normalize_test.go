package gateway

import (
	"testing"
)

func TestNormalizeTrack(t *testing.T) {
	t.Run("CanonicalFields", func(t *testing.T) {
		track := NormalizeTrack(map[string]any{
			"id":           "m1",
			"title":        "Song",
			"artist":       "Band",
			"genre":        "Rock",
			"duration":     183.5,
			"audioUrl":     "https://cdn/audio.mp3",
			"thumbnailUrl": "https://cdn/cover.jpg",
		})

		if track.ID != "m1" || track.Title != "Song" || track.Artist != "Band" {
			t.Errorf("unexpected track: %+v", track)
		}
		if track.DurationSeconds != 183.5 {
			t.Errorf("expected duration 183.5, got %v", track.DurationSeconds)
		}
		if !track.Playable() {
			t.Error("track with audioUrl should be playable")
		}
	})

	t.Run("FallbackFields", func(t *testing.T) {
		track := NormalizeTrack(map[string]any{
			"_id":       "m2",
			"name":      "Other Song",
			"category":  "Jazz",
			"length":    "200",
			"musicFile": "https://cdn/file.mp3",
			"image":     "https://cdn/img.jpg",
		})

		if track.ID != "m2" {
			t.Errorf("expected _id fallback, got %q", track.ID)
		}
		if track.Title != "Other Song" {
			t.Errorf("expected name fallback, got %q", track.Title)
		}
		if track.Genre != "Jazz" {
			t.Errorf("expected category fallback, got %q", track.Genre)
		}
		if track.DurationSeconds != 200 {
			t.Errorf("expected string duration parsed, got %v", track.DurationSeconds)
		}
		if track.AudioURL != "https://cdn/file.mp3" {
			t.Errorf("expected musicFile fallback, got %q", track.AudioURL)
		}
		if track.ThumbnailURL != "https://cdn/img.jpg" {
			t.Errorf("expected image fallback, got %q", track.ThumbnailURL)
		}
	})

	t.Run("AudioPriority", func(t *testing.T) {
		track := NormalizeTrack(map[string]any{
			"audioUrl": "https://cdn/a.mp3",
			"musicUrl": "https://cdn/b.mp3",
		})
		if track.AudioURL != "https://cdn/a.mp3" {
			t.Errorf("audioUrl should win over musicUrl, got %q", track.AudioURL)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		track := NormalizeTrack(map[string]any{"id": "m3"})
		if track.Title != "Untitled Track" {
			t.Errorf("expected title default, got %q", track.Title)
		}
		if track.Artist != "Unknown Artist" {
			t.Errorf("expected artist default, got %q", track.Artist)
		}
		if track.Genre != "Unknown Genre" {
			t.Errorf("expected genre default, got %q", track.Genre)
		}
		if track.Playable() {
			t.Error("track without audio should not be playable")
		}
	})

	t.Run("NumericID", func(t *testing.T) {
		track := NormalizeTrack(map[string]any{"id": float64(42)})
		if track.ID != "42" {
			t.Errorf("expected numeric id rendered as string, got %q", track.ID)
		}
	})
}

func TestNormalizeUser(t *testing.T) {
	t.Run("LegacyCasing", func(t *testing.T) {
		user := NormalizeUser(map[string]any{
			"_id":      "u1",
			"FullName": "Ada Lovelace",
			"email":    "ada@example.com",
			"userType": "Admin",
		})
		if user.ID != "u1" || user.FullName != "Ada Lovelace" {
			t.Errorf("unexpected user: %+v", user)
		}
		if !user.IsAdmin() {
			t.Error("userType Admin should report IsAdmin")
		}
	})

	t.Run("NameFallback", func(t *testing.T) {
		user := NormalizeUser(map[string]any{"id": "u2", "name": "Grace"})
		if user.FullName != "Grace" {
			t.Errorf("expected name fallback, got %q", user.FullName)
		}
		if user.IsAdmin() {
			t.Error("missing userType should not report IsAdmin")
		}
	})
}

func TestNormalizeEntries(t *testing.T) {
	t.Run("BareArray", func(t *testing.T) {
		entries := NormalizeEntries([]any{
			map[string]any{"userId": "u1", "musicId": "m1"},
			map[string]any{"deviceId": "d1", "musicId": "m2"},
		})
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].OwnerKey != "u1" || entries[0].MusicID != "m1" {
			t.Errorf("unexpected first entry: %+v", entries[0])
		}
		if entries[1].OwnerKey != "d1" {
			t.Errorf("expected deviceId owner fallback, got %q", entries[1].OwnerKey)
		}
	})

	t.Run("WrappedCollections", func(t *testing.T) {
		for _, key := range []string{"favorites", "downloads", "selections", "data"} {
			payload := map[string]any{key: []any{
				map[string]any{"userId": "u1", "musicId": "m1"},
			}}
			entries := NormalizeEntries(payload)
			if len(entries) != 1 {
				t.Errorf("wrapper %q: expected 1 entry, got %d", key, len(entries))
			}
		}
	})

	t.Run("SingleObject", func(t *testing.T) {
		entries := NormalizeEntries(map[string]any{"userId": "u1", "musicId": "m1"})
		if len(entries) != 1 {
			t.Fatalf("expected single object promoted to one entry, got %d", len(entries))
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if entries := NormalizeEntries("nope"); entries != nil {
			t.Errorf("expected nil for non-collection payload, got %v", entries)
		}
		if entries := NormalizeEntries(map[string]any{"message": "ok"}); entries != nil {
			t.Errorf("expected nil for object without musicId, got %v", entries)
		}
	})
}

func TestOwner(t *testing.T) {
	t.Run("KeyPrefersUser", func(t *testing.T) {
		if got := UserOwner("u1").Key(); got != "u1" {
			t.Errorf("expected u1, got %q", got)
		}
		if got := DeviceOwner("d1").Key(); got != "d1" {
			t.Errorf("expected d1, got %q", got)
		}
	})

	t.Run("QueryParam", func(t *testing.T) {
		if got := UserOwner("u1").queryParam(); got != "userId=u1" {
			t.Errorf("unexpected query param %q", got)
		}
		if got := DeviceOwner("d1").queryParam(); got != "deviceId=d1" {
			t.Errorf("unexpected query param %q", got)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (Owner{}).validate(); err == nil {
			t.Error("empty owner should be invalid")
		}
		if err := (Owner{UserID: "u1", DeviceID: "d1"}).validate(); err == nil {
			t.Error("double-scoped owner should be invalid")
		}
		if err := UserOwner("u1").validate(); err != nil {
			t.Errorf("user owner should be valid: %v", err)
		}
	})
}
