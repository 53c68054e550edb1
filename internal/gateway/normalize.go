package gateway

import (
	"fmt"
	"strconv"
	"time"

	"tunedeck/internal/models"
)

// stringField returns the first non-empty string value among keys. Numeric
// values are rendered with strconv so numeric ids survive normalization.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// numberField returns the first parsable numeric value among keys, tolerating
// numbers shipped as strings. Zero means absent.
func numberField(m map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// nestedField digs one level into an embedded object (e.g. payload.user) and
// resolves keys there.
func nestedField(m map[string]any, object string, keys ...string) string {
	inner, ok := m[object].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(inner, keys...)
}

// timeField parses the first timestamp-looking value among keys. The backend
// emits RFC 3339 strings; anything else yields the zero time.
func timeField(m map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok || s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NormalizeTrack resolves every observed field-name variant for a catalog item
// into the canonical [models.Track] shape. This is the only place fallback
// chains live; nothing downstream re-derives them.
func NormalizeTrack(raw map[string]any) models.Track {
	track := models.Track{
		ID:              stringField(raw, "id", "_id"),
		Title:           stringField(raw, "title", "name"),
		Artist:          stringField(raw, "artist", "artistName"),
		Genre:           stringField(raw, "genre", "category"),
		DurationSeconds: numberField(raw, "duration", "length", "durationInSeconds"),
		ThumbnailURL:    stringField(raw, "thumbnailUrl", "thumbnail", "thumbnailFile", "imageUrl", "image"),
		AudioURL:        stringField(raw, "audioUrl", "musicUrl", "musicFile", "audio", "file", "url"),
	}

	if track.Title == "" {
		track.Title = "Untitled Track"
	}
	if track.Artist == "" {
		track.Artist = "Unknown Artist"
	}
	if track.Genre == "" {
		track.Genre = "Unknown Genre"
	}

	return track
}

// NormalizeTracks maps a raw catalog response onto canonical tracks.
func NormalizeTracks(raw []map[string]any) []models.Track {
	tracks := make([]models.Track, 0, len(raw))
	for _, item := range raw {
		tracks = append(tracks, NormalizeTrack(item))
	}
	return tracks
}

// NormalizeUser resolves the observed account field variants.
func NormalizeUser(raw map[string]any) models.User {
	return models.User{
		ID:       stringField(raw, "id", "_id", "userId"),
		FullName: stringField(raw, "FullName", "fullName", "name"),
		Email:    stringField(raw, "email"),
		UserType: stringField(raw, "userType", "type", "role"),
	}
}

// NormalizeEntry resolves an ownership-join record (favorite, download,
// selection) into the canonical entry shape. Owner falls back from user id to
// device id; entries may carry denormalized track metadata.
func NormalizeEntry(raw map[string]any) models.CollectionEntry {
	return models.CollectionEntry{
		OwnerKey:  stringField(raw, "userId", "deviceId", "ownerKey"),
		MusicID:   stringField(raw, "musicId", "music_id", "id"),
		Title:     stringField(raw, "title", "name"),
		Artist:    stringField(raw, "artist", "artistName"),
		Genre:     stringField(raw, "genre", "category"),
		CreatedAt: timeField(raw, "createdAt", "downloadedAt", "created_at"),
	}
}

// NormalizeEntries maps a raw collection response onto canonical entries.
// The backend has returned bare arrays, {favorites: [...]}, {data: [...]},
// and single objects; all observed shapes are accepted.
func NormalizeEntries(payload any) []models.CollectionEntry {
	switch v := payload.(type) {
	case []any:
		entries := make([]models.CollectionEntry, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				entries = append(entries, NormalizeEntry(m))
			}
		}
		return entries
	case map[string]any:
		for _, key := range []string{"favorites", "downloads", "selections", "data"} {
			if inner, ok := v[key].([]any); ok {
				return NormalizeEntries(inner)
			}
		}
		if stringField(v, "musicId", "music_id") != "" {
			return []models.CollectionEntry{NormalizeEntry(v)}
		}
	}
	return nil
}

// Owner scopes a collection request to exactly one identity: a user id once
// authenticated, a device id while guest.
type Owner struct {
	UserID   string
	DeviceID string
}

// UserOwner scopes by an authenticated user id.
func UserOwner(id string) Owner { return Owner{UserID: id} }

// DeviceOwner scopes by a guest device id.
func DeviceOwner(id string) Owner { return Owner{DeviceID: id} }

// Key returns the scoping identifier, preferring the user id.
func (o Owner) Key() string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.DeviceID
}

// queryParam renders the owner as a query-string fragment.
func (o Owner) queryParam() string {
	if o.UserID != "" {
		return "userId=" + o.UserID
	}
	return "deviceId=" + o.DeviceID
}

// bodyField adds the owner to a JSON request body.
func (o Owner) bodyField(body map[string]any) {
	if o.UserID != "" {
		body["userId"] = o.UserID
	} else {
		body["deviceId"] = o.DeviceID
	}
}

// validate rejects owners with neither or both identifiers set.
func (o Owner) validate() error {
	if (o.UserID == "") == (o.DeviceID == "") {
		return fmt.Errorf("owner must have exactly one of userId or deviceId")
	}
	return nil
}
