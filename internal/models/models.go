// package models defines the data model for the tunedeck client
package models

import "time"

// Track is the canonical catalog item. The backend reports track fields under
// several historical names; the gateway normalizes every response into this
// shape before anything else sees it.
type Track struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Genre           string  `json:"genre"`
	DurationSeconds float64 `json:"duration,omitempty"`
	ThumbnailURL    string  `json:"thumbnailUrl,omitempty"`
	AudioURL        string  `json:"audioUrl,omitempty"`
}

// Playable reports whether the track has an audio source. Tracks without one
// are still listable and selectable.
func (t Track) Playable() bool { return t.AudioURL != "" }

// User represents a catalog account, as listed in the admin area.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	UserType string `json:"userType,omitempty"`
}

// IsAdmin reports whether the user may use admin-scoped mutations.
func (u User) IsAdmin() bool { return u.UserType == "Admin" }

// Session is the authenticated identity, persisted across runs.
type Session struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"-"`
}

// IsAuthenticated is true iff both the user id and token are present.
func (s Session) IsAuthenticated() bool {
	return s.UserID != "" && s.Token != ""
}

// CollectionEntry is an ownership-join record in a server-owned collection
// (favorites, downloads, selections). OwnerKey is a user id once
// authenticated, a device id while guest; never both.
type CollectionEntry struct {
	OwnerKey  string    `json:"ownerKey"`
	MusicID   string    `json:"musicId"`
	Title     string    `json:"title,omitempty"`
	Artist    string    `json:"artist,omitempty"`
	Genre     string    `json:"genre,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
