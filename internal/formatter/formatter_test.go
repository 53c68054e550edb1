package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tunedeck/internal/models"
)

var sampleTracks = []models.Track{
	{ID: "m1", Title: "Opener", Artist: "Band", Genre: "Rock", DurationSeconds: 214.5, AudioURL: "https://cdn.example/m1.mp3"},
	{ID: "m2", Title: "Closer, Live", Artist: "Band", Genre: "Rock", DurationSeconds: 95, AudioURL: "https://cdn.example/m2.mp3"},
}

func TestTracksToCSV(t *testing.T) {
	data, err := TracksToCSV(sampleTracks)
	if err != nil {
		t.Fatalf("csv generation failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV did not parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][5] != "AudioURL" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][4] != "214.5" {
		t.Errorf("duration column = %q, want 214.5", records[1][4])
	}
	if records[2][1] != "Closer, Live" {
		t.Errorf("comma in title should survive quoting, got %q", records[2][1])
	}
}

func TestTracksToText(t *testing.T) {
	text := string(TracksToText(sampleTracks))

	if !strings.Contains(text, "Tracks: 2") {
		t.Errorf("missing count header in %q", text)
	}
	if !strings.Contains(text, "1. Band - Opener (Rock) [3:34]") {
		t.Errorf("missing formatted first row in %q", text)
	}
}

func TestEntriesToCSV(t *testing.T) {
	entries := []models.CollectionEntry{
		{MusicID: "m1", Title: "Opener", Artist: "Band", Genre: "Rock", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{MusicID: "m2"},
	}

	data, err := EntriesToCSV(entries)
	if err != nil {
		t.Fatalf("csv generation failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV did not parse: %v", err)
	}
	if records[1][4] != "2026-01-02T03:04:05Z" {
		t.Errorf("created at = %q", records[1][4])
	}
	if records[2][4] != "" {
		t.Errorf("zero timestamp should render empty, got %q", records[2][4])
	}
}

func TestEntriesToText(t *testing.T) {
	entries := []models.CollectionEntry{
		{MusicID: "m1", Title: "Opener", Artist: "Band"},
		{MusicID: "m2"},
	}
	text := string(EntriesToText(entries))

	if !strings.Contains(text, "1. Band - Opener") {
		t.Errorf("missing artist line in %q", text)
	}
	if !strings.Contains(text, "2. m2") {
		t.Errorf("bare entries should fall back to the music id, got %q", text)
	}
}

func TestUsersRendering(t *testing.T) {
	users := []models.User{
		{ID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com", UserType: "admin"},
	}

	data, err := UsersToCSV(users)
	if err != nil {
		t.Fatalf("csv generation failed: %v", err)
	}
	if !strings.Contains(string(data), "u1,Ada Lovelace,ada@example.com,admin") {
		t.Errorf("csv = %q", data)
	}

	text := string(UsersToText(users))
	if !strings.Contains(text, "1. Ada Lovelace <ada@example.com> (admin)") {
		t.Errorf("text = %q", text)
	}
}

func TestWriteTracksCSV(t *testing.T) {
	base := filepath.Join(t.TempDir(), "export")

	path, err := WriteTracksCSV(sampleTracks, base)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if path != base+"_tracks.csv" {
		t.Errorf("returned path = %q", path)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("tracks file missing: %v", err)
	}
	meta, err := os.ReadFile(base + "_meta.json")
	if err != nil {
		t.Fatalf("meta file missing: %v", err)
	}
	if !strings.Contains(string(meta), `"count": 2`) {
		t.Errorf("meta = %s", meta)
	}
}
