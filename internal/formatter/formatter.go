// package formatter renders tracks, collection entries and users to the
// formats the CLI emits (CSV, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"tunedeck/internal/models"
	"tunedeck/internal/shared"
)

// TracksToCSV converts tracks to CSV with columns: ID, Title, Artist, Genre, Duration, AudioURL
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Duration", "AudioURL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Genre,
			strconv.FormatFloat(track.DurationSeconds, 'f', -1, 64),
			track.AudioURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToText converts tracks to a numbered plain text listing
func TracksToText(tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))
	for i, track := range tracks {
		clock := shared.FormatClock(track.DurationSeconds)
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s) [%s]\n", i+1, track.Artist, track.Title, track.Genre, clock))
	}

	return buf.Bytes()
}

// EntriesToCSV converts collection entries to CSV with columns: MusicID, Title, Artist, Genre, CreatedAt
func EntriesToCSV(entries []models.CollectionEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"MusicID", "Title", "Artist", "Genre", "CreatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		createdAt := ""
		if !entry.CreatedAt.IsZero() {
			createdAt = entry.CreatedAt.Format(time.RFC3339)
		}
		record := []string{
			entry.MusicID,
			entry.Title,
			entry.Artist,
			entry.Genre,
			createdAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// EntriesToText converts collection entries to a numbered plain text listing
func EntriesToText(entries []models.CollectionEntry) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Entries: %d\n\n", len(entries)))
	for i, entry := range entries {
		title := entry.Title
		if title == "" {
			title = entry.MusicID
		}
		if entry.Artist != "" {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, entry.Artist, title))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, title))
		}
	}

	return buf.Bytes()
}

// UsersToCSV converts users to CSV with columns: ID, FullName, Email, UserType
func UsersToCSV(users []models.User) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "FullName", "Email", "UserType"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, user := range users {
		record := []string{user.ID, user.FullName, user.Email, user.UserType}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// UsersToText converts users to a numbered plain text listing
func UsersToText(users []models.User) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Users: %d\n\n", len(users)))
	for i, user := range users {
		buf.WriteString(fmt.Sprintf("%d. %s <%s> (%s)\n", i+1, user.FullName, user.Email, user.UserType))
	}

	return buf.Bytes()
}

// ToJSON generates an indented JSON representation of v
func ToJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteTracksCSV writes the catalog to {base}_tracks.csv alongside a
// {base}_meta.json file describing the export.
//
// Defaults to "catalog" as the base filename.
func WriteTracksCSV(tracks []models.Track, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "catalog"
	}

	csvData, err := TracksToCSV(tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	meta := map[string]any{
		"count":       len(tracks),
		"exported_at": time.Now().Format(time.RFC3339),
	}
	metaJSON, err := ToJSON(meta)
	if err != nil {
		return "", fmt.Errorf("failed to generate metadata JSON: %w", err)
	}
	if err := os.WriteFile(baseFilepath+"_meta.json", metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}

	return tracksFile, nil
}
