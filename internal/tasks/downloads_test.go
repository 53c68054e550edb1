package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tunedeck/internal/models"
)

// countingRecorder records download registrations for assertions.
type countingRecorder struct {
	mu      sync.Mutex
	records []string
	err     error
}

func (r *countingRecorder) Record(ctx context.Context, ownerKey string, track models.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, track.ID)
	return nil
}

func (r *countingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func audioServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3 fake audio payload"))
	}))
	t.Cleanup(server.Close)
	return server
}

func audioTrack(server *httptest.Server, id string) models.Track {
	return models.Track{
		ID:       id,
		Title:    "Track " + id,
		Artist:   "Band",
		AudioURL: server.URL + "/audio/" + id + ".mp3",
	}
}

func TestBulkDownload(t *testing.T) {
	t.Run("DownloadsAndRecordsEveryTrack", func(t *testing.T) {
		server := audioServer(t)
		recorder := &countingRecorder{}
		downloader := NewDownloader(nil, recorder, nil)

		tracks := []models.Track{
			audioTrack(server, "m1"),
			audioTrack(server, "m2"),
			audioTrack(server, "m3"),
		}
		outputDir := filepath.Join(t.TempDir(), "out")

		result, err := downloader.Run(context.Background(), nil, "u1", tracks, BulkDownloadOpts{
			OutputDir: outputDir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.Succeeded != 3 || result.Failed != 0 {
			t.Errorf("succeeded=%d failed=%d, want 3/0", result.Succeeded, result.Failed)
		}
		if result.TotalTracks != 3 {
			t.Errorf("total = %d, want 3", result.TotalTracks)
		}
		if recorder.count() != 3 {
			t.Errorf("expected 3 recorded downloads, got %d", recorder.count())
		}

		data, err := os.ReadFile(filepath.Join(outputDir, "m1.mp3"))
		if err != nil {
			t.Fatalf("downloaded file missing: %v", err)
		}
		if string(data) != "ID3 fake audio payload" {
			t.Errorf("file content = %q", data)
		}
	})

	t.Run("UnplayableTrackCountsAsFailure", func(t *testing.T) {
		server := audioServer(t)
		recorder := &countingRecorder{}
		downloader := NewDownloader(nil, recorder, nil)

		silent := models.Track{ID: "m2", Title: "Silent"}
		tracks := []models.Track{audioTrack(server, "m1"), silent}

		result, err := downloader.Run(context.Background(), nil, "u1", tracks, BulkDownloadOpts{
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.Succeeded != 1 || result.Failed != 1 {
			t.Errorf("succeeded=%d failed=%d, want 1/1", result.Succeeded, result.Failed)
		}
		if recorder.count() != 1 {
			t.Errorf("only successful downloads should be recorded, got %d", recorder.count())
		}
		for _, r := range result.Results {
			if r.TrackID == "m2" && r.Error == nil {
				t.Error("expected the unplayable track to carry an error")
			}
		}
	})

	t.Run("ServerRejectionCountsAsFailure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		downloader := NewDownloader(nil, nil, nil)
		tracks := []models.Track{audioTrack(server, "m1")}

		result, err := downloader.Run(context.Background(), nil, "u1", tracks, BulkDownloadOpts{
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if result.Failed != 1 {
			t.Errorf("failed = %d, want 1", result.Failed)
		}
		entries, _ := os.ReadDir(result.OutputDirectory)
		if len(entries) != 0 {
			t.Errorf("failed download should leave no file behind, found %d", len(entries))
		}
	})

	t.Run("BearerTokenAttached", func(t *testing.T) {
		var mu sync.Mutex
		var seen []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			seen = append(seen, r.Header.Get("Authorization"))
			mu.Unlock()
			w.Write([]byte("audio"))
		}))
		defer server.Close()

		downloader := NewDownloader(nil, nil, nil)
		tracks := []models.Track{audioTrack(server, "m1")}

		if _, err := downloader.Run(context.Background(), nil, "u1", tracks, BulkDownloadOpts{
			OutputDir: t.TempDir(),
			RateLimit: 1000,
			Token:     "tok-123",
		}); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		mu.Lock()
		defer mu.Unlock()
		if len(seen) != 1 || seen[0] != "Bearer tok-123" {
			t.Errorf("authorization headers = %v", seen)
		}
	})

	t.Run("ProgressUpdatesFlow", func(t *testing.T) {
		server := audioServer(t)
		downloader := NewDownloader(nil, nil, nil)
		tracks := []models.Track{audioTrack(server, "m1")}

		prog := make(chan ProgressUpdate, 64)
		if _, err := downloader.Run(context.Background(), prog, "u1", tracks, BulkDownloadOpts{
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		}); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		close(prog)

		phases := map[Phase]bool{}
		for update := range prog {
			phases[update.Phase] = true
		}
		if !phases[Queue] || !phases[Download] {
			t.Errorf("expected queue and download phases, saw %v", phases)
		}
	})
}

func TestDownloadFilename(t *testing.T) {
	cases := []struct {
		name  string
		track models.Track
		want  string
	}{
		{"ExtensionFromURL", models.Track{ID: "m1", AudioURL: "https://cdn.example/a.ogg"}, "m1.ogg"},
		{"MissingExtension", models.Track{ID: "m1", AudioURL: "https://cdn.example/stream"}, "m1.mp3"},
		{"QueryStringIgnored", models.Track{ID: "m1", AudioURL: "https://cdn.example/a.mp3?sig=abc"}, "m1.mp3"},
		{"TitleFallback", models.Track{Title: "My Song", AudioURL: "https://cdn.example/a.mp3"}, "my_song.mp3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := downloadFilename(c.track); got != c.want {
				t.Errorf("downloadFilename = %q, want %q", got, c.want)
			}
		})
	}
}
