package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tunedeck/internal/shared"
	tu "tunedeck/internal/testing"
)

// catalogServer serves a mutable catalog with the backend's quirky field names.
func catalogServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/musics":
			w.Header().Set("Content-Type", "application/json")
			items := make([]string, 0, count)
			for i := 0; i < count; i++ {
				items = append(items, fmt.Sprintf(
					`{"_id":"m%d","title":"Track %d","artist":"Artist","musicFile":"https://cdn/m%d.mp3"}`, i, i, i))
			}
			fmt.Fprintf(w, "[%s]", strings.Join(items, ","))
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/musics/"):
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/musics/"):
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"_id":"m0","title":"Renamed","artist":"Artist"}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestListCatalog(t *testing.T) {
	t.Run("CachedSnapshotSkipsNetwork", func(t *testing.T) {
		server := catalogServer(t, 3)
		defer server.Close()

		tripper := tu.NewCountingTripper(nil)
		client := New(server.URL, &http.Client{Transport: tripper}, nil, nil)

		first, err := client.ListCatalog(context.Background(), true)
		if err != nil {
			t.Fatalf("first fetch failed: %v", err)
		}
		second, err := client.ListCatalog(context.Background(), true)
		if err != nil {
			t.Fatalf("second fetch failed: %v", err)
		}

		if tripper.Count() != 1 {
			t.Errorf("expected 1 network call, got %d", tripper.Count())
		}
		if len(first) != 3 || len(second) != 3 {
			t.Fatalf("expected 3 tracks, got %d and %d", len(first), len(second))
		}
		if &first[0] != &second[0] {
			t.Error("expected the identical cached slice within the freshness window")
		}
		if first[0].ID != "m0" || first[0].AudioURL != "https://cdn/m0.mp3" {
			t.Errorf("normalization not applied: %+v", first[0])
		}
	})

	t.Run("BypassCache", func(t *testing.T) {
		server := catalogServer(t, 1)
		defer server.Close()

		tripper := tu.NewCountingTripper(nil)
		client := New(server.URL, &http.Client{Transport: tripper}, nil, nil)

		client.ListCatalog(context.Background(), true)
		client.ListCatalog(context.Background(), false)

		if tripper.Count() != 2 {
			t.Errorf("expected useCache=false to hit the network, got %d calls", tripper.Count())
		}
	})

	t.Run("StaleSnapshotRefetches", func(t *testing.T) {
		server := catalogServer(t, 1)
		defer server.Close()

		clock := tu.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
		tripper := tu.NewCountingTripper(nil)
		client := New(server.URL, &http.Client{Transport: tripper}, NewSnapshotCache(clock.Now), nil)

		client.ListCatalog(context.Background(), true)
		clock.Advance(6 * time.Minute)
		client.ListCatalog(context.Background(), true)

		if tripper.Count() != 2 {
			t.Errorf("expected refetch after freshness window, got %d calls", tripper.Count())
		}
	})

	t.Run("NetworkErrorWrapped", func(t *testing.T) {
		client := New("http://127.0.0.1:1", nil, nil, nil)
		_, err := client.ListCatalog(context.Background(), false)
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})
}

func TestCatalogSections(t *testing.T) {
	t.Run("FullSplit", func(t *testing.T) {
		server := catalogServer(t, 15)
		defer server.Close()

		client := New(server.URL, nil, nil, nil)
		sections, err := client.CatalogSections(context.Background())
		if err != nil {
			t.Fatalf("sections failed: %v", err)
		}

		if len(sections.Trending) != 6 {
			t.Errorf("expected 6 trending, got %d", len(sections.Trending))
		}
		if len(sections.ForYou) != 6 {
			t.Errorf("expected 6 for-you, got %d", len(sections.ForYou))
		}
		if len(sections.Others) != 3 {
			t.Errorf("expected 3 others, got %d", len(sections.Others))
		}
	})

	t.Run("ShortCatalog", func(t *testing.T) {
		server := catalogServer(t, 4)
		defer server.Close()

		client := New(server.URL, nil, nil, nil)
		sections, err := client.CatalogSections(context.Background())
		if err != nil {
			t.Fatalf("sections failed: %v", err)
		}

		if len(sections.Trending) != 4 {
			t.Errorf("expected 4 trending, got %d", len(sections.Trending))
		}
		if len(sections.ForYou) != 0 || len(sections.Others) != 0 {
			t.Errorf("expected empty tail sections, got %d / %d", len(sections.ForYou), len(sections.Others))
		}
	})
}

func TestTrackMutationsInvalidate(t *testing.T) {
	t.Run("DeleteInvalidatesCatalog", func(t *testing.T) {
		server := catalogServer(t, 2)
		defer server.Close()

		tripper := tu.NewCountingTripper(nil)
		client := New(server.URL, &http.Client{Transport: tripper}, nil, nil)

		client.ListCatalog(context.Background(), true)
		if err := client.DeleteTrack(context.Background(), "tok", "m0"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		client.ListCatalog(context.Background(), true)

		// list, delete, list again: the mutation must drop the snapshot.
		if tripper.Count() != 3 {
			t.Errorf("expected 3 network calls, got %d", tripper.Count())
		}
	})

	t.Run("UpdateReturnsNormalizedTrack", func(t *testing.T) {
		server := catalogServer(t, 1)
		defer server.Close()

		client := New(server.URL, nil, nil, nil)
		track, err := client.UpdateTrack(context.Background(), "tok", "m0", map[string]any{"title": "Renamed"})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if track.ID != "m0" || track.Title != "Renamed" {
			t.Errorf("unexpected track: %+v", track)
		}
	})
}

func TestServerErrors(t *testing.T) {
	t.Run("JSONMessagePreferred", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"catalog unavailable"}`)
		}))
		defer server.Close()

		client := New(server.URL, nil, nil, nil)
		_, err := client.ListCatalog(context.Background(), false)

		var se *ServerError
		if !errors.As(err, &se) {
			t.Fatalf("expected ServerError, got %v", err)
		}
		if se.Status != http.StatusInternalServerError || se.Message != "catalog unavailable" {
			t.Errorf("unexpected server error: %+v", se)
		}
	})

	t.Run("IsNotFound", func(t *testing.T) {
		if !IsNotFound(&ServerError{Status: http.StatusNotFound}) {
			t.Error("404 should report IsNotFound")
		}
		if IsNotFound(&ServerError{Status: http.StatusInternalServerError}) {
			t.Error("500 should not report IsNotFound")
		}
		if IsNotFound(errors.New("plain")) {
			t.Error("plain error should not report IsNotFound")
		}
	})
}
