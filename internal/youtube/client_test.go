package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/podwheel/podwheel/internal/cache"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := &Client{
		client:     resty.New().SetBaseURL(server.URL),
		titleCache: cache.NewCacheAt(t.TempDir()),
	}
	return server, client
}

func TestLookupTitle(t *testing.T) {
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oembed" {
			t.Errorf("Expected path /oembed, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format param = %q, want json", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "Never Gonna Give You Up"})
	})
	defer server.Close()

	title, err := client.LookupTitle(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("LookupTitle() error = %v", err)
	}
	if title != "Never Gonna Give You Up" {
		t.Errorf("LookupTitle() = %q, want %q", title, "Never Gonna Give You Up")
	}
}

func TestLookupTitleUsesCache(t *testing.T) {
	requests := 0
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "Cached Song"})
	})
	defer server.Close()

	for i := 0; i < 3; i++ {
		title, err := client.LookupTitle(context.Background(), "abc123def45")
		if err != nil {
			t.Fatalf("LookupTitle() error = %v", err)
		}
		if title != "Cached Song" {
			t.Errorf("LookupTitle() = %q, want %q", title, "Cached Song")
		}
	}

	if requests != 1 {
		t.Errorf("oembed endpoint hit %d times, want 1", requests)
	}
}

func TestLookupTitleServerError(t *testing.T) {
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	if _, err := client.LookupTitle(context.Background(), "abc123def45"); err == nil {
		t.Error("LookupTitle() on 404 returned nil error")
	}
}

func TestResolveFallsBackToID(t *testing.T) {
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	song, err := client.Resolve("https://www.youtube.com/watch?v=abc123def45")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if song.ID != "abc123def45" {
		t.Errorf("Resolve().ID = %q, want abc123def45", song.ID)
	}
	if song.Title != "abc123def45" {
		t.Errorf("Resolve().Title = %q, want fallback to id", song.Title)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("resolver should not hit the network for unrecognized input")
	})
	defer server.Close()

	if _, err := client.Resolve("not a url"); err == nil {
		t.Error("Resolve() on bad input returned nil error")
	}
}
