package omdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reelmatch/internal/omdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := omdb.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := omdb.New("key", " "); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("apikey") != "key" || query.Get("t") != "The Matrix" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if r.URL.Path != "/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Title":"The Matrix","Year":"1999","Poster":"https://img/matrix.jpg","imdbRating":"8.7","Plot":"A hacker learns the truth.","Response":"True"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.Lookup(context.Background(), "The Matrix")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !resp.Found() {
		t.Fatal("expected match")
	}
	if resp.ImdbRating != "8.7" || resp.Poster != "https://img/matrix.jpg" || resp.Year != "1999" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestLookupPartialPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL+"/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	resp, err := client.Lookup(context.Background(), "Zeta")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if resp.Found() {
		t.Fatal("expected not found")
	}
	if resp.Poster != "" || resp.Plot != "" {
		t.Fatalf("expected empty optional fields, got %#v", resp)
	}
}

func TestLookupHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Lookup(context.Background(), "Heat")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLookupMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Title":`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Lookup(context.Background(), "Heat"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLookupTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client, err := omdb.New("key", server.URL, omdb.WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Lookup(context.Background(), "Heat"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestLookupEmptyTitle(t *testing.T) {
	client, err := omdb.New("key", "https://example.com")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Lookup(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty title")
	}
}
