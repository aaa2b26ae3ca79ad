package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lawcheck/internal/api"
	"lawcheck/internal/auth"
	"lawcheck/internal/config"
	"lawcheck/internal/search"
	"lawcheck/internal/session"
)

// newTestBackend serves a fixed happy-path backend for TUI tests.
func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "email": "dev@localhost"}`))
	})
	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"session_id": 1, "result": {"verdict":"TRUE","explanation":"ok"}, "sources": []}`))
	})
	mux.HandleFunc("/search/articles", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": []}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewTestModel builds a Model wired to a throwaway backend. signedIn
// runs the mock sign-in flow first so the conversational view is
// unlocked.
func NewTestModel(t *testing.T, signedIn bool) Model {
	t.Helper()

	// Keep the gate's persisted profile out of the real home dir.
	t.Setenv("HOME", t.TempDir())

	server := newTestBackend(t)
	cfg := config.Config{
		BackendURL:     server.URL,
		ClientID:       config.MockClientID,
		ClientSecret:   config.MockClientSecret,
		RequestTimeout: time.Second,
	}
	backend := api.New(server.URL, time.Second, nil)
	gate := auth.NewGate(cfg, backend, nil)

	if signedIn {
		if _, err := gate.SignIn(context.Background()); err != nil {
			t.Fatalf("test sign-in failed: %v", err)
		}
	}

	return New(gate, session.New(backend, nil), search.New(backend, nil), nil)
}
