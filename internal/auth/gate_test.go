package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawcheck/internal/api"
	"lawcheck/internal/config"
)

func mockConfig() config.Config {
	return config.Config{
		BackendURL:     "http://localhost:0",
		ClientID:       config.MockClientID,
		ClientSecret:   config.MockClientSecret,
		RequestTimeout: time.Second,
	}
}

func testGate(t *testing.T, backendURL string) *Gate {
	t.Helper()
	cfg := mockConfig()
	cfg.BackendURL = backendURL
	backend := api.New(backendURL, time.Second, nil)
	return newGate(cfg, backend, nil, filepath.Join(t.TempDir(), "profile.json"))
}

func TestSignIn_MockIdentity(t *testing.T) {
	t.Parallel()

	var logins []api.LoginRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		logins = append(logins, req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "email": "dev@localhost"}`))
	}))
	defer server.Close()

	g := testGate(t, server.URL)
	require.Nil(t, g.CurrentUser())

	user, err := g.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev@localhost", user.Email)
	assert.True(t, user.Resolved())
	assert.Equal(t, 7, user.BackendID)

	// One upsert with the full profile, one resolution with only the
	// email.
	require.Len(t, logins, 2)
	assert.Equal(t, "mock", logins[0].Provider)
	assert.Empty(t, logins[1].Provider)
	assert.Equal(t, "dev@localhost", logins[1].Email)
}

func TestSignIn_BackendDownStillSucceeds(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // backend unreachable

	g := testGate(t, server.URL)
	user, err := g.SignIn(context.Background())
	require.NoError(t, err, "identity-provider trust is independent of backend health")
	require.NotNil(t, user)
	assert.False(t, user.Resolved(), "id resolution failure leaves the user unresolved")
}

func TestResolveID_RetriesAfterFailure(t *testing.T) {
	t.Parallel()

	healthy := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"detail": "maintenance"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 3, "email": "dev@localhost"}`))
	}))
	defer server.Close()

	g := testGate(t, server.URL)
	_, err := g.SignIn(context.Background())
	require.NoError(t, err)
	require.False(t, g.CurrentUser().Resolved())

	healthy = true
	require.NoError(t, g.ResolveID(context.Background()))
	assert.Equal(t, 3, g.CurrentUser().BackendID)

	// Idempotent once resolved.
	require.NoError(t, g.ResolveID(context.Background()))
	assert.Equal(t, 3, g.CurrentUser().BackendID)
}

func TestResolveID_RequiresSignIn(t *testing.T) {
	t.Parallel()

	g := testGate(t, "http://localhost:0")
	assert.ErrorIs(t, g.ResolveID(context.Background()), ErrNotSignedIn)
}

func TestSignOut_ClearsStateAndProfile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "email": "dev@localhost"}`))
	}))
	defer server.Close()

	g := testGate(t, server.URL)
	_, err := g.SignIn(context.Background())
	require.NoError(t, err)

	_, statErr := os.Stat(g.profilePath)
	require.NoError(t, statErr, "profile persisted on sign-in")

	require.NoError(t, g.SignOut())
	assert.Nil(t, g.CurrentUser())
	_, statErr = os.Stat(g.profilePath)
	assert.True(t, os.IsNotExist(statErr))

	// Signing out twice is fine.
	require.NoError(t, g.SignOut())
}

func TestProfilePersistsAcrossGates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "email": "dev@localhost"}`))
	}))
	defer server.Close()

	profile := filepath.Join(t.TempDir(), "profile.json")
	cfg := mockConfig()
	cfg.BackendURL = server.URL
	backend := api.New(server.URL, time.Second, nil)

	first := newGate(cfg, backend, nil, profile)
	_, err := first.SignIn(context.Background())
	require.NoError(t, err)

	second := newGate(cfg, backend, nil, profile)
	user := second.CurrentUser()
	require.NotNil(t, user, "a later invocation loads the stored profile")
	assert.Equal(t, "dev@localhost", user.Email)
	assert.Equal(t, 7, user.BackendID)
}
