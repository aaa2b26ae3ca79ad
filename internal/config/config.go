// Package config loads client configuration from the environment.
// A .env file in the working directory is honored when present. Every
// value has a working default so a bare checkout runs against a local
// backend without any setup; missing OAuth credentials put the client
// into mock identity mode instead of failing.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Placeholder credentials used when no Google OAuth app is
	// configured. Sign-in with these skips the browser flow entirely
	// and mints a local development identity.
	MockClientID     = "MOCK_CLIENT_ID"
	MockClientSecret = "MOCK_CLIENT_SECRET"

	defaultBackendURL    = "http://localhost:8000"
	defaultSessionSecret = "secret_for_local_development"
	defaultTimeout       = 30 * time.Second
)

// Config holds everything the client needs to talk to the backend and
// the identity provider.
type Config struct {
	// BackendURL is the base URL of the fact-checking API.
	BackendURL string

	// Google OAuth application credentials.
	ClientID     string
	ClientSecret string

	// SessionSecret is kept in the environment contract for parity
	// with deployments that share one .env between client and backend.
	SessionSecret string

	// RequestTimeout bounds every outbound call. Expiry surfaces as a
	// transport failure, never as a hang.
	RequestTimeout time.Duration
}

// Load reads configuration from the environment, consulting a .env
// file first if one exists. It never returns an error for missing
// values; defaults keep the client usable in a degraded mode.
func Load() Config {
	// Ignore a missing .env; real env vars still apply.
	_ = godotenv.Load()

	return Config{
		BackendURL:     getenv("LAWCHECK_BACKEND_URL", defaultBackendURL),
		ClientID:       getenv("GOOGLE_CLIENT_ID", MockClientID),
		ClientSecret:   getenv("GOOGLE_CLIENT_SECRET", MockClientSecret),
		SessionSecret:  getenv("SESSION_SECRET", defaultSessionSecret),
		RequestTimeout: getDuration("LAWCHECK_TIMEOUT", defaultTimeout),
	}
}

// MockIdentity reports whether the OAuth credentials are the
// placeholders, meaning the browser flow cannot work and sign-in
// should mint a local identity instead.
func (c Config) MockIdentity() bool {
	return c.ClientID == MockClientID || c.ClientID == ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
