// Package auth is the identity gate: everything conversational sits
// behind a successful sign-in, and this package owns the authenticated
// user for the lifetime of the process.
//
// Two failure policies meet here and they are deliberately different.
// Sign-in trusts the identity provider alone: the backend sync that
// upserts the profile is logged and swallowed on failure, so a dead
// backend never blocks sign-in. Conversation calls, by contrast,
// surface backend failures to the user. Auth availability is
// independent of feature availability; a signed-in user whose backend
// id never resolved simply cannot submit until ResolveID succeeds.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"lawcheck/internal/api"
	"lawcheck/internal/config"
)

// ErrNotSignedIn is returned by operations that need an authenticated
// user when there is none.
var ErrNotSignedIn = errors.New("auth: not signed in")

// User is the authenticated identity. BackendID is the backend's own
// numeric id, 0 until the resolution round trip succeeds; Email is the
// stable federated identity it resolves from.
type User struct {
	BackendID  int    `json:"backend_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
}

// Resolved reports whether the backend id lookup has succeeded.
func (u *User) Resolved() bool { return u != nil && u.BackendID != 0 }

// Gate performs sign-in/sign-out and exposes the current user.
type Gate struct {
	cfg     config.Config
	backend *api.Client
	log     *zap.Logger

	profilePath string

	mu   sync.Mutex
	user *User
}

// NewGate creates a gate and loads any previously persisted profile,
// so an earlier `auth login` carries across invocations.
func NewGate(cfg config.Config, backend *api.Client, log *zap.Logger) *Gate {
	return newGate(cfg, backend, log, defaultProfilePath())
}

func newGate(cfg config.Config, backend *api.Client, log *zap.Logger, profilePath string) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gate{cfg: cfg, backend: backend, log: log, profilePath: profilePath}
	if err := g.loadProfile(); err != nil && !os.IsNotExist(err) {
		log.Warn("could not load stored profile", zap.Error(err))
	}
	return g
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".lawcheck", "profile.json")
	}
	return filepath.Join(home, ".lawcheck", "profile.json")
}

// CurrentUser returns the authenticated user, or nil when signed out.
func (g *Gate) CurrentUser() *User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

// SignIn authenticates the user and returns the resulting identity.
// With mock credentials the browser flow is skipped and a local dev
// identity is minted. Backend sync and id resolution run afterwards;
// neither can fail the sign-in itself.
func (g *Gate) SignIn(ctx context.Context) (*User, error) {
	var user *User
	if g.cfg.MockIdentity() {
		g.log.Info("OAuth credentials not configured, using mock identity")
		user = &User{
			Email:    "dev@localhost",
			Name:     "Local Developer",
			Provider: "mock",
		}
	} else {
		info, err := g.browserSignIn(ctx)
		if err != nil {
			return nil, err
		}
		user = &User{
			Email:      info.Email,
			Name:       info.Name,
			AvatarURL:  info.Picture,
			Provider:   "google",
			ProviderID: info.ID,
		}
	}

	// Upsert the profile on the backend. Failure is deliberate
	// non-fatal: identity-provider trust does not depend on backend
	// health.
	if _, err := g.backend.Login(ctx, api.LoginRequest{
		Email:      user.Email,
		Name:       user.Name,
		Provider:   user.Provider,
		ProviderID: user.ProviderID,
		ImageURL:   user.AvatarURL,
	}); err != nil {
		g.log.Warn("backend identity sync failed, continuing signed in", zap.Error(err))
	}

	g.mu.Lock()
	g.user = user
	g.mu.Unlock()

	// Resolve the backend id. Also non-fatal; conversation submission
	// stays gated until a later ResolveID succeeds.
	if err := g.ResolveID(ctx); err != nil {
		g.log.Warn("backend id resolution failed", zap.Error(err))
	}

	if err := g.saveProfile(); err != nil {
		g.log.Warn("could not persist profile", zap.Error(err))
	}
	return g.CurrentUser(), nil
}

// browserSignIn runs the PKCE consent flow and returns the provider
// profile.
func (g *Gate) browserSignIn(ctx context.Context) (*userInfo, error) {
	flow, err := newFlow(g.cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("start oauth flow: %w", err)
	}

	fmt.Println("Opening browser for Google sign-in...")
	fmt.Println("If it does not open, visit:")
	fmt.Println("  " + flow.AuthURL)
	if err := openBrowser(flow.AuthURL); err != nil {
		g.log.Debug("could not open browser", zap.Error(err))
	}

	code, err := waitForCallback(ctx, flow.State)
	if err != nil {
		return nil, fmt.Errorf("waiting for oauth callback: %w", err)
	}

	tok, err := exchangeCode(ctx, g.cfg.ClientID, g.cfg.ClientSecret, code, flow.Verifier)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	info, err := fetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch user profile: %w", err)
	}
	return info, nil
}

// ResolveID asks the backend for its numeric id for the current
// user's email. Idempotent; the same email always resolves to the
// same id.
func (g *Gate) ResolveID(ctx context.Context) error {
	g.mu.Lock()
	user := g.user
	g.mu.Unlock()
	if user == nil {
		return ErrNotSignedIn
	}
	if user.Resolved() {
		return nil
	}

	record, err := g.backend.Login(ctx, api.LoginRequest{Email: user.Email})
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil || g.user.Email != user.Email {
		// Signed out (or switched) while the lookup was in flight.
		return ErrNotSignedIn
	}
	g.user.BackendID = record.ID
	return nil
}

// SignOut clears the authenticated state and removes the persisted
// profile.
func (g *Gate) SignOut() error {
	g.mu.Lock()
	g.user = nil
	g.mu.Unlock()

	if err := os.Remove(g.profilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (g *Gate) loadProfile() error {
	data, err := os.ReadFile(g.profilePath)
	if err != nil {
		return err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	g.mu.Lock()
	g.user = &user
	g.mu.Unlock()
	return nil
}

func (g *Gate) saveProfile() error {
	g.mu.Lock()
	user := g.user
	g.mu.Unlock()
	if user == nil {
		return nil
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(g.profilePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(g.profilePath, data, 0o600)
}

// openBrowser opens the URL in the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
