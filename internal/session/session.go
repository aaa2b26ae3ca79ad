// Package session owns the conversation state: the ordered transcript
// of turns and the opaque session token the backend uses to correlate
// them. Submissions are strictly serialized so the token and the
// transcript only ever evolve in request order; a submit that arrives
// while another is in flight is rejected, not queued.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lawcheck/internal/api"
	"lawcheck/internal/verdict"
)

var (
	// ErrNoQuery is returned for an empty or whitespace-only query.
	ErrNoQuery = errors.New("session: empty query")

	// ErrUnauthenticated is returned when no resolved backend user id
	// is bound to the session.
	ErrUnauthenticated = errors.New("session: no authenticated user")

	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("session: submission already pending")
)

// Role tags a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Turn is one transcript entry: either the user's query text or the
// AI's verdict.
type Turn struct {
	Role    Role
	Text    string          // populated for user turns
	Verdict verdict.Verdict // populated for AI turns
}

// Checker is the one backend call the session needs; satisfied by
// *api.Client.
type Checker interface {
	Check(ctx context.Context, userID int, req api.CheckRequest) (*api.CheckResponse, error)
}

// Session tracks a single conversation for one user. Safe for use
// from completion goroutines; all state is guarded by one mutex.
type Session struct {
	checker Checker
	log     *zap.Logger

	mu         sync.Mutex
	userID     int
	token      *int64
	transcript []Turn
	pending    bool
	generation uint64 // bumped by Invalidate; stale completions are dropped
}

// New creates an unbound session. Bind must be called with a resolved
// backend user id before Submit will accept queries.
func New(checker Checker, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{checker: checker, log: log}
}

// Bind associates the session with a resolved backend user id.
func (s *Session) Bind(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// Invalidate detaches the session from its user and clears all
// conversation state. An in-flight submission settles against the old
// generation and is discarded; it can no longer touch the transcript
// a newly signed-in user would see.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.token = nil
	s.transcript = nil
	s.pending = false
	s.generation++
}

// Pending reports whether a submission is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Token returns the current session token, nil before the first
// successful turn.
func (s *Session) Token() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// Transcript returns a copy of the ordered transcript.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Submit sends one user turn and folds the outcome into the
// transcript. After it settles the transcript has grown by exactly one
// user turn and one AI turn, in that order: the user turn is appended
// up front and is never rolled back, and any failure becomes an
// error-shaped AI turn rather than a dangling query. The returned Turn
// is the AI turn; a non-nil error is returned only when the submission
// was rejected up front (empty query, no user, already pending) or
// discarded after sign-out, in which case the transcript is untouched
// by this call's completion.
func (s *Session) Submit(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrNoQuery
	}

	s.mu.Lock()
	if s.userID == 0 {
		s.mu.Unlock()
		return Turn{}, ErrUnauthenticated
	}
	if s.pending {
		s.mu.Unlock()
		return Turn{}, ErrBusy
	}
	s.pending = true
	gen := s.generation
	userID := s.userID
	req := api.CheckRequest{Query: text, SessionID: s.token}
	s.transcript = append(s.transcript, Turn{Role: RoleUser, Text: text})
	s.mu.Unlock()

	resp, err := s.checker.Check(ctx, userID, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// The user signed out while this turn was in flight. The
		// backend may have recorded it against the orphaned session;
		// the client discards it.
		s.log.Debug("discarding stale completion", zap.String("query", text))
		return Turn{}, ErrUnauthenticated
	}
	s.pending = false

	var turn Turn
	if err != nil {
		s.log.Warn("check failed", zap.Error(err))
		turn = Turn{Role: RoleAI, Verdict: verdict.ErrorTurn(api.UserMessage(err))}
	} else {
		// The token is assigned by the backend on the first turn and
		// echoed unchanged from then on.
		id := resp.SessionID
		s.token = &id
		turn = Turn{Role: RoleAI, Verdict: verdict.Parse(resp.Result, resp.Sources)}
	}
	s.transcript = append(s.transcript, turn)
	return turn, nil
}
