// Package chat provides the interactive TUI for the legal fact
// checker. The files split the bubbletea model by concern:
//   - model.go: types, construction, Init
//   - update.go: the Update loop and message routing
//   - process.go: async commands that settle into messages
//   - view.go: rendering
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"lawcheck/cmd/lawcheck/ui"
	"lawcheck/internal/auth"
	"lawcheck/internal/search"
	"lawcheck/internal/session"
)

// Tab selects which subsystem the input line drives. The two tabs own
// their state independently: the conversation serializes submissions,
// the article search does not.
type Tab int

const (
	CheckTab Tab = iota
	ArticlesTab
)

// Model is the bubbletea model for the chat interface.
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	gate     *auth.Gate
	session  *session.Session
	searcher *search.Client
	log      *zap.Logger

	tab    Tab
	width  int
	height int
	ready  bool

	// Per-component pending flags; the two subsystems never contend.
	signingIn bool
	checking  bool
	searching bool

	lastKeyword string
	status      string
}

// New builds the chat model around an already-constructed gate,
// session, and search client.
func New(gate *auth.Gate, sess *session.Session, searcher *search.Client, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "예: 수습 기간에 해고하면 월급은 어떻게 되나요?"
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// Markdown rendering is best-effort; a nil renderer falls back to
	// plain text.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		log.Debug("glamour renderer unavailable", zap.Error(err))
		renderer = nil
	}

	m := Model{
		input:    input,
		spinner:  sp,
		styles:   ui.NewStyles(),
		renderer: renderer,
		gate:     gate,
		session:  sess,
		searcher: searcher,
		log:      log,
	}

	if user := gate.CurrentUser(); user != nil && user.Resolved() {
		sess.Bind(user.BackendID)
	}
	return m
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// authenticated reports whether the conversational view is unlocked.
func (m Model) authenticated() bool {
	return m.gate.CurrentUser() != nil
}
