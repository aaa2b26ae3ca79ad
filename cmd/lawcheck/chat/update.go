// The Update loop. Every network completion arrives here as a message
// on the single UI thread; pending flags are cleared unconditionally
// so no failure path leaves the interface disabled.
package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lawcheck/internal/session"
)

const (
	headerHeight = 3
	footerHeight = 3
)

// Update routes key events and async completions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.checking {
			// Keeps the optimistically appended user turn visible
			// while the request is in flight.
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m, cmd

	case signInDoneMsg:
		m.signingIn = false
		if msg.err != nil {
			m.status = "Sign-in failed: " + msg.err.Error()
			return m, nil
		}
		m.status = ""
		if msg.user != nil && msg.user.Resolved() {
			m.session.Bind(msg.user.BackendID)
		} else {
			// Signed in, but the backend id is not available yet;
			// submission stays gated until resolution succeeds.
			m.status = "Signed in. Waiting for the backend to resolve your account."
		}
		m.refreshViewport()
		return m, nil

	case checkDoneMsg:
		m.checking = false
		if msg.rejected {
			// Nothing entered the transcript; surface why.
			if errors.Is(msg.err, session.ErrUnauthenticated) {
				m.status = "Sign in before submitting a query."
			}
			return m, nil
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case resolveDoneMsg:
		if msg.err != nil {
			m.status = "Account not resolved yet; the backend may be unavailable."
			return m, nil
		}
		m.status = ""
		if user := m.gate.CurrentUser(); user != nil && user.Resolved() {
			m.session.Bind(user.BackendID)
		}
		return m, nil

	case searchDoneMsg:
		m.searching = false
		if msg.err != nil {
			// Prior results stay in place; the failure is only
			// visible as an absence of new ones.
			m.status = "Search failed; showing previous results."
			m.log.Debug("search failed", zap.Error(msg.err))
		}
		m.refreshViewport()
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		if m.tab == CheckTab {
			m.tab = ArticlesTab
			m.input.Placeholder = "법령 키워드 검색 (예: 해고)"
		} else {
			m.tab = CheckTab
			m.input.Placeholder = "예: 수습 기간에 해고하면 월급은 어떻게 되나요?"
		}
		m.status = ""
		m.refreshViewport()
		return m, nil

	case "ctrl+d":
		if !m.authenticated() {
			return m, nil
		}
		// Sign-out invalidates the conversation; a completion that
		// lands afterwards is discarded by the session.
		if err := m.gate.SignOut(); err != nil {
			m.log.Warn("sign-out failed", zap.Error(err))
		}
		m.session.Invalidate()
		m.checking = false
		m.status = ""
		m.refreshViewport()
		return m, nil

	case "enter":
		return m.handleEnter()
	}

	return m.updateComponents(msg)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if !m.authenticated() {
		if m.signingIn {
			return m, nil
		}
		m.signingIn = true
		m.status = "Waiting for sign-in in your browser..."
		return m, tea.Batch(m.signInCmd(), m.spinner.Tick)
	}

	text := m.input.Value()
	if text == "" {
		return m, nil
	}

	switch m.tab {
	case CheckTab:
		if m.checking {
			// Submissions are serialized; ignore, never queue.
			return m, nil
		}
		user := m.gate.CurrentUser()
		if user == nil || !user.Resolved() {
			// The id lookup failed during sign-in; retry it now. The
			// query stays in the input so Enter resubmits it.
			m.status = "Resolving your account with the backend..."
			return m, m.resolveCmd()
		}
		m.checking = true
		m.status = ""
		m.input.Reset()
		return m, tea.Batch(m.submitCmd(text), m.spinner.Tick)

	case ArticlesTab:
		m.searching = true
		m.status = ""
		m.lastKeyword = text
		m.input.Reset()
		return m, tea.Batch(m.searchCmd(text), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var inputCmd, vpCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, vpCmd)
}
