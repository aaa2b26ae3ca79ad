// Async commands. Each wraps one blocking call in a tea.Cmd and
// settles into exactly one message, so every pending flag set in
// update.go is cleared by a matching completion.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"lawcheck/internal/auth"
)

// signInDoneMsg carries the outcome of the OAuth/mock sign-in flow.
type signInDoneMsg struct {
	user *auth.User
	err  error
}

// checkDoneMsg signals that a conversation submission settled. The
// transcript itself lives in the session; rejected is true when the
// submission never entered the transcript (busy, empty, signed out).
type checkDoneMsg struct {
	rejected bool
	err      error
}

// searchDoneMsg signals that an article search settled.
type searchDoneMsg struct {
	keyword string
	err     error
}

func (m Model) signInCmd() tea.Cmd {
	return func() tea.Msg {
		// No deadline: the flow waits on a human in a browser.
		user, err := m.gate.SignIn(context.Background())
		return signInDoneMsg{user: user, err: err}
	}
}

func (m Model) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		// Submit folds request failures into the transcript itself; a
		// returned error means the submission was rejected up front.
		if _, err := m.session.Submit(context.Background(), text); err != nil {
			return checkDoneMsg{rejected: true, err: err}
		}
		return checkDoneMsg{}
	}
}

// resolveDoneMsg carries the outcome of a backend id resolution retry.
type resolveDoneMsg struct {
	err error
}

func (m Model) resolveCmd() tea.Cmd {
	return func() tea.Msg {
		return resolveDoneMsg{err: m.gate.ResolveID(context.Background())}
	}
}

func (m Model) searchCmd(keyword string) tea.Cmd {
	return func() tea.Msg {
		err := m.searcher.Search(context.Background(), keyword)
		return searchDoneMsg{keyword: keyword, err: err}
	}
}
