// Tests for the Update loop's state transitions: sizing, sign-in
// gating, pending-input suppression, and completion handling.
package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"lawcheck/internal/auth"
)

func TestUpdate_WindowSize(t *testing.T) {
	m := NewTestModel(t, false)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	result := newModel.(Model)

	if result.width != 120 {
		t.Errorf("Expected width 120, got %d", result.width)
	}
	if !result.ready {
		t.Error("Expected model to be ready after first WindowSizeMsg")
	}
}

func TestUpdate_WindowSize_Tiny(t *testing.T) {
	m := NewTestModel(t, false)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Panic on tiny window size: %v", r)
		}
	}()
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 0, Height: 0})
	_ = newModel.(Model).View()
}

func TestUpdate_EnterStartsSignInWhenUnauthenticated(t *testing.T) {
	m := NewTestModel(t, false)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = newModel.(Model)

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(Model)

	if !m.signingIn {
		t.Error("Expected signingIn to be set")
	}
	if cmd == nil {
		t.Error("Expected a sign-in command")
	}

	// A second Enter while the flow is pending is ignored.
	newModel, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(Model)
	if cmd != nil {
		t.Error("Expected no command while sign-in is pending")
	}
}

func TestUpdate_SignInCompletionBindsSession(t *testing.T) {
	m := NewTestModel(t, false)
	m.signingIn = true

	user := &auth.User{BackendID: 7, Email: "dev@localhost"}
	newModel, _ := m.Update(signInDoneMsg{user: user})
	m = newModel.(Model)

	if m.signingIn {
		t.Error("Expected signingIn to clear")
	}
	if m.status != "" {
		t.Errorf("Expected empty status, got %q", m.status)
	}
}

func TestUpdate_SignInFailureReturnsToIdle(t *testing.T) {
	m := NewTestModel(t, false)
	m.signingIn = true

	newModel, _ := m.Update(signInDoneMsg{err: errFake})
	m = newModel.(Model)

	if m.signingIn {
		t.Error("Expected signingIn to clear on failure")
	}
	if m.status == "" {
		t.Error("Expected a failure status message")
	}
}

func TestUpdate_SubmitIgnoredWhilePending(t *testing.T) {
	m := NewTestModel(t, true)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = newModel.(Model)

	m.checking = true
	m.input.SetValue("또 다른 질문")

	before := len(m.session.Transcript())
	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(Model)

	if cmd != nil {
		t.Error("Expected no command while a submission is pending")
	}
	if got := len(m.session.Transcript()); got != before {
		t.Errorf("Transcript changed from %d to %d entries", before, got)
	}
	if m.input.Value() != "또 다른 질문" {
		t.Error("Input should be preserved when submission is suppressed")
	}
}

func TestUpdate_EnterSubmitsWhenIdle(t *testing.T) {
	m := NewTestModel(t, true)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = newModel.(Model)

	m.input.SetValue("수습 기간에 해고하면 월급은 어떻게 되나요?")
	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(Model)

	if !m.checking {
		t.Error("Expected checking to be set")
	}
	if cmd == nil {
		t.Error("Expected a submit command")
	}
	if m.input.Value() != "" {
		t.Error("Input should clear immediately on submit")
	}
}

func TestUpdate_CheckCompletionClearsPending(t *testing.T) {
	m := NewTestModel(t, true)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = newModel.(Model)
	m.checking = true

	newModel, _ = m.Update(checkDoneMsg{})
	m = newModel.(Model)

	if m.checking {
		t.Error("Expected checking to clear after completion")
	}
}

func TestUpdate_TabSwitchesViews(t *testing.T) {
	m := NewTestModel(t, true)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = newModel.(Model)

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = newModel.(Model)
	if m.tab != ArticlesTab {
		t.Error("Expected tab to switch to articles")
	}

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = newModel.(Model)
	if m.tab != CheckTab {
		t.Error("Expected tab to switch back to check")
	}
}

func TestUpdate_SignOutInvalidatesSession(t *testing.T) {
	m := NewTestModel(t, true)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = newModel.(Model)
	m.checking = true

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = newModel.(Model)

	if m.authenticated() {
		t.Error("Expected unauthenticated state after sign-out")
	}
	if m.checking {
		t.Error("Expected pending flag cleared on sign-out")
	}
	if len(m.session.Transcript()) != 0 {
		t.Error("Expected transcript cleared on sign-out")
	}
}

var errFake = fakeError("sign-in exploded")

type fakeError string

func (e fakeError) Error() string { return string(e) }
