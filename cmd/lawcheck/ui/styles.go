// Package ui provides the visual styling for the lawcheck TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lawcheck/internal/verdict"
)

// Color palette. Verdict colors follow traffic-light semantics with
// grey for indeterminate outcomes.
var (
	Foreground = lipgloss.Color("#f2f2f2")
	Primary    = lipgloss.Color("#7c8cf8")
	Accent     = lipgloss.Color("#a78bfa")
	MutedColor = lipgloss.Color("#6b7280")
	BorderCol  = lipgloss.Color("#374151")

	VerdictTrue    = lipgloss.Color("#4ade80")
	VerdictPartial = lipgloss.Color("#facc15")
	VerdictFalse   = lipgloss.Color("#f87171")
	VerdictUnknown = lipgloss.Color("#9ca3af")
)

// Styles holds all styled components used by the chat interface.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Error    lipgloss.Style

	UserLabel lipgloss.Style
	UserText  lipgloss.Style
	AILabel   lipgloss.Style

	SectionHeading lipgloss.Style
	SourceItem     lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Footer    lipgloss.Style

	badges map[verdict.Class]lipgloss.Style
}

// NewStyles builds the style set.
func NewStyles() Styles {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#101010"))

	return Styles{
		Title:    lipgloss.NewStyle().Foreground(Primary).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(MutedColor).Italic(true),
		Muted:    lipgloss.NewStyle().Foreground(MutedColor),
		Bold:     lipgloss.NewStyle().Foreground(Foreground).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(VerdictFalse),

		UserLabel: lipgloss.NewStyle().Foreground(Primary).Bold(true).MarginTop(1),
		UserText:  lipgloss.NewStyle().Foreground(Foreground).PaddingLeft(2),
		AILabel:   lipgloss.NewStyle().Foreground(Accent).Bold(true).MarginTop(1),

		SectionHeading: lipgloss.NewStyle().Foreground(MutedColor).Bold(true).MarginTop(1),
		SourceItem:     lipgloss.NewStyle().Foreground(Foreground).PaddingLeft(2),

		Tab:       lipgloss.NewStyle().Foreground(MutedColor).Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().Foreground(Primary).Bold(true).Padding(0, 2).Underline(true),
		Footer:    lipgloss.NewStyle().Foreground(MutedColor).Padding(0, 1),

		badges: map[verdict.Class]lipgloss.Style{
			verdict.True:          badge.Background(VerdictTrue),
			verdict.Partial:       badge.Background(VerdictPartial),
			verdict.False:         badge.Background(VerdictFalse),
			verdict.Indeterminate: badge.Background(VerdictUnknown),
		},
	}
}

// VerdictBadge renders the colored badge for a verdict class. Every
// class has a badge; unknown values fall back to the indeterminate
// style.
func (s Styles) VerdictBadge(class verdict.Class) string {
	style, ok := s.badges[class]
	if !ok {
		style = s.badges[verdict.Indeterminate]
	}
	return style.Render(badgeLabel(class))
}

func badgeLabel(class verdict.Class) string {
	switch class {
	case verdict.True:
		return "TRUE"
	case verdict.Partial:
		return "PARTIALLY TRUE"
	case verdict.False:
		return "FALSE"
	default:
		return "INDETERMINATE"
	}
}

// Divider renders a muted horizontal rule of the given width.
func (s Styles) Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
