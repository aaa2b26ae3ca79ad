// View rendering for the chat interface.
package chat

import (
	"fmt"
	"strings"

	"lawcheck/internal/session"
	"lawcheck/internal/verdict"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Legal Fact Checker")
	sub := m.styles.Subtitle.Render("근로기준법 · 주택임대차보호법 기반")

	check := m.styles.Tab.Render("팩트체크")
	articles := m.styles.Tab.Render("법령 검색")
	if m.tab == CheckTab {
		check = m.styles.ActiveTab.Render("팩트체크")
	} else {
		articles = m.styles.ActiveTab.Render("법령 검색")
	}
	tabs := check + articles

	who := m.styles.Muted.Render("not signed in")
	if user := m.gate.CurrentUser(); user != nil {
		name := user.Name
		if name == "" {
			name = user.Email
		}
		who = m.styles.Muted.Render(name)
	}

	line := fmt.Sprintf("%s  %s  %s  %s", title, sub, tabs, who)
	return line + "\n" + m.styles.Divider(m.width)
}

func (m Model) renderFooter() string {
	var input string
	switch {
	case m.signingIn:
		input = m.spinner.View() + " " + m.styles.Muted.Render("signing in...")
	case !m.authenticated():
		input = m.styles.Bold.Render("Press Enter to sign in with Google.")
	case m.tab == CheckTab && m.checking:
		input = m.spinner.View() + " " + m.styles.Muted.Render("분석 중")
	default:
		input = m.input.View()
		// Searches are not serialized; the input stays live and a
		// pending search only shows as a spinner.
		if m.tab == ArticlesTab && m.searching {
			input += "  " + m.spinner.View()
		}
	}

	help := m.styles.Footer.Render("enter: submit · tab: switch view · ctrl+d: sign out · ctrl+c: quit")
	if m.status != "" {
		help = m.styles.Error.Render(m.status)
	}
	return m.styles.Divider(m.width) + "\n" + input + "\n" + help
}

// refreshViewport re-renders the focused tab's content into the
// viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	if m.tab == CheckTab {
		m.viewport.SetContent(m.renderTranscript())
	} else {
		m.viewport.SetContent(m.renderResults())
	}
}

func (m Model) renderTranscript() string {
	if !m.authenticated() {
		return m.styles.Muted.Render("\n  Sign in to start fact-checking legal claims.")
	}

	turns := m.session.Transcript()
	if len(turns) == 0 {
		return m.styles.Muted.Render("\n  Ask a question about labor law or housing lease law.")
	}

	var b strings.Builder
	for _, turn := range turns {
		switch turn.Role {
		case session.RoleUser:
			b.WriteString(m.styles.UserLabel.Render("You") + "\n")
			b.WriteString(m.styles.UserText.Render(turn.Text) + "\n")
		case session.RoleAI:
			b.WriteString(m.renderVerdict(turn.Verdict))
		}
	}
	return b.String()
}

func (m Model) renderVerdict(v verdict.Verdict) string {
	var b strings.Builder
	b.WriteString(m.styles.AILabel.Render("판정 결과") + " " + m.styles.VerdictBadge(v.Class) + "\n")
	b.WriteString(m.renderMarkdown(v.Explanation))

	if v.ExampleCase != "" {
		b.WriteString(m.styles.SectionHeading.Render("사례") + "\n")
		b.WriteString(m.renderMarkdown(v.ExampleCase))
	}
	if v.CautionNote != "" {
		b.WriteString(m.styles.SectionHeading.Render("주의") + "\n")
		b.WriteString(m.renderMarkdown(v.CautionNote))
	}
	if len(v.Sources) > 0 {
		b.WriteString(m.styles.SectionHeading.Render("참고 법령") + "\n")
		for _, s := range v.Sources {
			b.WriteString(m.styles.SourceItem.Render("• "+s) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderResults() string {
	results := m.searcher.Results()
	if len(results) == 0 {
		if m.lastKeyword != "" {
			return m.styles.Muted.Render("\n  No articles found for \"" + m.lastKeyword + "\".")
		}
		return m.styles.Muted.Render("\n  Search the article index by keyword.")
	}

	var b strings.Builder
	for _, article := range results {
		heading := fmt.Sprintf("%s %s", article.LawName, article.ArticleNumber)
		b.WriteString(m.styles.UserLabel.Render(heading) + "\n")
		b.WriteString(m.styles.UserText.Render(article.Content) + "\n")
	}
	return b.String()
}

// renderMarkdown renders markdown with panic recovery; glamour can
// panic on odd terminal metrics, in which case the raw text is shown.
func (m Model) renderMarkdown(content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = content + "\n"
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	if content == "" {
		return ""
	}
	return content + "\n"
}
