package interview

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/ui/theme"
)

func (s *InterviewScreen) View(width, height int) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	s.answer.SetWidth(inner)

	var b strings.Builder

	b.WriteString(theme.Heading.Render("  " + s.heading))
	b.WriteString("\n")
	b.WriteString(theme.QuestionPanel.Width(inner + 2).Render(s.question))
	b.WriteString("\n\n")

	label := "  Your answer"
	if s.focus == focusAnswer {
		label = theme.Selected.Render(label)
	} else {
		label = theme.Dimmed.Render(label)
	}
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(s.answer.View())
	b.WriteString("\n\n")

	b.WriteString(s.menu.View())

	switch {
	case s.pending:
		b.WriteString("\n  " + s.spinner.View() + " Thinking...\n")
	case s.result != nil:
		b.WriteString("\n")
		b.WriteString(renderResult(*s.result, inner+2))
	}

	return b.String()
}

func renderResult(out session.Outcome, width int) string {
	switch out.Status {
	case session.StatusWarning:
		return theme.WarningText.Render("  " + out.Text)
	case session.StatusFailed:
		return lipgloss.NewStyle().Width(width).Render(theme.ErrorText.Render("  " + out.Text))
	}

	body := out.Text
	if out.Heading != "" {
		body = theme.Heading.Render(out.Heading) + "\n" + body
	}
	return theme.ResultPanel.Width(width).Render(body)
}
