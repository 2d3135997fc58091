// Package layout draws the frame around every screen: a header naming the
// app, the screen and the serving model, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/ui/theme"
)

// Smallest terminal the setup form and interview panels fit in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// Rows taken by the bordered header and footer bars.
const barHeight = 3

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight is what remains of totalHeight between the two bars.
func ContentHeight(totalHeight int) int {
	return max(totalHeight-2*barHeight, 0)
}

func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("Terminal too small!\n\nNeeds at least %dx%d, have %dx%d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text))
}

// bar draws a full-width bordered strip.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader centres title between the app name and, when set, the
// model answering requests.
func RenderHeader(title, model string, width int) string {
	brand := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("  Interviewer")
	var serving string
	if model != "" {
		serving = theme.Dimmed.Render("model ") + lipgloss.NewStyle().Foreground(theme.Accent).Render(model)
	}
	name := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	inner := max(width-4, 0)
	left := max((inner-lipgloss.Width(name))/2-lipgloss.Width(brand), 1)
	right := max(inner-lipgloss.Width(brand)-left-lipgloss.Width(name)-lipgloss.Width(serving), 1)

	return bar(brand+strings.Repeat(" ", left)+name+strings.Repeat(" ", right)+serving, width)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + theme.Dimmed.Render(h.Description)
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content and footer, padding content so the
// footer sits on the last rows.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
