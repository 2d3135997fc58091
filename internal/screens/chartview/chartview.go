// Package chartview shows a generated practice chart.
package chartview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/chart"
	"github.com/abhisek/interviewer/internal/router"
	"github.com/abhisek/interviewer/internal/screen"
	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/ui/layout"
	"github.com/abhisek/interviewer/internal/ui/theme"
)

// ChartScreen displays one chart result. The PNG stays in memory; the
// terminal shows the plotted data instead.
type ChartScreen struct {
	sess   *session.Session
	sel    catalog.Selection
	result *chart.Result
	errMsg string
}

var _ screen.Screen = (*ChartScreen)(nil)
var _ screen.KeyHintProvider = (*ChartScreen)(nil)

// New creates a chart screen.
func New(sess *session.Session, sel catalog.Selection, result *chart.Result) *ChartScreen {
	return &ChartScreen{sess: sess, sel: sel, result: result}
}

func (c *ChartScreen) Init() tea.Cmd {
	return nil
}

func (c *ChartScreen) Title() string {
	return "Chart Description"
}

func (c *ChartScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "New chart"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (c *ChartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "r", "R":
		out, res := c.sess.Chart(c.sel)
		if !out.OK() || res == nil {
			c.errMsg = out.Text
			return c, nil
		}
		next := New(c.sess, c.sel, res)
		return c, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return c, nil
}

func (c *ChartScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render(c.result.Caption))
	b.WriteString("\n\n")

	table := lipgloss.NewStyle().Foreground(theme.Text).Render(c.result.Data.Describe())
	b.WriteString(theme.Card.Render(table))
	b.WriteString("\n\n")

	b.WriteString(theme.Hint.Render(fmt.Sprintf("  PNG %dx%d, %d bytes held in memory. Use `interviewer chart --png FILE` to save one.",
		chart.Width, chart.Height, len(c.result.Image))))
	b.WriteString("\n")

	if c.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render("  "+c.errMsg) + "\n")
	}
	return b.String()
}
