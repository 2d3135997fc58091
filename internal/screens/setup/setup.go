package setup

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/chart"
	"github.com/abhisek/interviewer/internal/router"
	"github.com/abhisek/interviewer/internal/screen"
	"github.com/abhisek/interviewer/internal/screens/chartview"
	"github.com/abhisek/interviewer/internal/screens/interview"
	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/ui/components"
	"github.com/abhisek/interviewer/internal/ui/layout"
	"github.com/abhisek/interviewer/internal/ui/theme"
)

// importDoneMsg carries the result of an Import Question press.
type importDoneMsg struct {
	Outcome session.Outcome
}

// chartDoneMsg carries the result of a Generate Chart press.
type chartDoneMsg struct {
	Outcome session.Outcome
	Result  *chart.Result
}

const (
	rowRole = iota
	rowLevel
	rowTopic
	rowMenu
)

const (
	itemImport = iota
	itemChart
	itemResume
	itemQuit
)

// SetupScreen lets the user pick a role, level and topic.
type SetupScreen struct {
	sess      *session.Session
	catalog   *catalog.Catalog
	selectors [3]components.Selector
	menu      components.Menu
	row       int

	pending bool
	spinner spinner.Model
	errMsg  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen for sess.
func New(sess *session.Session) *SetupScreen {
	cat := sess.Catalog()
	sel := cat.DefaultSelection()

	s := &SetupScreen{
		sess:    sess,
		catalog: cat,
		selectors: [3]components.Selector{
			components.NewSelector("Role", cat.Roles, sel.Role),
			components.NewSelector("Level", cat.Levels, sel.Level),
			components.NewSelector("Topic", cat.AllTopics(), sel.Topic),
		},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Import Question", Action: s.importQuestion},
		{Label: "Generate Chart", Action: s.generateChart},
		{Label: "Resume Question", Action: s.resume},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	s.menu.Blurred = true
	s.refreshMenu()
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Interview Setup"
}

// Selection returns the selection currently shown in the widgets.
func (s *SetupScreen) Selection() catalog.Selection {
	return catalog.Selection{
		Role:  s.selectors[rowRole].Value(),
		Level: s.selectors[rowLevel].Value(),
		Topic: s.selectors[rowTopic].Value(),
	}
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.pending {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Move"}}
	if s.row < rowMenu {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Select"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case importDoneMsg:
		return s.handleImportDone(msg)
	case chartDoneMsg:
		return s.handleChartDone(msg)
	case spinner.TickMsg:
		if !s.pending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.row == rowMenu {
			if !s.menu.Prev() {
				s.focusRow(rowTopic)
			}
		} else if s.row > rowRole {
			s.focusRow(s.row - 1)
		}
		return s, nil

	case "down", "j":
		if s.row < rowTopic {
			s.focusRow(s.row + 1)
		} else if s.row == rowTopic {
			s.focusRow(rowMenu)
		} else {
			s.menu.Next()
		}
		return s, nil

	case "enter":
		if s.row < rowMenu {
			return s, s.importQuestion()
		}
	}

	if s.row < rowMenu {
		s.selectors[s.row], _ = s.selectors[s.row].Update(msg)
		s.errMsg = ""
		s.refreshMenu()
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SetupScreen) focusRow(row int) {
	s.row = row
	s.menu.Blurred = row != rowMenu
	if row == rowMenu {
		s.menu.Selected = -1
		s.menu.Next()
	}
}

// refreshMenu enables the actions valid for the current state.
func (s *SetupScreen) refreshMenu() {
	s.menu.Items[itemChart].Disabled = !s.catalog.IsChartMode(s.Selection())
	s.menu.Items[itemResume].Disabled = s.sess.Phase() != session.PhaseQuestion
	if s.menu.Items[s.menu.Selected].Disabled {
		s.menu.Selected = itemImport
	}
}

func (s *SetupScreen) importQuestion() tea.Cmd {
	sel := s.Selection()
	s.pending = true
	s.errMsg = ""
	sess := s.sess
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return importDoneMsg{Outcome: sess.Import(context.Background(), sel)}
	})
}

func (s *SetupScreen) generateChart() tea.Cmd {
	sel := s.Selection()
	s.pending = true
	s.errMsg = ""
	sess := s.sess
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		out, res := sess.Chart(sel)
		return chartDoneMsg{Outcome: out, Result: res}
	})
}

func (s *SetupScreen) resume() tea.Cmd {
	snap := s.sess.Snapshot()
	if snap.Question == "" {
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: interview.New(s.sess, snap.Heading, snap.Question)}
	}
}

func (s *SetupScreen) handleImportDone(msg importDoneMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	s.refreshMenu()
	if !msg.Outcome.OK() {
		s.errMsg = msg.Outcome.Text
		return s, nil
	}
	return s, func() tea.Msg {
		return router.PushScreenMsg{Screen: interview.New(s.sess, msg.Outcome.Heading, msg.Outcome.Text)}
	}
}

func (s *SetupScreen) handleChartDone(msg chartDoneMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	if !msg.Outcome.OK() || msg.Result == nil {
		s.errMsg = msg.Outcome.Text
		return s, nil
	}
	return s, func() tea.Msg {
		return router.PushScreenMsg{Screen: chartview.New(s.sess, s.Selection(), msg.Result)}
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Practice a technical interview"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Pick a role, a level and a topic"))
	b.WriteString("\n\n")

	for i, sel := range s.selectors {
		b.WriteString(sel.View(s.row == i && !s.pending, 8))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.pending {
		b.WriteString("  " + s.spinner.View() + " Thinking...\n")
	} else {
		b.WriteString(s.menu.View())
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width - 4).Render(theme.ErrorText.Render("  " + s.errMsg)))
		b.WriteString("\n")
	}

	return b.String()
}
