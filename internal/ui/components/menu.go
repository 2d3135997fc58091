package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/ui/theme"
)

// MenuItem is one action button. Disabled items are drawn dimmed and are
// skipped by the cursor.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of action buttons.
type Menu struct {
	Items    []MenuItem
	Selected int

	// Blurred hides the cursor and ignores keys.
	Blurred bool
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Next()
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	press, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Blurred {
		return m, nil
	}
	switch {
	case key.Matches(press, keyUp):
		m.Prev()
	case key.Matches(press, keyDown):
		m.Next()
	case key.Matches(press, keyEnter):
		return m, m.activate()
	}
	return m, nil
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	if item := m.Items[m.Selected]; !item.Disabled && item.Action != nil {
		return item.Action()
	}
	return nil
}

// Prev moves the cursor up to the nearest enabled item and reports whether
// one was found.
func (m *Menu) Prev() bool { return m.step(-1) }

// Next is Prev in the other direction.
func (m *Menu) Next() bool { return m.step(1) }

func (m *Menu) step(dir int) bool {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return true
		}
	}
	return false
}

func (m Menu) View() string {
	plain := lipgloss.NewStyle().Foreground(theme.Text)
	var b strings.Builder
	for i, item := range m.Items {
		line := plain.Render("    " + item.Label)
		if item.Disabled {
			line = theme.Dimmed.Render("    " + item.Label)
		} else if i == m.Selected && !m.Blurred {
			line = theme.Selected.Render("  ▸ " + item.Label)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
