package components

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/ui/theme"
)

// Selector is a single-row picker cycling through a fixed option set.
type Selector struct {
	Label    string
	Options  []string
	Selected int
}

// NewSelector creates a selector with value preselected when present.
func NewSelector(label string, options []string, value string) Selector {
	s := Selector{Label: label, Options: options}
	for i, o := range options {
		if o == value {
			s.Selected = i
			break
		}
	}
	return s
}

// Update cycles the value on left/right.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	press, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.Options) == 0 {
		return s, nil
	}
	n := len(s.Options)
	switch {
	case key.Matches(press, keyLeft):
		s.Selected = (s.Selected + n - 1) % n
	case key.Matches(press, keyRight):
		s.Selected = (s.Selected + 1) % n
	}
	return s, nil
}

// Value returns the selected option.
func (s Selector) Value() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.Selected]
}

// View renders the selector. labelWidth pads labels so rows line up.
func (s Selector) View(focused bool, labelWidth int) string {
	label := lipgloss.NewStyle().
		Width(labelWidth).
		Foreground(theme.TextDim).
		Render(s.Label)

	value := "  " + s.Value() + "  "
	if focused {
		return "  ▸ " + label + theme.Selected.Render("◂"+value+"▸")
	}
	return "    " + label + lipgloss.NewStyle().Foreground(theme.Text).Render(" "+value+" ")
}
