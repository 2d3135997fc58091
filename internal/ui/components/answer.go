package components

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// AnswerBox wraps bubbles/textarea for free-text interview answers.
type AnswerBox struct {
	Model textarea.Model
}

// NewAnswerBox creates an unfocused answer box.
func NewAnswerBox(placeholder string, width, height int) AnswerBox {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	return AnswerBox{Model: ta}
}

// Focus gives the box keyboard focus.
func (a *AnswerBox) Focus() tea.Cmd {
	return a.Model.Focus()
}

// Blur removes keyboard focus.
func (a *AnswerBox) Blur() {
	a.Model.Blur()
}

// Focused reports whether the box has focus.
func (a AnswerBox) Focused() bool {
	return a.Model.Focused()
}

// SetWidth resizes the box.
func (a *AnswerBox) SetWidth(w int) {
	a.Model.SetWidth(w)
}

// Update forwards messages to the textarea.
func (a AnswerBox) Update(msg tea.Msg) (AnswerBox, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the box.
func (a AnswerBox) View() string {
	return a.Model.View()
}

// Value returns the typed answer.
func (a AnswerBox) Value() string {
	return a.Model.Value()
}

// Blank reports whether nothing but whitespace has been typed.
func (a AnswerBox) Blank() bool {
	return strings.TrimSpace(a.Model.Value()) == ""
}
