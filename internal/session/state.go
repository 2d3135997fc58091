package session

import (
	"time"

	"github.com/abhisek/interviewer/internal/catalog"
)

// SessionPhase represents where the user is in the interview flow.
type SessionPhase int

const (
	PhaseSelecting SessionPhase = iota // No question imported yet
	PhaseQuestion                      // A question is stored
)

func (p SessionPhase) String() string {
	if p == PhaseQuestion {
		return "question"
	}
	return "selecting"
}

// MarshalText renders the phase by name in JSON.
func (p SessionPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is the per-session interview state: at most one stored question.
// A stored question is only ever overwritten, never cleared.
type State struct {
	question   string
	selection  catalog.Selection
	importedAt time.Time
}

// Question returns the stored question and whether one exists.
func (s *State) Question() (string, bool) {
	return s.question, s.question != ""
}

// Selection returns the selection the stored question was imported with.
func (s *State) Selection() catalog.Selection {
	return s.selection
}

// ImportedAt returns when the stored question was imported.
func (s *State) ImportedAt() time.Time {
	return s.importedAt
}

// Phase reports whether a question has been imported.
func (s *State) Phase() SessionPhase {
	if s.question == "" {
		return PhaseSelecting
	}
	return PhaseQuestion
}

func (s *State) store(sel catalog.Selection, question string, at time.Time) {
	s.question = question
	s.selection = sel
	s.importedAt = at
}
