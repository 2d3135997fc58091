package coach

import (
	"fmt"

	"github.com/abhisek/interviewer/internal/catalog"
)

// QuestionPrompt builds the prompt that asks for an interview question.
// In chart mode the role and topic are ignored.
func QuestionPrompt(sel catalog.Selection, chartMode bool) string {
	if chartMode {
		return fmt.Sprintf("As a professional interviewer, generate a random chart and ask the candidate to describe it. The difficulty level is %s.", sel.Level)
	}
	return fmt.Sprintf("As a professional interviewer, give a technical interview question at %s level for a %s role about %s.", sel.Level, sel.Role, sel.Topic)
}

// HintPrompt builds the prompt that asks for a hint.
func HintPrompt(question string) string {
	return "Provide a brief hint to guide the interviewee in answering this interview question: " + question
}

// SolutionPrompt builds the prompt that asks for a model answer.
func SolutionPrompt(question string) string {
	return "Provide a model answer with explanation for this interview question: " + question
}

// EvaluationPrompt builds the prompt that asks for graded feedback.
func EvaluationPrompt(question, answer string) string {
	return fmt.Sprintf("**Interview Question:** %s\n\n**Answer:** %s\n\n"+
		"Evaluate the response on a scale of 100 based on accuracy, depth, and clarity. "+
		"Provide feedback on strengths, weaknesses, and suggestions for improvement. "+
		"If the answer is incorrect, explain the correct approach.",
		question, answer)
}

// ScorecardPrompt is EvaluationPrompt asking for a JSON reply.
func ScorecardPrompt(question, answer string) string {
	return EvaluationPrompt(question, answer) + "\n\n" +
		"Reply with a JSON object only, using the fields score (integer 0-100), " +
		"strengths, weaknesses, suggestions (arrays of short strings) and " +
		"correct_approach (empty string when the answer is correct)."
}
