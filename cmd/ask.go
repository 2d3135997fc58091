package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/coach"
	"github.com/abhisek/interviewer/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Run a single interview action and print the reply",
}

var askQuestionCmd = &cobra.Command{
	Use:   "question",
	Short: "Generate an interview question",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.close()

		sel, err := selectionFromFlags(cmd, rt.deps.Catalog)
		if err != nil {
			return err
		}

		sess := session.New("cli", rt.deps)
		return printOutcome(cmd, sess.Import(cmd.Context(), sel))
	},
}

var askHintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Get a hint for a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		return askAbout(cmd, session.ActionHint, func(ctx context.Context, c *coach.Coach, q string) (string, error) {
			return c.GenerateHint(ctx, q)
		})
	},
}

var askSolutionCmd = &cobra.Command{
	Use:   "solution",
	Short: "Get a model answer for a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		return askAbout(cmd, session.ActionSolution, func(ctx context.Context, c *coach.Coach, q string) (string, error) {
			return c.GenerateSolution(ctx, q)
		})
	},
}

var askEvaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Grade an answer to a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, _ := cmd.Flags().GetString("answer")
		if answer == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			answer = string(data)
		}
		if coach.IsBlank(answer) {
			return printOutcome(cmd, session.Outcome{
				Action: session.ActionEvaluate,
				Status: session.StatusWarning,
				Text:   session.BlankAnswerWarning,
			})
		}

		if scorecard, _ := cmd.Flags().GetBool("scorecard"); scorecard {
			return askScorecard(cmd, answer)
		}
		return askAbout(cmd, session.ActionEvaluate, func(ctx context.Context, c *coach.Coach, q string) (string, error) {
			return c.EvaluateAnswer(ctx, q, answer)
		})
	},
}

// readQuestion returns --question, reading stdin when it is "-".
func readQuestion(cmd *cobra.Command) (string, error) {
	q, _ := cmd.Flags().GetString("question")
	if q == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read question: %w", err)
		}
		q = string(data)
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return "", session.ErrNoQuestion
	}
	return q, nil
}

// askAbout runs one coach call on the question given on the command line.
func askAbout(cmd *cobra.Command, action session.Action, call func(context.Context, *coach.Coach, string) (string, error)) error {
	question, err := readQuestion(cmd)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()

	text, err := call(cmd.Context(), rt.deps.Coach, question)
	if err != nil {
		return printOutcome(cmd, failedOutcome(action, err))
	}
	return printOutcome(cmd, session.Outcome{
		Action:  action,
		Status:  session.StatusOK,
		Heading: session.HeadingFor(action, catalog.Selection{}),
		Text:    text,
	})
}

func askScorecard(cmd *cobra.Command, answer string) error {
	question, err := readQuestion(cmd)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()

	sc, err := rt.deps.Coach.EvaluateScorecard(cmd.Context(), question, answer)
	if err != nil {
		return printOutcome(cmd, failedOutcome(session.ActionScorecard, err))
	}
	return printOutcome(cmd, session.Outcome{
		Action:    session.ActionScorecard,
		Status:    session.StatusOK,
		Heading:   session.HeadingFor(session.ActionScorecard, catalog.Selection{}),
		Text:      sc.String(),
		Scorecard: sc,
	})
}

func failedOutcome(action session.Action, err error) session.Outcome {
	out := session.Outcome{Action: action, Status: session.StatusFailed, Text: err.Error(), Err: err}
	var ce *coach.CallError
	if errors.As(err, &ce) {
		out.Text = ce.Message()
		out.Reason = ce.Reason()
	}
	return out
}

// errActionFailed makes the process exit non-zero once the outcome has
// been printed.
var errActionFailed = errors.New("action did not succeed")

// printOutcome writes out as text or, with --json, as a JSON document.
// Warnings and failures return errActionFailed.
func printOutcome(cmd *cobra.Command, out session.Outcome) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	switch {
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	case out.OK():
		if out.Heading != "" {
			fmt.Fprintln(w, out.Heading)
		}
		fmt.Fprintln(w, out.Text)
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), out.Text)
	}

	if !out.OK() {
		cmd.SilenceErrors = true
		return errActionFailed
	}
	return nil
}

// selectionFromFlags fills unset flags from the catalog default and
// validates the result.
func selectionFromFlags(cmd *cobra.Command, cat *catalog.Catalog) (catalog.Selection, error) {
	sel := cat.DefaultSelection()
	if v, _ := cmd.Flags().GetString("role"); v != "" {
		sel.Role = v
	}
	if v, _ := cmd.Flags().GetString("level"); v != "" {
		sel.Level = v
	}
	if v, _ := cmd.Flags().GetString("topic"); v != "" {
		sel.Topic = v
	}
	if err := cat.Validate(sel); err != nil {
		return catalog.Selection{}, err
	}
	return sel, nil
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("role", "r", "", "Job role (default: first catalog role)")
	cmd.Flags().StringP("level", "l", "", "Seniority level (default: first catalog level)")
	cmd.Flags().StringP("topic", "t", "", "Topic (default: first catalog topic)")
}

func init() {
	addSelectionFlags(askQuestionCmd)

	for _, c := range []*cobra.Command{askHintCmd, askSolutionCmd, askEvaluateCmd} {
		c.Flags().StringP("question", "q", "", `Interview question ("-" reads stdin)`)
	}
	askEvaluateCmd.Flags().StringP("answer", "a", "", `Your answer ("-" reads stdin)`)
	askEvaluateCmd.Flags().Bool("scorecard", false, "Ask for a structured score")

	askCmd.PersistentFlags().Bool("json", false, "Print the outcome as JSON")
	askCmd.AddCommand(askQuestionCmd, askHintCmd, askSolutionCmd, askEvaluateCmd)
}

