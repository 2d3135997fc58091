package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--env-file", ""))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestChartCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "chart", "--seed", "3", "--kind", "pie", "--json=false")
	require.NoError(t, err)

	assert.Contains(t, out, "Describe this pie chart.")
	assert.Contains(t, out, "Market Share Distribution")
	assert.Contains(t, out, "PNG rendered in memory")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "chart images are never written to disk")
}

func TestChartCommandHasNoFileOutput(t *testing.T) {
	_, _, err := execute(t, "chart", "--png", "chart.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestChartCommandJSON(t *testing.T) {
	out, _, err := execute(t, "chart", "--seed", "9", "--kind", "bar", "--json")
	require.NoError(t, err)

	var doc struct {
		Kind    string `json:"kind"`
		Caption string `json:"caption"`
		PNG     string `json:"png_base64"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "bar", doc.Kind)
	assert.NotEmpty(t, doc.PNG)
}

func TestChartCommandUnknownKind(t *testing.T) {
	_, _, err := execute(t, "chart", "--kind", "radar", "--json=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart kind")
}

func TestCatalogCommand(t *testing.T) {
	out, _, err := execute(t, "catalog", "--yaml=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Data Analyst, Data Scientist, Machine Learning")
	assert.Contains(t, out, "Chart:   Chart Description")
}

func TestCatalogCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"roles: [Engineer]\nlevels: [Senior]\ntopics: [Go]\nchart_topic: Charts\n"), 0o644))

	out, _, err := execute(t, "catalog", "--catalog", path, "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "- Engineer")
	assert.Contains(t, out, "chart_topic: Charts")

	_, _, err = execute(t, "catalog", "--catalog", "", "--yaml=false")
	require.NoError(t, err)
}

func TestAskEvaluateBlankAnswerWarns(t *testing.T) {
	_, stderr, err := execute(t, "ask", "evaluate", "--question", "What is a JOIN?", "--answer", "   ", "--json=false")
	require.ErrorIs(t, err, errActionFailed)
	assert.Contains(t, stderr, "Please provide an answer before evaluating.")
}

func TestAskHintNeedsQuestion(t *testing.T) {
	_, _, err := execute(t, "ask", "hint", "--question", "", "--json=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no question imported")
}

func TestAskWithoutCredentialFailsFast(t *testing.T) {
	for _, k := range []string{
		"INTERVIEWER_LLM_PROVIDER", "INTERVIEWER_OPENAI_API_KEY", "INTERVIEWER_ANTHROPIC_API_KEY",
		"INTERVIEWER_GEMINI_API_KEY", "INTERVIEWER_OPENROUTER_API_KEY",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}

	_, _, err := execute(t, "ask", "question", "--no-log", "--topic", "SQL", "--json=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM provider not configured")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--check=false")
	require.NoError(t, err)
	assert.Contains(t, out, "interviewer (devel)")
}
