package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestWALOnFile.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWALOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-3.5-turbo", Purpose: "question", InputTokens: 30, OutputTokens: 60, LatencyMs: 900, Success: true,
			RequestBody: "[system]\nAs a professional interviewer...", ResponseBody: "Write a query to find duplicate rows."},
		{Provider: "openai", Model: "gpt-3.5-turbo", Purpose: "hint", InputTokens: 20, OutputTokens: 10, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-3.5-turbo", Purpose: "evaluation", LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "evaluation", all[0].Purpose, "newest first")
	assert.False(t, all[0].Success)
	assert.Equal(t, "rate limited", all[0].ErrorMessage)
	assert.True(t, all[2].Timestamp.Equal(base.Add(time.Minute)))

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	hints, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "hint"})
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, 20, hints[0].InputTokens)

	windowed, err := repo.QueryLLMEvents(ctx, QueryOpts{From: base.Add(2 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, windowed, 2)

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Write a query to find duplicate rows.", got.ResponseBody)
	assert.Contains(t, got.RequestBody, "professional interviewer")
}

func TestGetLLMEventMissing(t *testing.T) {
	s := openTestStore(t)
	e, err := s.EventRepo().GetLLMEvent(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "gpt-3.5-turbo", Purpose: "hint", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Model: "gpt-3.5-turbo", Purpose: "hint", InputTokens: 20, OutputTokens: 15, LatencyMs: 300, Success: true},
		{Model: "gpt-4o-mini", Purpose: "solution", InputTokens: 7, OutputTokens: 70, LatencyMs: 50, Success: true},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "hint", Calls: 2, InputTokens: 30, OutputTokens: 20, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "gpt-3.5-turbo", Calls: 2, InputTokens: 30, OutputTokens: 20}, byModel[0])
	assert.Equal(t, "gpt-4o-mini", byModel[1].Model)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "x.db")
		t.Setenv("INTERVIEWER_DB", want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Dir(want))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("INTERVIEWER_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "interviewer", "interviewer.db"), got)
	})
}

func TestNopEventRepo(t *testing.T) {
	var repo EventRepo = NopEventRepo{}
	assert.NoError(t, repo.AppendLLMRequest(context.Background(), LLMRequestEventData{}))
}
