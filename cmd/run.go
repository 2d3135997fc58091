package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/app"
	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/chart"
	"github.com/abhisek/interviewer/internal/coach"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/store"
)

// runtime bundles what every model-backed command needs. close releases
// the event store.
type runtime struct {
	deps    session.Deps
	modelID string
	close   func()
}

type runtimeOptions struct {
	registry prometheus.Registerer
	logger   *slog.Logger
}

// loadCatalog returns the --catalog file, then INTERVIEWER_CATALOG, then
// the embedded default.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = os.Getenv("INTERVIEWER_CATALOG")
	}
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

// openEventRepo opens the event store unless --no-log is set.
func openEventRepo(cmd *cobra.Command) (store.EventRepo, func(), error) {
	if noLog, _ := cmd.Flags().GetBool("no-log"); noLog {
		return store.NopEventRepo{}, func() {}, nil
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st.EventRepo(), func() { _ = st.Close() }, nil
}

// newRuntime loads configuration and builds the provider chain. A missing
// credential is returned as an error before any screen or server starts.
func newRuntime(cmd *cobra.Command, opts runtimeOptions) (*runtime, error) {
	ctx := cmd.Context()
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}

	cat, err := loadCatalog(cmd)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := openEventRepo(cmd)
	if err != nil {
		return nil, err
	}

	var metrics *llm.Metrics
	if opts.registry != nil {
		metrics = llm.NewMetrics(opts.registry)
	}

	provider, err := llm.NewProviderFromEnv(ctx, llm.Options{
		EventRepo: repo,
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	return &runtime{
		deps: session.Deps{
			Coach:   coach.New(provider, coach.DefaultConfig()),
			Charts:  chart.NewRandom(),
			Catalog: cat,
			Logger:  logger,
		},
		modelID: provider.ModelID(),
		close:   closeRepo,
	}, nil
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := newRuntime(cmd, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()

	err = app.Run(cmd.Context(), app.Options{
		Session: session.New(uuid.NewString(), rt.deps),
		ModelID: rt.modelID,
	})
	if errors.Is(err, tea.ErrProgramKilled) && errors.Is(cmd.Context().Err(), context.Canceled) {
		return nil
	}
	return err
}
