// Package web serves the interview form and its JSON API over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/interviewer/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const sessionCookie = "interviewer_session"

// Options configures a Server.
type Options struct {
	Addr            string
	Logger          *slog.Logger
	Registry        *prometheus.Registry
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

// DefaultOptions returns the settings used by `interviewer serve`.
func DefaultOptions() Options {
	return Options{
		Addr:            "127.0.0.1:8501",
		SweepInterval:   time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server wraps a gin router around a session manager.
type Server struct {
	Router *gin.Engine

	manager *session.Manager
	opts    Options
	logger  *slog.Logger
	http    *http.Server
}

// NewServer wires routes, templates and middleware.
func NewServer(manager *session.Manager, opts Options) *Server {
	def := DefaultOptions()
	if opts.Addr == "" {
		opts.Addr = def.Addr
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = def.SweepInterval
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = def.ShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))
	router.Use(
		requestLogger(opts.Logger),
		gin.CustomRecovery(recoverer(opts.Logger)),
		newHTTPMetrics(opts.Registry).handler(),
	)

	s := &Server{
		Router:  router,
		manager: manager,
		opts:    opts,
		logger:  opts.Logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.Router

	r.GET("/", s.indexPage)
	r.POST("/question", s.postQuestion)
	r.POST("/chart", s.postChart)
	r.POST("/hint", s.postHint)
	r.POST("/solution", s.postSolution)
	r.POST("/evaluate", s.postEvaluate)

	api := r.Group("/api/v1")
	api.GET("/catalog", s.apiCatalog)
	api.GET("/session", s.apiSession)
	api.POST("/question", s.apiQuestion)
	api.POST("/chart", s.apiChart)
	api.POST("/hint", s.apiHint)
	api.POST("/solution", s.apiSolution)
	api.POST("/evaluate", s.apiEvaluate)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.manager.RunSweeper(sweepCtx, s.opts.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web UI listening", "addr", s.opts.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down web UI")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// session returns the caller's session, issuing a cookie for new ones.
func (s *Server) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(sessionCookie)
	sess, created := s.manager.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	}
	return sess
}
