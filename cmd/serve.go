package cmd

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview form over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		idle, _ := cmd.Flags().GetDuration("idle-ttl")

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		rt, err := newRuntime(cmd, runtimeOptions{registry: reg, logger: logger})
		if err != nil {
			return err
		}
		defer rt.close()

		manager := session.NewManager(rt.deps, idle)
		srv := web.NewServer(manager, web.Options{
			Addr:     addr,
			Logger:   logger,
			Registry: reg,
		})
		return srv.Run(cmd.Context())
	},
}

func init() {
	def := web.DefaultOptions()
	serveCmd.Flags().String("addr", def.Addr, "Listen address")
	serveCmd.Flags().Duration("idle-ttl", session.DefaultIdleTTL, "Drop sessions idle for longer than this")
}
