// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-search/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Serve exposes the search engine over HTTP:

  POST /search              {"theme": "..."}
  GET  /api/v1/search       ?theme=...
  GET  /api/v1/periods      period catalog
  GET  /api/v1/history      recent searches (when history.path is set)
  GET  /health, /metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, log, appOptions{withMetrics: true, withHistory: true})
		if err != nil {
			return err
		}
		defer a.Close()

		var hist server.HistoryReader
		if a.history != nil {
			hist = a.history
		}
		h := server.NewHandler(a.engine, a.catalog.Entries(), hist, version, log)
		srv := server.New(cfg.Server, h, a.metrics, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host")
	serveCmd.Flags().Int("port", 0, "listen port (default 10000)")
	serveCmd.Flags().Bool("debug", false, "gin debug mode")
	annotate(serveCmd.Flags(), "host", "server.host")
	annotate(serveCmd.Flags(), "port", "server.port")
	annotate(serveCmd.Flags(), "debug", "server.debug")

	rootCmd.AddCommand(serveCmd)
}
