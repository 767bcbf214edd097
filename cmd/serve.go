package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/rogersnm/todos/internal/api"
	"github.com/rogersnm/todos/internal/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Serve the todo API over HTTP",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{storeAnnotation: "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		// The server always owns a local backend, even in a linked directory.
		var err error
		st, err = openLocalStore(cmd.Context())
		if err != nil {
			return err
		}

		if logger.GetLevel() > log.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		opts := []api.Option{api.WithLogger(logger)}
		if noMetrics, _ := cmd.Flags().GetBool("no-metrics"); !noMetrics {
			opts = append(opts, api.WithMetrics(metrics.New()))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := api.New(st, opts...).ListenAndServe(ctx, addr); err != nil {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server.addr, or :$PORT)")
	serveCmd.Flags().Bool("no-metrics", false, "disable the /metrics endpoint")
	rootCmd.AddCommand(serveCmd)
}
