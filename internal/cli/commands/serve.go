package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/pgask/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schema snapshots over HTTP",
		Long: `Start an HTTP server bound to the configured target.

Routes:
  GET  /healthz                   liveness
  GET  /v1/schema?format=FORMAT   fresh exploration (compact, verbose or json)
  POST /v1/format?format=FORMAT   verbose schema text in the body, reformatted

Every /v1/schema request reads the catalog again. Catalog failures answer 503.`,
		Example: `  pgask serve
  pgask serve --addr 127.0.0.1:9000 -t staging`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default :8087)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := cc.OpenBackend(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			cc.Logger.Warn("failed to close backend", "error", err)
		}
	}()

	srv := server.New(server.Config{
		Catalog:       backend,
		Addr:          cc.Cfg.Serve.Addr,
		DefaultFormat: cc.Cfg.Format,
		Logger:        cc.Logger,
	})
	return srv.Serve(ctx)
}
