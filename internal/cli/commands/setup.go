package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/pgask/internal/cli/config"
	"github.com/leapstack-labs/pgask/internal/cli/output"
	"github.com/leapstack-labs/pgask/pkg/catalog"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger the
// root command stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenBackend connects to the configured target.
// The caller must close the returned backend.
func (c *CommandContext) OpenBackend(ctx context.Context) (catalog.Backend, error) {
	c.Logger.Debug("connecting", "backend", c.Cfg.Target.Type, "host", c.Cfg.Target.Host, "database", c.Cfg.Target.Database)
	return catalog.Open(ctx, *c.Cfg.Target, c.Logger)
}

// getConfig returns the loaded configuration, or defaults when the command
// runs without the root command.
func getConfig(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}

	target := &config.TargetConfig{}
	config.ApplyTargetDefaults(target)
	return &config.Config{
		OutputFormat: config.DefaultOutput,
		Format:       config.DefaultFormat,
		LogLevel:     config.DefaultLogLevel,
		Serve:        config.ServeConfig{Addr: config.DefaultServeAddr},
		Target:       target,
	}
}
