package commands

import (
	"github.com/leapstack-labs/pgask/internal/cli/config"
	"github.com/leapstack-labs/pgask/pkg/catalog"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the schema of the configured database",
		Long: `Read every user schema, its tables and their columns from the configured
target under one consistent snapshot, and print them.

Text output uses the compact grammar, one line per table:

  demo.users (id integer, name text, age integer)

or, with --format verbose, the marker grammar accepted by 'pgask format'.`,
		Example: `  pgask schema
  pgask schema -f verbose > schema.txt
  pgask schema -t prod -o json`,
		Args: cobra.NoArgs,
		RunE: runSchema,
	}

	cmd.Flags().StringP("format", "f", "", "Schema text grammar (compact|verbose)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.FormatCompact, config.FormatVerbose}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	backend, err := cc.OpenBackend(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			cc.Logger.Warn("failed to close backend", "error", err)
		}
	}()

	result, err := catalog.NewExplorer(backend, cc.Logger).Explore(ctx)
	if err != nil {
		return err
	}

	return writeResult(cc.Renderer, result, cc.Cfg.Format)
}
