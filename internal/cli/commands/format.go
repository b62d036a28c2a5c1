package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/pgask/internal/cli/config"
	"github.com/leapstack-labs/pgask/pkg/schematext"
	"github.com/spf13/cobra"
)

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [file|-]",
		Short: "Convert verbose schema text to the compact form",
		Long: `Parse schema text written in the verbose marker grammar

  Schema: demo
    Table: users
       Column:  id | Type: integer

and print it in the compact grammar. Malformed lines are skipped.
Reads standard input when no file (or "-") is given.`,
		Example: `  pgask schema -f verbose | pgask format
  pgask format schema.txt --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFormat,
	}

	cmd.Flags().Bool("watch", false, "Re-render whenever the file changes")
	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if watch && path == "-" {
		return fmt.Errorf("--watch requires a file argument")
	}

	render := func() error {
		data, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		return writeResult(cc.Renderer, schematext.Parse(string(data)), config.FormatCompact)
	}

	if !watch {
		return render()
	}

	fw, err := newFileWatcher(path, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	if err := render(); err != nil {
		return err
	}
	return fw.Run(cmd.Context(), render)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
