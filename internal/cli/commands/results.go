package commands

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/pgask/internal/cli/config"
	"github.com/leapstack-labs/pgask/internal/cli/output"
	"github.com/leapstack-labs/pgask/pkg/catalog"
	"github.com/leapstack-labs/pgask/pkg/schematext"
)

// writeResult renders result in the renderer's mode. Text modes use the
// schema grammar named by format.
func writeResult(r *output.Renderer, result catalog.Result, format string) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeYAML:
		return r.YAML(result)
	case output.ModeTable:
		r.Table([]string{"Schema", "Table", "Column", "Type"}, resultRows(result))
		return nil
	case output.ModeMarkdown:
		return writeResultMarkdown(r, result, format)
	default:
		if err := writeGrammar(r.Writer(), result, format); err != nil {
			return err
		}
		if r.IsTTY() {
			r.Muted(summary(result))
		}
		return nil
	}
}

func writeGrammar(w io.Writer, result catalog.Result, format string) error {
	if format == config.FormatVerbose {
		return schematext.WriteVerbose(w, result)
	}
	return schematext.WriteCompact(w, result)
}

func writeResultMarkdown(r *output.Renderer, result catalog.Result, format string) error {
	r.Header(1, "Schema")
	r.Println("")
	r.Println(summary(result))
	r.Println("")

	body := schematext.Compact(result)
	if format == config.FormatVerbose {
		body = schematext.Verbose(result)
	}
	r.Println(output.FormatCodeBlock("text", body))
	return nil
}

// resultRows flattens result to one row per column. Tables without columns
// and schemas without tables still get a row.
func resultRows(result catalog.Result) [][]string {
	var rows [][]string
	for _, s := range result.Schemas {
		if len(s.Tables) == 0 {
			rows = append(rows, []string{s.Schema.Name, "", "", ""})
			continue
		}
		for _, t := range s.Tables {
			if len(t.Columns) == 0 {
				rows = append(rows, []string{s.Schema.Name, t.Name, "", ""})
				continue
			}
			for _, c := range t.Columns {
				rows = append(rows, []string{s.Schema.Name, t.Name, c.Name, c.Type})
			}
		}
	}
	return rows
}

func summary(result catalog.Result) string {
	return fmt.Sprintf("%d schemas, %d tables, %d columns",
		len(result.Schemas), result.TableCount(), result.ColumnCount())
}
