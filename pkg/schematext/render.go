package schematext

import (
	"bufio"
	"io"
	"strings"

	"github.com/leapstack-labs/pgask/pkg/catalog"
)

// Verbose markers.
const (
	schemaMarker = "Schema:"
	tableMarker  = "Table:"
	columnMarker = "Column:"

	typeSeparator = " | Type: "

	tableIndent  = "  "
	columnIndent = "     "
)

// WriteVerbose writes r in the verbose grammar. Every table block and every
// schema block is followed by a blank line.
func WriteVerbose(w io.Writer, r catalog.Result) error {
	bw := bufio.NewWriter(w)
	for _, s := range r.Schemas {
		writeLine(bw, schemaMarker, " ", s.Schema.Name)
		for _, t := range s.Tables {
			writeLine(bw, tableIndent, tableMarker, " ", t.Name)
			for _, c := range t.Columns {
				writeLine(bw, columnIndent, columnMarker, "  ", c.Name, typeSeparator, c.Type)
			}
			_ = bw.WriteByte('\n')
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteCompact writes one "schema.table (col type, ...)" line per table.
func WriteCompact(w io.Writer, r catalog.Result) error {
	bw := bufio.NewWriter(w)
	for _, s := range r.Schemas {
		for _, t := range s.Tables {
			writeCompactTable(bw, t)
		}
	}
	return bw.Flush()
}

// Verbose renders r in the verbose grammar.
func Verbose(r catalog.Result) string {
	var sb strings.Builder
	_ = WriteVerbose(&sb, r)
	return sb.String()
}

// Compact renders r in the compact grammar. An empty result renders as "".
func Compact(r catalog.Result) string {
	var sb strings.Builder
	_ = WriteCompact(&sb, r)
	return sb.String()
}

// CompactTable renders a single table in the compact grammar, without the
// trailing newline.
func CompactTable(t catalog.Table) string {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	writeCompactTable(bw, t)
	_ = bw.Flush()
	return strings.TrimSuffix(sb.String(), "\n")
}

func writeCompactTable(bw *bufio.Writer, t catalog.Table) {
	_, _ = bw.WriteString(t.Schema)
	_ = bw.WriteByte('.')
	_, _ = bw.WriteString(t.Name)
	_, _ = bw.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			_, _ = bw.WriteString(", ")
		}
		_, _ = bw.WriteString(c.Name)
		_ = bw.WriteByte(' ')
		_, _ = bw.WriteString(c.Type)
	}
	_, _ = bw.WriteString(")\n")
}

// writeLine writes parts followed by a newline. Errors surface on Flush.
func writeLine(bw *bufio.Writer, parts ...string) {
	for _, p := range parts {
		_, _ = bw.WriteString(p)
	}
	_ = bw.WriteByte('\n')
}
