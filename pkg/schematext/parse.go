package schematext

import (
	"strings"

	"github.com/leapstack-labs/pgask/pkg/catalog"
)

// Parse reads verbose-grammar text into a Result. It never fails.
//
// Lines are trimmed of spaces and tabs and classified by prefix:
//   - "Schema:" flushes the pending table, sets the schema, clears the table
//   - "Table:" flushes the pending table, sets the table, clears the columns
//   - "Column:" appends "name | Type: type"; lines without the separator are skipped
//   - anything else is ignored
//
// A pending table is emitted only when both a schema and a table are set;
// otherwise its accumulated columns are discarded. Columns that appear
// before any Table: line are therefore always dropped.
//
// Consecutive tables of the same schema are grouped under one entry.
func Parse(text string) catalog.Result {
	p := parser{result: catalog.Result{Schemas: []catalog.SchemaTables{}}}
	for _, line := range strings.Split(text, "\n") {
		p.line(trim(strings.TrimSuffix(line, "\r")))
	}
	p.flush()
	return p.result
}

// Format parses verbose text and renders it compactly.
func Format(text string) string {
	return Compact(Parse(text))
}

type parser struct {
	schema  string
	table   string
	columns []catalog.Column
	result  catalog.Result
}

func (p *parser) line(line string) {
	switch {
	case strings.HasPrefix(line, schemaMarker):
		p.flush()
		p.schema = trim(line[len(schemaMarker):])
		p.table = ""
	case strings.HasPrefix(line, tableMarker):
		p.flush()
		p.table = trim(line[len(tableMarker):])
		p.columns = nil
	case strings.HasPrefix(line, columnMarker):
		name, typ, ok := strings.Cut(trim(line[len(columnMarker):]), typeSeparator)
		if !ok {
			return
		}
		p.columns = append(p.columns, catalog.Column{Name: trim(name), Type: trim(typ)})
	}
}

// flush emits the pending table when it has both schema and table context
// and always clears the accumulated columns.
func (p *parser) flush() {
	columns := p.columns
	p.columns = nil
	if p.schema == "" || p.table == "" {
		return
	}
	if columns == nil {
		columns = []catalog.Column{}
	}

	t := catalog.Table{Schema: p.schema, Name: p.table, Columns: columns}
	n := len(p.result.Schemas)
	if n > 0 && p.result.Schemas[n-1].Schema.Name == p.schema {
		p.result.Schemas[n-1].Tables = append(p.result.Schemas[n-1].Tables, t)
		return
	}
	p.result.Schemas = append(p.result.Schemas, catalog.SchemaTables{
		Schema: catalog.Schema{Name: p.schema},
		Tables: []catalog.Table{t},
	})
}

func trim(s string) string {
	return strings.Trim(s, " \t")
}
