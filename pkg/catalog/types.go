package catalog

// Schema describes one namespace.
type Schema struct {
	Name string `json:"name" yaml:"name"`
}

// Column describes one user-visible column of a table.
type Column struct {
	// Name is the column name
	Name string `json:"name" yaml:"name"`

	// Type is the rendered type including modifiers, e.g. varchar(50)
	Type string `json:"type" yaml:"type"`
}

// Table describes one ordinary table and its columns in attribute order.
type Table struct {
	Schema  string   `json:"schema" yaml:"schema"`
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// QualifiedName returns schema.table.
func (t Table) QualifiedName() string {
	return t.Schema + "." + t.Name
}

// SchemaTables pairs a schema with its tables in enumeration order.
type SchemaTables struct {
	Schema Schema  `json:"schema" yaml:"schema"`
	Tables []Table `json:"tables" yaml:"tables"`
}

// Result is the outcome of one exploration, in catalog enumeration order.
type Result struct {
	Schemas []SchemaTables `json:"schemas" yaml:"schemas"`
}

// Tables returns every table in the result, flattened in order.
func (r Result) Tables() []Table {
	var tables []Table
	for _, s := range r.Schemas {
		tables = append(tables, s.Tables...)
	}
	return tables
}

// TableCount returns the number of tables across all schemas.
func (r Result) TableCount() int {
	n := 0
	for _, s := range r.Schemas {
		n += len(s.Tables)
	}
	return n
}

// ColumnCount returns the number of columns across all tables.
func (r Result) ColumnCount() int {
	n := 0
	for _, s := range r.Schemas {
		for _, t := range s.Tables {
			n += len(t.Columns)
		}
	}
	return n
}

// IsEmpty reports whether the result holds no tables.
func (r Result) IsEmpty() bool {
	return r.TableCount() == 0
}
