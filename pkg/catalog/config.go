package catalog

// Config holds the configuration for connecting to a database.
type Config struct {
	// Type selects the backend (e.g., "postgres", "duckdb", "sqlite")
	Type string `koanf:"type"`

	// Database is the database name, or a file path for DuckDB and SQLite.
	// Use ":memory:" for an in-memory database.
	Database string `koanf:"database"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Options contains additional DSN options (e.g., sslmode)
	Options map[string]string `koanf:"options"`

	// Params holds backend-specific settings decoded by each backend
	Params map[string]any `koanf:"params"`
}
