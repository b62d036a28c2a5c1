package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/pgask/pkg/catalog"
)

// Importing this package registers the "duckdb" backend:
//
//	import _ "github.com/leapstack-labs/pgask/pkg/catalog/duckdb"
func init() {
	catalog.Register("duckdb", func(logger *slog.Logger) catalog.Backend { return New(logger) })
}
