package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/pgask/pkg/catalog"
)

// Importing this package registers the "postgres" backend:
//
//	import _ "github.com/leapstack-labs/pgask/pkg/catalog/postgres"
func init() {
	catalog.Register("postgres", func(logger *slog.Logger) catalog.Backend { return New(logger) })
}
