package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/pgask/pkg/catalog"
)

// Importing this package registers the "sqlite" backend:
//
//	import _ "github.com/leapstack-labs/pgask/pkg/catalog/sqlite"
func init() {
	catalog.Register("sqlite", func(logger *slog.Logger) catalog.Backend { return New(logger) })
}
