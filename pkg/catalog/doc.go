// Package catalog reads namespace, table and column metadata from a live
// database under a single consistency point.
//
// The package defines:
//   - The metadata tree (Schema, Table, Column, Result)
//   - The narrow read interface backends implement (Catalog, Snapshot)
//   - The system namespace filter
//   - The Explorer, which runs one consistent read pass over a Catalog
//   - A backend registry and a database/sql base shared by backends
//
// Backends live in sub-packages (postgres, duckdb, sqlite) and register
// themselves in init(). Import them with a blank identifier:
//
//	import _ "github.com/leapstack-labs/pgask/pkg/catalog/postgres"
package catalog
