// Package duckdb provides a DuckDB metadata catalog for pgask.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/pgask/pkg/catalog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

const (
	snapshotQuery = `SELECT CAST(txid_current() AS VARCHAR)`

	namespacesQuery = `
		SELECT oid, schema_name
		FROM duckdb_schemas()
		WHERE database_name = current_database()
		ORDER BY schema_name`

	// Views are listed alongside tables so callers see every relation kind.
	relationsQuery = `
		SELECT oid, name, kind FROM (
			SELECT table_oid AS oid, table_name AS name, 'r' AS kind
			FROM duckdb_tables() WHERE schema_oid = ?
			UNION ALL
			SELECT view_oid, view_name, 'v'
			FROM duckdb_views() WHERE schema_oid = ? AND NOT internal
		)
		ORDER BY name`

	columnsQuery = `
		SELECT column_index, column_name, false, data_type
		FROM duckdb_columns()
		WHERE table_oid = ?
		ORDER BY column_index`
)

// Catalog implements catalog.Backend for DuckDB.
type Catalog struct {
	catalog.BaseSQL
}

// New creates a new DuckDB catalog instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{BaseSQL: catalog.BaseSQL{Logger: logger}}
}

// Name returns the backend name.
func (c *Catalog) Name() string {
	return "duckdb"
}

// Connect opens a DuckDB database.
// Use ":memory:" (or an empty database) for an in-memory database.
func (c *Catalog) Connect(ctx context.Context, cfg catalog.Config) error {
	params, err := decodeParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Database
	if path == ":memory:" {
		path = ""
	}

	c.Logger.Debug("opening duckdb", slog.String("path", cfg.Database))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// Session settings are per connection
	db.SetMaxOpenConns(1)

	if err := applySettings(ctx, db, params.Settings); err != nil {
		_ = db.Close()
		return err
	}

	c.DB = db
	c.Cfg = cfg
	return nil
}

// RefreshMetadataCache is a no-op: DuckDB keeps no client-side catalog cache
// and every transaction starts from the latest committed catalog.
func (c *Catalog) RefreshMetadataCache(_ context.Context) error {
	if c.DB == nil {
		return catalog.ErrNotConnected
	}
	return nil
}

// AcquireSnapshot opens a transaction; DuckDB transactions read a fixed
// MVCC snapshot.
func (c *Catalog) AcquireSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	if c.DB == nil {
		return nil, catalog.ErrNotConnected
	}
	snap, err := catalog.BeginSnapshot(ctx, c.DB, nil, snapshotQuery)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ListNamespaces enumerates schemas of the current database.
func (c *Catalog) ListNamespaces(ctx context.Context, snap catalog.Snapshot) ([]catalog.Namespace, error) {
	return catalog.ScanNamespaces(ctx, snap, namespacesQuery)
}

// ListRelations enumerates tables and views of a schema.
func (c *Catalog) ListRelations(ctx context.Context, namespaceID int64, snap catalog.Snapshot) ([]catalog.Relation, error) {
	return catalog.ScanRelations(ctx, snap, relationsQuery, namespaceID, namespaceID)
}

// ListColumns enumerates the columns of a table in position order.
func (c *Catalog) ListColumns(ctx context.Context, relationID int64, snap catalog.Snapshot) ([]catalog.Attribute, error) {
	return catalog.ScanAttributes(ctx, snap, columnsQuery, relationID)
}

// applySettings runs SET for each configured setting in key order.
func applySettings(ctx context.Context, db *sql.DB, settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		value := strings.ReplaceAll(settings[k], "'", "''")
		stmt := fmt.Sprintf("SET %s = '%s'", k, value) //nolint:gosec // keys come from the config file
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply duckdb setting %s: %w", k, err)
		}
	}
	return nil
}

// Ensure Catalog implements catalog.Backend interface
var _ catalog.Backend = (*Catalog)(nil)
