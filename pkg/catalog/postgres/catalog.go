// Package postgres provides a PostgreSQL metadata catalog for pgask.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/pgask/pkg/catalog"
)

const (
	// snapshotQuery is the first statement of every snapshot transaction.
	// Under REPEATABLE READ it also fixes the snapshot every later scan sees.
	snapshotQuery = `SELECT pg_catalog.txid_current_snapshot()::text`

	namespacesQuery = `
		SELECT n.oid::bigint, n.nspname
		FROM pg_catalog.pg_namespace n
		ORDER BY n.nspname`

	relationsQuery = `
		SELECT c.oid::bigint, c.relname, c.relkind::text
		FROM pg_catalog.pg_class c
		WHERE c.relnamespace = $1
		ORDER BY c.relname`

	columnsQuery = `
		SELECT a.attnum, a.attname, a.attisdropped,
			pg_catalog.format_type(a.atttypid, a.atttypmod)
		FROM pg_catalog.pg_attribute a
		WHERE a.attrelid = $1
		ORDER BY a.attnum`
)

// Catalog implements catalog.Backend for PostgreSQL.
// All reads go through one pinned session.
type Catalog struct {
	catalog.BaseSQL
	conn *sql.Conn
}

// New creates a new PostgreSQL catalog instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{
		BaseSQL: catalog.BaseSQL{Logger: logger},
	}
}

// Name returns the backend name.
func (c *Catalog) Name() string {
	return "postgres"
}

// Connect establishes a connection to PostgreSQL and pins a session.
func (c *Catalog) Connect(ctx context.Context, cfg catalog.Config) error {
	params, err := decodeParams(cfg.Params)
	if err != nil {
		return err
	}
	dsn := buildPostgresDSN(cfg, params)

	c.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := c.attach(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	c.Cfg = cfg
	return nil
}

// attach pins a session on db.
func (c *Catalog) attach(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire postgres session: %w", err)
	}
	c.DB = db
	c.conn = conn
	return nil
}

// Close releases the pinned session and the connection pool.
func (c *Catalog) Close() error {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	return c.BaseSQL.Close()
}

// errNotPgx is returned from the raw-connection callback when the driver
// is not pgx.
var errNotPgx = errors.New("driver connection is not pgx")

// RefreshMetadataCache drops every prepared statement and the cached
// statement descriptions of the pinned session, so the next snapshot cannot
// reuse result shapes planned against an older catalog.
func (c *Catalog) RefreshMetadataCache(ctx context.Context) error {
	if c.conn == nil {
		return catalog.ErrNotConnected
	}

	err := c.conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return errNotPgx
		}
		return sc.Conn().DeallocateAll(ctx)
	})
	if errors.Is(err, errNotPgx) {
		_, err = c.conn.ExecContext(ctx, "DEALLOCATE ALL")
	}
	if err != nil {
		return fmt.Errorf("failed to refresh metadata cache: %w", err)
	}
	return nil
}

// AcquireSnapshot opens a read-only REPEATABLE READ transaction on the
// pinned session. The snapshot id is the server's txid snapshot.
func (c *Catalog) AcquireSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	if c.conn == nil {
		return nil, catalog.ErrNotConnected
	}
	snap, err := catalog.BeginSnapshot(ctx, c.conn, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	}, snapshotQuery)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ListNamespaces enumerates pg_namespace in name order.
func (c *Catalog) ListNamespaces(ctx context.Context, snap catalog.Snapshot) ([]catalog.Namespace, error) {
	return catalog.ScanNamespaces(ctx, snap, namespacesQuery)
}

// ListRelations enumerates pg_class rows of a namespace in name order.
func (c *Catalog) ListRelations(ctx context.Context, namespaceID int64, snap catalog.Snapshot) ([]catalog.Relation, error) {
	return catalog.ScanRelations(ctx, snap, relationsQuery, namespaceID)
}

// ListColumns enumerates pg_attribute rows of a relation by attnum,
// including system and dropped attributes.
func (c *Catalog) ListColumns(ctx context.Context, relationID int64, snap catalog.Snapshot) ([]catalog.Attribute, error) {
	return catalog.ScanAttributes(ctx, snap, columnsQuery, relationID)
}

// Ensure Catalog implements catalog.Backend interface
var _ catalog.Backend = (*Catalog)(nil)
