// Package sqlite provides a SQLite metadata catalog for pgask.
//
// SQLite has no catalog object ids. Each snapshot numbers the schemas and
// relations it hands out and resolves those numbers back to names.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/pgask/pkg/catalog"

	_ "modernc.org/sqlite" // sqlite driver
)

const (
	namespacesQuery = `SELECT seq, name FROM pragma_database_list ORDER BY seq`

	// Internal sqlite_* objects and triggers are reported as KindOther.
	relationsQueryFmt = `
		SELECT rowid, name,
			CASE
				WHEN name LIKE 'sqlite\_%%' ESCAPE '\' THEN 'o'
				WHEN type = 'table' THEN 'r'
				WHEN type = 'view' THEN 'v'
				WHEN type = 'index' THEN 'i'
				ELSE 'o'
			END
		FROM %s.sqlite_schema
		ORDER BY name`

	columnsQuery = `
		SELECT cid + 1, name, false, type
		FROM pragma_table_info(?, ?)
		ORDER BY cid`
)

type relationRef struct {
	schema string
	name   string
}

// snapshot is a read transaction plus the id mappings handed out under it.
type snapshot struct {
	*catalog.TxSnapshot
	schemas   map[int64]string
	relations map[int64]relationRef
}

// Catalog implements catalog.Backend for SQLite.
type Catalog struct {
	catalog.BaseSQL
}

// New creates a new SQLite catalog instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{BaseSQL: catalog.BaseSQL{Logger: logger}}
}

// Name returns the backend name.
func (c *Catalog) Name() string {
	return "sqlite"
}

// Connect opens a SQLite database file, or an in-memory database for
// ":memory:" and the empty path.
func (c *Catalog) Connect(ctx context.Context, cfg catalog.Config) error {
	path := cfg.Database
	if path == "" {
		path = ":memory:"
	}

	c.Logger.Debug("opening sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	c.DB = db
	c.Cfg = cfg
	return nil
}

// RefreshMetadataCache is a no-op: SQLite re-reads its schema whenever the
// schema cookie changes.
func (c *Catalog) RefreshMetadataCache(_ context.Context) error {
	if c.DB == nil {
		return catalog.ErrNotConnected
	}
	return nil
}

// AcquireSnapshot opens a transaction and starts its read immediately so
// the snapshot is fixed at acquisition time.
func (c *Catalog) AcquireSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	if c.DB == nil {
		return nil, catalog.ErrNotConnected
	}
	txs, err := catalog.BeginSnapshot(ctx, c.DB, nil, "")
	if err != nil {
		return nil, err
	}

	var n int
	if err := txs.Tx.QueryRowContext(ctx, "SELECT count(*) FROM main.sqlite_schema").Scan(&n); err != nil {
		_ = txs.Release(ctx)
		return nil, fmt.Errorf("failed to start read transaction: %w", err)
	}

	return &snapshot{
		TxSnapshot: txs,
		schemas:    make(map[int64]string),
		relations:  make(map[int64]relationRef),
	}, nil
}

func ownSnapshot(snap catalog.Snapshot) (*snapshot, error) {
	s, ok := snap.(*snapshot)
	if !ok {
		return nil, catalog.ErrForeignSnapshot
	}
	return s, nil
}

// ListNamespaces enumerates attached databases (main, temp, ...).
func (c *Catalog) ListNamespaces(ctx context.Context, snap catalog.Snapshot) ([]catalog.Namespace, error) {
	s, err := ownSnapshot(snap)
	if err != nil {
		return nil, err
	}
	namespaces, err := catalog.ScanNamespaces(ctx, s, namespacesQuery)
	if err != nil {
		return nil, err
	}
	for _, ns := range namespaces {
		s.schemas[ns.ID] = ns.Name
	}
	return namespaces, nil
}

// ListRelations enumerates the sqlite_schema entries of an attached database.
func (c *Catalog) ListRelations(ctx context.Context, namespaceID int64, snap catalog.Snapshot) ([]catalog.Relation, error) {
	s, err := ownSnapshot(snap)
	if err != nil {
		return nil, err
	}
	schema, ok := s.schemas[namespaceID]
	if !ok {
		return nil, fmt.Errorf("unknown namespace id %d", namespaceID)
	}

	relations, err := catalog.ScanRelations(ctx, s, fmt.Sprintf(relationsQueryFmt, quoteIdent(schema)))
	if err != nil {
		return nil, err
	}

	// rowids are only unique per database; hand out snapshot-wide ids
	for i := range relations {
		id := int64(len(s.relations) + 1)
		s.relations[id] = relationRef{schema: schema, name: relations[i].Name}
		relations[i].ID = id
	}
	return relations, nil
}

// ListColumns enumerates a table's declared columns in cid order.
func (c *Catalog) ListColumns(ctx context.Context, relationID int64, snap catalog.Snapshot) ([]catalog.Attribute, error) {
	s, err := ownSnapshot(snap)
	if err != nil {
		return nil, err
	}
	ref, ok := s.relations[relationID]
	if !ok {
		return nil, fmt.Errorf("unknown relation id %d", relationID)
	}
	return catalog.ScanAttributes(ctx, s, columnsQuery, ref.name, ref.schema)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Ensure Catalog implements catalog.Backend interface
var _ catalog.Backend = (*Catalog)(nil)
