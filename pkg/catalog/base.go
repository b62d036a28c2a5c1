package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// TxSnapshot is a Snapshot backed by a database/sql transaction.
// Backends embed or return it from AcquireSnapshot.
type TxSnapshot struct {
	Tx *sql.Tx
	id string
}

// NewTxSnapshot wraps tx. An empty id is replaced by a random UUID.
func NewTxSnapshot(tx *sql.Tx, id string) *TxSnapshot {
	if id == "" {
		id = uuid.NewString()
	}
	return &TxSnapshot{Tx: tx, id: id}
}

// ID returns the snapshot identifier.
func (s *TxSnapshot) ID() string {
	return s.id
}

// Release rolls back the read transaction.
func (s *TxSnapshot) Release(_ context.Context) error {
	if err := s.Tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// TxOf extracts the transaction behind a snapshot issued by a BaseSQL backend.
func TxOf(snap Snapshot) (*sql.Tx, error) {
	type txHolder interface{ tx() *sql.Tx }
	if h, ok := snap.(txHolder); ok {
		return h.tx(), nil
	}
	return nil, ErrForeignSnapshot
}

func (s *TxSnapshot) tx() *sql.Tx { return s.Tx }

// BaseSQL provides common database/sql plumbing for catalog backends.
// Embed it in concrete backends to get Close, IsConnected and the scan helpers.
type BaseSQL struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQL) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQL) IsConnected() bool {
	return b.DB != nil
}

// BeginSnapshot opens a read transaction on db. If idQuery is set it is run
// first inside the transaction and its single text value becomes the snapshot id.
func BeginSnapshot(ctx context.Context, db interface {
	BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
}, opts *sql.TxOptions, idQuery string) (*TxSnapshot, error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}

	var id string
	if idQuery != "" {
		if err := tx.QueryRowContext(ctx, idQuery).Scan(&id); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to read snapshot id: %w", err)
		}
	}
	return NewTxSnapshot(tx, id), nil
}

// ScanNamespaces runs query in the snapshot and scans (id, name) rows.
func ScanNamespaces(ctx context.Context, snap Snapshot, query string, args ...any) ([]Namespace, error) {
	var out []Namespace
	err := scanRows(ctx, snap, query, args, func(rows *sql.Rows) error {
		var ns Namespace
		if err := rows.Scan(&ns.ID, &ns.Name); err != nil {
			return fmt.Errorf("failed to scan namespace: %w", err)
		}
		out = append(out, ns)
		return nil
	})
	return out, err
}

// ScanRelations runs query in the snapshot and scans (id, name, kind) rows.
func ScanRelations(ctx context.Context, snap Snapshot, query string, args ...any) ([]Relation, error) {
	var out []Relation
	err := scanRows(ctx, snap, query, args, func(rows *sql.Rows) error {
		var rel Relation
		var kind string
		if err := rows.Scan(&rel.ID, &rel.Name, &kind); err != nil {
			return fmt.Errorf("failed to scan relation: %w", err)
		}
		rel.Kind = RelationKind(kind)
		out = append(out, rel)
		return nil
	})
	return out, err
}

// ScanAttributes runs query in the snapshot and scans
// (number, name, dropped, type) rows.
func ScanAttributes(ctx context.Context, snap Snapshot, query string, args ...any) ([]Attribute, error) {
	var out []Attribute
	err := scanRows(ctx, snap, query, args, func(rows *sql.Rows) error {
		var a Attribute
		if err := rows.Scan(&a.Number, &a.Name, &a.Dropped, &a.Type); err != nil {
			return fmt.Errorf("failed to scan attribute: %w", err)
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// scanRows holds the result set only for the duration of one scan.
func scanRows(ctx context.Context, snap Snapshot, query string, args []any, scan func(*sql.Rows) error) error {
	tx, err := TxOf(snap)
	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating catalog rows: %w", err)
	}
	return nil
}
