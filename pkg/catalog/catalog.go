package catalog

import "context"

// RelationKind is the single-letter relation kind tag used by the catalog.
type RelationKind string

// Relation kinds. Only KindTable is ever explored.
const (
	KindTable            RelationKind = "r"
	KindIndex            RelationKind = "i"
	KindSequence         RelationKind = "S"
	KindToast            RelationKind = "t"
	KindView             RelationKind = "v"
	KindMaterializedView RelationKind = "m"
	KindComposite        RelationKind = "c"
	KindForeignTable     RelationKind = "f"
	KindPartitionedTable RelationKind = "p"
	KindPartitionedIndex RelationKind = "I"
	KindOther            RelationKind = "o"
)

// Namespace is one row of a namespace scan.
type Namespace struct {
	ID   int64
	Name string
}

// Relation is one row of a relation scan.
type Relation struct {
	ID   int64
	Name string
	Kind RelationKind
}

// Attribute is one row of a column scan.
type Attribute struct {
	// Number is the attribute number; user columns start at 1
	Number int

	Name string

	// Dropped marks a column that was dropped but still occupies its slot
	Dropped bool

	// Type is the rendered type including modifiers
	Type string
}

// Snapshot is a consistency point. Every read issued with the same Snapshot
// observes the catalog as of the same instant.
type Snapshot interface {
	// ID identifies the snapshot for logging.
	ID() string

	// Release ends the snapshot. It is safe to call more than once.
	Release(ctx context.Context) error
}

// Catalog is the read-only view of a database's metadata catalog.
// Returned slices are owned by the caller.
type Catalog interface {
	// RefreshMetadataCache drops any cached structural metadata so that
	// already-committed catalog changes become visible to the next snapshot.
	RefreshMetadataCache(ctx context.Context) error

	// AcquireSnapshot opens a new consistency point.
	AcquireSnapshot(ctx context.Context) (Snapshot, error)

	// ListNamespaces enumerates namespaces.
	ListNamespaces(ctx context.Context, snap Snapshot) ([]Namespace, error)

	// ListRelations enumerates relations of every kind in a namespace.
	ListRelations(ctx context.Context, namespaceID int64, snap Snapshot) ([]Relation, error)

	// ListColumns enumerates a relation's attributes ordered by attribute number.
	ListColumns(ctx context.Context, relationID int64, snap Snapshot) ([]Attribute, error)
}
