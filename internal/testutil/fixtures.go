package testutil

import (
	"database/sql"
	"embed"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // sqlite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// FixtureVersion is the goose version the fixture database ends at.
const FixtureVersion = 2

// NewSQLiteFixture creates a SQLite database file in a temp dir, migrates it
// to the demo fixture schema and returns its path. The database is closed
// before returning.
//
// Fixture after migration:
//
//	users    (id INTEGER, name TEXT, age INTEGER, email VARCHAR(255))
//	orders   (id INTEGER, user_id INTEGER, total NUMERIC(10,2), note VARCHAR(50))
//	counters (id INTEGER, n INTEGER)
//	adults   view, orders_user_idx index, users_touch trigger
func NewSQLiteFixture(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := MigrateFixture(db); err != nil {
		t.Fatalf("failed to migrate fixture database: %v", err)
	}
	return path
}

// MigrateFixture applies the fixture migrations to db.
func MigrateFixture(db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}
