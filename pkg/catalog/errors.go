package catalog

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by backends used before Connect.
var ErrNotConnected = errors.New("database connection not established")

// ErrForeignSnapshot is returned when a backend is handed a Snapshot it did
// not issue.
var ErrForeignSnapshot = errors.New("snapshot was not issued by this catalog")

// CatalogAccessError reports a failed catalog read during an exploration.
// The exploration is abandoned and no partial result is returned.
type CatalogAccessError struct {
	// Op names the step that failed, e.g. "list columns"
	Op string

	// Object names the namespace or relation being read, if any
	Object string

	Err error
}

func (e *CatalogAccessError) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("catalog access failed: %s %s: %v", e.Op, e.Object, e.Err)
	}
	return fmt.Sprintf("catalog access failed: %s: %v", e.Op, e.Err)
}

func (e *CatalogAccessError) Unwrap() error {
	return e.Err
}

// IsCatalogAccessError reports whether err is or wraps a CatalogAccessError.
func IsCatalogAccessError(err error) bool {
	var cae *CatalogAccessError
	return errors.As(err, &cae)
}
