package catalog

import (
	"context"
	"io"
	"log/slog"
)

// Explorer runs consistent read passes over a Catalog.
// An Explorer holds no state between calls; every Explore re-reads the catalog.
type Explorer struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewExplorer creates an Explorer over c.
// If logger is nil, a discard logger is used.
func NewExplorer(c Catalog, logger *slog.Logger) *Explorer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Explorer{catalog: c, logger: logger}
}

// Explore reads every user namespace, its ordinary tables and their live
// columns under one snapshot. Any read failure aborts the whole pass and is
// returned as a *CatalogAccessError.
func (e *Explorer) Explore(ctx context.Context) (result Result, err error) {
	if err := e.catalog.RefreshMetadataCache(ctx); err != nil {
		return Result{}, &CatalogAccessError{Op: "refresh metadata cache", Err: err}
	}

	snap, err := e.catalog.AcquireSnapshot(ctx)
	if err != nil {
		return Result{}, &CatalogAccessError{Op: "acquire snapshot", Err: err}
	}
	defer func() {
		if relErr := snap.Release(ctx); relErr != nil {
			e.logger.Warn("failed to release snapshot", slog.String("snapshot", snap.ID()), slog.Any("error", relErr))
		}
	}()

	e.logger.Debug("exploring catalog", slog.String("snapshot", snap.ID()))

	// Empty, not nil, so machine output shows [] for an empty catalog
	result.Schemas = []SchemaTables{}

	namespaces, err := e.catalog.ListNamespaces(ctx, snap)
	if err != nil {
		return Result{}, &CatalogAccessError{Op: "list namespaces", Err: err}
	}

	for _, ns := range namespaces {
		if IsSystemNamespace(ns.Name) {
			e.logger.Debug("skipping system namespace", slog.String("schema", ns.Name))
			continue
		}

		tables, err := e.exploreNamespace(ctx, ns, snap)
		if err != nil {
			return Result{}, err
		}
		result.Schemas = append(result.Schemas, SchemaTables{
			Schema: Schema{Name: ns.Name},
			Tables: tables,
		})
	}

	e.logger.Debug("catalog explored",
		slog.String("snapshot", snap.ID()),
		slog.Int("schemas", len(result.Schemas)),
		slog.Int("tables", result.TableCount()),
		slog.Int("columns", result.ColumnCount()),
	)
	return result, nil
}

func (e *Explorer) exploreNamespace(ctx context.Context, ns Namespace, snap Snapshot) ([]Table, error) {
	relations, err := e.catalog.ListRelations(ctx, ns.ID, snap)
	if err != nil {
		return nil, &CatalogAccessError{Op: "list relations", Object: ns.Name, Err: err}
	}

	tables := []Table{}
	for _, rel := range relations {
		if rel.Kind != KindTable {
			continue
		}

		attrs, err := e.catalog.ListColumns(ctx, rel.ID, snap)
		if err != nil {
			return nil, &CatalogAccessError{Op: "list columns", Object: ns.Name + "." + rel.Name, Err: err}
		}

		tables = append(tables, Table{
			Schema:  ns.Name,
			Name:    rel.Name,
			Columns: liveColumns(attrs),
		})
	}
	return tables, nil
}

// liveColumns drops dropped and system attributes, keeping attribute order.
func liveColumns(attrs []Attribute) []Column {
	columns := make([]Column, 0, len(attrs))
	for _, a := range attrs {
		if a.Dropped || a.Number <= 0 {
			continue
		}
		columns = append(columns, Column{Name: a.Name, Type: a.Type})
	}
	return columns
}
