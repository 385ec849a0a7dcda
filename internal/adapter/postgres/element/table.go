// Package element implements repositories for the first-level children of
// an activity (descriptions, dates, sectors, transactions, ...) and the
// generic Table used for every child table. A child table has an id column
// followed by the column referencing its parent; the remaining columns are
// entity specific.
package element

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// TableDef describes a child table. Columns must start with id and the
// parent column; Values returns the column values of a row in the same order.
type TableDef[T any] struct {
	Name    string
	Entity  string
	Columns []string
	OrderBy []string
	Values  func(T) []any
}

// Table is a repository over one child table. T must carry db tags for
// every column.
type Table[T any] struct {
	db      postgres.Querier
	name    string
	entity  string
	parent  string
	columns []string
	orderBy []string
	values  func(T) []any
}

// NewTable creates a repository for the table described by def.
func NewTable[T any](db postgres.Querier, def TableDef[T]) *Table[T] {
	return &Table[T]{
		db:      db,
		name:    def.Name,
		entity:  def.Entity,
		parent:  def.Columns[1],
		columns: def.Columns,
		orderBy: def.OrderBy,
		values:  def.Values,
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns one row by id.
func (t *Table[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	q := postgres.Builder().Select(t.columns...).From(t.name).Where(squirrel.Eq{"id": id})

	var out T
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, t.db), &out, q); err != nil {
		var zero T
		return zero, postgres.MapError(err, t.entity, id)
	}
	return out, nil
}

// ListByParent returns the rows of one parent in display order.
// A limit of 0 returns every row.
func (t *Table[T]) ListByParent(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]T, error) {
	q := postgres.Builder().
		Select(t.columns...).
		From(t.name).
		Where(squirrel.Eq{t.parent: parentID}).
		OrderBy(t.orderBy...)
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	var out []T
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, t.db), &out, q); err != nil {
		return nil, postgres.MapError(err, t.name+" of "+t.parent, parentID)
	}
	return out, nil
}

// ListByParents returns the rows of many parents, grouped by parent.
func (t *Table[T]) ListByParents(ctx context.Context, parentIDs []uuid.UUID) ([]T, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	q := postgres.Builder().
		Select(t.columns...).
		From(t.name).
		Where(squirrel.Eq{t.parent: parentIDs}).
		OrderBy(append([]string{t.parent}, t.orderBy...)...)

	var out []T
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, t.db), &out, q); err != nil {
		return nil, postgres.MapError(err, t.name, nil)
	}
	return out, nil
}

// CountByParent returns the number of rows of one parent.
func (t *Table[T]) CountByParent(ctx context.Context, parentID uuid.UUID) (int, error) {
	q := postgres.Builder().Select("count(*)").From(t.name).Where(squirrel.Eq{t.parent: parentID})

	var n int
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, t.db), &n, q); err != nil {
		return 0, postgres.MapError(err, t.name+" of "+t.parent, parentID)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a row and returns it as stored.
func (t *Table[T]) Create(ctx context.Context, row T) (T, error) {
	vals := t.values(row)
	q := postgres.Builder().
		Insert(t.name).
		Columns(t.columns...).
		Values(vals...).
		Suffix("RETURNING " + strings.Join(t.columns, ", "))

	var out T
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, t.db), &out, q); err != nil {
		var zero T
		return zero, postgres.MapError(err, t.entity, vals[0])
	}
	return out, nil
}

// Update replaces every column except id and the parent column.
func (t *Table[T]) Update(ctx context.Context, row T) (T, error) {
	vals := t.values(row)
	set := make(map[string]any, len(t.columns)-2)
	for i, col := range t.columns[2:] {
		set[col] = vals[i+2]
	}

	q := postgres.Builder().
		Update(t.name).
		SetMap(set).
		Where(squirrel.Eq{"id": vals[0]}).
		Suffix("RETURNING " + strings.Join(t.columns, ", "))

	var out T
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, t.db), &out, q); err != nil {
		var zero T
		return zero, postgres.MapError(err, t.entity, vals[0])
	}
	return out, nil
}

// Delete removes a row by id.
func (t *Table[T]) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.Builder().Delete(t.name).Where(squirrel.Eq{"id": id})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, t.db), q)
	if err != nil {
		return postgres.MapError(err, t.entity, id)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", t.entity, id, domain.ErrNotFound)
	}
	return nil
}
