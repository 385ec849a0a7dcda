// Package publisher implements the Publisher repository using PostgreSQL.
package publisher

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

const returning = "RETURNING id, iati_id, name, display_name, api_key_hash, created_at, updated_at"

var columns = []string{"id", "iati_id", "name", "display_name", "api_key_hash", "created_at", "updated_at"}

// Repo provides publisher persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new publisher repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns a publisher.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Publisher, error) {
	return r.get(ctx, squirrel.Eq{"id": id}, id)
}

// GetByName returns the publisher with the given short name.
func (r *Repo) GetByName(ctx context.Context, name string) (domain.Publisher, error) {
	return r.get(ctx, squirrel.Eq{"name": name}, name)
}

func (r *Repo) get(ctx context.Context, where squirrel.Eq, key any) (domain.Publisher, error) {
	q := postgres.Builder().Select(columns...).From("publishers").Where(where)

	var p domain.Publisher
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &p, q); err != nil {
		return domain.Publisher{}, postgres.MapError(err, "publisher", key)
	}
	return p, nil
}

// List returns all publishers ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Publisher, error) {
	q := postgres.Builder().Select(columns...).From("publishers").OrderBy("name")

	var out []domain.Publisher
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return nil, postgres.MapError(err, "publishers", nil)
	}
	return out, nil
}

// Create inserts a publisher.
func (r *Repo) Create(ctx context.Context, p domain.Publisher) (domain.Publisher, error) {
	q := postgres.Builder().
		Insert("publishers").
		Columns("id", "iati_id", "name", "display_name", "api_key_hash").
		Values(p.ID, p.IATIID, p.Name, p.DisplayName, p.APIKeyHash).
		Suffix(returning)

	var out domain.Publisher
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return domain.Publisher{}, postgres.MapError(err, "publisher", p.Name)
	}
	return out, nil
}

// Update changes the descriptive fields of a publisher.
func (r *Repo) Update(ctx context.Context, p domain.Publisher) (domain.Publisher, error) {
	q := postgres.Builder().
		Update("publishers").
		Set("iati_id", p.IATIID).
		Set("name", p.Name).
		Set("display_name", p.DisplayName).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix(returning)

	var out domain.Publisher
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return domain.Publisher{}, postgres.MapError(err, "publisher", p.ID)
	}
	return out, nil
}

// SetAPIKeyHash replaces the stored API key hash.
func (r *Repo) SetAPIKeyHash(ctx context.Context, id uuid.UUID, hash string) error {
	q := postgres.Builder().
		Update("publishers").
		Set("api_key_hash", hash).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	return r.exec(ctx, id, q)
}

// Delete removes a publisher and, by cascade, its activities.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, id, postgres.Builder().Delete("publishers").Where(squirrel.Eq{"id": id}))
}

func (r *Repo) exec(ctx context.Context, id uuid.UUID, q squirrel.Sqlizer) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "publisher", id)
	}
	if n == 0 {
		return fmt.Errorf("publisher %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
