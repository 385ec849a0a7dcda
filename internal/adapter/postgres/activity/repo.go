// Package activity implements the Activity repository using PostgreSQL.
package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

var columns = []string{
	"id", "publisher_id", "iati_identifier", "default_lang", "default_currency",
	"hierarchy", "humanitarian", "linked_data_uri", "activity_status", "scope",
	"collaboration_type", "default_flow_type", "default_finance_type", "default_aid_type",
	"default_tied_status", "capital_spend", "conditions_attached", "secondary_reporter",
	"last_updated_datetime", "published", "ready_to_publish", "modified", "created_at", "updated_at",
}

// Repo provides activity persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new activity repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an activity without its narratives.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return r.get(ctx, squirrel.Eq{"id": id}, id)
}

// GetByIATIIdentifier returns the activity with the given IATI identifier.
func (r *Repo) GetByIATIIdentifier(ctx context.Context, identifier string) (domain.Activity, error) {
	return r.get(ctx, squirrel.Eq{"iati_identifier": identifier}, identifier)
}

func (r *Repo) get(ctx context.Context, where squirrel.Eq, key any) (domain.Activity, error) {
	q := postgres.Builder().Select(columns...).From("activities").Where(where)

	var a domain.Activity
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &a, q); err != nil {
		return domain.Activity{}, postgres.MapError(err, "activity", key)
	}
	return a, nil
}

// OwnerOf returns the publisher owning an activity.
func (r *Repo) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	q := postgres.Builder().Select("publisher_id").From("activities").Where(squirrel.Eq{"id": id})

	var publisherID uuid.UUID
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &publisherID, q); err != nil {
		return uuid.Nil, postgres.MapError(err, "activity", id)
	}
	return publisherID, nil
}

// List returns one page of activities matching filter plus the total count.
func (r *Repo) List(ctx context.Context, filter domain.ActivityFilter) (domain.ActivityPage, error) {
	where := filterWhere(filter)
	querier := postgres.QuerierFromCtx(ctx, r.db)

	countQ := postgres.Builder().Select("count(*)").From("activities").Where(where)
	var total int
	if err := postgres.Get(ctx, querier, &total, countQ); err != nil {
		return domain.ActivityPage{}, postgres.MapError(err, "activities", nil)
	}

	q := postgres.Builder().
		Select(columns...).
		From("activities").
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	var items []domain.Activity
	if err := postgres.Select(ctx, querier, &items, q); err != nil {
		return domain.ActivityPage{}, postgres.MapError(err, "activities", nil)
	}

	return domain.ActivityPage{Items: items, Total: total}, nil
}

func filterWhere(f domain.ActivityFilter) squirrel.And {
	where := squirrel.And{}
	if f.PublisherID != nil {
		where = append(where, squirrel.Eq{"publisher_id": *f.PublisherID})
	}
	if f.Modified != nil {
		where = append(where, squirrel.Eq{"modified": *f.Modified})
	}
	if f.Published != nil {
		where = append(where, squirrel.Eq{"published": *f.Published})
	}
	if f.Query != "" {
		where = append(where, squirrel.ILike{"iati_identifier": "%" + escapeLike(f.Query) + "%"})
	}
	return where
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// ListModified returns up to limit activities with modified = true, oldest
// change first.
func (r *Repo) ListModified(ctx context.Context, limit int) ([]domain.ModifiedActivity, error) {
	q := postgres.Builder().
		Select("id", "updated_at").
		From("activities").
		Where(squirrel.Eq{"modified": true}).
		OrderBy("updated_at", "id").
		Limit(uint64(limit))

	var refs []domain.ModifiedActivity
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &refs, q); err != nil {
		return nil, postgres.MapError(err, "modified activities", nil)
	}
	return refs, nil
}

// ListIDs returns activity ids greater than after in id order (keyset
// pagination for batch jobs).
func (r *Repo) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	q := postgres.Builder().
		Select("id").
		From("activities").
		Where(squirrel.Gt{"id": after}).
		OrderBy("id").
		Limit(uint64(limit))

	var ids []uuid.UUID
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, q); err != nil {
		return nil, postgres.MapError(err, "activity ids", nil)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an activity and returns the stored row.
func (r *Repo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	q := postgres.Builder().
		Insert("activities").
		Columns(
			"id", "publisher_id", "iati_identifier", "default_lang", "default_currency",
			"hierarchy", "humanitarian", "linked_data_uri", "activity_status", "scope",
			"collaboration_type", "default_flow_type", "default_finance_type", "default_aid_type",
			"default_tied_status", "capital_spend", "conditions_attached", "secondary_reporter",
			"published", "ready_to_publish", "modified",
		).
		Values(
			a.ID, a.PublisherID, a.IATIIdentifier, a.DefaultLang, a.DefaultCurrency,
			a.Hierarchy, a.Humanitarian, a.LinkedDataURI, a.ActivityStatus, a.Scope,
			a.CollaborationType, a.DefaultFlowType, a.DefaultFinanceType, a.DefaultAidType,
			a.DefaultTiedStatus, a.CapitalSpend, a.ConditionsAttached, a.SecondaryReporter,
			false, false, true,
		).
		Suffix(returning())

	var out domain.Activity
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return domain.Activity{}, postgres.MapError(err, "activity", a.IATIIdentifier)
	}
	return out, nil
}

// Update replaces the scalar fields of an activity and marks it modified.
func (r *Repo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	q := postgres.Builder().
		Update("activities").
		SetMap(map[string]any{
			"iati_identifier":      a.IATIIdentifier,
			"default_lang":         a.DefaultLang,
			"default_currency":     a.DefaultCurrency,
			"hierarchy":            a.Hierarchy,
			"humanitarian":         a.Humanitarian,
			"linked_data_uri":      a.LinkedDataURI,
			"activity_status":      a.ActivityStatus,
			"scope":                a.Scope,
			"collaboration_type":   a.CollaborationType,
			"default_flow_type":    a.DefaultFlowType,
			"default_finance_type": a.DefaultFinanceType,
			"default_aid_type":     a.DefaultAidType,
			"default_tied_status":  a.DefaultTiedStatus,
			"capital_spend":        a.CapitalSpend,
			"conditions_attached":  a.ConditionsAttached,
			"secondary_reporter":   a.SecondaryReporter,
			"modified":             true,
			"updated_at":           squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix(returning())

	var out domain.Activity
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return domain.Activity{}, postgres.MapError(err, "activity", a.ID)
	}
	return out, nil
}

// Delete removes an activity; children and narratives cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, id, postgres.Builder().Delete("activities").Where(squirrel.Eq{"id": id}))
}

// MarkModified sets the modified flag of an activity. Every write to a child
// of the activity calls it inside the same transaction.
func (r *Repo) MarkModified(ctx context.Context, id uuid.UUID) error {
	q := postgres.Builder().
		Update("activities").
		Set("modified", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	return r.exec(ctx, id, q)
}

// SetReadyToPublish changes the ready_to_publish flag.
func (r *Repo) SetReadyToPublish(ctx context.Context, id uuid.UUID, ready bool) error {
	q := postgres.Builder().
		Update("activities").
		Set("ready_to_publish", ready).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	return r.exec(ctx, id, q)
}

// Publish marks an activity published and resets ready_to_publish.
func (r *Repo) Publish(ctx context.Context, id uuid.UUID) error {
	q := postgres.Builder().
		Update("activities").
		Set("published", true).
		Set("ready_to_publish", false).
		Set("modified", true).
		Set("last_updated_datetime", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	return r.exec(ctx, id, q)
}

// ClearModified resets the modified flag unless the activity changed after
// updatedAt. It reports whether the flag was cleared.
func (r *Repo) ClearModified(ctx context.Context, id uuid.UUID, updatedAt time.Time) (bool, error) {
	q := postgres.Builder().
		Update("activities").
		Set("modified", false).
		Where(squirrel.Eq{"id": id, "updated_at": updatedAt})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return false, postgres.MapError(err, "activity", id)
	}
	return n > 0, nil
}

func (r *Repo) exec(ctx context.Context, id uuid.UUID, q squirrel.Sqlizer) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "activity", id)
	}
	if n == 0 {
		return fmt.Errorf("activity %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}
