// Package audit implements the audit log repository using PostgreSQL.
// It provides append-only operations for audit log records.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

var columns = []string{"id", "publisher_id", "activity_id", "entity_type", "entity_id", "action", "changes", "created_at"}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// row mirrors an audit_log row; changes is kept as raw JSONB.
type row struct {
	ID          uuid.UUID  `db:"id"`
	PublisherID uuid.UUID  `db:"publisher_id"`
	ActivityID  *uuid.UUID `db:"activity_id"`
	EntityType  string     `db:"entity_type"`
	EntityID    uuid.UUID  `db:"entity_id"`
	Action      string     `db:"action"`
	Changes     []byte     `db:"changes"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Log appends an audit record. A zero ID or CreatedAt is filled in.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	var changes []byte
	if len(record.Changes) > 0 {
		var err error
		if changes, err = json.Marshal(record.Changes); err != nil {
			return fmt.Errorf("audit_record marshal changes: %w", err)
		}
	}

	q := postgres.Builder().
		Insert("audit_log").
		Columns(columns...).
		Values(record.ID, record.PublisherID, record.ActivityID, string(record.EntityType),
			record.EntityID, string(record.Action), changes, record.CreatedAt)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "audit_record", record.ID)
	}
	return nil
}

// DeleteOlderThan removes records created before the given time and returns
// the number of rows removed.
func (r *Repo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	q := postgres.Builder().
		Delete("audit_log").
		Where(squirrel.Lt{"created_at": before})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return 0, postgres.MapError(err, "audit_records", nil)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByActivity returns the change history of an activity and its children,
// newest first.
func (r *Repo) ListByActivity(ctx context.Context, activityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	return r.list(ctx, squirrel.Eq{"activity_id": activityID}, limit)
}

// ListByEntity returns the change history of a single entity, newest first.
func (r *Repo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	return r.list(ctx, squirrel.Eq{"entity_type": string(entityType), "entity_id": entityID}, limit)
}

func (r *Repo) list(ctx context.Context, where squirrel.Eq, limit int) ([]domain.AuditRecord, error) {
	q := postgres.Builder().
		Select(columns...).
		From("audit_log").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))

	var rows []row
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "audit_records", nil)
	}

	records := make([]domain.AuditRecord, len(rows))
	for i, rw := range rows {
		rec, err := toDomain(rw)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func toDomain(rw row) (domain.AuditRecord, error) {
	rec := domain.AuditRecord{
		ID:          rw.ID,
		PublisherID: rw.PublisherID,
		ActivityID:  rw.ActivityID,
		EntityType:  domain.EntityType(rw.EntityType),
		EntityID:    rw.EntityID,
		Action:      domain.AuditAction(rw.Action),
		CreatedAt:   rw.CreatedAt,
	}

	if len(rw.Changes) > 0 {
		changes := make(map[string]any)
		if err := json.Unmarshal(rw.Changes, &changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record %s unmarshal changes: %w", rw.ID, err)
		}
		rec.Changes = changes
	}
	return rec, nil
}
