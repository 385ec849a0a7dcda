// Package narrative implements the polymorphic narrative repository using
// PostgreSQL. Narratives point at their owner by (owner_type, owner_id).
package narrative

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

var columns = []string{"id", "activity_id", "owner_type", "owner_id", "language", "content"}

// ownerTables maps each owner type to the table holding the owning rows.
var ownerTables = map[domain.NarrativeOwnerType]string{
	domain.OwnerActivityTitle:               "activities",
	domain.OwnerDescription:                 "descriptions",
	domain.OwnerActivityDate:                "activity_dates",
	domain.OwnerParticipatingOrg:            "participating_orgs",
	domain.OwnerRecipientCountry:            "recipient_countries",
	domain.OwnerRecipientRegion:             "recipient_regions",
	domain.OwnerSector:                      "sectors",
	domain.OwnerPolicyMarker:                "policy_markers",
	domain.OwnerCondition:                   "conditions",
	domain.OwnerTransactionDescription:      "transactions",
	domain.OwnerTransactionProvider:         "transactions",
	domain.OwnerTransactionReceiver:         "transactions",
	domain.OwnerDocumentLinkTitle:           "document_links",
	domain.OwnerDocumentLinkDescription:     "document_links",
	domain.OwnerLocationName:                "locations",
	domain.OwnerLocationDescription:         "locations",
	domain.OwnerLocationActivityDescription: "locations",
	domain.OwnerResultTitle:                 "results",
	domain.OwnerResultDescription:           "results",
	domain.OwnerIndicatorTitle:              "indicators",
	domain.OwnerIndicatorDescription:        "indicators",
	domain.OwnerIndicatorBaselineComment:    "indicator_baselines",
	domain.OwnerPeriodTargetComment:         "period_values",
	domain.OwnerPeriodActualComment:         "period_values",
}

// Repo provides narrative persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new narrative repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByOwner returns the narratives of one container in stored order.
func (r *Repo) ListByOwner(ctx context.Context, owner domain.NarrativeOwner) ([]domain.Narrative, error) {
	q := postgres.Builder().
		Select(columns...).
		From("narratives").
		Where(squirrel.Eq{"owner_type": owner.Type, "owner_id": owner.ID}).
		OrderBy("position", "id")

	var out []domain.Narrative
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return nil, postgres.MapError(err, "narratives of "+owner.Type.String(), owner.ID)
	}
	return out, nil
}

const listByOwnersSQL = `
SELECT n.id, n.activity_id, n.owner_type, n.owner_id, n.language, n.content
FROM narratives n
JOIN unnest($1::text[], $2::uuid[]) AS o(owner_type, owner_id)
  ON n.owner_type = o.owner_type AND n.owner_id = o.owner_id
ORDER BY n.owner_type, n.owner_id, n.position, n.id`

// ListByOwners returns the narratives of many containers in one query.
func (r *Repo) ListByOwners(ctx context.Context, owners []domain.NarrativeOwner) ([]domain.Narrative, error) {
	if len(owners) == 0 {
		return nil, nil
	}

	types := make([]string, len(owners))
	ids := make([]uuid.UUID, len(owners))
	for i, o := range owners {
		types[i] = string(o.Type)
		ids[i] = o.ID
	}

	var out []domain.Narrative
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, squirrel.Expr(listByOwnersSQL, types, ids)); err != nil {
		return nil, postgres.MapError(err, "narratives", nil)
	}
	return out, nil
}

// ListByActivity returns every narrative stored for an activity.
func (r *Repo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Narrative, error) {
	q := postgres.Builder().
		Select(columns...).
		From("narratives").
		Where(squirrel.Eq{"activity_id": activityID}).
		OrderBy("owner_type", "owner_id", "position", "id")

	var out []domain.Narrative
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return nil, postgres.MapError(err, "narratives of activity", activityID)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts narratives. position is taken from the slice index plus offset.
func (r *Repo) Create(ctx context.Context, narratives []domain.Narrative, offset int) error {
	if len(narratives) == 0 {
		return nil
	}

	ins := postgres.Builder().
		Insert("narratives").
		Columns(append(columns[:len(columns):len(columns)], "position")...)
	for i, n := range narratives {
		ins = ins.Values(n.ID, n.ActivityID, n.OwnerType, n.OwnerID, n.Language, n.Content, offset+i)
	}

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), ins); err != nil {
		return postgres.MapError(err, "narrative", narratives[0].ID)
	}
	return nil
}

// Update changes language, content and position of one narrative. The
// narrative must belong to owner.
func (r *Repo) Update(ctx context.Context, owner domain.NarrativeOwner, n domain.Narrative, position int) error {
	q := postgres.Builder().
		Update("narratives").
		Set("language", n.Language).
		Set("content", n.Content).
		Set("position", position).
		Where(squirrel.Eq{"id": n.ID, "owner_type": owner.Type, "owner_id": owner.ID})

	affected, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "narrative", n.ID)
	}
	if affected == 0 {
		return fmt.Errorf("narrative %s: %w", n.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteByIDs deletes the given narratives of owner.
func (r *Repo) DeleteByIDs(ctx context.Context, owner domain.NarrativeOwner, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	q := postgres.Builder().
		Delete("narratives").
		Where(squirrel.Eq{"owner_type": owner.Type, "owner_id": owner.ID, "id": ids})

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "narratives of "+owner.Type.String(), owner.ID)
	}
	return nil
}

// DeleteByOwner removes every narrative of the given containers.
func (r *Repo) DeleteByOwner(ctx context.Context, owners ...domain.NarrativeOwner) (int64, error) {
	if len(owners) == 0 {
		return 0, nil
	}

	or := make(squirrel.Or, 0, len(owners))
	for _, o := range owners {
		or = append(or, squirrel.Eq{"owner_type": o.Type, "owner_id": o.ID})
	}

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), postgres.Builder().Delete("narratives").Where(or))
	if err != nil {
		return 0, postgres.MapError(err, "narratives", nil)
	}
	return n, nil
}

// DeleteOrphans removes narratives of an activity whose owning row no longer
// exists. Deleting a result or indicator cascades through its subtree in SQL,
// leaving narratives of the removed rows behind; this cleans them up.
func (r *Repo) DeleteOrphans(ctx context.Context, activityID uuid.UUID) (int64, error) {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), deleteOrphansQuery(activityID))
	if err != nil {
		return 0, postgres.MapError(err, "orphan narratives of activity", activityID)
	}
	return n, nil
}

func deleteOrphansQuery(activityID uuid.UUID) squirrel.DeleteBuilder {
	byTable := make(map[string][]string)
	for ownerType, table := range ownerTables {
		byTable[table] = append(byTable[table], string(ownerType))
	}

	tables := make([]string, 0, len(byTable))
	for table := range byTable {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	or := make(squirrel.Or, 0, len(tables))
	for _, table := range tables {
		types := byTable[table]
		sort.Strings(types)
		or = append(or, squirrel.And{
			squirrel.Eq{"n.owner_type": types},
			squirrel.Expr("NOT EXISTS (SELECT 1 FROM " + table + " t WHERE t.id = n.owner_id)"),
		})
	}

	return postgres.Builder().
		Delete("narratives n").
		Where(squirrel.Eq{"n.activity_id": activityID}).
		Where(or)
}
