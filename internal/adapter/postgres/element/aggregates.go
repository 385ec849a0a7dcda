package element

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// Aggregates runs the cross-row queries over activity children: financial
// sums for the detail view and sibling checks for validation.
type Aggregates struct {
	db postgres.Querier
}

// NewAggregates creates the aggregate query repository.
func NewAggregates(db postgres.Querier) *Aggregates {
	return &Aggregates{db: db}
}

// TransactionTotals returns the sum of transaction values per type.
func (a *Aggregates) TransactionTotals(ctx context.Context, activityID uuid.UUID) ([]domain.TransactionTypeTotal, error) {
	q := postgres.Builder().
		Select("transaction_type", "sum(value) AS total").
		From("transactions").
		Where(squirrel.Eq{"activity_id": activityID}).
		GroupBy("transaction_type").
		OrderBy("transaction_type")

	var out []domain.TransactionTypeTotal
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, a.db), &out, q); err != nil {
		return nil, postgres.MapError(err, "transaction totals of activity", activityID)
	}
	return out, nil
}

// BudgetTotal returns the sum of all budget values of an activity.
func (a *Aggregates) BudgetTotal(ctx context.Context, activityID uuid.UUID) (decimal.Decimal, error) {
	q := postgres.Builder().
		Select("coalesce(sum(value), 0)").
		From("budgets").
		Where(squirrel.Eq{"activity_id": activityID})

	var total decimal.Decimal
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, a.db), &total, q); err != nil {
		return decimal.Zero, postgres.MapError(err, "budget total of activity", activityID)
	}
	return total, nil
}

// RecipientPercentage returns the summed percentage of recipient countries
// and regions of an activity, ignoring the row with id exclude.
func (a *Aggregates) RecipientPercentage(ctx context.Context, activityID, exclude uuid.UUID) (decimal.Decimal, error) {
	const sql = `
SELECT coalesce(sum(percentage), 0) FROM (
    SELECT id, percentage FROM recipient_countries WHERE activity_id = $1
    UNION ALL
    SELECT id, percentage FROM recipient_regions WHERE activity_id = $1
) r WHERE r.id <> $2`

	var total decimal.Decimal
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, a.db), &total, squirrel.Expr(sql, activityID, exclude)); err != nil {
		return decimal.Zero, postgres.MapError(err, "recipient percentage of activity", activityID)
	}
	return total, nil
}

// SectorPercentage returns the summed percentage of sectors with the given
// vocabulary, ignoring the row with id exclude.
func (a *Aggregates) SectorPercentage(ctx context.Context, activityID uuid.UUID, vocabulary string, exclude uuid.UUID) (decimal.Decimal, error) {
	q := postgres.Builder().
		Select("coalesce(sum(percentage), 0)").
		From("sectors").
		Where(squirrel.Eq{"activity_id": activityID, "vocabulary": vocabulary}).
		Where(squirrel.NotEq{"id": exclude})

	var total decimal.Decimal
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, a.db), &total, q); err != nil {
		return decimal.Zero, postgres.MapError(err, "sector percentage of activity", activityID)
	}
	return total, nil
}

// LocationRefExists reports whether the activity has a location with ref.
func (a *Aggregates) LocationRefExists(ctx context.Context, activityID uuid.UUID, ref string) (bool, error) {
	q := postgres.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From("locations").
		Where(squirrel.Eq{"activity_id": activityID, "ref": ref}).
		Suffix(")")

	var exists bool
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, a.db), &exists, q); err != nil {
		return false, postgres.MapError(err, "location of activity", activityID)
	}
	return exists, nil
}
