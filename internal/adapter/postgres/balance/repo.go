// Package balance stores the derived transaction balance of activities.
package balance

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

var columns = []string{
	"activity_id", "currency", "total_budget", "total_expenditure",
	"cumulative_budget", "cumulative_expenditure", "computed_at",
}

// Repo provides transaction balance persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new balance repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert stores the balance of one activity, replacing the previous one.
func (r *Repo) Upsert(ctx context.Context, b domain.TransactionBalance) error {
	q := postgres.Builder().
		Insert("transaction_balances").
		Columns(columns...).
		Values(b.ActivityID, b.Currency, b.TotalBudget, b.TotalExpenditure,
			b.CumulativeBudget, b.CumulativeExpenditure, b.ComputedAt).
		Suffix(`ON CONFLICT (activity_id) DO UPDATE SET
    currency = EXCLUDED.currency,
    total_budget = EXCLUDED.total_budget,
    total_expenditure = EXCLUDED.total_expenditure,
    cumulative_budget = EXCLUDED.cumulative_budget,
    cumulative_expenditure = EXCLUDED.cumulative_expenditure,
    computed_at = EXCLUDED.computed_at`)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "transaction_balance", b.ActivityID)
	}
	return nil
}

// Get returns the stored balance of an activity.
func (r *Repo) Get(ctx context.Context, activityID uuid.UUID) (domain.TransactionBalance, error) {
	q := postgres.Builder().
		Select(columns...).
		From("transaction_balances").
		Where(squirrel.Eq{"activity_id": activityID})

	var b domain.TransactionBalance
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &b, q); err != nil {
		return domain.TransactionBalance{}, postgres.MapError(err, "transaction_balance", activityID)
	}
	return b, nil
}

// ListByActivityIDs returns the stored balances of the given activities.
// Activities without a computed balance are absent from the result.
func (r *Repo) ListByActivityIDs(ctx context.Context, activityIDs []uuid.UUID) ([]domain.TransactionBalance, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}

	q := postgres.Builder().
		Select(columns...).
		From("transaction_balances").
		Where(squirrel.Eq{"activity_id": activityIDs})

	var out []domain.TransactionBalance
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return nil, postgres.MapError(err, "transaction_balance", nil)
	}
	return out, nil
}
