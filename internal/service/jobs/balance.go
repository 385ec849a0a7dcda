package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

type activityLister interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

type lister[T any] interface {
	ListByParent(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]T, error)
}

type balanceRepo interface {
	Upsert(ctx context.Context, b domain.TransactionBalance) error
}

// Balance recomputes the transaction balance of every activity, or of a
// single one.
type Balance struct {
	log          *slog.Logger
	activities   activityLister
	budgets      lister[domain.Budget]
	transactions lister[domain.Transaction]
	balances     balanceRepo
	batch        int
	concurrency  int
	loc          *time.Location
	now          func() time.Time
	only         uuid.UUID
}

// NewBalance creates the balance job. The current year is taken in loc.
func NewBalance(
	logger *slog.Logger,
	activities activityLister,
	budgets lister[domain.Budget],
	transactions lister[domain.Transaction],
	balances balanceRepo,
	batch, concurrency int,
	loc *time.Location,
) *Balance {
	if loc == nil {
		loc = time.UTC
	}
	return &Balance{
		log:          logger.With("job", "transaction-balance"),
		activities:   activities,
		budgets:      budgets,
		transactions: transactions,
		balances:     balances,
		batch:        max(batch, 1),
		concurrency:  max(concurrency, 1),
		loc:          loc,
		now:          time.Now,
	}
}

// Only returns a copy of the job restricted to one activity.
func (j *Balance) Only(activityID uuid.UUID) *Balance {
	c := *j
	c.only = activityID
	return &c
}

func (j *Balance) Name() string { return "transaction-balance" }

// Run recomputes the balances. Failures of single activities are logged and
// counted; only listing errors and cancellation fail the run.
func (j *Balance) Run(ctx context.Context) (Stats, error) {
	now := j.now()

	if j.only != uuid.Nil {
		if _, err := j.Compute(ctx, j.only, now); err != nil {
			return Stats{Failed: 1}, err
		}
		return Stats{Processed: 1}, nil
	}

	var (
		mu    sync.Mutex
		stats Stats
		after uuid.UUID
	)
	for {
		ids, err := j.activities.ListIDs(ctx, after, j.batch)
		if err != nil {
			return stats, fmt.Errorf("list activity ids: %w", err)
		}
		if len(ids) == 0 {
			return stats, nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(j.concurrency)
		for _, id := range ids {
			g.Go(func() error {
				_, err := j.Compute(gctx, id, now)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					stats.Processed++
				case errors.Is(err, domain.ErrNotFound):
					stats.Skipped++
				case gctx.Err() != nil:
					return gctx.Err()
				default:
					stats.Failed++
					j.log.WarnContext(gctx, "balance computation failed",
						slog.String("activity_id", id.String()),
						slog.String("error", err.Error()),
					)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return stats, err
		}

		if len(ids) < j.batch {
			return stats, nil
		}
		after = ids[len(ids)-1]
	}
}

// Compute recomputes and stores the balance of one activity.
func (j *Balance) Compute(ctx context.Context, activityID uuid.UUID, now time.Time) (domain.TransactionBalance, error) {
	a, err := j.activities.GetByID(ctx, activityID)
	if err != nil {
		return domain.TransactionBalance{}, fmt.Errorf("get activity: %w", err)
	}
	budgets, err := j.budgets.ListByParent(ctx, activityID, 0, 0)
	if err != nil {
		return domain.TransactionBalance{}, fmt.Errorf("list budgets: %w", err)
	}
	transactions, err := j.transactions.ListByParent(ctx, activityID, 0, 0)
	if err != nil {
		return domain.TransactionBalance{}, fmt.Errorf("list transactions: %w", err)
	}

	b := domain.ComputeBalance(activityID, a.DefaultCurrency, now.In(j.loc).Year(), budgets, transactions)
	b.ComputedAt = now

	if err := j.balances.Upsert(ctx, b); err != nil {
		return domain.TransactionBalance{}, fmt.Errorf("upsert balance: %w", err)
	}

	j.log.DebugContext(ctx, "balance computed",
		slog.String("activity_id", activityID.String()),
		slog.String("currency", b.Currency),
	)
	return b, nil
}
