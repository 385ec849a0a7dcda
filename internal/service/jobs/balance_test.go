package jobs

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

type mockActivityLister struct {
	activities map[uuid.UUID]domain.Activity
	ids        []uuid.UUID
	afters     []uuid.UUID
}

func (m *mockActivityLister) GetByID(_ context.Context, id uuid.UUID) (domain.Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *mockActivityLister) ListIDs(_ context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	m.afters = append(m.afters, after)
	var out []uuid.UUID
	for _, id := range m.ids {
		if id.String() > after.String() && len(out) < limit {
			out = append(out, id)
		}
	}
	return out, nil
}

type mockLister[T any] struct {
	rows map[uuid.UUID][]T
	err  error
}

func (m *mockLister[T]) ListByParent(_ context.Context, parentID uuid.UUID, _, _ int) ([]T, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[parentID], nil
}

type mockBalances struct {
	mu    sync.Mutex
	saved map[uuid.UUID]domain.TransactionBalance
}

func (m *mockBalances) Upsert(_ context.Context, b domain.TransactionBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[uuid.UUID]domain.TransactionBalance)
	}
	m.saved[b.ActivityID] = b
	return nil
}

func sortedIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
	return ids
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBalance_Run_AllActivities(t *testing.T) {
	t.Parallel()

	ids := sortedIDs(5)
	acts := &mockActivityLister{activities: map[uuid.UUID]domain.Activity{}, ids: ids}
	for _, id := range ids {
		acts.activities[id] = domain.Activity{ID: id, DefaultCurrency: "EUR"}
	}
	valueDate := date(2024, 3, 1)
	txs := &mockLister[domain.Transaction]{rows: map[uuid.UUID][]domain.Transaction{
		ids[0]: {
			{ID: uuid.New(), TransactionType: domain.TransactionTypeExpenditure, Value: decimal.NewFromInt(40), Currency: "USD", TransactionDate: valueDate, ValueDate: &valueDate},
			{ID: uuid.New(), TransactionType: domain.TransactionTypeCommitment, Value: decimal.NewFromInt(100), TransactionDate: date(2023, 1, 1)},
		},
	}}
	budgets := &mockLister[domain.Budget]{rows: map[uuid.UUID][]domain.Budget{
		ids[0]: {{Type: domain.BudgetTypeOriginal, Status: domain.BudgetStatusCommitted, PeriodStart: date(2024, 1, 1), PeriodEnd: date(2024, 12, 31), Value: decimal.NewFromInt(500)}},
	}}
	balances := &mockBalances{}

	job := NewBalance(slog.New(slog.DiscardHandler), acts, budgets, txs, balances, 2, 2, time.UTC)
	now := date(2024, 6, 1)
	job.now = func() time.Time { return now }

	stats, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 5}, stats)
	assert.Equal(t, []uuid.UUID{uuid.Nil, ids[1], ids[3]}, acts.afters)
	require.Len(t, balances.saved, 5)

	b := balances.saved[ids[0]]
	assert.Equal(t, "USD", b.Currency)
	assert.True(t, b.TotalBudget.Equal(decimal.NewFromInt(500)))
	assert.True(t, b.TotalExpenditure.Equal(decimal.NewFromInt(40)))
	assert.True(t, b.CumulativeBudget.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, now, b.ComputedAt)

	assert.Equal(t, "EUR", balances.saved[ids[4]].Currency)
	assert.True(t, balances.saved[ids[4]].TotalBudget.IsZero())
}

func TestBalance_Run_YearInLocation(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	acts := &mockActivityLister{activities: map[uuid.UUID]domain.Activity{id: {ID: id}}, ids: []uuid.UUID{id}}
	budgets := &mockLister[domain.Budget]{rows: map[uuid.UUID][]domain.Budget{
		id: {{Type: domain.BudgetTypeOriginal, Status: domain.BudgetStatusCommitted, PeriodStart: date(2025, 1, 1), PeriodEnd: date(2025, 12, 31), Value: decimal.NewFromInt(7)}},
	}}
	balances := &mockBalances{}
	tokyo := time.FixedZone("JST", 9*60*60)

	job := NewBalance(slog.New(slog.DiscardHandler), acts, budgets, &mockLister[domain.Transaction]{}, balances, 10, 1, tokyo)
	job.now = func() time.Time { return time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC) }

	_, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, balances.saved[id].TotalBudget.Equal(decimal.NewFromInt(7)))
}

func TestBalance_Run_CountsFailures(t *testing.T) {
	t.Parallel()

	ids := sortedIDs(2)
	acts := &mockActivityLister{activities: map[uuid.UUID]domain.Activity{ids[0]: {ID: ids[0]}}, ids: ids}
	txs := &mockLister[domain.Transaction]{err: errors.New("timeout")}

	job := NewBalance(slog.New(slog.DiscardHandler), acts, &mockLister[domain.Budget]{}, txs, &mockBalances{}, 10, 2, nil)

	stats, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 1, Failed: 1}, stats)
}

func TestBalance_Only(t *testing.T) {
	t.Parallel()

	ids := sortedIDs(3)
	acts := &mockActivityLister{activities: map[uuid.UUID]domain.Activity{ids[1]: {ID: ids[1], DefaultCurrency: "GBP"}}, ids: ids}
	balances := &mockBalances{}
	job := NewBalance(slog.New(slog.DiscardHandler), acts, &mockLister[domain.Budget]{}, &mockLister[domain.Transaction]{}, balances, 10, 1, nil)

	stats, err := job.Only(ids[1]).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1}, stats)
	assert.Empty(t, acts.afters)
	assert.Equal(t, "GBP", balances.saved[ids[1]].Currency)

	_, err = job.Only(ids[0]).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
