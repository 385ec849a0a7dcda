package dataloader

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// ---------------------------------------------------------------------------
// Titles by ActivityID
// ---------------------------------------------------------------------------

func newTitlesBatchFn(repo narrativeRepo) dataloader.BatchFunc[uuid.UUID, []domain.Narrative] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.Narrative] {
		owners := make([]domain.NarrativeOwner, len(keys))
		for i, id := range keys {
			owners[i] = domain.NarrativeOwner{Type: domain.OwnerActivityTitle, ID: id}
		}

		narratives, err := repo.ListByOwners(ctx, owners)
		if err != nil {
			return errorResults[[]domain.Narrative](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.Narrative, len(keys))
		for _, n := range narratives {
			grouped[n.OwnerID] = append(grouped[n.OwnerID], n)
		}

		return mapResults(keys, grouped, emptySlice[domain.Narrative])
	}
}

// ---------------------------------------------------------------------------
// Balance by ActivityID
// ---------------------------------------------------------------------------

func newBalanceBatchFn(repo balanceRepo) dataloader.BatchFunc[uuid.UUID, *domain.TransactionBalance] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.TransactionBalance] {
		balances, err := repo.ListByActivityIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.TransactionBalance](len(keys), err)
		}

		grouped := make(map[uuid.UUID]*domain.TransactionBalance, len(balances))
		for i := range balances {
			grouped[balances[i].ActivityID] = &balances[i]
		}

		return mapResults(keys, grouped, func() *domain.TransactionBalance { return nil })
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults returns a slice of error results for all keys.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		v, ok := grouped[key]
		if !ok {
			v = defaultFn()
		}
		results[i] = &dataloader.Result[V]{Data: v}
	}
	return results
}

func emptySlice[T any]() []T {
	return []T{}
}
