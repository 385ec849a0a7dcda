// Package dataloader provides per-request DataLoaders that batch the reads
// of activity list pages into single SQL calls. Loaders call repositories
// directly, bypassing the service layer; list pages only expose public data.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// ---------------------------------------------------------------------------
// Repository interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type narrativeRepo interface {
	ListByOwners(ctx context.Context, owners []domain.NarrativeOwner) ([]domain.Narrative, error)
}

type balanceRepo interface {
	ListByActivityIDs(ctx context.Context, activityIDs []uuid.UUID) ([]domain.TransactionBalance, error)
}

// Repos holds all repositories required by the loaders.
type Repos struct {
	Narratives narrativeRepo
	Balances   balanceRepo
}

// Loaders contains the per-request DataLoaders. Created per request via
// NewLoaders.
type Loaders struct {
	TitlesByActivityID  *dataloader.Loader[uuid.UUID, []domain.Narrative]
	BalanceByActivityID *dataloader.Loader[uuid.UUID, *domain.TransactionBalance]
}

// NewLoaders creates a new set of DataLoaders backed by the given repositories.
// Must be called per request: loaders cache results for their lifetime.
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		TitlesByActivityID:  newLoader(newTitlesBatchFn(repos.Narratives)),
		BalanceByActivityID: newLoader(newBalanceBatchFn(repos.Balances)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is the middleware configured?")
	}
	return l
}
