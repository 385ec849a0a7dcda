package graphql

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/transport/dataloader"
)

// ---------------------------------------------------------------------------
// Service interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type activityService interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	GetByIATIIdentifier(ctx context.Context, identifier string) (domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter) (domain.ActivityPage, error)
	Detail(ctx context.Context, id uuid.UUID) (domain.ActivityDetail, error)
}

// Resolver answers the root query fields.
type Resolver struct {
	activities activityService
}

// NewResolver creates the root resolver.
func NewResolver(activities activityService) *Resolver {
	return &Resolver{activities: activities}
}

// Activity returns one activity by id.
func (r *Resolver) Activity(ctx context.Context, id uuid.UUID) (*activityNode, error) {
	a, err := r.activities.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.node(a), nil
}

// ActivityByIdentifier returns one activity by its IATI identifier.
func (r *Resolver) ActivityByIdentifier(ctx context.Context, identifier string) (*activityNode, error) {
	a, err := r.activities.GetByIATIIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return r.node(a), nil
}

// Activities returns one filtered page of activities.
func (r *Resolver) Activities(ctx context.Context, filter domain.ActivityFilter) (activityPage, error) {
	page, err := r.activities.List(ctx, filter)
	if err != nil {
		return activityPage{}, err
	}

	nodes := make([]*activityNode, len(page.Items))
	for i, a := range page.Items {
		nodes[i] = r.node(a)
	}
	return activityPage{items: nodes, total: page.Total}, nil
}

func (r *Resolver) node(a domain.Activity) *activityNode {
	return &activityNode{Activity: a, details: r.activities}
}

// ---------------------------------------------------------------------------
// Resolved objects
// ---------------------------------------------------------------------------

type activityPage struct {
	items []*activityNode
	total int
}

type detailLoader interface {
	Detail(ctx context.Context, id uuid.UUID) (domain.ActivityDetail, error)
}

// activityNode is an activity being resolved. Title and balance go through
// the request loaders; the child collections are read once, on first use,
// from the activity detail.
type activityNode struct {
	domain.Activity

	details   detailLoader
	title     func() ([]domain.Narrative, error)
	balance   func() (*domain.TransactionBalance, error)
	detail    *domain.ActivityDetail
	detailErr error
}

// titleThunk schedules the title load; calling the result waits for the
// batch.
func (n *activityNode) titleThunk(ctx context.Context) func() ([]domain.Narrative, error) {
	if n.title == nil {
		n.title = dataloader.FromContext(ctx).TitlesByActivityID.Load(ctx, n.ID)
	}
	return n.title
}

func (n *activityNode) balanceThunk(ctx context.Context) func() (*domain.TransactionBalance, error) {
	if n.balance == nil {
		n.balance = dataloader.FromContext(ctx).BalanceByActivityID.Load(ctx, n.ID)
	}
	return n.balance
}

func (n *activityNode) loadDetail(ctx context.Context) (*domain.ActivityDetail, error) {
	if n.detail == nil && n.detailErr == nil {
		d, err := n.details.Detail(ctx, n.ID)
		if err != nil {
			n.detailErr = err
		} else {
			n.detail = &d
		}
	}
	return n.detail, n.detailErr
}
