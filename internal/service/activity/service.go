// Package activity implements the activity aggregate: the root record, its
// title, publishing state, history and the assembled detail tree.
package activity

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type activityRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	GetByIATIIdentifier(ctx context.Context, identifier string) (domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter) (domain.ActivityPage, error)
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)
	Update(ctx context.Context, a domain.Activity) (domain.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetReadyToPublish(ctx context.Context, id uuid.UUID, ready bool) error
	Publish(ctx context.Context, id uuid.UUID) error
}

type narrativeService interface {
	Create(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []narrative.Input) ([]domain.Narrative, error)
	Save(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []narrative.Input) ([]domain.Narrative, error)
	ListByOwners(ctx context.Context, owners []domain.NarrativeOwner) (map[domain.NarrativeOwner][]domain.Narrative, error)
	ListByActivity(ctx context.Context, activityID uuid.UUID) (map[domain.NarrativeOwner][]domain.Narrative, error)
}

type codeLists interface {
	NewChecker() *codelist.Checker
}

type auditRepo interface {
	Log(ctx context.Context, record domain.AuditRecord) error
	ListByActivity(ctx context.Context, activityID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

type searchIndex interface {
	Delete(ctx context.Context, kind domain.SearchKind, id uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type lister[T any] interface {
	ListByParent(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]T, error)
}

type aggregates interface {
	TransactionTotals(ctx context.Context, activityID uuid.UUID) ([]domain.TransactionTypeTotal, error)
	BudgetTotal(ctx context.Context, activityID uuid.UUID) (decimal.Decimal, error)
}

type resultTrees interface {
	Count(ctx context.Context, activityID uuid.UUID) (int, error)
	Trees(ctx context.Context, activityID uuid.UUID, limit, offset int) ([]domain.Result, error)
}

// Children holds the readers the detail tree is assembled from.
type Children struct {
	Descriptions       lister[domain.Description]
	Dates              lister[domain.ActivityDate]
	ParticipatingOrgs  lister[domain.ParticipatingOrg]
	RecipientCountries lister[domain.RecipientCountry]
	RecipientRegions   lister[domain.RecipientRegion]
	Sectors            lister[domain.Sector]
	PolicyMarkers      lister[domain.PolicyMarker]
	Conditions         lister[domain.Condition]
	Budgets            lister[domain.Budget]
	Transactions       lister[domain.Transaction]
	DocumentLinks      lister[domain.DocumentLink]
	Locations          lister[domain.Location]
	Results            resultTrees
	Aggregates         aggregates
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Limits bounds the sizes of activity reads.
type Limits struct {
	Detail      int
	ListDefault int
	ListMax     int
	History     int
}

// Service implements the activity business logic.
type Service struct {
	log        *slog.Logger
	activities activityRepo
	narratives narrativeService
	codeLists  codeLists
	audit      auditRepo
	index      searchIndex
	tx         txManager
	children   Children
	limits     Limits
}

// NewService creates a new activity service.
func NewService(
	logger *slog.Logger,
	activities activityRepo,
	narratives narrativeService,
	codeLists codeLists,
	audit auditRepo,
	index searchIndex,
	tx txManager,
	children Children,
	limits Limits,
) *Service {
	return &Service{
		log:        logger.With("service", "activity"),
		activities: activities,
		narratives: narratives,
		codeLists:  codeLists,
		audit:      audit,
		index:      index,
		tx:         tx,
		children:   children,
		limits:     limits,
	}
}

// ---------------------------------------------------------------------------
// Ownership helpers (private)
// ---------------------------------------------------------------------------

// owned loads the activity and hides activities of other publishers behind
// domain.ErrNotFound.
func (s *Service) owned(ctx context.Context, publisherID, id uuid.UUID) (domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	if a.PublisherID != publisherID {
		return domain.Activity{}, domain.ErrNotFound
	}
	return a, nil
}
