// Package element implements the first-level children of an activity:
// descriptions, dates, participating organisations, recipient countries
// and regions, sectors, policy markers, conditions, budgets, transactions,
// document links and locations.
package element

import (
	"context"
	"log/slog"
	"time"

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
	MarkModified(ctx context.Context, id uuid.UUID) error
}

type table[T any] interface {
	Get(ctx context.Context, id uuid.UUID) (T, error)
	ListByParent(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]T, error)
	CountByParent(ctx context.Context, parentID uuid.UUID) (int, error)
	Create(ctx context.Context, row T) (T, error)
	Update(ctx context.Context, row T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type aggregates interface {
	RecipientPercentage(ctx context.Context, activityID, exclude uuid.UUID) (decimal.Decimal, error)
	SectorPercentage(ctx context.Context, activityID uuid.UUID, vocabulary string, exclude uuid.UUID) (decimal.Decimal, error)
}

type narrativeService interface {
	Create(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []narrative.Input) ([]domain.Narrative, error)
	Save(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []narrative.Input) ([]domain.Narrative, error)
	DeleteByOwner(ctx context.Context, owners ...domain.NarrativeOwner) error
	ListByOwners(ctx context.Context, owners []domain.NarrativeOwner) (map[domain.NarrativeOwner][]domain.Narrative, error)
}

type codeLists interface {
	NewChecker() *codelist.Checker
}

type auditRepo interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Tables holds the storage of every element collection.
type Tables struct {
	Descriptions       table[domain.Description]
	Dates              table[domain.ActivityDate]
	ParticipatingOrgs  table[domain.ParticipatingOrg]
	RecipientCountries table[domain.RecipientCountry]
	RecipientRegions   table[domain.RecipientRegion]
	Sectors            table[domain.Sector]
	PolicyMarkers      table[domain.PolicyMarker]
	Conditions         table[domain.Condition]
	Budgets            table[domain.Budget]
	Transactions       table[domain.Transaction]
	DocumentLinks      table[domain.DocumentLink]
	Locations          table[domain.Location]
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Limits bounds the page size of element lists.
type Limits struct {
	ListDefault int
	ListMax     int
}

// Service implements writes of activity elements and their paginated reads.
type Service struct {
	log        *slog.Logger
	activities activityRepo
	narratives narrativeService
	codeLists  codeLists
	aggregates aggregates
	audit      auditRepo
	tx         txManager
	limits     Limits
	now        func() time.Time

	descriptions       entity[domain.Description]
	dates              entity[domain.ActivityDate]
	participatingOrgs  entity[domain.ParticipatingOrg]
	recipientCountries entity[domain.RecipientCountry]
	recipientRegions   entity[domain.RecipientRegion]
	sectors            entity[domain.Sector]
	policyMarkers      entity[domain.PolicyMarker]
	conditions         entity[domain.Condition]
	budgets            entity[domain.Budget]
	transactions       entity[domain.Transaction]
	documentLinks      entity[domain.DocumentLink]
	locations          entity[domain.Location]
}

// NewService creates a new element service.
func NewService(
	logger *slog.Logger,
	activities activityRepo,
	narratives narrativeService,
	codeLists codeLists,
	aggregates aggregates,
	audit auditRepo,
	tx txManager,
	tables Tables,
	limits Limits,
) *Service {
	return &Service{
		log:        logger.With("service", "element"),
		activities: activities,
		narratives: narratives,
		codeLists:  codeLists,
		aggregates: aggregates,
		audit:      audit,
		tx:         tx,
		limits:     limits,
		now:        time.Now,

		descriptions: entity[domain.Description]{
			kind:       domain.EntityTypeDescription,
			table:      tables.Descriptions,
			owners:     []domain.NarrativeOwnerType{domain.OwnerDescription},
			activityOf: func(d domain.Description) uuid.UUID { return d.ActivityID },
		},
		dates: entity[domain.ActivityDate]{
			kind:       domain.EntityTypeActivityDate,
			table:      tables.Dates,
			owners:     []domain.NarrativeOwnerType{domain.OwnerActivityDate},
			activityOf: func(d domain.ActivityDate) uuid.UUID { return d.ActivityID },
		},
		participatingOrgs: entity[domain.ParticipatingOrg]{
			kind:       domain.EntityTypeParticipatingOrg,
			table:      tables.ParticipatingOrgs,
			owners:     []domain.NarrativeOwnerType{domain.OwnerParticipatingOrg},
			activityOf: func(o domain.ParticipatingOrg) uuid.UUID { return o.ActivityID },
		},
		recipientCountries: entity[domain.RecipientCountry]{
			kind:       domain.EntityTypeRecipientCountry,
			table:      tables.RecipientCountries,
			owners:     []domain.NarrativeOwnerType{domain.OwnerRecipientCountry},
			activityOf: func(c domain.RecipientCountry) uuid.UUID { return c.ActivityID },
		},
		recipientRegions: entity[domain.RecipientRegion]{
			kind:       domain.EntityTypeRecipientRegion,
			table:      tables.RecipientRegions,
			owners:     []domain.NarrativeOwnerType{domain.OwnerRecipientRegion},
			activityOf: func(r domain.RecipientRegion) uuid.UUID { return r.ActivityID },
		},
		sectors: entity[domain.Sector]{
			kind:       domain.EntityTypeSector,
			table:      tables.Sectors,
			owners:     []domain.NarrativeOwnerType{domain.OwnerSector},
			activityOf: func(s domain.Sector) uuid.UUID { return s.ActivityID },
		},
		policyMarkers: entity[domain.PolicyMarker]{
			kind:       domain.EntityTypePolicyMarker,
			table:      tables.PolicyMarkers,
			owners:     []domain.NarrativeOwnerType{domain.OwnerPolicyMarker},
			activityOf: func(p domain.PolicyMarker) uuid.UUID { return p.ActivityID },
		},
		conditions: entity[domain.Condition]{
			kind:       domain.EntityTypeCondition,
			table:      tables.Conditions,
			owners:     []domain.NarrativeOwnerType{domain.OwnerCondition},
			activityOf: func(c domain.Condition) uuid.UUID { return c.ActivityID },
		},
		budgets: entity[domain.Budget]{
			kind:       domain.EntityTypeBudget,
			table:      tables.Budgets,
			activityOf: func(b domain.Budget) uuid.UUID { return b.ActivityID },
		},
		transactions: entity[domain.Transaction]{
			kind:  domain.EntityTypeTransaction,
			table: tables.Transactions,
			owners: []domain.NarrativeOwnerType{
				domain.OwnerTransactionDescription,
				domain.OwnerTransactionProvider,
				domain.OwnerTransactionReceiver,
			},
			activityOf: func(t domain.Transaction) uuid.UUID { return t.ActivityID },
		},
		documentLinks: entity[domain.DocumentLink]{
			kind:  domain.EntityTypeDocumentLink,
			table: tables.DocumentLinks,
			owners: []domain.NarrativeOwnerType{
				domain.OwnerDocumentLinkTitle,
				domain.OwnerDocumentLinkDescription,
			},
			activityOf: func(d domain.DocumentLink) uuid.UUID { return d.ActivityID },
		},
		locations: entity[domain.Location]{
			kind:  domain.EntityTypeLocation,
			table: tables.Locations,
			owners: []domain.NarrativeOwnerType{
				domain.OwnerLocationName,
				domain.OwnerLocationDescription,
				domain.OwnerLocationActivityDescription,
			},
			activityOf: func(l domain.Location) uuid.UUID { return l.ActivityID },
		},
	}
}

// owned loads the activity and hides activities of other publishers behind
// domain.ErrNotFound.
func (s *Service) owned(ctx context.Context, publisherID, activityID uuid.UUID) (domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return domain.Activity{}, err
	}
	if a.PublisherID != publisherID {
		return domain.Activity{}, domain.ErrNotFound
	}
	return a, nil
}
