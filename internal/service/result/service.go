// Package result implements the result tree of an activity: results, their
// indicators and references, indicator baselines and periods, period
// targets and actuals, and the dimensions and locations of those values.
package result

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

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
	ListByParents(ctx context.Context, parentIDs []uuid.UUID) ([]T, error)
	CountByParent(ctx context.Context, parentID uuid.UUID) (int, error)
	Create(ctx context.Context, row T) (T, error)
	Update(ctx context.Context, row T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type lineageRepo interface {
	ActivityOf(ctx context.Context, kind domain.EntityType, id uuid.UUID) (domain.Lineage, error)
}

type locationRefs interface {
	LocationRefExists(ctx context.Context, activityID uuid.UUID, ref string) (bool, error)
}

type narrativeService interface {
	Create(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []narrative.Input) ([]domain.Narrative, error)
	Save(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []narrative.Input) ([]domain.Narrative, error)
	DeleteOrphans(ctx context.Context, activityID uuid.UUID) error
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

// Tables holds the storage of every level of the result tree.
type Tables struct {
	Results             table[domain.Result]
	ResultReferences    table[domain.ResultReference]
	Indicators          table[domain.Indicator]
	IndicatorReferences table[domain.IndicatorReference]
	Baselines           table[domain.Baseline]
	Periods             table[domain.Period]
	PeriodValues        table[domain.PeriodValue]
	Dimensions          table[domain.PeriodDimension]
	Locations           table[domain.PeriodLocation]
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Limits bounds the page size of result lists.
type Limits struct {
	ListDefault int
	ListMax     int
}

// Service implements writes and reads of the result tree.
type Service struct {
	log        *slog.Logger
	activities activityRepo
	lineage    lineageRepo
	locations  locationRefs
	narratives narrativeService
	codeLists  codeLists
	audit      auditRepo
	tx         txManager
	tables     Tables
	limits     Limits

	results             node[domain.Result]
	resultReferences    node[domain.ResultReference]
	indicators          node[domain.Indicator]
	indicatorReferences node[domain.IndicatorReference]
	baselines           node[domain.Baseline]
	periods             node[domain.Period]
	periodValues        node[domain.PeriodValue]
	dimensions          node[domain.PeriodDimension]
	periodLocations     node[domain.PeriodLocation]
}

// NewService creates a new result service.
func NewService(
	logger *slog.Logger,
	activities activityRepo,
	lineage lineageRepo,
	locations locationRefs,
	narratives narrativeService,
	codeLists codeLists,
	audit auditRepo,
	tx txManager,
	tables Tables,
	limits Limits,
) *Service {
	return &Service{
		log:        logger.With("service", "result"),
		activities: activities,
		lineage:    lineage,
		locations:  locations,
		narratives: narratives,
		codeLists:  codeLists,
		audit:      audit,
		tx:         tx,
		tables:     tables,
		limits:     limits,

		results: node[domain.Result]{
			kind:     domain.EntityTypeResult,
			table:    tables.Results,
			parentOf: func(r domain.Result) uuid.UUID { return r.ActivityID },
		},
		resultReferences: node[domain.ResultReference]{
			kind:       domain.EntityTypeResultReference,
			parentKind: domain.EntityTypeResult,
			table:      tables.ResultReferences,
			parentOf:   func(r domain.ResultReference) uuid.UUID { return r.ResultID },
		},
		indicators: node[domain.Indicator]{
			kind:       domain.EntityTypeIndicator,
			parentKind: domain.EntityTypeResult,
			table:      tables.Indicators,
			parentOf:   func(i domain.Indicator) uuid.UUID { return i.ResultID },
		},
		indicatorReferences: node[domain.IndicatorReference]{
			kind:       domain.EntityTypeIndicatorReference,
			parentKind: domain.EntityTypeIndicator,
			table:      tables.IndicatorReferences,
			parentOf:   func(r domain.IndicatorReference) uuid.UUID { return r.IndicatorID },
		},
		baselines: node[domain.Baseline]{
			kind:       domain.EntityTypeBaseline,
			parentKind: domain.EntityTypeIndicator,
			table:      tables.Baselines,
			parentOf:   func(b domain.Baseline) uuid.UUID { return b.IndicatorID },
		},
		periods: node[domain.Period]{
			kind:       domain.EntityTypePeriod,
			parentKind: domain.EntityTypeIndicator,
			table:      tables.Periods,
			parentOf:   func(p domain.Period) uuid.UUID { return p.IndicatorID },
		},
		periodValues: node[domain.PeriodValue]{
			kind:       domain.EntityTypePeriodValue,
			parentKind: domain.EntityTypePeriod,
			table:      tables.PeriodValues,
			parentOf:   func(v domain.PeriodValue) uuid.UUID { return v.PeriodID },
		},
		dimensions: node[domain.PeriodDimension]{
			kind:       domain.EntityTypePeriodDimension,
			parentKind: domain.EntityTypePeriodValue,
			table:      tables.Dimensions,
			parentOf:   func(d domain.PeriodDimension) uuid.UUID { return d.PeriodValueID },
		},
		periodLocations: node[domain.PeriodLocation]{
			kind:       domain.EntityTypePeriodLocation,
			parentKind: domain.EntityTypePeriodValue,
			table:      tables.Locations,
			parentOf:   func(l domain.PeriodLocation) uuid.UUID { return l.PeriodValueID },
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

// within checks that the node id of kind hangs below activityID.
func (s *Service) within(ctx context.Context, kind domain.EntityType, id, activityID uuid.UUID) error {
	l, err := s.lineage.ActivityOf(ctx, kind, id)
	if err != nil {
		return err
	}
	if l.ActivityID != activityID {
		return domain.ErrNotFound
	}
	return nil
}
