package result

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// ---------------------------------------------------------------------------
// Baseline
// ---------------------------------------------------------------------------

type BaselineInput struct {
	Year    *int
	ISODate *time.Time
	Value   *decimal.Decimal
	Comment []narrative.Input
}

func (in BaselineInput) validate(*codelist.Checker) []domain.FieldError {
	if in.Year != nil && (*in.Year < 1000 || *in.Year > 9999) {
		return []domain.FieldError{{Field: "year", Message: "must be a four-digit year"}}
	}
	return nil
}

func (in BaselineInput) build(id, indicatorID uuid.UUID) domain.Baseline {
	return domain.Baseline{
		ID:          id,
		IndicatorID: indicatorID,
		Year:        in.Year,
		ISODate:     in.ISODate,
		Value:       in.Value,
	}
}

func (in BaselineInput) containers() []container[domain.Baseline] {
	return []container[domain.Baseline]{{
		field:  "comment.narratives",
		owner:  domain.OwnerIndicatorBaselineComment,
		inputs: in.Comment,
		assign: func(b *domain.Baseline, n []domain.Narrative) { b.Comment = n },
	}}
}

func (s *Service) CreateBaseline(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in BaselineInput) (domain.Baseline, error) {
	return create(ctx, s, s.baselines, publisherID, activityID, indicatorID, in)
}

func (s *Service) UpdateBaseline(ctx context.Context, publisherID, activityID, id uuid.UUID, in BaselineInput) (domain.Baseline, error) {
	return update(ctx, s, s.baselines, publisherID, activityID, id, in)
}

func (s *Service) DeleteBaseline(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.baselines, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// Period
// ---------------------------------------------------------------------------

type PeriodInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (in PeriodInput) validate(*codelist.Checker) []domain.FieldError {
	return period(nil, in.PeriodStart, in.PeriodEnd)
}

func (in PeriodInput) build(id, indicatorID uuid.UUID) domain.Period {
	return domain.Period{
		ID:          id,
		IndicatorID: indicatorID,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
	}
}

func (in PeriodInput) containers() []container[domain.Period] { return nil }

func (s *Service) CreatePeriod(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in PeriodInput) (domain.Period, error) {
	return create(ctx, s, s.periods, publisherID, activityID, indicatorID, in)
}

func (s *Service) UpdatePeriod(ctx context.Context, publisherID, activityID, id uuid.UUID, in PeriodInput) (domain.Period, error) {
	return update(ctx, s, s.periods, publisherID, activityID, id, in)
}

func (s *Service) DeletePeriod(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.periods, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// PeriodValue (target / actual)
// ---------------------------------------------------------------------------

// PeriodValueInput describes a period target or actual. Kind selects which
// and cannot change on update.
type PeriodValueInput struct {
	Kind    domain.PeriodValueKind
	Value   *decimal.Decimal
	Comment []narrative.Input
}

func (in PeriodValueInput) validate(*codelist.Checker) []domain.FieldError {
	if in.Kind != domain.PeriodValueTarget && in.Kind != domain.PeriodValueActual {
		return []domain.FieldError{{Field: "kind", Message: "must be target or actual"}}
	}
	return nil
}

func (in PeriodValueInput) guard(old domain.PeriodValue) error {
	if old.Kind != in.Kind {
		return fmt.Errorf("%s %s %s: %w", domain.EntityTypePeriodValue, in.Kind, old.ID, domain.ErrNotFound)
	}
	return nil
}

func (in PeriodValueInput) build(id, periodID uuid.UUID) domain.PeriodValue {
	return domain.PeriodValue{
		ID:       id,
		PeriodID: periodID,
		Kind:     in.Kind,
		Value:    in.Value,
	}
}

func (in PeriodValueInput) containers() []container[domain.PeriodValue] {
	owner := domain.OwnerPeriodTargetComment
	if in.Kind == domain.PeriodValueActual {
		owner = domain.OwnerPeriodActualComment
	}
	return []container[domain.PeriodValue]{{
		field:  "comment.narratives",
		owner:  owner,
		inputs: in.Comment,
		assign: func(v *domain.PeriodValue, n []domain.Narrative) { v.Comment = n },
	}}
}

func (s *Service) CreatePeriodValue(ctx context.Context, publisherID, activityID, periodID uuid.UUID, in PeriodValueInput) (domain.PeriodValue, error) {
	return create(ctx, s, s.periodValues, publisherID, activityID, periodID, in)
}

func (s *Service) UpdatePeriodValue(ctx context.Context, publisherID, activityID, id uuid.UUID, in PeriodValueInput) (domain.PeriodValue, error) {
	return update(ctx, s, s.periodValues, publisherID, activityID, id, in)
}

func (s *Service) DeletePeriodValue(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.periodValues, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// PeriodDimension
// ---------------------------------------------------------------------------

type DimensionInput struct {
	Name  string
	Value string
}

func (in DimensionInput) validate(*codelist.Checker) []domain.FieldError {
	errs := required(nil, "name", in.Name)
	return required(errs, "value", in.Value)
}

func (in DimensionInput) build(id, valueID uuid.UUID) domain.PeriodDimension {
	return domain.PeriodDimension{
		ID:            id,
		PeriodValueID: valueID,
		Name:          strings.TrimSpace(in.Name),
		Value:         strings.TrimSpace(in.Value),
	}
}

func (in DimensionInput) containers() []container[domain.PeriodDimension] { return nil }

func (s *Service) CreateDimension(ctx context.Context, publisherID, activityID, valueID uuid.UUID, in DimensionInput) (domain.PeriodDimension, error) {
	return create(ctx, s, s.dimensions, publisherID, activityID, valueID, in)
}

func (s *Service) UpdateDimension(ctx context.Context, publisherID, activityID, id uuid.UUID, in DimensionInput) (domain.PeriodDimension, error) {
	return update(ctx, s, s.dimensions, publisherID, activityID, id, in)
}

func (s *Service) DeleteDimension(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.dimensions, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// PeriodLocation
// ---------------------------------------------------------------------------

// PeriodLocationInput references one of the activity locations by ref.
type PeriodLocationInput struct {
	Ref string
}

func (in PeriodLocationInput) validate(*codelist.Checker) []domain.FieldError {
	return required(nil, "ref", in.Ref)
}

func (in PeriodLocationInput) checkActivity(ctx context.Context, s *Service, activityID uuid.UUID) ([]domain.FieldError, error) {
	ref := strings.TrimSpace(in.Ref)
	if ref == "" {
		return nil, nil
	}
	ok, err := s.locations.LocationRefExists(ctx, activityID, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.FieldError{{Field: "ref", Message: "activity has no location with this ref"}}, nil
	}
	return nil, nil
}

func (in PeriodLocationInput) build(id, valueID uuid.UUID) domain.PeriodLocation {
	return domain.PeriodLocation{
		ID:            id,
		PeriodValueID: valueID,
		Ref:           strings.TrimSpace(in.Ref),
	}
}

func (in PeriodLocationInput) containers() []container[domain.PeriodLocation] { return nil }

func (s *Service) CreatePeriodLocation(ctx context.Context, publisherID, activityID, valueID uuid.UUID, in PeriodLocationInput) (domain.PeriodLocation, error) {
	return create(ctx, s, s.periodLocations, publisherID, activityID, valueID, in)
}

func (s *Service) UpdatePeriodLocation(ctx context.Context, publisherID, activityID, id uuid.UUID, in PeriodLocationInput) (domain.PeriodLocation, error) {
	return update(ctx, s, s.periodLocations, publisherID, activityID, id, in)
}

func (s *Service) DeletePeriodLocation(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.periodLocations, publisherID, activityID, id)
}
