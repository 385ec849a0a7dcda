package result

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

type ResultInput struct {
	Type              string
	AggregationStatus bool
	Title             []narrative.Input
	Description       []narrative.Input
}

func (in ResultInput) validate(c *codelist.Checker) []domain.FieldError {
	errs := required(nil, "type", in.Type)
	c.Require("type", domain.ListResultType, "", strings.TrimSpace(in.Type))
	return errs
}

func (in ResultInput) build(id, activityID uuid.UUID) domain.Result {
	return domain.Result{
		ID:                id,
		ActivityID:        activityID,
		Type:              strings.TrimSpace(in.Type),
		AggregationStatus: in.AggregationStatus,
	}
}

func (in ResultInput) containers() []container[domain.Result] {
	return []container[domain.Result]{
		{
			field:    "title.narratives",
			owner:    domain.OwnerResultTitle,
			inputs:   in.Title,
			required: true,
			assign:   func(r *domain.Result, n []domain.Narrative) { r.Title = n },
		},
		{
			field:  "description.narratives",
			owner:  domain.OwnerResultDescription,
			inputs: in.Description,
			assign: func(r *domain.Result, n []domain.Narrative) { r.Description = n },
		},
	}
}

func (s *Service) CreateResult(ctx context.Context, publisherID, activityID uuid.UUID, in ResultInput) (domain.Result, error) {
	return create(ctx, s, s.results, publisherID, activityID, activityID, in)
}

func (s *Service) UpdateResult(ctx context.Context, publisherID, activityID, id uuid.UUID, in ResultInput) (domain.Result, error) {
	return update(ctx, s, s.results, publisherID, activityID, id, in)
}

// DeleteResult removes a result with its whole subtree.
func (s *Service) DeleteResult(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.results, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// ResultReference
// ---------------------------------------------------------------------------

type ResultReferenceInput struct {
	Vocabulary    string
	Code          string
	VocabularyURI string
}

func (in ResultReferenceInput) validate(c *codelist.Checker) []domain.FieldError {
	errs := required(nil, "vocabulary", in.Vocabulary)
	errs = required(errs, "code", in.Code)
	c.Require("vocabulary", domain.ListResultVocabulary, "", strings.TrimSpace(in.Vocabulary))
	return referenceURI(errs, "vocabulary_uri", in.Vocabulary, in.VocabularyURI)
}

func (in ResultReferenceInput) build(id, resultID uuid.UUID) domain.ResultReference {
	return domain.ResultReference{
		ID:            id,
		ResultID:      resultID,
		Vocabulary:    strings.TrimSpace(in.Vocabulary),
		Code:          strings.TrimSpace(in.Code),
		VocabularyURI: strings.TrimSpace(in.VocabularyURI),
	}
}

func (in ResultReferenceInput) containers() []container[domain.ResultReference] { return nil }

func (s *Service) CreateResultReference(ctx context.Context, publisherID, activityID, resultID uuid.UUID, in ResultReferenceInput) (domain.ResultReference, error) {
	return create(ctx, s, s.resultReferences, publisherID, activityID, resultID, in)
}

func (s *Service) UpdateResultReference(ctx context.Context, publisherID, activityID, id uuid.UUID, in ResultReferenceInput) (domain.ResultReference, error) {
	return update(ctx, s, s.resultReferences, publisherID, activityID, id, in)
}

func (s *Service) DeleteResultReference(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.resultReferences, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// Indicator
// ---------------------------------------------------------------------------

// IndicatorInput describes an indicator. Ascending defaults to true.
type IndicatorInput struct {
	Measure           string
	Ascending         *bool
	AggregationStatus bool
	Title             []narrative.Input
	Description       []narrative.Input
}

func (in IndicatorInput) validate(c *codelist.Checker) []domain.FieldError {
	errs := required(nil, "measure", in.Measure)
	c.Require("measure", domain.ListIndicatorMeasure, "", strings.TrimSpace(in.Measure))
	return errs
}

func (in IndicatorInput) build(id, resultID uuid.UUID) domain.Indicator {
	ascending := true
	if in.Ascending != nil {
		ascending = *in.Ascending
	}
	return domain.Indicator{
		ID:                id,
		ResultID:          resultID,
		Measure:           strings.TrimSpace(in.Measure),
		Ascending:         ascending,
		AggregationStatus: in.AggregationStatus,
	}
}

func (in IndicatorInput) containers() []container[domain.Indicator] {
	return []container[domain.Indicator]{
		{
			field:    "title.narratives",
			owner:    domain.OwnerIndicatorTitle,
			inputs:   in.Title,
			required: true,
			assign:   func(i *domain.Indicator, n []domain.Narrative) { i.Title = n },
		},
		{
			field:  "description.narratives",
			owner:  domain.OwnerIndicatorDescription,
			inputs: in.Description,
			assign: func(i *domain.Indicator, n []domain.Narrative) { i.Description = n },
		},
	}
}

func (s *Service) CreateIndicator(ctx context.Context, publisherID, activityID, resultID uuid.UUID, in IndicatorInput) (domain.Indicator, error) {
	return create(ctx, s, s.indicators, publisherID, activityID, resultID, in)
}

func (s *Service) UpdateIndicator(ctx context.Context, publisherID, activityID, id uuid.UUID, in IndicatorInput) (domain.Indicator, error) {
	return update(ctx, s, s.indicators, publisherID, activityID, id, in)
}

func (s *Service) DeleteIndicator(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.indicators, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// IndicatorReference
// ---------------------------------------------------------------------------

type IndicatorReferenceInput struct {
	Vocabulary   string
	Code         string
	IndicatorURI string
}

func (in IndicatorReferenceInput) validate(c *codelist.Checker) []domain.FieldError {
	errs := required(nil, "vocabulary", in.Vocabulary)
	errs = required(errs, "code", in.Code)
	c.Require("vocabulary", domain.ListIndicatorVocabulary, "", strings.TrimSpace(in.Vocabulary))
	return referenceURI(errs, "indicator_uri", in.Vocabulary, in.IndicatorURI)
}

func (in IndicatorReferenceInput) build(id, indicatorID uuid.UUID) domain.IndicatorReference {
	return domain.IndicatorReference{
		ID:           id,
		IndicatorID:  indicatorID,
		Vocabulary:   strings.TrimSpace(in.Vocabulary),
		Code:         strings.TrimSpace(in.Code),
		IndicatorURI: strings.TrimSpace(in.IndicatorURI),
	}
}

func (in IndicatorReferenceInput) containers() []container[domain.IndicatorReference] { return nil }

func (s *Service) CreateIndicatorReference(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in IndicatorReferenceInput) (domain.IndicatorReference, error) {
	return create(ctx, s, s.indicatorReferences, publisherID, activityID, indicatorID, in)
}

func (s *Service) UpdateIndicatorReference(ctx context.Context, publisherID, activityID, id uuid.UUID, in IndicatorReferenceInput) (domain.IndicatorReference, error) {
	return update(ctx, s, s.indicatorReferences, publisherID, activityID, id, in)
}

func (s *Service) DeleteIndicatorReference(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.indicatorReferences, publisherID, activityID, id)
}
