package element

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// ---------------------------------------------------------------------------
// Sector
// ---------------------------------------------------------------------------

type SectorInput struct {
	Code          string
	Vocabulary    string
	VocabularyURI string
	Percentage    *decimal.Decimal
	Narratives    []narrative.Input
}

func (in SectorInput) validate(e env) []domain.FieldError {
	vocab := defaultVocabulary(in.Vocabulary)
	errs := required(nil, "code", in.Code)
	e.checker.Require("vocabulary", domain.ListSectorVocabulary, "", vocab)
	e.checker.Require("code", domain.ListSector, vocab, in.Code)
	errs = vocabularyURI(errs, "vocabulary_uri", vocab, in.VocabularyURI)
	return percentage(errs, "percentage", in.Percentage)
}

// checkStored limits the sum of sector percentages per vocabulary.
func (in SectorInput) checkStored(ctx context.Context, agg aggregates, activityID, self uuid.UUID) ([]domain.FieldError, error) {
	if in.Percentage == nil {
		return nil, nil
	}
	vocab := defaultVocabulary(in.Vocabulary)
	stored, err := agg.SectorPercentage(ctx, activityID, vocab, self)
	if err != nil {
		return nil, err
	}
	if stored.Add(*in.Percentage).GreaterThan(hundred) {
		return []domain.FieldError{sumExceeded("percentage", "vocabulary "+vocab+" sector", stored, *in.Percentage)}, nil
	}
	return nil, nil
}

func (in SectorInput) build(id uuid.UUID, a domain.Activity) domain.Sector {
	return domain.Sector{
		ID:            id,
		ActivityID:    a.ID,
		Code:          strings.TrimSpace(in.Code),
		Vocabulary:    defaultVocabulary(in.Vocabulary),
		VocabularyURI: strings.TrimSpace(in.VocabularyURI),
		Percentage:    in.Percentage,
	}
}

func (in SectorInput) containers() []container[domain.Sector] {
	return []container[domain.Sector]{{
		field:  "narratives",
		owner:  domain.OwnerSector,
		inputs: in.Narratives,
		assign: func(s *domain.Sector, n []domain.Narrative) { s.Narratives = n },
	}}
}

func (s *Service) CreateSector(ctx context.Context, publisherID, activityID uuid.UUID, in SectorInput) (domain.Sector, error) {
	return create(ctx, s, s.sectors, publisherID, activityID, in)
}

func (s *Service) UpdateSector(ctx context.Context, publisherID, activityID, id uuid.UUID, in SectorInput) (domain.Sector, error) {
	return update(ctx, s, s.sectors, publisherID, activityID, id, in)
}

func (s *Service) DeleteSector(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.sectors, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// PolicyMarker
// ---------------------------------------------------------------------------

type PolicyMarkerInput struct {
	Code          string
	Vocabulary    string
	VocabularyURI string
	Significance  string
	Narratives    []narrative.Input
}

func (in PolicyMarkerInput) validate(e env) []domain.FieldError {
	vocab := defaultVocabulary(in.Vocabulary)
	errs := required(nil, "code", in.Code)
	e.checker.Require("vocabulary", domain.ListPolicyMarkerVocabulary, "", vocab)
	// Only the OECD DAC vocabulary has a published code list.
	if vocab == domain.DefaultVocabulary {
		e.checker.Require("code", domain.ListPolicyMarker, "", in.Code)
	}
	e.checker.Require("significance", domain.ListPolicySignificance, "", in.Significance)
	return vocabularyURI(errs, "vocabulary_uri", vocab, in.VocabularyURI)
}

func (in PolicyMarkerInput) build(id uuid.UUID, a domain.Activity) domain.PolicyMarker {
	return domain.PolicyMarker{
		ID:            id,
		ActivityID:    a.ID,
		Code:          strings.TrimSpace(in.Code),
		Vocabulary:    defaultVocabulary(in.Vocabulary),
		VocabularyURI: strings.TrimSpace(in.VocabularyURI),
		Significance:  strings.TrimSpace(in.Significance),
	}
}

func (in PolicyMarkerInput) containers() []container[domain.PolicyMarker] {
	return []container[domain.PolicyMarker]{{
		field:  "narratives",
		owner:  domain.OwnerPolicyMarker,
		inputs: in.Narratives,
		assign: func(p *domain.PolicyMarker, n []domain.Narrative) { p.Narratives = n },
	}}
}

func (s *Service) CreatePolicyMarker(ctx context.Context, publisherID, activityID uuid.UUID, in PolicyMarkerInput) (domain.PolicyMarker, error) {
	return create(ctx, s, s.policyMarkers, publisherID, activityID, in)
}

func (s *Service) UpdatePolicyMarker(ctx context.Context, publisherID, activityID, id uuid.UUID, in PolicyMarkerInput) (domain.PolicyMarker, error) {
	return update(ctx, s, s.policyMarkers, publisherID, activityID, id, in)
}

func (s *Service) DeletePolicyMarker(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.policyMarkers, publisherID, activityID, id)
}
