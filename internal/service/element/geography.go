package element

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// checkRecipientSum rejects p when the stored recipient country and region
// percentages of the activity plus p exceed 100.
func checkRecipientSum(ctx context.Context, agg aggregates, activityID, self uuid.UUID, p *decimal.Decimal) ([]domain.FieldError, error) {
	if p == nil {
		return nil, nil
	}
	stored, err := agg.RecipientPercentage(ctx, activityID, self)
	if err != nil {
		return nil, err
	}
	if stored.Add(*p).GreaterThan(hundred) {
		return []domain.FieldError{sumExceeded("percentage", "recipient country and region", stored, *p)}, nil
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// RecipientCountry
// ---------------------------------------------------------------------------

type RecipientCountryInput struct {
	Country    string
	Percentage *decimal.Decimal
	Narratives []narrative.Input
}

func (in RecipientCountryInput) validate(e env) []domain.FieldError {
	errs := required(nil, "country", in.Country)
	e.checker.Require("country", domain.ListCountry, "", in.Country)
	return percentage(errs, "percentage", in.Percentage)
}

func (in RecipientCountryInput) checkStored(ctx context.Context, agg aggregates, activityID, self uuid.UUID) ([]domain.FieldError, error) {
	return checkRecipientSum(ctx, agg, activityID, self, in.Percentage)
}

func (in RecipientCountryInput) build(id uuid.UUID, a domain.Activity) domain.RecipientCountry {
	return domain.RecipientCountry{
		ID:         id,
		ActivityID: a.ID,
		Country:    strings.TrimSpace(in.Country),
		Percentage: in.Percentage,
	}
}

func (in RecipientCountryInput) containers() []container[domain.RecipientCountry] {
	return []container[domain.RecipientCountry]{{
		field:  "narratives",
		owner:  domain.OwnerRecipientCountry,
		inputs: in.Narratives,
		assign: func(c *domain.RecipientCountry, n []domain.Narrative) { c.Narratives = n },
	}}
}

func (s *Service) CreateRecipientCountry(ctx context.Context, publisherID, activityID uuid.UUID, in RecipientCountryInput) (domain.RecipientCountry, error) {
	return create(ctx, s, s.recipientCountries, publisherID, activityID, in)
}

func (s *Service) UpdateRecipientCountry(ctx context.Context, publisherID, activityID, id uuid.UUID, in RecipientCountryInput) (domain.RecipientCountry, error) {
	return update(ctx, s, s.recipientCountries, publisherID, activityID, id, in)
}

func (s *Service) DeleteRecipientCountry(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.recipientCountries, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// RecipientRegion
// ---------------------------------------------------------------------------

type RecipientRegionInput struct {
	Region        string
	Vocabulary    string
	VocabularyURI string
	Percentage    *decimal.Decimal
	Narratives    []narrative.Input
}

func (in RecipientRegionInput) validate(e env) []domain.FieldError {
	vocab := defaultVocabulary(in.Vocabulary)
	errs := required(nil, "region", in.Region)
	e.checker.Require("vocabulary", domain.ListRegionVocabulary, "", vocab)
	e.checker.Require("region", domain.ListRegion, vocab, in.Region)
	errs = vocabularyURI(errs, "vocabulary_uri", vocab, in.VocabularyURI)
	return percentage(errs, "percentage", in.Percentage)
}

func (in RecipientRegionInput) checkStored(ctx context.Context, agg aggregates, activityID, self uuid.UUID) ([]domain.FieldError, error) {
	return checkRecipientSum(ctx, agg, activityID, self, in.Percentage)
}

func (in RecipientRegionInput) build(id uuid.UUID, a domain.Activity) domain.RecipientRegion {
	return domain.RecipientRegion{
		ID:            id,
		ActivityID:    a.ID,
		Region:        strings.TrimSpace(in.Region),
		Vocabulary:    defaultVocabulary(in.Vocabulary),
		VocabularyURI: strings.TrimSpace(in.VocabularyURI),
		Percentage:    in.Percentage,
	}
}

func (in RecipientRegionInput) containers() []container[domain.RecipientRegion] {
	return []container[domain.RecipientRegion]{{
		field:  "narratives",
		owner:  domain.OwnerRecipientRegion,
		inputs: in.Narratives,
		assign: func(r *domain.RecipientRegion, n []domain.Narrative) { r.Narratives = n },
	}}
}

func (s *Service) CreateRecipientRegion(ctx context.Context, publisherID, activityID uuid.UUID, in RecipientRegionInput) (domain.RecipientRegion, error) {
	return create(ctx, s, s.recipientRegions, publisherID, activityID, in)
}

func (s *Service) UpdateRecipientRegion(ctx context.Context, publisherID, activityID, id uuid.UUID, in RecipientRegionInput) (domain.RecipientRegion, error) {
	return update(ctx, s, s.recipientRegions, publisherID, activityID, id, in)
}

func (s *Service) DeleteRecipientRegion(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.recipientRegions, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// Location
// ---------------------------------------------------------------------------

type LocationInput struct {
	Ref                 string
	LocationReach       string
	Exactness           string
	LocationClass       string
	FeatureDesignation  string
	Latitude            *float64
	Longitude           *float64
	Name                []narrative.Input
	Description         []narrative.Input
	ActivityDescription []narrative.Input
}

func (in LocationInput) validate(e env) []domain.FieldError {
	var errs []domain.FieldError
	e.checker.Require("location_reach", domain.ListGeographicReach, "", in.LocationReach)
	e.checker.Require("exactness", domain.ListGeographicExactness, "", in.Exactness)
	e.checker.Require("location_class", domain.ListGeographicLocationClass, "", in.LocationClass)
	e.checker.Require("feature_designation", domain.ListLocationType, "", in.FeatureDesignation)

	switch {
	case (in.Latitude == nil) != (in.Longitude == nil):
		errs = append(errs, domain.FieldError{Field: "point", Message: "latitude and longitude must be given together"})
	case in.Latitude != nil:
		if *in.Latitude < -90 || *in.Latitude > 90 {
			errs = append(errs, domain.FieldError{Field: "point.latitude", Message: "must be between -90 and 90"})
		}
		if *in.Longitude < -180 || *in.Longitude > 180 {
			errs = append(errs, domain.FieldError{Field: "point.longitude", Message: "must be between -180 and 180"})
		}
	}
	return errs
}

func (in LocationInput) build(id uuid.UUID, a domain.Activity) domain.Location {
	return domain.Location{
		ID:                 id,
		ActivityID:         a.ID,
		Ref:                strings.TrimSpace(in.Ref),
		LocationReach:      strings.TrimSpace(in.LocationReach),
		Exactness:          strings.TrimSpace(in.Exactness),
		LocationClass:      strings.TrimSpace(in.LocationClass),
		FeatureDesignation: strings.TrimSpace(in.FeatureDesignation),
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
	}
}

func (in LocationInput) containers() []container[domain.Location] {
	return []container[domain.Location]{
		{
			field:  "name.narratives",
			owner:  domain.OwnerLocationName,
			inputs: in.Name,
			assign: func(l *domain.Location, n []domain.Narrative) { l.Name = n },
		},
		{
			field:  "description.narratives",
			owner:  domain.OwnerLocationDescription,
			inputs: in.Description,
			assign: func(l *domain.Location, n []domain.Narrative) { l.Description = n },
		},
		{
			field:  "activity_description.narratives",
			owner:  domain.OwnerLocationActivityDescription,
			inputs: in.ActivityDescription,
			assign: func(l *domain.Location, n []domain.Narrative) { l.ActivityDescription = n },
		},
	}
}

func (s *Service) CreateLocation(ctx context.Context, publisherID, activityID uuid.UUID, in LocationInput) (domain.Location, error) {
	return create(ctx, s, s.locations, publisherID, activityID, in)
}

func (s *Service) UpdateLocation(ctx context.Context, publisherID, activityID, id uuid.UUID, in LocationInput) (domain.Location, error) {
	return update(ctx, s, s.locations, publisherID, activityID, id, in)
}

func (s *Service) DeleteLocation(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.locations, publisherID, activityID, id)
}
