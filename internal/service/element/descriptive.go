package element

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// ---------------------------------------------------------------------------
// Description
// ---------------------------------------------------------------------------

type DescriptionInput struct {
	Type       string
	Narratives []narrative.Input
}

func (in DescriptionInput) validate(e env) []domain.FieldError {
	errs := required(nil, "type", in.Type)
	e.checker.Require("type", domain.ListDescriptionType, "", in.Type)
	return errs
}

func (in DescriptionInput) build(id uuid.UUID, a domain.Activity) domain.Description {
	return domain.Description{ID: id, ActivityID: a.ID, Type: strings.TrimSpace(in.Type)}
}

func (in DescriptionInput) containers() []container[domain.Description] {
	return []container[domain.Description]{{
		field:    "narratives",
		owner:    domain.OwnerDescription,
		inputs:   in.Narratives,
		required: true,
		assign:   func(d *domain.Description, n []domain.Narrative) { d.Narratives = n },
	}}
}

func (s *Service) CreateDescription(ctx context.Context, publisherID, activityID uuid.UUID, in DescriptionInput) (domain.Description, error) {
	return create(ctx, s, s.descriptions, publisherID, activityID, in)
}

func (s *Service) UpdateDescription(ctx context.Context, publisherID, activityID, id uuid.UUID, in DescriptionInput) (domain.Description, error) {
	return update(ctx, s, s.descriptions, publisherID, activityID, id, in)
}

func (s *Service) DeleteDescription(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.descriptions, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// ActivityDate
// ---------------------------------------------------------------------------

type ActivityDateInput struct {
	Type       string
	ISODate    time.Time
	Narratives []narrative.Input
}

func (in ActivityDateInput) validate(e env) []domain.FieldError {
	errs := required(nil, "type", in.Type)
	e.checker.Require("type", domain.ListActivityDateType, "", in.Type)

	switch {
	case in.ISODate.IsZero():
		errs = append(errs, domain.FieldError{Field: "iso_date", Message: "required"})
	case isActualDate(in.Type) && in.ISODate.After(e.now):
		errs = append(errs, domain.FieldError{Field: "iso_date", Message: "actual dates must not be in the future"})
	}
	return errs
}

func isActualDate(dateType string) bool {
	return domain.ActivityDate{Type: strings.TrimSpace(dateType)}.IsActual()
}

func (in ActivityDateInput) build(id uuid.UUID, a domain.Activity) domain.ActivityDate {
	return domain.ActivityDate{ID: id, ActivityID: a.ID, Type: strings.TrimSpace(in.Type), ISODate: in.ISODate}
}

func (in ActivityDateInput) containers() []container[domain.ActivityDate] {
	return []container[domain.ActivityDate]{{
		field:  "narratives",
		owner:  domain.OwnerActivityDate,
		inputs: in.Narratives,
		assign: func(d *domain.ActivityDate, n []domain.Narrative) { d.Narratives = n },
	}}
}

func (s *Service) CreateActivityDate(ctx context.Context, publisherID, activityID uuid.UUID, in ActivityDateInput) (domain.ActivityDate, error) {
	return create(ctx, s, s.dates, publisherID, activityID, in)
}

func (s *Service) UpdateActivityDate(ctx context.Context, publisherID, activityID, id uuid.UUID, in ActivityDateInput) (domain.ActivityDate, error) {
	return update(ctx, s, s.dates, publisherID, activityID, id, in)
}

func (s *Service) DeleteActivityDate(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.dates, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// ParticipatingOrg
// ---------------------------------------------------------------------------

type ParticipatingOrgInput struct {
	Ref           string
	Role          string
	Type          string
	ActivityIDRef string
	Narratives    []narrative.Input
}

func (in ParticipatingOrgInput) validate(e env) []domain.FieldError {
	errs := required(nil, "role", in.Role)
	e.checker.Require("role", domain.ListOrganisationRole, "", in.Role)
	e.checker.Require("type", domain.ListOrganisationType, "", in.Type)

	if strings.TrimSpace(in.Ref) == "" && len(in.Narratives) == 0 {
		errs = append(errs, domain.FieldError{Field: "ref", Message: "either ref or a narrative is required"})
	}
	return errs
}

func (in ParticipatingOrgInput) build(id uuid.UUID, a domain.Activity) domain.ParticipatingOrg {
	return domain.ParticipatingOrg{
		ID:            id,
		ActivityID:    a.ID,
		Ref:           strings.TrimSpace(in.Ref),
		Role:          strings.TrimSpace(in.Role),
		Type:          strings.TrimSpace(in.Type),
		ActivityIDRef: strings.TrimSpace(in.ActivityIDRef),
	}
}

func (in ParticipatingOrgInput) containers() []container[domain.ParticipatingOrg] {
	return []container[domain.ParticipatingOrg]{{
		field:  "narratives",
		owner:  domain.OwnerParticipatingOrg,
		inputs: in.Narratives,
		assign: func(o *domain.ParticipatingOrg, n []domain.Narrative) { o.Narratives = n },
	}}
}

func (s *Service) CreateParticipatingOrg(ctx context.Context, publisherID, activityID uuid.UUID, in ParticipatingOrgInput) (domain.ParticipatingOrg, error) {
	return create(ctx, s, s.participatingOrgs, publisherID, activityID, in)
}

func (s *Service) UpdateParticipatingOrg(ctx context.Context, publisherID, activityID, id uuid.UUID, in ParticipatingOrgInput) (domain.ParticipatingOrg, error) {
	return update(ctx, s, s.participatingOrgs, publisherID, activityID, id, in)
}

func (s *Service) DeleteParticipatingOrg(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.participatingOrgs, publisherID, activityID, id)
}

// ---------------------------------------------------------------------------
// Condition
// ---------------------------------------------------------------------------

type ConditionInput struct {
	Type       string
	Narratives []narrative.Input
}

func (in ConditionInput) validate(e env) []domain.FieldError {
	var errs []domain.FieldError
	if !e.activity.ConditionsAttached {
		errs = append(errs, domain.FieldError{Field: "conditions_attached", Message: "activity has no conditions attached"})
	}
	errs = required(errs, "type", in.Type)
	e.checker.Require("type", domain.ListConditionType, "", in.Type)
	return errs
}

func (in ConditionInput) build(id uuid.UUID, a domain.Activity) domain.Condition {
	return domain.Condition{ID: id, ActivityID: a.ID, Type: strings.TrimSpace(in.Type)}
}

func (in ConditionInput) containers() []container[domain.Condition] {
	return []container[domain.Condition]{{
		field:    "narratives",
		owner:    domain.OwnerCondition,
		inputs:   in.Narratives,
		required: true,
		assign:   func(c *domain.Condition, n []domain.Narrative) { c.Narratives = n },
	}}
}

func (s *Service) CreateCondition(ctx context.Context, publisherID, activityID uuid.UUID, in ConditionInput) (domain.Condition, error) {
	return create(ctx, s, s.conditions, publisherID, activityID, in)
}

func (s *Service) UpdateCondition(ctx context.Context, publisherID, activityID, id uuid.UUID, in ConditionInput) (domain.Condition, error) {
	return update(ctx, s, s.conditions, publisherID, activityID, id, in)
}

// DeleteCondition removes a condition. Deletes are allowed even when the
// activity no longer has conditions attached.
func (s *Service) DeleteCondition(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.conditions, publisherID, activityID, id)
}
