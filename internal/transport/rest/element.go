package rest

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/element"
)

type elementService interface {
	CreateDescription(ctx context.Context, publisherID, activityID uuid.UUID, in element.DescriptionInput) (domain.Description, error)
	UpdateDescription(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.DescriptionInput) (domain.Description, error)
	DeleteDescription(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateActivityDate(ctx context.Context, publisherID, activityID uuid.UUID, in element.ActivityDateInput) (domain.ActivityDate, error)
	UpdateActivityDate(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.ActivityDateInput) (domain.ActivityDate, error)
	DeleteActivityDate(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateParticipatingOrg(ctx context.Context, publisherID, activityID uuid.UUID, in element.ParticipatingOrgInput) (domain.ParticipatingOrg, error)
	UpdateParticipatingOrg(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.ParticipatingOrgInput) (domain.ParticipatingOrg, error)
	DeleteParticipatingOrg(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateRecipientCountry(ctx context.Context, publisherID, activityID uuid.UUID, in element.RecipientCountryInput) (domain.RecipientCountry, error)
	UpdateRecipientCountry(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.RecipientCountryInput) (domain.RecipientCountry, error)
	DeleteRecipientCountry(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateRecipientRegion(ctx context.Context, publisherID, activityID uuid.UUID, in element.RecipientRegionInput) (domain.RecipientRegion, error)
	UpdateRecipientRegion(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.RecipientRegionInput) (domain.RecipientRegion, error)
	DeleteRecipientRegion(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateSector(ctx context.Context, publisherID, activityID uuid.UUID, in element.SectorInput) (domain.Sector, error)
	UpdateSector(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.SectorInput) (domain.Sector, error)
	DeleteSector(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreatePolicyMarker(ctx context.Context, publisherID, activityID uuid.UUID, in element.PolicyMarkerInput) (domain.PolicyMarker, error)
	UpdatePolicyMarker(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.PolicyMarkerInput) (domain.PolicyMarker, error)
	DeletePolicyMarker(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateCondition(ctx context.Context, publisherID, activityID uuid.UUID, in element.ConditionInput) (domain.Condition, error)
	UpdateCondition(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.ConditionInput) (domain.Condition, error)
	DeleteCondition(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateBudget(ctx context.Context, publisherID, activityID uuid.UUID, in element.BudgetInput) (domain.Budget, error)
	UpdateBudget(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.BudgetInput) (domain.Budget, error)
	DeleteBudget(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateTransaction(ctx context.Context, publisherID, activityID uuid.UUID, in element.TransactionInput) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.TransactionInput) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateDocumentLink(ctx context.Context, publisherID, activityID uuid.UUID, in element.DocumentLinkInput) (domain.DocumentLink, error)
	UpdateDocumentLink(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.DocumentLinkInput) (domain.DocumentLink, error)
	DeleteDocumentLink(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateLocation(ctx context.Context, publisherID, activityID uuid.UUID, in element.LocationInput) (domain.Location, error)
	UpdateLocation(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.LocationInput) (domain.Location, error)
	DeleteLocation(ctx context.Context, publisherID, activityID, id uuid.UUID) error
}

// ElementHandler serves the writes of the first-level activity children.
type ElementHandler struct {
	svc elementService
	log *slog.Logger
}

// NewElementHandler creates an ElementHandler.
func NewElementHandler(svc elementService, logger *slog.Logger) *ElementHandler {
	return &ElementHandler{svc: svc, log: logger.With("handler", "element")}
}

// child adapts the activity-scoped service methods of one element kind.
func child[R, I, T any](
	path string,
	convert func(R) I,
	create func(ctx context.Context, publisherID, activityID uuid.UUID, in I) (T, error),
	update func(ctx context.Context, publisherID, activityID, id uuid.UUID, in I) (T, error),
	remove func(ctx context.Context, publisherID, activityID, id uuid.UUID) error,
) collection[R, I, T] {
	return collection[R, I, T]{
		path:    path,
		convert: convert,
		create: func(ctx context.Context, s scope, in I) (T, error) {
			return create(ctx, s.publisherID, s.activityID, in)
		},
		update: func(ctx context.Context, s scope, in I) (T, error) {
			return update(ctx, s.publisherID, s.activityID, s.id, in)
		},
		remove: func(ctx context.Context, s scope) error {
			return remove(ctx, s.publisherID, s.activityID, s.id)
		},
	}
}

// Routes returns the create, update and delete routes of every element
// collection.
func (h *ElementHandler) Routes() []route {
	s := h.svc
	var out []route
	add := func(rs []route) { out = append(out, rs...) }

	add(child("/descriptions", descriptionRequest.input,
		s.CreateDescription, s.UpdateDescription, s.DeleteDescription).routes(h.log))
	add(child("/dates", activityDateRequest.input,
		s.CreateActivityDate, s.UpdateActivityDate, s.DeleteActivityDate).routes(h.log))
	add(child("/participating-organisations", participatingOrgRequest.input,
		s.CreateParticipatingOrg, s.UpdateParticipatingOrg, s.DeleteParticipatingOrg).routes(h.log))
	add(child("/recipient-countries", recipientCountryRequest.input,
		s.CreateRecipientCountry, s.UpdateRecipientCountry, s.DeleteRecipientCountry).routes(h.log))
	add(child("/recipient-regions", recipientRegionRequest.input,
		s.CreateRecipientRegion, s.UpdateRecipientRegion, s.DeleteRecipientRegion).routes(h.log))
	add(child("/sectors", sectorRequest.input,
		s.CreateSector, s.UpdateSector, s.DeleteSector).routes(h.log))
	add(child("/policy-markers", policyMarkerRequest.input,
		s.CreatePolicyMarker, s.UpdatePolicyMarker, s.DeletePolicyMarker).routes(h.log))
	add(child("/conditions", conditionRequest.input,
		s.CreateCondition, s.UpdateCondition, s.DeleteCondition).routes(h.log))
	add(child("/budgets", budgetRequest.input,
		s.CreateBudget, s.UpdateBudget, s.DeleteBudget).routes(h.log))
	add(child("/transactions", transactionRequest.input,
		s.CreateTransaction, s.UpdateTransaction, s.DeleteTransaction).routes(h.log))
	add(child("/document-links", documentLinkRequest.input,
		s.CreateDocumentLink, s.UpdateDocumentLink, s.DeleteDocumentLink).routes(h.log))
	add(child("/locations", locationRequest.input,
		s.CreateLocation, s.UpdateLocation, s.DeleteLocation).routes(h.log))

	return out
}
