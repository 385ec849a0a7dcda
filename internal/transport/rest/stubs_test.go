package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/element"
	"github.com/heartmarshall/iati-publisher/internal/service/result"
)

// stubCall is one recorded write: the method, its id arguments in order and
// the converted input.
type stubCall struct {
	Method string
	IDs    []uuid.UUID
	Input  any
}

// writeStub records every call and returns err.
type writeStub struct {
	mu    sync.Mutex
	calls []stubCall
	err   error
}

func (s *writeStub) record(method string, ids []uuid.UUID, in any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stubCall{Method: method, IDs: ids, Input: in})
}

func (s *writeStub) Calls() []stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubCall(nil), s.calls...)
}

var _ elementService = (*elementServiceStub)(nil)

type elementServiceStub struct {
	writeStub
}

var _ resultService = (*resultServiceStub)(nil)

type resultServiceStub struct {
	writeStub
}

func (s *elementServiceStub) CreateDescription(ctx context.Context, publisherID, activityID uuid.UUID, in element.DescriptionInput) (domain.Description, error) {
	s.record("CreateDescription", []uuid.UUID{publisherID, activityID}, in)
	var v domain.Description
	return v, s.err
}

func (s *elementServiceStub) UpdateDescription(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.DescriptionInput) (domain.Description, error) {
	s.record("UpdateDescription", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Description
	return v, s.err
}

func (s *elementServiceStub) DeleteDescription(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteDescription", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateActivityDate(ctx context.Context, publisherID, activityID uuid.UUID, in element.ActivityDateInput) (domain.ActivityDate, error) {
	s.record("CreateActivityDate", []uuid.UUID{publisherID, activityID}, in)
	var v domain.ActivityDate
	return v, s.err
}

func (s *elementServiceStub) UpdateActivityDate(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.ActivityDateInput) (domain.ActivityDate, error) {
	s.record("UpdateActivityDate", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.ActivityDate
	return v, s.err
}

func (s *elementServiceStub) DeleteActivityDate(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteActivityDate", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateParticipatingOrg(ctx context.Context, publisherID, activityID uuid.UUID, in element.ParticipatingOrgInput) (domain.ParticipatingOrg, error) {
	s.record("CreateParticipatingOrg", []uuid.UUID{publisherID, activityID}, in)
	var v domain.ParticipatingOrg
	return v, s.err
}

func (s *elementServiceStub) UpdateParticipatingOrg(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.ParticipatingOrgInput) (domain.ParticipatingOrg, error) {
	s.record("UpdateParticipatingOrg", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.ParticipatingOrg
	return v, s.err
}

func (s *elementServiceStub) DeleteParticipatingOrg(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteParticipatingOrg", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateRecipientCountry(ctx context.Context, publisherID, activityID uuid.UUID, in element.RecipientCountryInput) (domain.RecipientCountry, error) {
	s.record("CreateRecipientCountry", []uuid.UUID{publisherID, activityID}, in)
	var v domain.RecipientCountry
	return v, s.err
}

func (s *elementServiceStub) UpdateRecipientCountry(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.RecipientCountryInput) (domain.RecipientCountry, error) {
	s.record("UpdateRecipientCountry", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.RecipientCountry
	return v, s.err
}

func (s *elementServiceStub) DeleteRecipientCountry(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteRecipientCountry", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateRecipientRegion(ctx context.Context, publisherID, activityID uuid.UUID, in element.RecipientRegionInput) (domain.RecipientRegion, error) {
	s.record("CreateRecipientRegion", []uuid.UUID{publisherID, activityID}, in)
	var v domain.RecipientRegion
	return v, s.err
}

func (s *elementServiceStub) UpdateRecipientRegion(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.RecipientRegionInput) (domain.RecipientRegion, error) {
	s.record("UpdateRecipientRegion", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.RecipientRegion
	return v, s.err
}

func (s *elementServiceStub) DeleteRecipientRegion(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteRecipientRegion", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateSector(ctx context.Context, publisherID, activityID uuid.UUID, in element.SectorInput) (domain.Sector, error) {
	s.record("CreateSector", []uuid.UUID{publisherID, activityID}, in)
	var v domain.Sector
	return v, s.err
}

func (s *elementServiceStub) UpdateSector(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.SectorInput) (domain.Sector, error) {
	s.record("UpdateSector", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Sector
	return v, s.err
}

func (s *elementServiceStub) DeleteSector(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteSector", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreatePolicyMarker(ctx context.Context, publisherID, activityID uuid.UUID, in element.PolicyMarkerInput) (domain.PolicyMarker, error) {
	s.record("CreatePolicyMarker", []uuid.UUID{publisherID, activityID}, in)
	var v domain.PolicyMarker
	return v, s.err
}

func (s *elementServiceStub) UpdatePolicyMarker(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.PolicyMarkerInput) (domain.PolicyMarker, error) {
	s.record("UpdatePolicyMarker", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.PolicyMarker
	return v, s.err
}

func (s *elementServiceStub) DeletePolicyMarker(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeletePolicyMarker", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateCondition(ctx context.Context, publisherID, activityID uuid.UUID, in element.ConditionInput) (domain.Condition, error) {
	s.record("CreateCondition", []uuid.UUID{publisherID, activityID}, in)
	var v domain.Condition
	return v, s.err
}

func (s *elementServiceStub) UpdateCondition(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.ConditionInput) (domain.Condition, error) {
	s.record("UpdateCondition", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Condition
	return v, s.err
}

func (s *elementServiceStub) DeleteCondition(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteCondition", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateBudget(ctx context.Context, publisherID, activityID uuid.UUID, in element.BudgetInput) (domain.Budget, error) {
	s.record("CreateBudget", []uuid.UUID{publisherID, activityID}, in)
	var v domain.Budget
	return v, s.err
}

func (s *elementServiceStub) UpdateBudget(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.BudgetInput) (domain.Budget, error) {
	s.record("UpdateBudget", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Budget
	return v, s.err
}

func (s *elementServiceStub) DeleteBudget(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteBudget", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateTransaction(ctx context.Context, publisherID, activityID uuid.UUID, in element.TransactionInput) (domain.Transaction, error) {
	s.record("CreateTransaction", []uuid.UUID{publisherID, activityID}, in)
	var v domain.Transaction
	return v, s.err
}

func (s *elementServiceStub) UpdateTransaction(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.TransactionInput) (domain.Transaction, error) {
	s.record("UpdateTransaction", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Transaction
	return v, s.err
}

func (s *elementServiceStub) DeleteTransaction(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteTransaction", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateDocumentLink(ctx context.Context, publisherID, activityID uuid.UUID, in element.DocumentLinkInput) (domain.DocumentLink, error) {
	s.record("CreateDocumentLink", []uuid.UUID{publisherID, activityID}, in)
	var v domain.DocumentLink
	return v, s.err
}

func (s *elementServiceStub) UpdateDocumentLink(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.DocumentLinkInput) (domain.DocumentLink, error) {
	s.record("UpdateDocumentLink", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.DocumentLink
	return v, s.err
}

func (s *elementServiceStub) DeleteDocumentLink(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteDocumentLink", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *elementServiceStub) CreateLocation(ctx context.Context, publisherID, activityID uuid.UUID, in element.LocationInput) (domain.Location, error) {
	s.record("CreateLocation", []uuid.UUID{publisherID, activityID}, in)
	var v domain.Location
	return v, s.err
}

func (s *elementServiceStub) UpdateLocation(ctx context.Context, publisherID, activityID, id uuid.UUID, in element.LocationInput) (domain.Location, error) {
	s.record("UpdateLocation", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Location
	return v, s.err
}

func (s *elementServiceStub) DeleteLocation(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteLocation", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreateResult(ctx context.Context, publisherID, activityID uuid.UUID, in result.ResultInput) (domain.Result, error) {
	s.record("CreateResult", []uuid.UUID{publisherID, activityID}, in)
	var v domain.Result
	return v, s.err
}

func (s *resultServiceStub) UpdateResult(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.ResultInput) (domain.Result, error) {
	s.record("UpdateResult", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Result
	return v, s.err
}

func (s *resultServiceStub) DeleteResult(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteResult", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreateResultReference(ctx context.Context, publisherID, activityID, resultID uuid.UUID, in result.ResultReferenceInput) (domain.ResultReference, error) {
	s.record("CreateResultReference", []uuid.UUID{publisherID, activityID, resultID}, in)
	var v domain.ResultReference
	return v, s.err
}

func (s *resultServiceStub) UpdateResultReference(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.ResultReferenceInput) (domain.ResultReference, error) {
	s.record("UpdateResultReference", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.ResultReference
	return v, s.err
}

func (s *resultServiceStub) DeleteResultReference(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteResultReference", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreateIndicator(ctx context.Context, publisherID, activityID, resultID uuid.UUID, in result.IndicatorInput) (domain.Indicator, error) {
	s.record("CreateIndicator", []uuid.UUID{publisherID, activityID, resultID}, in)
	var v domain.Indicator
	return v, s.err
}

func (s *resultServiceStub) UpdateIndicator(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.IndicatorInput) (domain.Indicator, error) {
	s.record("UpdateIndicator", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Indicator
	return v, s.err
}

func (s *resultServiceStub) DeleteIndicator(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteIndicator", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreateIndicatorReference(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in result.IndicatorReferenceInput) (domain.IndicatorReference, error) {
	s.record("CreateIndicatorReference", []uuid.UUID{publisherID, activityID, indicatorID}, in)
	var v domain.IndicatorReference
	return v, s.err
}

func (s *resultServiceStub) UpdateIndicatorReference(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.IndicatorReferenceInput) (domain.IndicatorReference, error) {
	s.record("UpdateIndicatorReference", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.IndicatorReference
	return v, s.err
}

func (s *resultServiceStub) DeleteIndicatorReference(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteIndicatorReference", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreateBaseline(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in result.BaselineInput) (domain.Baseline, error) {
	s.record("CreateBaseline", []uuid.UUID{publisherID, activityID, indicatorID}, in)
	var v domain.Baseline
	return v, s.err
}

func (s *resultServiceStub) UpdateBaseline(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.BaselineInput) (domain.Baseline, error) {
	s.record("UpdateBaseline", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Baseline
	return v, s.err
}

func (s *resultServiceStub) DeleteBaseline(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteBaseline", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreatePeriod(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in result.PeriodInput) (domain.Period, error) {
	s.record("CreatePeriod", []uuid.UUID{publisherID, activityID, indicatorID}, in)
	var v domain.Period
	return v, s.err
}

func (s *resultServiceStub) UpdatePeriod(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.PeriodInput) (domain.Period, error) {
	s.record("UpdatePeriod", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.Period
	return v, s.err
}

func (s *resultServiceStub) DeletePeriod(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeletePeriod", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreatePeriodValue(ctx context.Context, publisherID, activityID, periodID uuid.UUID, in result.PeriodValueInput) (domain.PeriodValue, error) {
	s.record("CreatePeriodValue", []uuid.UUID{publisherID, activityID, periodID}, in)
	var v domain.PeriodValue
	return v, s.err
}

func (s *resultServiceStub) UpdatePeriodValue(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.PeriodValueInput) (domain.PeriodValue, error) {
	s.record("UpdatePeriodValue", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.PeriodValue
	return v, s.err
}

func (s *resultServiceStub) DeletePeriodValue(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeletePeriodValue", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreateDimension(ctx context.Context, publisherID, activityID, valueID uuid.UUID, in result.DimensionInput) (domain.PeriodDimension, error) {
	s.record("CreateDimension", []uuid.UUID{publisherID, activityID, valueID}, in)
	var v domain.PeriodDimension
	return v, s.err
}

func (s *resultServiceStub) UpdateDimension(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.DimensionInput) (domain.PeriodDimension, error) {
	s.record("UpdateDimension", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.PeriodDimension
	return v, s.err
}

func (s *resultServiceStub) DeleteDimension(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeleteDimension", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}

func (s *resultServiceStub) CreatePeriodLocation(ctx context.Context, publisherID, activityID, valueID uuid.UUID, in result.PeriodLocationInput) (domain.PeriodLocation, error) {
	s.record("CreatePeriodLocation", []uuid.UUID{publisherID, activityID, valueID}, in)
	var v domain.PeriodLocation
	return v, s.err
}

func (s *resultServiceStub) UpdatePeriodLocation(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.PeriodLocationInput) (domain.PeriodLocation, error) {
	s.record("UpdatePeriodLocation", []uuid.UUID{publisherID, activityID, id}, in)
	var v domain.PeriodLocation
	return v, s.err
}

func (s *resultServiceStub) DeletePeriodLocation(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	s.record("DeletePeriodLocation", []uuid.UUID{publisherID, activityID, id}, nil)
	return s.err
}
