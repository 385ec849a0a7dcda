package element

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// ---------------------------------------------------------------------------
// Budget
// ---------------------------------------------------------------------------

// BudgetInput describes a budget. Type and Status default to original and
// indicative.
type BudgetInput struct {
	Type        string
	Status      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Value       *decimal.Decimal
	Currency    string
	ValueDate   *time.Time
}

func (in BudgetInput) validate(e env) []domain.FieldError {
	var errs []domain.FieldError
	e.checker.Require("type", domain.ListBudgetType, "", in.Type)
	e.checker.Require("status", domain.ListBudgetStatus, "", in.Status)

	errs = periodRule(errs, in.PeriodStart, in.PeriodEnd)
	if !in.PeriodStart.IsZero() && in.PeriodEnd.After(in.PeriodStart.AddDate(1, 0, 0)) {
		errs = append(errs, domain.FieldError{Field: "period_end", Message: "budget period must not be longer than one year"})
	}

	if in.Value == nil {
		errs = append(errs, domain.FieldError{Field: "value", Message: "required"})
	}
	if strings.TrimSpace(in.Currency) == "" && e.activity.DefaultCurrency == "" {
		errs = append(errs, domain.FieldError{Field: "currency", Message: "required when the activity has no default currency"})
	}
	e.checker.Require("currency", domain.ListCurrency, "", in.Currency)
	return errs
}

// periodRule checks a required start/end pair.
func periodRule(errs []domain.FieldError, start, end time.Time) []domain.FieldError {
	if start.IsZero() {
		errs = append(errs, domain.FieldError{Field: "period_start", Message: "required"})
	}
	if end.IsZero() {
		errs = append(errs, domain.FieldError{Field: "period_end", Message: "required"})
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, domain.FieldError{Field: "period_end", Message: "must not be before period_start"})
	}
	return errs
}

func (in BudgetInput) build(id uuid.UUID, a domain.Activity) domain.Budget {
	b := domain.Budget{
		ID:          id,
		ActivityID:  a.ID,
		Type:        orDefault(in.Type, domain.BudgetTypeOriginal),
		Status:      orDefault(in.Status, "1"),
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		Currency:    orDefault(in.Currency, a.DefaultCurrency),
		ValueDate:   in.ValueDate,
	}
	if in.Value != nil {
		b.Value = *in.Value
	}
	return b
}

func (in BudgetInput) containers() []container[domain.Budget] { return nil }

func (s *Service) CreateBudget(ctx context.Context, publisherID, activityID uuid.UUID, in BudgetInput) (domain.Budget, error) {
	return create(ctx, s, s.budgets, publisherID, activityID, in)
}

func (s *Service) UpdateBudget(ctx context.Context, publisherID, activityID, id uuid.UUID, in BudgetInput) (domain.Budget, error) {
	return update(ctx, s, s.budgets, publisherID, activityID, id, in)
}

func (s *Service) DeleteBudget(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.budgets, publisherID, activityID, id)
}

// ListBudgets returns one page of the budgets of an activity.
func (s *Service) ListBudgets(ctx context.Context, activityID uuid.UUID, limit, offset int) (Page[domain.Budget], error) {
	return list(ctx, s, s.budgets, activityID, limit, offset)
}

// ---------------------------------------------------------------------------
// Transaction
// ---------------------------------------------------------------------------

// TransactionInput describes a transaction. A missing currency falls back
// to the activity default currency and a missing value date to the
// transaction date.
type TransactionInput struct {
	Ref                 string
	Humanitarian        *bool
	TransactionType     string
	TransactionDate     time.Time
	Value               *decimal.Decimal
	Currency            string
	ValueDate           *time.Time
	DisbursementChannel string
	FlowType            string
	FinanceType         string
	AidType             string
	TiedStatus          string
	RecipientCountry    string
	RecipientRegion     string
	ProviderOrgRef      string
	ProviderOrgType     string
	ReceiverOrgRef      string
	ReceiverOrgType     string
	Description         []narrative.Input
	Provider            []narrative.Input
	Receiver            []narrative.Input
}

func (in TransactionInput) validate(e env) []domain.FieldError {
	errs := required(nil, "transaction_type", in.TransactionType)
	if in.TransactionDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "transaction_date", Message: "required"})
	}
	if in.Value == nil {
		errs = append(errs, domain.FieldError{Field: "value", Message: "required"})
	}
	if strings.TrimSpace(in.Currency) == "" && e.activity.DefaultCurrency == "" {
		errs = append(errs, domain.FieldError{Field: "currency", Message: "required when the activity has no default currency"})
	}
	if strings.TrimSpace(in.RecipientCountry) != "" && strings.TrimSpace(in.RecipientRegion) != "" {
		errs = append(errs, domain.FieldError{Field: "recipient_region", Message: "a transaction can have a recipient country or a recipient region, not both"})
	}

	c := e.checker
	c.Require("transaction_type", domain.ListTransactionType, "", in.TransactionType)
	c.Require("currency", domain.ListCurrency, "", in.Currency)
	c.Require("disbursement_channel", domain.ListDisbursementChannel, "", in.DisbursementChannel)
	c.Require("flow_type", domain.ListFlowType, "", in.FlowType)
	c.Require("finance_type", domain.ListFinanceType, "", in.FinanceType)
	c.Require("aid_type", domain.ListAidType, "", in.AidType)
	c.Require("tied_status", domain.ListTiedStatus, "", in.TiedStatus)
	c.Require("recipient_country", domain.ListCountry, "", in.RecipientCountry)
	c.Require("recipient_region", domain.ListRegion, "", in.RecipientRegion)
	c.Require("provider_organisation.type", domain.ListOrganisationType, "", in.ProviderOrgType)
	c.Require("receiver_organisation.type", domain.ListOrganisationType, "", in.ReceiverOrgType)
	return errs
}

func (in TransactionInput) build(id uuid.UUID, a domain.Activity) domain.Transaction {
	t := domain.Transaction{
		ID:                  id,
		ActivityID:          a.ID,
		Ref:                 strings.TrimSpace(in.Ref),
		Humanitarian:        in.Humanitarian,
		TransactionType:     strings.TrimSpace(in.TransactionType),
		TransactionDate:     in.TransactionDate,
		Currency:            orDefault(in.Currency, a.DefaultCurrency),
		ValueDate:           in.ValueDate,
		DisbursementChannel: strings.TrimSpace(in.DisbursementChannel),
		FlowType:            strings.TrimSpace(in.FlowType),
		FinanceType:         strings.TrimSpace(in.FinanceType),
		AidType:             strings.TrimSpace(in.AidType),
		TiedStatus:          strings.TrimSpace(in.TiedStatus),
		RecipientCountry:    strings.TrimSpace(in.RecipientCountry),
		RecipientRegion:     strings.TrimSpace(in.RecipientRegion),
		ProviderOrgRef:      strings.TrimSpace(in.ProviderOrgRef),
		ProviderOrgType:     strings.TrimSpace(in.ProviderOrgType),
		ReceiverOrgRef:      strings.TrimSpace(in.ReceiverOrgRef),
		ReceiverOrgType:     strings.TrimSpace(in.ReceiverOrgType),
	}
	if in.Value != nil {
		t.Value = *in.Value
	}
	if t.ValueDate == nil {
		d := in.TransactionDate
		t.ValueDate = &d
	}
	return t
}

func (in TransactionInput) containers() []container[domain.Transaction] {
	return []container[domain.Transaction]{
		{
			field:  "description.narratives",
			owner:  domain.OwnerTransactionDescription,
			inputs: in.Description,
			assign: func(t *domain.Transaction, n []domain.Narrative) { t.Description = n },
		},
		{
			field:  "provider_organisation.narratives",
			owner:  domain.OwnerTransactionProvider,
			inputs: in.Provider,
			assign: func(t *domain.Transaction, n []domain.Narrative) { t.ProviderNarratives = n },
		},
		{
			field:  "receiver_organisation.narratives",
			owner:  domain.OwnerTransactionReceiver,
			inputs: in.Receiver,
			assign: func(t *domain.Transaction, n []domain.Narrative) { t.ReceiverNarratives = n },
		},
	}
}

func (s *Service) CreateTransaction(ctx context.Context, publisherID, activityID uuid.UUID, in TransactionInput) (domain.Transaction, error) {
	return create(ctx, s, s.transactions, publisherID, activityID, in)
}

func (s *Service) UpdateTransaction(ctx context.Context, publisherID, activityID, id uuid.UUID, in TransactionInput) (domain.Transaction, error) {
	return update(ctx, s, s.transactions, publisherID, activityID, id, in)
}

func (s *Service) DeleteTransaction(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.transactions, publisherID, activityID, id)
}

// ListTransactions returns one page of the transactions of an activity,
// ordered by transaction date.
func (s *Service) ListTransactions(ctx context.Context, activityID uuid.UUID, limit, offset int) (Page[domain.Transaction], error) {
	return list(ctx, s, s.transactions, activityID, limit, offset)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
