package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is the planned spend for one period of at most a year.
type Budget struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ActivityID  uuid.UUID       `db:"activity_id" json:"activity_id"`
	Type        string          `db:"type" json:"type"`
	Status      string          `db:"status" json:"status"`
	PeriodStart time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time       `db:"period_end" json:"period_end"`
	Value       decimal.Decimal `db:"value" json:"value"`
	Currency    string          `db:"currency" json:"currency"`
	ValueDate   *time.Time      `db:"value_date" json:"value_date,omitempty"`
}

// Transaction is a financial flow reported against the activity.
type Transaction struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	ActivityID          uuid.UUID       `db:"activity_id" json:"activity_id"`
	Ref                 string          `db:"ref" json:"ref"`
	Humanitarian        *bool           `db:"humanitarian" json:"humanitarian,omitempty"`
	TransactionType     string          `db:"transaction_type" json:"transaction_type"`
	TransactionDate     time.Time       `db:"transaction_date" json:"transaction_date"`
	Value               decimal.Decimal `db:"value" json:"value"`
	Currency            string          `db:"currency" json:"currency"`
	ValueDate           *time.Time      `db:"value_date" json:"value_date,omitempty"`
	DisbursementChannel string          `db:"disbursement_channel" json:"disbursement_channel"`
	FlowType            string          `db:"flow_type" json:"flow_type"`
	FinanceType         string          `db:"finance_type" json:"finance_type"`
	AidType             string          `db:"aid_type" json:"aid_type"`
	TiedStatus          string          `db:"tied_status" json:"tied_status"`
	RecipientCountry    string          `db:"recipient_country" json:"recipient_country"`
	RecipientRegion     string          `db:"recipient_region" json:"recipient_region"`
	ProviderOrgRef      string          `db:"provider_org_ref" json:"provider_org_ref"`
	ProviderOrgType     string          `db:"provider_org_type" json:"provider_org_type"`
	ReceiverOrgRef      string          `db:"receiver_org_ref" json:"receiver_org_ref"`
	ReceiverOrgType     string          `db:"receiver_org_type" json:"receiver_org_type"`

	Description        []Narrative `db:"-" json:"description,omitempty"`
	ProviderNarratives []Narrative `db:"-" json:"provider_narratives,omitempty"`
	ReceiverNarratives []Narrative `db:"-" json:"receiver_narratives,omitempty"`
}

// TransactionBalance holds the derived financial totals of one activity.
type TransactionBalance struct {
	ActivityID            uuid.UUID       `db:"activity_id" json:"activity_id"`
	Currency              string          `db:"currency" json:"currency"`
	TotalBudget           decimal.Decimal `db:"total_budget" json:"total_budget"`
	TotalExpenditure      decimal.Decimal `db:"total_expenditure" json:"total_expenditure"`
	CumulativeBudget      decimal.Decimal `db:"cumulative_budget" json:"cumulative_budget"`
	CumulativeExpenditure decimal.Decimal `db:"cumulative_expenditure" json:"cumulative_expenditure"`
	ComputedAt            time.Time       `db:"computed_at" json:"computed_at"`
}

// ComputeBalance derives the balance of an activity for the given year from
// its budgets and transactions.
//
//   - cumulative expenditure: sum of expenditure transactions
//   - total expenditure: expenditure whose value date falls in year
//   - cumulative budget: sum of commitment transactions
//   - total budget: value of the first original, committed budget whose
//     period starts and ends in year
//   - currency: currency of the latest transaction (by date, then id),
//     falling back to defaultCurrency
//
// budgets and transactions are expected in storage order.
func ComputeBalance(activityID uuid.UUID, defaultCurrency string, year int, budgets []Budget, transactions []Transaction) TransactionBalance {
	b := TransactionBalance{
		ActivityID:            activityID,
		Currency:              defaultCurrency,
		TotalBudget:           decimal.Zero,
		TotalExpenditure:      decimal.Zero,
		CumulativeBudget:      decimal.Zero,
		CumulativeExpenditure: decimal.Zero,
	}

	var last *Transaction
	for i := range transactions {
		tx := &transactions[i]
		switch tx.TransactionType {
		case TransactionTypeExpenditure:
			b.CumulativeExpenditure = b.CumulativeExpenditure.Add(tx.Value)
			if tx.ValueDate != nil && tx.ValueDate.Year() == year {
				b.TotalExpenditure = b.TotalExpenditure.Add(tx.Value)
			}
		case TransactionTypeCommitment:
			b.CumulativeBudget = b.CumulativeBudget.Add(tx.Value)
		}
		if last == nil || laterTransaction(tx, last) {
			last = tx
		}
	}
	if last != nil && last.Currency != "" {
		b.Currency = last.Currency
	}

	for _, bud := range budgets {
		if bud.Type == BudgetTypeOriginal && bud.Status == BudgetStatusCommitted &&
			bud.PeriodStart.Year() == year && bud.PeriodEnd.Year() == year {
			b.TotalBudget = bud.Value
			break
		}
	}

	return b
}

func laterTransaction(a, b *Transaction) bool {
	if !a.TransactionDate.Equal(b.TransactionDate) {
		return a.TransactionDate.After(b.TransactionDate)
	}
	return a.ID.String() > b.ID.String()
}

// NewAggregation builds the detail aggregation from the budget total and the
// per-type transaction sums.
func NewAggregation(budgetTotal decimal.Decimal, totals []TransactionTypeTotal) Aggregation {
	agg := Aggregation{
		Budget:        budgetTotal,
		Commitment:    decimal.Zero,
		Disbursement:  decimal.Zero,
		Expenditure:   decimal.Zero,
		IncomingFunds: decimal.Zero,
	}
	for _, t := range totals {
		switch t.TransactionType {
		case TransactionTypeCommitment:
			agg.Commitment = agg.Commitment.Add(t.Total)
		case TransactionTypeDisbursement:
			agg.Disbursement = agg.Disbursement.Add(t.Total)
		case TransactionTypeExpenditure:
			agg.Expenditure = agg.Expenditure.Add(t.Total)
		case TransactionTypeIncomingFunds:
			agg.IncomingFunds = agg.IncomingFunds.Add(t.Total)
		}
	}
	return agg
}
