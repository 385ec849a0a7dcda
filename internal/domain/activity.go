package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Activity is the root aggregate describing one reported aid project.
type Activity struct {
	ID                  uuid.UUID        `db:"id" json:"id"`
	PublisherID         uuid.UUID        `db:"publisher_id" json:"publisher_id"`
	IATIIdentifier      string           `db:"iati_identifier" json:"iati_identifier"`
	DefaultLang         string           `db:"default_lang" json:"default_lang"`
	DefaultCurrency     string           `db:"default_currency" json:"default_currency"`
	Hierarchy           int              `db:"hierarchy" json:"hierarchy"`
	Humanitarian        bool             `db:"humanitarian" json:"humanitarian"`
	LinkedDataURI       string           `db:"linked_data_uri" json:"linked_data_uri"`
	ActivityStatus      string           `db:"activity_status" json:"activity_status"`
	Scope               string           `db:"scope" json:"scope"`
	CollaborationType   string           `db:"collaboration_type" json:"collaboration_type"`
	DefaultFlowType     string           `db:"default_flow_type" json:"default_flow_type"`
	DefaultFinanceType  string           `db:"default_finance_type" json:"default_finance_type"`
	DefaultAidType      string           `db:"default_aid_type" json:"default_aid_type"`
	DefaultTiedStatus   string           `db:"default_tied_status" json:"default_tied_status"`
	CapitalSpend        *decimal.Decimal `db:"capital_spend" json:"capital_spend,omitempty"`
	ConditionsAttached  bool             `db:"conditions_attached" json:"conditions_attached"`
	SecondaryReporter   bool             `db:"secondary_reporter" json:"secondary_reporter"`
	LastUpdatedDatetime *time.Time       `db:"last_updated_datetime" json:"last_updated_datetime,omitempty"`
	Published           bool             `db:"published" json:"published"`
	ReadyToPublish      bool             `db:"ready_to_publish" json:"ready_to_publish"`
	Modified            bool             `db:"modified" json:"modified"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`

	Title []Narrative `db:"-" json:"title,omitempty"`
}

// TitleOwner returns the narrative container of the activity title.
func (a Activity) TitleOwner() NarrativeOwner {
	return NarrativeOwner{Type: OwnerActivityTitle, ID: a.ID}
}

// ActivityFilter contains filtering/pagination parameters for activity lists.
type ActivityFilter struct {
	PublisherID *uuid.UUID `json:"publisher_id,omitempty"`
	Modified    *bool      `json:"modified,omitempty"`
	Published   *bool      `json:"published,omitempty"`
	Query       string     `json:"query"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
}

// ActivityPage is one page of a filtered activity list.
type ActivityPage struct {
	Items []Activity `json:"items"`
	Total int        `json:"total"`
}

// ModifiedActivity identifies an activity waiting for reindexing together
// with the updated_at value it was read at.
type ModifiedActivity struct {
	ID        uuid.UUID `db:"id"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TransactionTypeTotal is the sum of transaction values of one type.
type TransactionTypeTotal struct {
	TransactionType string          `db:"transaction_type" json:"transaction_type"`
	Total           decimal.Decimal `db:"total" json:"total"`
}

// Aggregation holds the financial totals shown on the activity detail.
type Aggregation struct {
	Budget        decimal.Decimal `json:"budget"`
	Commitment    decimal.Decimal `json:"commitment"`
	Disbursement  decimal.Decimal `json:"disbursement"`
	Expenditure   decimal.Decimal `json:"expenditure"`
	IncomingFunds decimal.Decimal `json:"incoming_funds"`
}

// ActivityDetail is the full activity tree. A non-empty *Notice field means
// the corresponding collection exceeded the detail limit and was omitted.
type ActivityDetail struct {
	Activity

	Descriptions       []Description      `json:"descriptions,omitempty"`
	Dates              []ActivityDate     `json:"dates,omitempty"`
	ParticipatingOrgs  []ParticipatingOrg `json:"participating_orgs,omitempty"`
	RecipientCountries []RecipientCountry `json:"recipient_countries,omitempty"`
	RecipientRegions   []RecipientRegion  `json:"recipient_regions,omitempty"`
	Sectors            []Sector           `json:"sectors,omitempty"`
	PolicyMarkers      []PolicyMarker     `json:"policy_markers,omitempty"`
	Conditions         []Condition        `json:"conditions,omitempty"`
	Budgets            []Budget           `json:"budgets,omitempty"`
	Transactions       []Transaction      `json:"transactions,omitempty"`
	DocumentLinks      []DocumentLink     `json:"document_links,omitempty"`
	Locations          []Location         `json:"locations,omitempty"`
	Results            []Result           `json:"results,omitempty"`

	BudgetsNotice      string `json:"budgets_notice,omitempty"`
	TransactionsNotice string `json:"transactions_notice,omitempty"`
	ResultsNotice      string `json:"results_notice,omitempty"`

	TransactionTypes []TransactionTypeTotal `json:"transaction_types,omitempty"`
	Aggregation      Aggregation            `json:"aggregation"`
}

// TooManyNotice is the message returned in place of a collection that is too
// large to embed in the activity detail.
func TooManyNotice(limit int, collection string) string {
	return "This activity has more than " + strconv.Itoa(limit) + " " + collection +
		"! To get all " + collection + ", please use the " + singular(collection) + " endpoint instead!"
}

func singular(collection string) string {
	if n := len(collection); n > 1 && collection[n-1] == 's' {
		return collection[:n-1]
	}
	return collection
}

// Lineage identifies the activity and publisher owning a nested entity.
type Lineage struct {
	ActivityID  uuid.UUID `db:"id"`
	PublisherID uuid.UUID `db:"publisher_id"`
}
