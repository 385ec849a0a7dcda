package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Description is a typed free-text description of an activity.
type Description struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ActivityID uuid.UUID `db:"activity_id" json:"activity_id"`
	Type       string    `db:"type" json:"type"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// ActivityDate is a planned or actual start/end date.
type ActivityDate struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ActivityID uuid.UUID `db:"activity_id" json:"activity_id"`
	Type       string    `db:"type" json:"type"`
	ISODate    time.Time `db:"iso_date" json:"iso_date"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// IsActual reports whether the date records something that already happened.
func (d ActivityDate) IsActual() bool {
	return d.Type == ActivityDateActualStart || d.Type == ActivityDateActualEnd
}

// ParticipatingOrg is an organisation involved in the activity.
type ParticipatingOrg struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ActivityID    uuid.UUID `db:"activity_id" json:"activity_id"`
	Ref           string    `db:"ref" json:"ref"`
	Role          string    `db:"role" json:"role"`
	Type          string    `db:"type" json:"type"`
	ActivityIDRef string    `db:"activity_id_ref" json:"activity_id_ref"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// RecipientCountry is a country benefiting from the activity.
type RecipientCountry struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	ActivityID uuid.UUID        `db:"activity_id" json:"activity_id"`
	Country    string           `db:"country" json:"country"`
	Percentage *decimal.Decimal `db:"percentage" json:"percentage,omitempty"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// RecipientRegion is a region benefiting from the activity.
type RecipientRegion struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	ActivityID    uuid.UUID        `db:"activity_id" json:"activity_id"`
	Region        string           `db:"region" json:"region"`
	Vocabulary    string           `db:"vocabulary" json:"vocabulary"`
	VocabularyURI string           `db:"vocabulary_uri" json:"vocabulary_uri"`
	Percentage    *decimal.Decimal `db:"percentage" json:"percentage,omitempty"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// Sector classifies the purpose of the activity.
type Sector struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	ActivityID    uuid.UUID        `db:"activity_id" json:"activity_id"`
	Code          string           `db:"code" json:"code"`
	Vocabulary    string           `db:"vocabulary" json:"vocabulary"`
	VocabularyURI string           `db:"vocabulary_uri" json:"vocabulary_uri"`
	Percentage    *decimal.Decimal `db:"percentage" json:"percentage,omitempty"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// PolicyMarker flags the policy objectives an activity addresses.
type PolicyMarker struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ActivityID    uuid.UUID `db:"activity_id" json:"activity_id"`
	Code          string    `db:"code" json:"code"`
	Vocabulary    string    `db:"vocabulary" json:"vocabulary"`
	VocabularyURI string    `db:"vocabulary_uri" json:"vocabulary_uri"`
	Significance  string    `db:"significance" json:"significance"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// Condition is a condition attached to the activity.
type Condition struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ActivityID uuid.UUID `db:"activity_id" json:"activity_id"`
	Type       string    `db:"type" json:"type"`

	Narratives []Narrative `db:"-" json:"narratives,omitempty"`
}

// SumPercentages adds up the non-nil percentages.
func SumPercentages(values ...*decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		if v != nil {
			sum = sum.Add(*v)
		}
	}
	return sum
}
