package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result is an intended outcome of the activity, measured by indicators.
type Result struct {
	ID                uuid.UUID `db:"id" json:"id"`
	ActivityID        uuid.UUID `db:"activity_id" json:"activity_id"`
	Type              string    `db:"type" json:"type"`
	AggregationStatus bool      `db:"aggregation_status" json:"aggregation_status"`

	Title       []Narrative       `db:"-" json:"title,omitempty"`
	Description []Narrative       `db:"-" json:"description,omitempty"`
	References  []ResultReference `db:"-" json:"references,omitempty"`
	Indicators  []Indicator       `db:"-" json:"indicators,omitempty"`
}

// ResultReference links a result to an external vocabulary code.
type ResultReference struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ResultID      uuid.UUID `db:"result_id" json:"result_id"`
	Vocabulary    string    `db:"vocabulary" json:"vocabulary"`
	Code          string    `db:"code" json:"code"`
	VocabularyURI string    `db:"vocabulary_uri" json:"vocabulary_uri"`
}

// Indicator measures progress towards a result.
type Indicator struct {
	ID                uuid.UUID `db:"id" json:"id"`
	ResultID          uuid.UUID `db:"result_id" json:"result_id"`
	Measure           string    `db:"measure" json:"measure"`
	Ascending         bool      `db:"ascending" json:"ascending"`
	AggregationStatus bool      `db:"aggregation_status" json:"aggregation_status"`

	Title       []Narrative          `db:"-" json:"title,omitempty"`
	Description []Narrative          `db:"-" json:"description,omitempty"`
	References  []IndicatorReference `db:"-" json:"references,omitempty"`
	Baselines   []Baseline           `db:"-" json:"baselines,omitempty"`
	Periods     []Period             `db:"-" json:"periods,omitempty"`
}

// IndicatorReference links an indicator to an external vocabulary code.
type IndicatorReference struct {
	ID           uuid.UUID `db:"id" json:"id"`
	IndicatorID  uuid.UUID `db:"indicator_id" json:"indicator_id"`
	Vocabulary   string    `db:"vocabulary" json:"vocabulary"`
	Code         string    `db:"code" json:"code"`
	IndicatorURI string    `db:"indicator_uri" json:"indicator_uri"`
}

// Baseline is the starting value of an indicator.
type Baseline struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	IndicatorID uuid.UUID        `db:"indicator_id" json:"indicator_id"`
	Year        *int             `db:"year" json:"year,omitempty"`
	ISODate     *time.Time       `db:"iso_date" json:"iso_date,omitempty"`
	Value       *decimal.Decimal `db:"value" json:"value,omitempty"`

	Comment []Narrative `db:"-" json:"comment,omitempty"`
}

// Period is a reporting period of an indicator.
type Period struct {
	ID          uuid.UUID `db:"id" json:"id"`
	IndicatorID uuid.UUID `db:"indicator_id" json:"indicator_id"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`

	Targets []PeriodValue `db:"-" json:"targets,omitempty"`
	Actuals []PeriodValue `db:"-" json:"actuals,omitempty"`
}

// PeriodValue is a target or actual value reported for a period.
type PeriodValue struct {
	ID       uuid.UUID        `db:"id" json:"id"`
	PeriodID uuid.UUID        `db:"period_id" json:"period_id"`
	Kind     PeriodValueKind  `db:"kind" json:"kind"`
	Value    *decimal.Decimal `db:"value" json:"value,omitempty"`

	Comment    []Narrative       `db:"-" json:"comment,omitempty"`
	Dimensions []PeriodDimension `db:"-" json:"dimensions,omitempty"`
	Locations  []PeriodLocation  `db:"-" json:"locations,omitempty"`
}

// CommentOwner returns the narrative container of the value comment.
func (v PeriodValue) CommentOwner() NarrativeOwner {
	if v.Kind == PeriodValueActual {
		return NarrativeOwner{Type: OwnerPeriodActualComment, ID: v.ID}
	}
	return NarrativeOwner{Type: OwnerPeriodTargetComment, ID: v.ID}
}

// PeriodDimension disaggregates a period value by a named category.
type PeriodDimension struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PeriodValueID uuid.UUID `db:"period_value_id" json:"period_value_id"`
	Name          string    `db:"name" json:"name"`
	Value         string    `db:"value" json:"value"`
}

// PeriodLocation ties a period value to one of the activity locations.
type PeriodLocation struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PeriodValueID uuid.UUID `db:"period_value_id" json:"period_value_id"`
	Ref           string    `db:"ref" json:"ref"`
}
