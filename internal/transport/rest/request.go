package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/activity"
	"github.com/heartmarshall/iati-publisher/internal/service/element"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
	"github.com/heartmarshall/iati-publisher/internal/service/publisher"
	"github.com/heartmarshall/iati-publisher/internal/service/result"
)

// date accepts ISO dates ("2024-01-31") and RFC 3339 timestamps.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

func (d date) time() time.Time {
	return d.Time
}

func optTime(d *date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

type narrativeRequest struct {
	ID       *uuid.UUID `json:"id"`
	Language string     `json:"language"`
	Text     string     `json:"text"`
}

// narratives converts a narrative container. A nil slice stays nil so that
// updates without the container leave the stored narratives untouched.
func narratives(in []narrativeRequest) []narrative.Input {
	if in == nil {
		return nil
	}
	out := make([]narrative.Input, len(in))
	for i, n := range in {
		out[i] = narrative.Input{ID: n.ID, Language: n.Language, Text: n.Text}
	}
	return out
}

// ---------------------------------------------------------------------------
// Publisher
// ---------------------------------------------------------------------------

type tokenRequest struct {
	Publisher string `json:"publisher"`
	APIKey    string `json:"api_key"`
}

type publisherRequest struct {
	IATIID      string `json:"iati_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

func (r publisherRequest) input() publisher.Input {
	return publisher.Input{IATIID: r.IATIID, Name: r.Name, DisplayName: r.DisplayName}
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

type activityRequest struct {
	IATIIdentifier     string             `json:"iati_identifier"`
	DefaultLang        string             `json:"default_lang"`
	DefaultCurrency    string             `json:"default_currency"`
	Hierarchy          *int               `json:"hierarchy"`
	Humanitarian       bool               `json:"humanitarian"`
	LinkedDataURI      string             `json:"linked_data_uri"`
	ActivityStatus     string             `json:"activity_status"`
	Scope              string             `json:"scope"`
	CollaborationType  string             `json:"collaboration_type"`
	DefaultFlowType    string             `json:"default_flow_type"`
	DefaultFinanceType string             `json:"default_finance_type"`
	DefaultAidType     string             `json:"default_aid_type"`
	DefaultTiedStatus  string             `json:"default_tied_status"`
	CapitalSpend       *decimal.Decimal   `json:"capital_spend"`
	ConditionsAttached bool               `json:"conditions_attached"`
	SecondaryReporter  bool               `json:"secondary_reporter"`
	Title              []narrativeRequest `json:"title"`
}

func (r activityRequest) input() activity.Input {
	return activity.Input{
		IATIIdentifier:     r.IATIIdentifier,
		DefaultLang:        r.DefaultLang,
		DefaultCurrency:    r.DefaultCurrency,
		Hierarchy:          r.Hierarchy,
		Humanitarian:       r.Humanitarian,
		LinkedDataURI:      r.LinkedDataURI,
		ActivityStatus:     r.ActivityStatus,
		Scope:              r.Scope,
		CollaborationType:  r.CollaborationType,
		DefaultFlowType:    r.DefaultFlowType,
		DefaultFinanceType: r.DefaultFinanceType,
		DefaultAidType:     r.DefaultAidType,
		DefaultTiedStatus:  r.DefaultTiedStatus,
		CapitalSpend:       r.CapitalSpend,
		ConditionsAttached: r.ConditionsAttached,
		SecondaryReporter:  r.SecondaryReporter,
		Title:              narratives(r.Title),
	}
}

type readyRequest struct {
	Ready *bool `json:"ready"`
}

// ---------------------------------------------------------------------------
// Elements
// ---------------------------------------------------------------------------

type descriptionRequest struct {
	Type       string             `json:"type"`
	Narratives []narrativeRequest `json:"narratives"`
}

func (r descriptionRequest) input() element.DescriptionInput {
	return element.DescriptionInput{Type: r.Type, Narratives: narratives(r.Narratives)}
}

type activityDateRequest struct {
	Type       string             `json:"type"`
	ISODate    date               `json:"iso_date"`
	Narratives []narrativeRequest `json:"narratives"`
}

func (r activityDateRequest) input() element.ActivityDateInput {
	return element.ActivityDateInput{Type: r.Type, ISODate: r.ISODate.time(), Narratives: narratives(r.Narratives)}
}

type participatingOrgRequest struct {
	Ref           string             `json:"ref"`
	Role          string             `json:"role"`
	Type          string             `json:"type"`
	ActivityIDRef string             `json:"activity_id_ref"`
	Narratives    []narrativeRequest `json:"narratives"`
}

func (r participatingOrgRequest) input() element.ParticipatingOrgInput {
	return element.ParticipatingOrgInput{
		Ref:           r.Ref,
		Role:          r.Role,
		Type:          r.Type,
		ActivityIDRef: r.ActivityIDRef,
		Narratives:    narratives(r.Narratives),
	}
}

type recipientCountryRequest struct {
	Country    string             `json:"country"`
	Percentage *decimal.Decimal   `json:"percentage"`
	Narratives []narrativeRequest `json:"narratives"`
}

func (r recipientCountryRequest) input() element.RecipientCountryInput {
	return element.RecipientCountryInput{Country: r.Country, Percentage: r.Percentage, Narratives: narratives(r.Narratives)}
}

type recipientRegionRequest struct {
	Region        string             `json:"region"`
	Vocabulary    string             `json:"vocabulary"`
	VocabularyURI string             `json:"vocabulary_uri"`
	Percentage    *decimal.Decimal   `json:"percentage"`
	Narratives    []narrativeRequest `json:"narratives"`
}

func (r recipientRegionRequest) input() element.RecipientRegionInput {
	return element.RecipientRegionInput{
		Region:        r.Region,
		Vocabulary:    r.Vocabulary,
		VocabularyURI: r.VocabularyURI,
		Percentage:    r.Percentage,
		Narratives:    narratives(r.Narratives),
	}
}

type sectorRequest struct {
	Code          string             `json:"code"`
	Vocabulary    string             `json:"vocabulary"`
	VocabularyURI string             `json:"vocabulary_uri"`
	Percentage    *decimal.Decimal   `json:"percentage"`
	Narratives    []narrativeRequest `json:"narratives"`
}

func (r sectorRequest) input() element.SectorInput {
	return element.SectorInput{
		Code:          r.Code,
		Vocabulary:    r.Vocabulary,
		VocabularyURI: r.VocabularyURI,
		Percentage:    r.Percentage,
		Narratives:    narratives(r.Narratives),
	}
}

type policyMarkerRequest struct {
	Code          string             `json:"code"`
	Vocabulary    string             `json:"vocabulary"`
	VocabularyURI string             `json:"vocabulary_uri"`
	Significance  string             `json:"significance"`
	Narratives    []narrativeRequest `json:"narratives"`
}

func (r policyMarkerRequest) input() element.PolicyMarkerInput {
	return element.PolicyMarkerInput{
		Code:          r.Code,
		Vocabulary:    r.Vocabulary,
		VocabularyURI: r.VocabularyURI,
		Significance:  r.Significance,
		Narratives:    narratives(r.Narratives),
	}
}

type conditionRequest struct {
	Type       string             `json:"type"`
	Narratives []narrativeRequest `json:"narratives"`
}

func (r conditionRequest) input() element.ConditionInput {
	return element.ConditionInput{Type: r.Type, Narratives: narratives(r.Narratives)}
}

type budgetRequest struct {
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	PeriodStart date             `json:"period_start"`
	PeriodEnd   date             `json:"period_end"`
	Value       *decimal.Decimal `json:"value"`
	Currency    string           `json:"currency"`
	ValueDate   *date            `json:"value_date"`
}

func (r budgetRequest) input() element.BudgetInput {
	return element.BudgetInput{
		Type:        r.Type,
		Status:      r.Status,
		PeriodStart: r.PeriodStart.time(),
		PeriodEnd:   r.PeriodEnd.time(),
		Value:       r.Value,
		Currency:    r.Currency,
		ValueDate:   optTime(r.ValueDate),
	}
}

type transactionRequest struct {
	Ref                 string             `json:"ref"`
	Humanitarian        *bool              `json:"humanitarian"`
	TransactionType     string             `json:"transaction_type"`
	TransactionDate     date               `json:"transaction_date"`
	Value               *decimal.Decimal   `json:"value"`
	Currency            string             `json:"currency"`
	ValueDate           *date              `json:"value_date"`
	DisbursementChannel string             `json:"disbursement_channel"`
	FlowType            string             `json:"flow_type"`
	FinanceType         string             `json:"finance_type"`
	AidType             string             `json:"aid_type"`
	TiedStatus          string             `json:"tied_status"`
	RecipientCountry    string             `json:"recipient_country"`
	RecipientRegion     string             `json:"recipient_region"`
	ProviderOrgRef      string             `json:"provider_org_ref"`
	ProviderOrgType     string             `json:"provider_org_type"`
	ReceiverOrgRef      string             `json:"receiver_org_ref"`
	ReceiverOrgType     string             `json:"receiver_org_type"`
	Description         []narrativeRequest `json:"description"`
	Provider            []narrativeRequest `json:"provider"`
	Receiver            []narrativeRequest `json:"receiver"`
}

func (r transactionRequest) input() element.TransactionInput {
	return element.TransactionInput{
		Ref:                 r.Ref,
		Humanitarian:        r.Humanitarian,
		TransactionType:     r.TransactionType,
		TransactionDate:     r.TransactionDate.time(),
		Value:               r.Value,
		Currency:            r.Currency,
		ValueDate:           optTime(r.ValueDate),
		DisbursementChannel: r.DisbursementChannel,
		FlowType:            r.FlowType,
		FinanceType:         r.FinanceType,
		AidType:             r.AidType,
		TiedStatus:          r.TiedStatus,
		RecipientCountry:    r.RecipientCountry,
		RecipientRegion:     r.RecipientRegion,
		ProviderOrgRef:      r.ProviderOrgRef,
		ProviderOrgType:     r.ProviderOrgType,
		ReceiverOrgRef:      r.ReceiverOrgRef,
		ReceiverOrgType:     r.ReceiverOrgType,
		Description:         narratives(r.Description),
		Provider:            narratives(r.Provider),
		Receiver:            narratives(r.Receiver),
	}
}

type documentLinkRequest struct {
	URL          string             `json:"url"`
	Format       string             `json:"format"`
	DocumentDate *date              `json:"document_date"`
	Categories   []string           `json:"categories"`
	Languages    []string           `json:"languages"`
	Title        []narrativeRequest `json:"title"`
	Description  []narrativeRequest `json:"description"`
}

func (r documentLinkRequest) input() element.DocumentLinkInput {
	return element.DocumentLinkInput{
		URL:          r.URL,
		Format:       r.Format,
		DocumentDate: optTime(r.DocumentDate),
		Categories:   r.Categories,
		Languages:    r.Languages,
		Title:        narratives(r.Title),
		Description:  narratives(r.Description),
	}
}

type locationRequest struct {
	Ref                 string             `json:"ref"`
	LocationReach       string             `json:"location_reach"`
	Exactness           string             `json:"exactness"`
	LocationClass       string             `json:"location_class"`
	FeatureDesignation  string             `json:"feature_designation"`
	Latitude            *float64           `json:"latitude"`
	Longitude           *float64           `json:"longitude"`
	Name                []narrativeRequest `json:"name"`
	Description         []narrativeRequest `json:"description"`
	ActivityDescription []narrativeRequest `json:"activity_description"`
}

func (r locationRequest) input() element.LocationInput {
	return element.LocationInput{
		Ref:                 r.Ref,
		LocationReach:       r.LocationReach,
		Exactness:           r.Exactness,
		LocationClass:       r.LocationClass,
		FeatureDesignation:  r.FeatureDesignation,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		Name:                narratives(r.Name),
		Description:         narratives(r.Description),
		ActivityDescription: narratives(r.ActivityDescription),
	}
}

// ---------------------------------------------------------------------------
// Result tree
// ---------------------------------------------------------------------------

type resultRequest struct {
	Type              string             `json:"type"`
	AggregationStatus bool               `json:"aggregation_status"`
	Title             []narrativeRequest `json:"title"`
	Description       []narrativeRequest `json:"description"`
}

func (r resultRequest) input() result.ResultInput {
	return result.ResultInput{
		Type:              r.Type,
		AggregationStatus: r.AggregationStatus,
		Title:             narratives(r.Title),
		Description:       narratives(r.Description),
	}
}

type resultReferenceRequest struct {
	Vocabulary    string `json:"vocabulary"`
	Code          string `json:"code"`
	VocabularyURI string `json:"vocabulary_uri"`
}

func (r resultReferenceRequest) input() result.ResultReferenceInput {
	return result.ResultReferenceInput{Vocabulary: r.Vocabulary, Code: r.Code, VocabularyURI: r.VocabularyURI}
}

type indicatorRequest struct {
	Measure           string             `json:"measure"`
	Ascending         *bool              `json:"ascending"`
	AggregationStatus bool               `json:"aggregation_status"`
	Title             []narrativeRequest `json:"title"`
	Description       []narrativeRequest `json:"description"`
}

func (r indicatorRequest) input() result.IndicatorInput {
	return result.IndicatorInput{
		Measure:           r.Measure,
		Ascending:         r.Ascending,
		AggregationStatus: r.AggregationStatus,
		Title:             narratives(r.Title),
		Description:       narratives(r.Description),
	}
}

type indicatorReferenceRequest struct {
	Vocabulary   string `json:"vocabulary"`
	Code         string `json:"code"`
	IndicatorURI string `json:"indicator_uri"`
}

func (r indicatorReferenceRequest) input() result.IndicatorReferenceInput {
	return result.IndicatorReferenceInput{Vocabulary: r.Vocabulary, Code: r.Code, IndicatorURI: r.IndicatorURI}
}

type baselineRequest struct {
	Year    *int               `json:"year"`
	ISODate *date              `json:"iso_date"`
	Value   *decimal.Decimal   `json:"value"`
	Comment []narrativeRequest `json:"comment"`
}

func (r baselineRequest) input() result.BaselineInput {
	return result.BaselineInput{Year: r.Year, ISODate: optTime(r.ISODate), Value: r.Value, Comment: narratives(r.Comment)}
}

type periodRequest struct {
	PeriodStart date `json:"period_start"`
	PeriodEnd   date `json:"period_end"`
}

func (r periodRequest) input() result.PeriodInput {
	return result.PeriodInput{PeriodStart: r.PeriodStart.time(), PeriodEnd: r.PeriodEnd.time()}
}

type periodValueRequest struct {
	Value   *decimal.Decimal   `json:"value"`
	Comment []narrativeRequest `json:"comment"`
}

// input builds a period value of the given kind; the kind comes from the
// route, never from the body.
func (r periodValueRequest) input(kind domain.PeriodValueKind) result.PeriodValueInput {
	return result.PeriodValueInput{Kind: kind, Value: r.Value, Comment: narratives(r.Comment)}
}

type dimensionRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r dimensionRequest) input() result.DimensionInput {
	return result.DimensionInput{Name: r.Name, Value: r.Value}
}

type periodLocationRequest struct {
	Ref string `json:"ref"`
}

func (r periodLocationRequest) input() result.PeriodLocationInput {
	return result.PeriodLocationInput{Ref: r.Ref}
}
