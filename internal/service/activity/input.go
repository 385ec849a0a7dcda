package activity

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

const maxIdentifierLength = 150

var hundred = decimal.NewFromInt(100)

// Input holds the writable fields of an activity. On update a nil Title
// leaves the stored title untouched.
type Input struct {
	IATIIdentifier     string
	DefaultLang        string
	DefaultCurrency    string
	Hierarchy          *int
	Humanitarian       bool
	LinkedDataURI      string
	ActivityStatus     string
	Scope              string
	CollaborationType  string
	DefaultFlowType    string
	DefaultFinanceType string
	DefaultAidType     string
	DefaultTiedStatus  string
	CapitalSpend       *decimal.Decimal
	ConditionsAttached bool
	SecondaryReporter  bool
	Title              []narrative.Input
}

// Validate checks all fields, records code references in checker and
// collects all errors. titleRequired is set on create.
func (i Input) Validate(checker *codelist.Checker, titleRequired bool) []domain.FieldError {
	var errs []domain.FieldError

	ident := strings.TrimSpace(i.IATIIdentifier)
	switch {
	case ident == "":
		errs = append(errs, domain.FieldError{Field: "iati_identifier", Message: "required"})
	case len(ident) > maxIdentifierLength:
		errs = append(errs, domain.FieldError{Field: "iati_identifier", Message: "too long (max 150)"})
	case strings.IndexFunc(ident, unicode.IsSpace) >= 0:
		errs = append(errs, domain.FieldError{Field: "iati_identifier", Message: "must not contain whitespace"})
	}

	if i.Hierarchy != nil && *i.Hierarchy < 1 {
		errs = append(errs, domain.FieldError{Field: "hierarchy", Message: "must be at least 1"})
	}

	if i.CapitalSpend != nil && (i.CapitalSpend.IsNegative() || i.CapitalSpend.GreaterThan(hundred)) {
		errs = append(errs, domain.FieldError{Field: "capital_spend", Message: "must be between 0 and 100"})
	}

	if i.LinkedDataURI != "" {
		if u, err := url.Parse(i.LinkedDataURI); err != nil || !u.IsAbs() {
			errs = append(errs, domain.FieldError{Field: "linked_data_uri", Message: "must be an absolute URI"})
		}
	}

	checker.Require("default_lang", domain.ListLanguage, "", i.DefaultLang)
	checker.Require("default_currency", domain.ListCurrency, "", i.DefaultCurrency)
	checker.Require("activity_status", domain.ListActivityStatus, "", i.ActivityStatus)
	checker.Require("scope", domain.ListActivityScope, "", i.Scope)
	checker.Require("collaboration_type", domain.ListCollaborationType, "", i.CollaborationType)
	checker.Require("default_flow_type", domain.ListFlowType, "", i.DefaultFlowType)
	checker.Require("default_finance_type", domain.ListFinanceType, "", i.DefaultFinanceType)
	checker.Require("default_aid_type", domain.ListAidType, "", i.DefaultAidType)
	checker.Require("default_tied_status", domain.ListTiedStatus, "", i.DefaultTiedStatus)

	if titleRequired || i.Title != nil {
		errs = append(errs, narrative.Validate("title.narratives", i.Title, true, i.DefaultLang, checker)...)
	}

	return errs
}

// apply copies the input onto a.
func (i Input) apply(a *domain.Activity) {
	a.IATIIdentifier = strings.TrimSpace(i.IATIIdentifier)
	a.DefaultLang = i.DefaultLang
	a.DefaultCurrency = i.DefaultCurrency
	a.Hierarchy = 1
	if i.Hierarchy != nil {
		a.Hierarchy = *i.Hierarchy
	}
	a.Humanitarian = i.Humanitarian
	a.LinkedDataURI = i.LinkedDataURI
	a.ActivityStatus = i.ActivityStatus
	a.Scope = i.Scope
	a.CollaborationType = i.CollaborationType
	a.DefaultFlowType = i.DefaultFlowType
	a.DefaultFinanceType = i.DefaultFinanceType
	a.DefaultAidType = i.DefaultAidType
	a.DefaultTiedStatus = i.DefaultTiedStatus
	a.CapitalSpend = i.CapitalSpend
	a.ConditionsAttached = i.ConditionsAttached
	a.SecondaryReporter = i.SecondaryReporter
}
