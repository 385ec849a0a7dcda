package element

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

var hundred = decimal.NewFromInt(100)

func required(errs []domain.FieldError, field, value string) []domain.FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	return errs
}

func percentage(errs []domain.FieldError, field string, p *decimal.Decimal) []domain.FieldError {
	if p != nil && (p.IsNegative() || p.GreaterThan(hundred)) {
		return append(errs, domain.FieldError{Field: field, Message: "must be between 0 and 100"})
	}
	return errs
}

// vocabularyURI requires a URI for reporting-organisation vocabulary 99.
func vocabularyURI(errs []domain.FieldError, field, vocabulary, uri string) []domain.FieldError {
	if vocabulary == domain.VocabularyReportingOrg2 && strings.TrimSpace(uri) == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required for vocabulary 99"})
	}
	if uri != "" && !isHTTPURL(uri) {
		return append(errs, domain.FieldError{Field: field, Message: "must be an absolute http(s) URL"})
	}
	return errs
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// sumExceeded reports the field error for a percentage sum above 100.
func sumExceeded(field, what string, stored, p decimal.Decimal) domain.FieldError {
	msg := fmt.Sprintf("sum of %s percentages would be %s, must not exceed 100", what, stored.Add(p).String())
	return domain.FieldError{Field: field, Message: msg}
}

func defaultVocabulary(v string) string {
	return orDefault(v, domain.DefaultVocabulary)
}
