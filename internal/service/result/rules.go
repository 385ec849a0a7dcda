package result

import (
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

func required(errs []domain.FieldError, field, value string) []domain.FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	return errs
}

// referenceURI requires a URI for reporting-organisation vocabulary 99.
func referenceURI(errs []domain.FieldError, field, vocabulary, uri string) []domain.FieldError {
	uri = strings.TrimSpace(uri)
	if strings.TrimSpace(vocabulary) == domain.VocabularyReportingOrg2 && uri == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required for vocabulary 99"})
	}
	if uri == "" {
		return errs
	}
	if u, err := url.Parse(uri); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return append(errs, domain.FieldError{Field: field, Message: "must be an absolute http(s) URL"})
	}
	return errs
}

func period(errs []domain.FieldError, start, end time.Time) []domain.FieldError {
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
