// Package search answers search queries and builds the documents the search
// index stores for activities.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

type searchIndex interface {
	Search(ctx context.Context, kind domain.SearchKind, query string, limit int) ([]domain.SearchDocument, error)
}

// Limits bounds the number of hits returned.
type Limits struct {
	Default int
	Max     int
}

// Service implements search queries.
type Service struct {
	log    *slog.Logger
	index  searchIndex
	limits Limits
}

// NewService creates a search service.
func NewService(logger *slog.Logger, index searchIndex, limits Limits) *Service {
	return &Service{
		log:    logger.With("service", "search"),
		index:  index,
		limits: limits,
	}
}

// Query holds the parameters of a search request.
type Query struct {
	Kind  string
	Text  string
	Limit int
}

// Validate checks the kind and the query text.
func (q Query) Validate() error {
	var errs []domain.FieldError
	if !domain.SearchKind(q.Kind).IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be activity or publisher"})
	}
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "q", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Search returns the documents matching every word of the query.
func (s *Service) Search(ctx context.Context, q Query) ([]domain.SearchDocument, error) {
	if q.Kind == "" {
		q.Kind = domain.SearchKindActivity.String()
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.limits.Default
	}
	limit = min(limit, s.limits.Max)

	docs, err := s.index.Search(ctx, domain.SearchKind(q.Kind), q.Text, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.log.DebugContext(ctx, "search",
		slog.String("kind", q.Kind),
		slog.Int("hits", len(docs)),
	)
	return docs, nil
}

// ActivityDocument builds the search document of an activity from its detail
// tree. The title is the narrative in the activity's default language, or
// the first one.
func ActivityDocument(d domain.ActivityDetail, now time.Time) domain.SearchDocument {
	doc := domain.SearchDocument{
		Kind:       domain.SearchKindActivity,
		ID:         d.ID,
		Identifier: d.IATIIdentifier,
		Title:      title(d.Title, d.DefaultLang),
		IndexedAt:  now,
	}

	for _, n := range d.Title {
		if n.Content != doc.Title {
			doc.Text = append(doc.Text, n.Content)
		}
	}

	sectors := make([]string, 0, len(d.Sectors))
	for _, sec := range d.Sectors {
		sectors = append(sectors, sec.Code)
		for _, n := range sec.Narratives {
			doc.Text = append(doc.Text, n.Content)
		}
	}
	countries := make([]string, 0, len(d.RecipientCountries))
	for _, c := range d.RecipientCountries {
		countries = append(countries, c.Country)
		for _, n := range c.Narratives {
			doc.Text = append(doc.Text, n.Content)
		}
	}
	doc.Text = append(doc.Text, sectors...)
	doc.Text = append(doc.Text, countries...)

	doc.Attributes = map[string]any{
		"publisher_id": d.PublisherID.String(),
		"published":    d.Published,
		"sectors":      sectors,
		"countries":    countries,
	}
	return doc
}

func title(narratives []domain.Narrative, lang string) string {
	for _, n := range narratives {
		if n.Language == lang {
			return n.Content
		}
	}
	if len(narratives) > 0 {
		return narratives[0].Content
	}
	return ""
}
