package element

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// DocumentLinkInput describes a document link. Categories and Languages
// replace the stored sets on update.
type DocumentLinkInput struct {
	URL          string
	Format       string
	DocumentDate *time.Time
	Categories   []string
	Languages    []string
	Title        []narrative.Input
	Description  []narrative.Input
}

func (in DocumentLinkInput) validate(e env) []domain.FieldError {
	var errs []domain.FieldError

	switch url := strings.TrimSpace(in.URL); {
	case url == "":
		errs = append(errs, domain.FieldError{Field: "url", Message: "required"})
	case !isHTTPURL(url):
		errs = append(errs, domain.FieldError{Field: "url", Message: "must be an absolute http(s) URL"})
	}

	errs = required(errs, "format", in.Format)
	e.checker.Require("format", domain.ListFileFormat, "", in.Format)
	e.checker.RequireAll("categories", domain.ListDocumentCategory, in.Categories)
	e.checker.RequireAll("languages", domain.ListLanguage, in.Languages)
	return errs
}

func (in DocumentLinkInput) build(id uuid.UUID, a domain.Activity) domain.DocumentLink {
	return domain.DocumentLink{
		ID:           id,
		ActivityID:   a.ID,
		URL:          strings.TrimSpace(in.URL),
		Format:       strings.TrimSpace(in.Format),
		DocumentDate: in.DocumentDate,
		Categories:   dedupe(in.Categories),
		Languages:    dedupe(in.Languages),
	}
}

func (in DocumentLinkInput) containers() []container[domain.DocumentLink] {
	return []container[domain.DocumentLink]{
		{
			field:    "title.narratives",
			owner:    domain.OwnerDocumentLinkTitle,
			inputs:   in.Title,
			required: true,
			assign:   func(d *domain.DocumentLink, n []domain.Narrative) { d.Title = n },
		},
		{
			field:  "description.narratives",
			owner:  domain.OwnerDocumentLinkDescription,
			inputs: in.Description,
			assign: func(d *domain.DocumentLink, n []domain.Narrative) { d.Description = n },
		},
	}
}

// dedupe trims codes and drops empty and repeated ones, keeping order.
func dedupe(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (s *Service) CreateDocumentLink(ctx context.Context, publisherID, activityID uuid.UUID, in DocumentLinkInput) (domain.DocumentLink, error) {
	return create(ctx, s, s.documentLinks, publisherID, activityID, in)
}

func (s *Service) UpdateDocumentLink(ctx context.Context, publisherID, activityID, id uuid.UUID, in DocumentLinkInput) (domain.DocumentLink, error) {
	return update(ctx, s, s.documentLinks, publisherID, activityID, id, in)
}

func (s *Service) DeleteDocumentLink(ctx context.Context, publisherID, activityID, id uuid.UUID) error {
	return remove(ctx, s, s.documentLinks, publisherID, activityID, id)
}
