// Package codelist validates codes against the IATI code lists and serves
// the code lists to clients.
package codelist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type resolver interface {
	Resolve(ctx context.Context, refs []domain.CodeRef) ([]domain.CodeRef, error)
}

type codeListRepo interface {
	resolver
	List(ctx context.Context, list, vocabulary string) ([]domain.CodeListItem, error)
	Lists(ctx context.Context) ([]domain.CodeListSummary, error)
	Import(ctx context.Context, items []domain.CodeListItem) (int, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements code list reads, imports and validation.
type Service struct {
	log  *slog.Logger
	repo codeListRepo
}

// NewService creates a new code list service.
func NewService(logger *slog.Logger, repo codeListRepo) *Service {
	return &Service{
		log:  logger.With("service", "codelist"),
		repo: repo,
	}
}

// NewChecker returns a Checker resolving against the code list store.
func (s *Service) NewChecker() *Checker {
	return NewChecker(s.repo)
}

// Lists returns a summary of every stored code list.
func (s *Service) Lists(ctx context.Context) ([]domain.CodeListSummary, error) {
	return s.repo.Lists(ctx)
}

// List returns the items of one code list. For vocabulary-scoped lists an
// empty vocabulary selects the default vocabulary.
func (s *Service) List(ctx context.Context, list, vocabulary string) ([]domain.CodeListItem, error) {
	if domain.IsVocabularyScoped(list) {
		if vocabulary == "" {
			vocabulary = domain.DefaultVocabulary
		}
	} else {
		vocabulary = ""
	}

	items, err := s.repo.List(ctx, list, vocabulary)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("code list %s: %w", list, domain.ErrNotFound)
	}
	return items, nil
}

// Import upserts code list items and returns how many were written.
func (s *Service) Import(ctx context.Context, items []domain.CodeListItem) (int, error) {
	var errs []domain.FieldError
	for i, it := range items {
		if it.List == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("items[%d].list", i), Message: "required"})
		}
		if it.Code == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("items[%d].code", i), Message: "required"})
		}
	}
	if len(errs) > 0 {
		return 0, domain.NewValidationErrors(errs)
	}

	n, err := s.repo.Import(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("import code lists: %w", err)
	}

	s.log.InfoContext(ctx, "code lists imported", slog.Int("items", n))
	return n, nil
}
