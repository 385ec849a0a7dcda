package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// Get returns an activity with its title.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	return s.withTitle(ctx, a)
}

// GetByIATIIdentifier returns the activity reported under identifier.
func (s *Service) GetByIATIIdentifier(ctx context.Context, identifier string) (domain.Activity, error) {
	a, err := s.activities.GetByIATIIdentifier(ctx, identifier)
	if err != nil {
		return domain.Activity{}, err
	}
	return s.withTitle(ctx, a)
}

// List returns one page of activities. Titles are not loaded; list pages
// batch them per request.
func (s *Service) List(ctx context.Context, filter domain.ActivityFilter) (domain.ActivityPage, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = s.limits.ListDefault
	case filter.Limit > s.limits.ListMax:
		filter.Limit = s.limits.ListMax
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	page, err := s.activities.List(ctx, filter)
	if err != nil {
		return domain.ActivityPage{}, fmt.Errorf("list activities: %w", err)
	}
	return page, nil
}

// History returns the latest audit records of an activity and its
// children, newest first.
func (s *Service) History(ctx context.Context, publisherID, id uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	if _, err := s.owned(ctx, publisherID, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.limits.History {
		limit = s.limits.History
	}

	records, err := s.audit.ListByActivity(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

func (s *Service) withTitle(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	owner := a.TitleOwner()
	narratives, err := s.narratives.ListByOwners(ctx, []domain.NarrativeOwner{owner})
	if err != nil {
		return domain.Activity{}, err
	}
	a.Title = narratives[owner]
	return a, nil
}
