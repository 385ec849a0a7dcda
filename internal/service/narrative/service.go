// Package narrative manages the localized free-text narratives attached to
// activity elements.
package narrative

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type narrativeRepo interface {
	ListByOwner(ctx context.Context, owner domain.NarrativeOwner) ([]domain.Narrative, error)
	ListByOwners(ctx context.Context, owners []domain.NarrativeOwner) ([]domain.Narrative, error)
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Narrative, error)
	Create(ctx context.Context, narratives []domain.Narrative, offset int) error
	Update(ctx context.Context, owner domain.NarrativeOwner, n domain.Narrative, position int) error
	DeleteByIDs(ctx context.Context, owner domain.NarrativeOwner, ids []uuid.UUID) error
	DeleteByOwner(ctx context.Context, owners ...domain.NarrativeOwner) (int64, error)
	DeleteOrphans(ctx context.Context, activityID uuid.UUID) (int64, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service stores narrative containers. It is called from the other services
// inside their transactions and does not start one itself.
type Service struct {
	log  *slog.Logger
	repo narrativeRepo
}

// NewService creates a new narrative service.
func NewService(logger *slog.Logger, repo narrativeRepo) *Service {
	return &Service{
		log:  logger.With("service", "narrative"),
		repo: repo,
	}
}

// Save replaces the narratives of owner with inputs: inputs with an id
// update that narrative, inputs without one are created, and stored
// narratives missing from inputs are deleted. An id that does not belong to
// owner yields domain.ErrNotFound. Inputs must already be validated.
func (s *Service) Save(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []Input) ([]domain.Narrative, error) {
	existing, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list narratives: %w", err)
	}

	stored := make(map[uuid.UUID]bool, len(existing))
	for _, n := range existing {
		stored[n.ID] = true
	}

	saved := make([]domain.Narrative, 0, len(inputs))
	kept := make(map[uuid.UUID]bool, len(inputs))
	var created, updated int

	for pos, in := range Normalize(inputs) {
		n := domain.Narrative{
			ActivityID: activityID,
			OwnerType:  owner.Type,
			OwnerID:    owner.ID,
			Language:   in.Language,
			Content:    in.Text,
		}

		if in.ID != nil {
			if !stored[*in.ID] || kept[*in.ID] {
				return nil, fmt.Errorf("narrative %s of %s: %w", *in.ID, owner.Type, domain.ErrNotFound)
			}
			n.ID = *in.ID
			if err := s.repo.Update(ctx, owner, n, pos); err != nil {
				return nil, fmt.Errorf("update narrative: %w", err)
			}
			kept[n.ID] = true
			updated++
		} else {
			n.ID = uuid.Must(uuid.NewV7())
			if err := s.repo.Create(ctx, []domain.Narrative{n}, pos); err != nil {
				return nil, fmt.Errorf("create narrative: %w", err)
			}
			created++
		}
		saved = append(saved, n)
	}

	var stale []uuid.UUID
	for _, n := range existing {
		if !kept[n.ID] {
			stale = append(stale, n.ID)
		}
	}
	if err := s.repo.DeleteByIDs(ctx, owner, stale); err != nil {
		return nil, fmt.Errorf("delete narratives: %w", err)
	}

	s.log.DebugContext(ctx, "narratives saved",
		slog.String("owner_type", owner.Type.String()),
		slog.String("owner_id", owner.ID.String()),
		slog.Int("created", created),
		slog.Int("updated", updated),
		slog.Int("deleted", len(stale)),
	)

	return saved, nil
}

// Create stores narratives for a freshly created owner.
func (s *Service) Create(ctx context.Context, activityID uuid.UUID, owner domain.NarrativeOwner, inputs []Input) ([]domain.Narrative, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	narratives := make([]domain.Narrative, len(inputs))
	for i, in := range Normalize(inputs) {
		narratives[i] = domain.Narrative{
			ID:         uuid.Must(uuid.NewV7()),
			ActivityID: activityID,
			OwnerType:  owner.Type,
			OwnerID:    owner.ID,
			Language:   in.Language,
			Content:    in.Text,
		}
	}
	if err := s.repo.Create(ctx, narratives, 0); err != nil {
		return nil, fmt.Errorf("create narratives: %w", err)
	}
	return narratives, nil
}

// DeleteByOwner removes every narrative of the given containers.
func (s *Service) DeleteByOwner(ctx context.Context, owners ...domain.NarrativeOwner) error {
	if _, err := s.repo.DeleteByOwner(ctx, owners...); err != nil {
		return fmt.Errorf("delete narratives: %w", err)
	}
	return nil
}

// DeleteOrphans removes narratives of activityID whose owner row is gone.
func (s *Service) DeleteOrphans(ctx context.Context, activityID uuid.UUID) error {
	n, err := s.repo.DeleteOrphans(ctx, activityID)
	if err != nil {
		return fmt.Errorf("delete orphan narratives: %w", err)
	}
	if n > 0 {
		s.log.DebugContext(ctx, "orphan narratives deleted",
			slog.String("activity_id", activityID.String()),
			slog.Int64("count", n),
		)
	}
	return nil
}

// ListByOwners returns the narratives of many containers grouped by owner.
func (s *Service) ListByOwners(ctx context.Context, owners []domain.NarrativeOwner) (map[domain.NarrativeOwner][]domain.Narrative, error) {
	narratives, err := s.repo.ListByOwners(ctx, owners)
	if err != nil {
		return nil, fmt.Errorf("list narratives: %w", err)
	}
	return domain.GroupNarratives(narratives), nil
}

// ListByActivity returns every narrative of an activity grouped by owner.
func (s *Service) ListByActivity(ctx context.Context, activityID uuid.UUID) (map[domain.NarrativeOwner][]domain.Narrative, error) {
	narratives, err := s.repo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("list narratives: %w", err)
	}
	return domain.GroupNarratives(narratives), nil
}
