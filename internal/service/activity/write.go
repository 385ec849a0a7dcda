package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

const duplicateIdentifierMessage = "Activity with this IATI identifier already exists"

// Create validates input and stores a new activity of publisherID with its
// title. New activities are unpublished and marked modified.
func (s *Service) Create(ctx context.Context, publisherID uuid.UUID, input Input) (domain.Activity, error) {
	checker := s.codeLists.NewChecker()
	if err := checker.Err(ctx, input.Validate(checker, true)); err != nil {
		return domain.Activity{}, err
	}

	a := domain.Activity{ID: uuid.Must(uuid.NewV7()), PublisherID: publisherID}
	input.apply(&a)

	var created domain.Activity

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkIdentifierFree(txCtx, a.IATIIdentifier, uuid.Nil); err != nil {
			return err
		}

		var err error
		created, err = s.activities.Create(txCtx, a)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.NewValidationError("iati_identifier", duplicateIdentifierMessage)
		}
		if err != nil {
			return fmt.Errorf("create activity: %w", err)
		}

		created.Title, err = s.narratives.Create(txCtx, created.ID, created.TitleOwner(), input.Title)
		if err != nil {
			return err
		}

		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: publisherID,
			ActivityID:  &created.ID,
			EntityType:  domain.EntityTypeActivity,
			EntityID:    created.ID,
			Action:      domain.AuditActionCreate,
			Changes: map[string]any{
				"iati_identifier": map[string]any{"new": created.IATIIdentifier},
			},
		})
	})
	if err != nil {
		return domain.Activity{}, err
	}

	s.log.DebugContext(ctx, "activity created",
		slog.String("publisher_id", publisherID.String()),
		slog.String("activity_id", created.ID.String()),
		slog.String("iati_identifier", created.IATIIdentifier),
	)

	return created, nil
}

// Update replaces the scalar fields of an activity. The title is replaced
// only when input carries one.
func (s *Service) Update(ctx context.Context, publisherID, id uuid.UUID, input Input) (domain.Activity, error) {
	checker := s.codeLists.NewChecker()
	if err := checker.Err(ctx, input.Validate(checker, false)); err != nil {
		return domain.Activity{}, err
	}

	var updated domain.Activity

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		old, err := s.owned(txCtx, publisherID, id)
		if err != nil {
			return err
		}

		next := old
		input.apply(&next)
		if next.IATIIdentifier != old.IATIIdentifier {
			if err := s.checkIdentifierFree(txCtx, next.IATIIdentifier, id); err != nil {
				return err
			}
		}

		updated, err = s.activities.Update(txCtx, next)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.NewValidationError("iati_identifier", duplicateIdentifierMessage)
		}
		if err != nil {
			return fmt.Errorf("update activity: %w", err)
		}

		if input.Title != nil {
			updated.Title, err = s.narratives.Save(txCtx, id, updated.TitleOwner(), input.Title)
			if err != nil {
				return err
			}
		}

		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: publisherID,
			ActivityID:  &id,
			EntityType:  domain.EntityTypeActivity,
			EntityID:    id,
			Action:      domain.AuditActionUpdate,
			Changes:     activityChanges(old, updated),
		})
	})
	if err != nil {
		return domain.Activity{}, err
	}

	s.log.DebugContext(ctx, "activity updated",
		slog.String("publisher_id", publisherID.String()),
		slog.String("activity_id", id.String()),
	)

	return updated, nil
}

// Delete removes an activity with all its children and narratives and drops
// it from the search index. Index failures are logged only.
func (s *Service) Delete(ctx context.Context, publisherID, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.owned(txCtx, publisherID, id)
		if err != nil {
			return err
		}

		if err := s.activities.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}

		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: publisherID,
			ActivityID:  &id,
			EntityType:  domain.EntityTypeActivity,
			EntityID:    id,
			Action:      domain.AuditActionDelete,
			Changes: map[string]any{
				"iati_identifier": map[string]any{"old": a.IATIIdentifier},
				"published":       map[string]any{"old": a.Published},
			},
		})
	})
	if err != nil {
		return err
	}

	if err := s.index.Delete(ctx, domain.SearchKindActivity, id); err != nil {
		s.log.WarnContext(ctx, "remove activity from search index",
			slog.String("activity_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log.DebugContext(ctx, "activity deleted",
		slog.String("publisher_id", publisherID.String()),
		slog.String("activity_id", id.String()),
	)

	return nil
}

// MarkReadyToPublish sets or clears the ready-to-publish flag.
func (s *Service) MarkReadyToPublish(ctx context.Context, publisherID, id uuid.UUID, ready bool) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.owned(txCtx, publisherID, id)
		if err != nil {
			return err
		}

		if err := s.activities.SetReadyToPublish(txCtx, id, ready); err != nil {
			return fmt.Errorf("set ready to publish: %w", err)
		}

		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: publisherID,
			ActivityID:  &id,
			EntityType:  domain.EntityTypeActivity,
			EntityID:    id,
			Action:      domain.AuditActionUpdate,
			Changes: map[string]any{
				"ready_to_publish": map[string]any{"old": a.ReadyToPublish, "new": ready},
			},
		})
	})
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "activity ready flag set",
		slog.String("activity_id", id.String()),
		slog.Bool("ready", ready),
	)
	return nil
}

// Publish marks the activity published and clears the ready flag.
func (s *Service) Publish(ctx context.Context, publisherID, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.owned(txCtx, publisherID, id)
		if err != nil {
			return err
		}

		if err := s.activities.Publish(txCtx, id); err != nil {
			return fmt.Errorf("publish activity: %w", err)
		}

		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: publisherID,
			ActivityID:  &id,
			EntityType:  domain.EntityTypeActivity,
			EntityID:    id,
			Action:      domain.AuditActionUpdate,
			Changes: map[string]any{
				"published": map[string]any{"old": a.Published, "new": true},
			},
		})
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "activity published",
		slog.String("publisher_id", publisherID.String()),
		slog.String("activity_id", id.String()),
	)
	return nil
}

// checkIdentifierFree fails with a field error when another activity than
// self already uses identifier.
func (s *Service) checkIdentifierFree(ctx context.Context, identifier string, self uuid.UUID) error {
	other, err := s.activities.GetByIATIIdentifier(ctx, identifier)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check iati identifier: %w", err)
	case other.ID == self:
		return nil
	}
	return domain.NewValidationError("iati_identifier", duplicateIdentifierMessage)
}

// activityChanges returns the audit diff of the fields that differ.
func activityChanges(old, next domain.Activity) map[string]any {
	changes := make(map[string]any)
	diff := func(field string, o, n any) {
		if o != n {
			changes[field] = map[string]any{"old": o, "new": n}
		}
	}

	diff("iati_identifier", old.IATIIdentifier, next.IATIIdentifier)
	diff("default_lang", old.DefaultLang, next.DefaultLang)
	diff("default_currency", old.DefaultCurrency, next.DefaultCurrency)
	diff("hierarchy", old.Hierarchy, next.Hierarchy)
	diff("humanitarian", old.Humanitarian, next.Humanitarian)
	diff("activity_status", old.ActivityStatus, next.ActivityStatus)
	diff("scope", old.Scope, next.Scope)
	diff("collaboration_type", old.CollaborationType, next.CollaborationType)
	diff("default_flow_type", old.DefaultFlowType, next.DefaultFlowType)
	diff("default_finance_type", old.DefaultFinanceType, next.DefaultFinanceType)
	diff("default_aid_type", old.DefaultAidType, next.DefaultAidType)
	diff("default_tied_status", old.DefaultTiedStatus, next.DefaultTiedStatus)
	diff("conditions_attached", old.ConditionsAttached, next.ConditionsAttached)
	diff("secondary_reporter", old.SecondaryReporter, next.SecondaryReporter)

	return changes
}
