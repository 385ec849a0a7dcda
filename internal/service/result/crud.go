package result

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// node describes one level of the result tree. parentKind is empty for
// results, whose parent is the activity itself.
type node[T any] struct {
	kind       domain.EntityType
	parentKind domain.EntityType
	table      table[T]
	parentOf   func(T) uuid.UUID
}

// container is one narrative container of a node input. On update a nil
// inputs slice leaves the stored narratives untouched.
type container[T any] struct {
	field    string
	owner    domain.NarrativeOwnerType
	inputs   []narrative.Input
	required bool
	assign   func(row *T, narratives []domain.Narrative)
}

type input[T any] interface {
	validate(checker *codelist.Checker) []domain.FieldError
	build(id, parentID uuid.UUID) T
	containers() []container[T]
}

// activityChecker is implemented by inputs with rules on other rows of
// the activity.
type activityChecker interface {
	checkActivity(ctx context.Context, s *Service, activityID uuid.UUID) ([]domain.FieldError, error)
}

// guard is implemented by inputs that may only update some stored rows.
type guard[T any] interface {
	guard(old T) error
}

func validate[T any](ctx context.Context, s *Service, a domain.Activity, in input[T], creating bool) error {
	checker := s.codeLists.NewChecker()
	errs := in.validate(checker)

	for _, c := range in.containers() {
		if c.inputs == nil && !creating {
			continue
		}
		errs = append(errs, narrative.Validate(c.field, c.inputs, c.required, a.DefaultLang, checker)...)
	}

	if ac, ok := in.(activityChecker); ok {
		more, err := ac.checkActivity(ctx, s, a.ID)
		if err != nil {
			return fmt.Errorf("check activity rows: %w", err)
		}
		errs = append(errs, more...)
	}

	return checker.Err(ctx, errs)
}

func create[T any](ctx context.Context, s *Service, n node[T], publisherID, activityID, parentID uuid.UUID, in input[T]) (T, error) {
	var row T
	id := uuid.Must(uuid.NewV7())

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.owned(txCtx, publisherID, activityID)
		if err != nil {
			return err
		}
		if n.parentKind != "" {
			if err := s.within(txCtx, n.parentKind, parentID, activityID); err != nil {
				return err
			}
		}
		if err := validate(txCtx, s, a, in, true); err != nil {
			return err
		}

		row, err = n.table.Create(txCtx, in.build(id, parentID))
		if err != nil {
			return fmt.Errorf("create %s: %w", n.kind, err)
		}

		for _, c := range in.containers() {
			narratives, err := s.narratives.Create(txCtx, activityID, domain.NarrativeOwner{Type: c.owner, ID: id}, c.inputs)
			if err != nil {
				return err
			}
			c.assign(&row, narratives)
		}

		return s.touch(txCtx, publisherID, activityID, n.kind, id, domain.AuditActionCreate, map[string]any{"new": row})
	})
	if err != nil {
		var zero T
		return zero, err
	}

	s.log.DebugContext(ctx, "result node created",
		slog.String("entity", n.kind.String()),
		slog.String("activity_id", activityID.String()),
		slog.String("id", id.String()),
	)

	return row, nil
}

func update[T any](ctx context.Context, s *Service, n node[T], publisherID, activityID, id uuid.UUID, in input[T]) (T, error) {
	var row T

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.owned(txCtx, publisherID, activityID)
		if err != nil {
			return err
		}
		if err := s.within(txCtx, n.kind, id, activityID); err != nil {
			return err
		}
		old, err := n.table.Get(txCtx, id)
		if err != nil {
			return err
		}
		if g, ok := in.(guard[T]); ok {
			if err := g.guard(old); err != nil {
				return err
			}
		}
		if err := validate(txCtx, s, a, in, false); err != nil {
			return err
		}

		row, err = n.table.Update(txCtx, in.build(id, n.parentOf(old)))
		if err != nil {
			return fmt.Errorf("update %s: %w", n.kind, err)
		}

		var kept []container[T]
		for _, c := range in.containers() {
			if c.inputs == nil {
				kept = append(kept, c)
				continue
			}
			narratives, err := s.narratives.Save(txCtx, activityID, domain.NarrativeOwner{Type: c.owner, ID: id}, c.inputs)
			if err != nil {
				return err
			}
			c.assign(&row, narratives)
		}
		if err := loadKept(txCtx, s, &row, id, kept); err != nil {
			return err
		}

		return s.touch(txCtx, publisherID, activityID, n.kind, id, domain.AuditActionUpdate, map[string]any{"old": old, "new": row})
	})
	if err != nil {
		var zero T
		return zero, err
	}

	s.log.DebugContext(ctx, "result node updated",
		slog.String("entity", n.kind.String()),
		slog.String("activity_id", activityID.String()),
		slog.String("id", id.String()),
	)

	return row, nil
}

// remove deletes a node. Its descendants go with it through the foreign
// keys; the narratives left without an owner are removed afterwards.
func remove[T any](ctx context.Context, s *Service, n node[T], publisherID, activityID, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.owned(txCtx, publisherID, activityID); err != nil {
			return err
		}
		if err := s.within(txCtx, n.kind, id, activityID); err != nil {
			return err
		}
		old, err := n.table.Get(txCtx, id)
		if err != nil {
			return err
		}

		if err := n.table.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete %s: %w", n.kind, err)
		}
		if err := s.narratives.DeleteOrphans(txCtx, activityID); err != nil {
			return err
		}

		return s.touch(txCtx, publisherID, activityID, n.kind, id, domain.AuditActionDelete, map[string]any{"old": old})
	})
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "result node deleted",
		slog.String("entity", n.kind.String()),
		slog.String("activity_id", activityID.String()),
		slog.String("id", id.String()),
	)

	return nil
}

// loadKept fills the narrative containers an update left untouched.
func loadKept[T any](ctx context.Context, s *Service, row *T, id uuid.UUID, kept []container[T]) error {
	if len(kept) == 0 {
		return nil
	}
	owners := make([]domain.NarrativeOwner, len(kept))
	for i, c := range kept {
		owners[i] = domain.NarrativeOwner{Type: c.owner, ID: id}
	}
	narratives, err := s.narratives.ListByOwners(ctx, owners)
	if err != nil {
		return err
	}
	for i, c := range kept {
		c.assign(row, narratives[owners[i]])
	}
	return nil
}

// touch marks the activity modified and records the audit entry of a write.
func (s *Service) touch(ctx context.Context, publisherID, activityID uuid.UUID, kind domain.EntityType, id uuid.UUID, action domain.AuditAction, changes map[string]any) error {
	if err := s.activities.MarkModified(ctx, activityID); err != nil {
		return fmt.Errorf("mark activity modified: %w", err)
	}
	return s.audit.Log(ctx, domain.AuditRecord{
		PublisherID: publisherID,
		ActivityID:  &activityID,
		EntityType:  kind,
		EntityID:    id,
		Action:      action,
		Changes:     changes,
	})
}
