package element

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

// entity describes one element collection.
type entity[T any] struct {
	kind       domain.EntityType
	table      table[T]
	owners     []domain.NarrativeOwnerType
	activityOf func(T) uuid.UUID
}

// container is one narrative container of an element input. On update a
// nil inputs slice leaves the stored narratives untouched.
type container[T any] struct {
	field    string
	owner    domain.NarrativeOwnerType
	inputs   []narrative.Input
	required bool
	assign   func(row *T, narratives []domain.Narrative)
}

// env carries what element validation may depend on besides the input.
type env struct {
	activity domain.Activity
	checker  *codelist.Checker
	now      time.Time
}

type input[T any] interface {
	validate(e env) []domain.FieldError
	build(id uuid.UUID, a domain.Activity) T
	containers() []container[T]
}

// storedChecker is implemented by inputs with rules that span the stored
// siblings of the element, such as percentage sums.
type storedChecker interface {
	checkStored(ctx context.Context, agg aggregates, activityID, self uuid.UUID) ([]domain.FieldError, error)
}

// Page is one page of a paginated element list.
type Page[T any] struct {
	Items []T
	Total int
}

// ---------------------------------------------------------------------------
// Generic operations
// ---------------------------------------------------------------------------

func validate[T any](ctx context.Context, s *Service, a domain.Activity, self uuid.UUID, in input[T], creating bool) error {
	checker := s.codeLists.NewChecker()
	errs := in.validate(env{activity: a, checker: checker, now: s.now()})

	for _, c := range in.containers() {
		if c.inputs == nil && !creating {
			continue
		}
		errs = append(errs, narrative.Validate(c.field, c.inputs, c.required, a.DefaultLang, checker)...)
	}

	if sc, ok := in.(storedChecker); ok {
		stored, err := sc.checkStored(ctx, s.aggregates, a.ID, self)
		if err != nil {
			return fmt.Errorf("check stored siblings: %w", err)
		}
		errs = append(errs, stored...)
	}

	return checker.Err(ctx, errs)
}

func create[T any](ctx context.Context, s *Service, e entity[T], publisherID, activityID uuid.UUID, in input[T]) (T, error) {
	var row T
	id := uuid.Must(uuid.NewV7())

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.owned(txCtx, publisherID, activityID)
		if err != nil {
			return err
		}
		if err := validate(txCtx, s, a, id, in, true); err != nil {
			return err
		}

		row, err = e.table.Create(txCtx, in.build(id, a))
		if err != nil {
			return fmt.Errorf("create %s: %w", e.kind, err)
		}

		for _, c := range in.containers() {
			narratives, err := s.narratives.Create(txCtx, activityID, domain.NarrativeOwner{Type: c.owner, ID: id}, c.inputs)
			if err != nil {
				return err
			}
			c.assign(&row, narratives)
		}

		return s.touch(txCtx, publisherID, activityID, e.kind, id, domain.AuditActionCreate, map[string]any{"new": row})
	})
	if err != nil {
		var zero T
		return zero, err
	}

	s.log.DebugContext(ctx, "element created",
		slog.String("entity", e.kind.String()),
		slog.String("activity_id", activityID.String()),
		slog.String("id", id.String()),
	)

	return row, nil
}

func update[T any](ctx context.Context, s *Service, e entity[T], publisherID, activityID, id uuid.UUID, in input[T]) (T, error) {
	var row T

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.owned(txCtx, publisherID, activityID)
		if err != nil {
			return err
		}
		old, err := child(txCtx, e, activityID, id)
		if err != nil {
			return err
		}
		if err := validate(txCtx, s, a, id, in, false); err != nil {
			return err
		}

		row, err = e.table.Update(txCtx, in.build(id, a))
		if err != nil {
			return fmt.Errorf("update %s: %w", e.kind, err)
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

		return s.touch(txCtx, publisherID, activityID, e.kind, id, domain.AuditActionUpdate, map[string]any{"old": old, "new": row})
	})
	if err != nil {
		var zero T
		return zero, err
	}

	s.log.DebugContext(ctx, "element updated",
		slog.String("entity", e.kind.String()),
		slog.String("activity_id", activityID.String()),
		slog.String("id", id.String()),
	)

	return row, nil
}

func remove[T any](ctx context.Context, s *Service, e entity[T], publisherID, activityID, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.owned(txCtx, publisherID, activityID); err != nil {
			return err
		}
		old, err := child(txCtx, e, activityID, id)
		if err != nil {
			return err
		}

		if err := e.table.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete %s: %w", e.kind, err)
		}

		if len(e.owners) > 0 {
			owners := make([]domain.NarrativeOwner, len(e.owners))
			for i, t := range e.owners {
				owners[i] = domain.NarrativeOwner{Type: t, ID: id}
			}
			if err := s.narratives.DeleteByOwner(txCtx, owners...); err != nil {
				return err
			}
		}

		return s.touch(txCtx, publisherID, activityID, e.kind, id, domain.AuditActionDelete, map[string]any{"old": old})
	})
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "element deleted",
		slog.String("entity", e.kind.String()),
		slog.String("activity_id", activityID.String()),
		slog.String("id", id.String()),
	)

	return nil
}

// list returns one page of the elements of an activity without narratives.
func list[T any](ctx context.Context, s *Service, e entity[T], activityID uuid.UUID, limit, offset int) (Page[T], error) {
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return Page[T]{}, err
	}
	switch {
	case limit <= 0:
		limit = s.limits.ListDefault
	case limit > s.limits.ListMax:
		limit = s.limits.ListMax
	}
	offset = max(offset, 0)

	total, err := e.table.CountByParent(ctx, activityID)
	if err != nil {
		return Page[T]{}, fmt.Errorf("count %s: %w", e.kind, err)
	}
	items, err := e.table.ListByParent(ctx, activityID, limit, offset)
	if err != nil {
		return Page[T]{}, fmt.Errorf("list %s: %w", e.kind, err)
	}
	return Page[T]{Items: items, Total: total}, nil
}

// child loads an element and checks that it belongs to the activity.
func child[T any](ctx context.Context, e entity[T], activityID, id uuid.UUID) (T, error) {
	row, err := e.table.Get(ctx, id)
	if err != nil {
		return row, err
	}
	if e.activityOf(row) != activityID {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", e.kind, id, domain.ErrNotFound)
	}
	return row, nil
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
