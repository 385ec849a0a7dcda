package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/search"
)

type modifiedRepo interface {
	ListModified(ctx context.Context, limit int) ([]domain.ModifiedActivity, error)
	ClearModified(ctx context.Context, id uuid.UUID, updatedAt time.Time) (bool, error)
}

type detailer interface {
	Detail(ctx context.Context, id uuid.UUID) (domain.ActivityDetail, error)
}

type documentIndex interface {
	Index(ctx context.Context, doc domain.SearchDocument) error
}

// Reindex pushes modified activities into the search index and clears their
// modified flag.
type Reindex struct {
	log         *slog.Logger
	activities  modifiedRepo
	details     detailer
	index       documentIndex
	batch       int
	concurrency int
	now         func() time.Time
}

// NewReindex creates the reindex job.
func NewReindex(logger *slog.Logger, activities modifiedRepo, details detailer, index documentIndex, batch, concurrency int) *Reindex {
	return &Reindex{
		log:         logger.With("job", "reindex"),
		activities:  activities,
		details:     details,
		index:       index,
		batch:       max(batch, 1),
		concurrency: max(concurrency, 1),
		now:         time.Now,
	}
}

func (j *Reindex) Name() string { return "reindex" }

// Run works through modified activities batch by batch. It stops after a
// batch that was short, had failures, or cleared nothing, so activities that
// keep failing wait for the next run. An unavailable index aborts the run.
func (j *Reindex) Run(ctx context.Context) (Stats, error) {
	var total Stats
	for {
		refs, err := j.activities.ListModified(ctx, j.batch)
		if err != nil {
			return total, fmt.Errorf("list modified activities: %w", err)
		}
		if len(refs) == 0 {
			return total, nil
		}

		stats, err := j.runBatch(ctx, refs)
		total.Processed += stats.Processed
		total.Skipped += stats.Skipped
		total.Failed += stats.Failed
		if err != nil {
			return total, err
		}
		if len(refs) < j.batch || stats.Failed > 0 || stats.Processed == 0 {
			return total, nil
		}
	}
}

func (j *Reindex) runBatch(ctx context.Context, refs []domain.ModifiedActivity) (Stats, error) {
	var (
		mu    sync.Mutex
		stats Stats
	)
	count := func(field *int) {
		mu.Lock()
		*field++
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)

	for _, ref := range refs {
		g.Go(func() error {
			outcome, err := j.reindexOne(gctx, ref)
			switch {
			case errors.Is(err, domain.ErrIndexUnavailable):
				return err
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				j.log.WarnContext(gctx, "reindex activity failed",
					slog.String("activity_id", ref.ID.String()),
					slog.String("error", err.Error()),
				)
				count(&stats.Failed)
			case outcome:
				count(&stats.Processed)
			default:
				count(&stats.Skipped)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("reindex batch: %w", err)
	}
	return stats, nil
}

// reindexOne reports false when the activity vanished or changed after it
// was listed; it stays modified and is picked up again.
func (j *Reindex) reindexOne(ctx context.Context, ref domain.ModifiedActivity) (bool, error) {
	d, err := j.details.Detail(ctx, ref.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load detail: %w", err)
	}

	if err := j.index.Index(ctx, search.ActivityDocument(d, j.now())); err != nil {
		return false, err
	}

	cleared, err := j.activities.ClearModified(ctx, ref.ID, ref.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("clear modified: %w", err)
	}
	return cleared, nil
}
