package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// Detail assembles the full activity tree. Collections are loaded
// concurrently; budgets, transactions and results larger than the detail
// limit are replaced by a notice pointing at their paginated endpoint.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (domain.ActivityDetail, error) {
	start := time.Now()

	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return domain.ActivityDetail{}, err
	}

	d := domain.ActivityDetail{Activity: a}
	limit := s.limits.Detail
	c := s.children

	var narratives map[domain.NarrativeOwner][]domain.Narrative

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		narratives, err = s.narratives.ListByActivity(gctx, id)
		return err
	})
	g.Go(func() error { return loadAll(gctx, c.Descriptions, id, "descriptions", &d.Descriptions) })
	g.Go(func() error { return loadAll(gctx, c.Dates, id, "activity dates", &d.Dates) })
	g.Go(func() error { return loadAll(gctx, c.ParticipatingOrgs, id, "participating organisations", &d.ParticipatingOrgs) })
	g.Go(func() error { return loadAll(gctx, c.RecipientCountries, id, "recipient countries", &d.RecipientCountries) })
	g.Go(func() error { return loadAll(gctx, c.RecipientRegions, id, "recipient regions", &d.RecipientRegions) })
	g.Go(func() error { return loadAll(gctx, c.Sectors, id, "sectors", &d.Sectors) })
	g.Go(func() error { return loadAll(gctx, c.PolicyMarkers, id, "policy markers", &d.PolicyMarkers) })
	g.Go(func() error { return loadAll(gctx, c.Conditions, id, "conditions", &d.Conditions) })
	g.Go(func() error { return loadAll(gctx, c.DocumentLinks, id, "document links", &d.DocumentLinks) })
	g.Go(func() error { return loadAll(gctx, c.Locations, id, "locations", &d.Locations) })
	g.Go(func() error {
		return loadCapped(gctx, c.Budgets, id, limit, "budgets", &d.Budgets, &d.BudgetsNotice)
	})
	g.Go(func() error {
		return loadCapped(gctx, c.Transactions, id, limit, "transactions", &d.Transactions, &d.TransactionsNotice)
	})
	g.Go(func() error {
		n, err := c.Results.Count(gctx, id)
		if err != nil {
			return fmt.Errorf("count results: %w", err)
		}
		if n > limit {
			d.ResultsNotice = domain.TooManyNotice(limit, "results")
			return nil
		}
		d.Results, err = c.Results.Trees(gctx, id, 0, 0)
		return err
	})
	g.Go(func() error {
		totals, err := c.Aggregates.TransactionTotals(gctx, id)
		if err != nil {
			return fmt.Errorf("transaction totals: %w", err)
		}
		budget, err := c.Aggregates.BudgetTotal(gctx, id)
		if err != nil {
			return fmt.Errorf("budget total: %w", err)
		}
		d.TransactionTypes = totals
		d.Aggregation = domain.NewAggregation(budget, totals)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.ActivityDetail{}, err
	}

	attachNarratives(&d, narratives)

	s.log.DebugContext(ctx, "activity detail assembled",
		slog.String("activity_id", id.String()),
		slog.Duration("duration", time.Since(start)),
	)

	return d, nil
}

// loadAll reads every child of the activity.
func loadAll[T any](ctx context.Context, l lister[T], activityID uuid.UUID, collection string, dst *[]T) error {
	items, err := l.ListByParent(ctx, activityID, 0, 0)
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	*dst = items
	return nil
}

// loadCapped reads up to limit children. One extra row is fetched to detect
// an oversized collection, in which case notice is set instead of dst.
func loadCapped[T any](ctx context.Context, l lister[T], activityID uuid.UUID, limit int, collection string, dst *[]T, notice *string) error {
	items, err := l.ListByParent(ctx, activityID, limit+1, 0)
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	if len(items) > limit {
		*notice = domain.TooManyNotice(limit, collection)
		return nil
	}
	*dst = items
	return nil
}

// attachNarratives distributes the narratives of the activity over the
// first-level children. Result trees carry their own narratives.
func attachNarratives(d *domain.ActivityDetail, m map[domain.NarrativeOwner][]domain.Narrative) {
	get := func(t domain.NarrativeOwnerType, id uuid.UUID) []domain.Narrative {
		return m[domain.NarrativeOwner{Type: t, ID: id}]
	}

	d.Title = get(domain.OwnerActivityTitle, d.ID)
	for i := range d.Descriptions {
		d.Descriptions[i].Narratives = get(domain.OwnerDescription, d.Descriptions[i].ID)
	}
	for i := range d.Dates {
		d.Dates[i].Narratives = get(domain.OwnerActivityDate, d.Dates[i].ID)
	}
	for i := range d.ParticipatingOrgs {
		d.ParticipatingOrgs[i].Narratives = get(domain.OwnerParticipatingOrg, d.ParticipatingOrgs[i].ID)
	}
	for i := range d.RecipientCountries {
		d.RecipientCountries[i].Narratives = get(domain.OwnerRecipientCountry, d.RecipientCountries[i].ID)
	}
	for i := range d.RecipientRegions {
		d.RecipientRegions[i].Narratives = get(domain.OwnerRecipientRegion, d.RecipientRegions[i].ID)
	}
	for i := range d.Sectors {
		d.Sectors[i].Narratives = get(domain.OwnerSector, d.Sectors[i].ID)
	}
	for i := range d.PolicyMarkers {
		d.PolicyMarkers[i].Narratives = get(domain.OwnerPolicyMarker, d.PolicyMarkers[i].ID)
	}
	for i := range d.Conditions {
		d.Conditions[i].Narratives = get(domain.OwnerCondition, d.Conditions[i].ID)
	}
	for i := range d.Transactions {
		tx := &d.Transactions[i]
		tx.Description = get(domain.OwnerTransactionDescription, tx.ID)
		tx.ProviderNarratives = get(domain.OwnerTransactionProvider, tx.ID)
		tx.ReceiverNarratives = get(domain.OwnerTransactionReceiver, tx.ID)
	}
	for i := range d.DocumentLinks {
		dl := &d.DocumentLinks[i]
		dl.Title = get(domain.OwnerDocumentLinkTitle, dl.ID)
		dl.Description = get(domain.OwnerDocumentLinkDescription, dl.ID)
	}
	for i := range d.Locations {
		loc := &d.Locations[i]
		loc.Name = get(domain.OwnerLocationName, loc.ID)
		loc.Description = get(domain.OwnerLocationDescription, loc.ID)
		loc.ActivityDescription = get(domain.OwnerLocationActivityDescription, loc.ID)
	}
}
