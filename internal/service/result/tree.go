package result

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// Page is one page of the results of an activity.
type Page struct {
	Items []domain.Result
	Total int
}

// Count returns the number of results of an activity.
func (s *Service) Count(ctx context.Context, activityID uuid.UUID) (int, error) {
	n, err := s.tables.Results.CountByParent(ctx, activityID)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// Trees returns results of an activity with their whole subtree and
// narratives. A limit of 0 returns every result.
func (s *Service) Trees(ctx context.Context, activityID uuid.UUID, limit, offset int) ([]domain.Result, error) {
	results, err := s.tables.Results.ListByParent(ctx, activityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if err := s.assemble(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

// ListResults returns one page of the result trees of an activity.
func (s *Service) ListResults(ctx context.Context, activityID uuid.UUID, limit, offset int) (Page, error) {
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return Page{}, err
	}
	switch {
	case limit <= 0:
		limit = s.limits.ListDefault
	case limit > s.limits.ListMax:
		limit = s.limits.ListMax
	}
	offset = max(offset, 0)

	total, err := s.Count(ctx, activityID)
	if err != nil {
		return Page{}, err
	}
	items, err := s.Trees(ctx, activityID, limit, offset)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total}, nil
}

// GetResult returns one result of an activity with its subtree.
func (s *Service) GetResult(ctx context.Context, activityID, id uuid.UUID) (domain.Result, error) {
	r, err := s.tables.Results.Get(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}
	if r.ActivityID != activityID {
		return domain.Result{}, fmt.Errorf("result %s: %w", id, domain.ErrNotFound)
	}
	tree := []domain.Result{r}
	if err := s.assemble(ctx, tree); err != nil {
		return domain.Result{}, err
	}
	return tree[0], nil
}

// assemble loads the descendants of results level by level, one query per
// table, then attaches every narrative of the tree.
func (s *Service) assemble(ctx context.Context, results []domain.Result) error {
	if len(results) == 0 {
		return nil
	}
	t := s.tables
	var owners []domain.NarrativeOwner

	resultIDs := make([]uuid.UUID, len(results))
	for i, r := range results {
		resultIDs[i] = r.ID
		owners = append(owners,
			domain.NarrativeOwner{Type: domain.OwnerResultTitle, ID: r.ID},
			domain.NarrativeOwner{Type: domain.OwnerResultDescription, ID: r.ID},
		)
	}

	resultRefs, err := t.ResultReferences.ListByParents(ctx, resultIDs)
	if err != nil {
		return fmt.Errorf("list result references: %w", err)
	}
	indicators, err := t.Indicators.ListByParents(ctx, resultIDs)
	if err != nil {
		return fmt.Errorf("list indicators: %w", err)
	}

	indicatorIDs := make([]uuid.UUID, len(indicators))
	for i, ind := range indicators {
		indicatorIDs[i] = ind.ID
		owners = append(owners,
			domain.NarrativeOwner{Type: domain.OwnerIndicatorTitle, ID: ind.ID},
			domain.NarrativeOwner{Type: domain.OwnerIndicatorDescription, ID: ind.ID},
		)
	}

	indicatorRefs, err := t.IndicatorReferences.ListByParents(ctx, indicatorIDs)
	if err != nil {
		return fmt.Errorf("list indicator references: %w", err)
	}
	baselines, err := t.Baselines.ListByParents(ctx, indicatorIDs)
	if err != nil {
		return fmt.Errorf("list baselines: %w", err)
	}
	for _, b := range baselines {
		owners = append(owners, domain.NarrativeOwner{Type: domain.OwnerIndicatorBaselineComment, ID: b.ID})
	}
	periods, err := t.Periods.ListByParents(ctx, indicatorIDs)
	if err != nil {
		return fmt.Errorf("list periods: %w", err)
	}

	periodIDs := make([]uuid.UUID, len(periods))
	for i, p := range periods {
		periodIDs[i] = p.ID
	}
	values, err := t.PeriodValues.ListByParents(ctx, periodIDs)
	if err != nil {
		return fmt.Errorf("list period values: %w", err)
	}

	valueIDs := make([]uuid.UUID, len(values))
	for i, v := range values {
		valueIDs[i] = v.ID
		owners = append(owners, v.CommentOwner())
	}
	dimensions, err := t.Dimensions.ListByParents(ctx, valueIDs)
	if err != nil {
		return fmt.Errorf("list period dimensions: %w", err)
	}
	locations, err := t.Locations.ListByParents(ctx, valueIDs)
	if err != nil {
		return fmt.Errorf("list period locations: %w", err)
	}

	narratives, err := s.narratives.ListByOwners(ctx, owners)
	if err != nil {
		return err
	}

	// Attach bottom-up so every parent copies complete children.
	dimsByValue := groupBy(dimensions, func(d domain.PeriodDimension) uuid.UUID { return d.PeriodValueID })
	locsByValue := groupBy(locations, func(l domain.PeriodLocation) uuid.UUID { return l.PeriodValueID })
	for i := range values {
		v := &values[i]
		v.Comment = narratives[v.CommentOwner()]
		v.Dimensions = dimsByValue[v.ID]
		v.Locations = locsByValue[v.ID]
	}

	valuesByPeriod := groupBy(values, func(v domain.PeriodValue) uuid.UUID { return v.PeriodID })
	for i := range periods {
		p := &periods[i]
		for _, v := range valuesByPeriod[p.ID] {
			if v.Kind == domain.PeriodValueActual {
				p.Actuals = append(p.Actuals, v)
			} else {
				p.Targets = append(p.Targets, v)
			}
		}
	}

	for i := range baselines {
		b := &baselines[i]
		b.Comment = narratives[domain.NarrativeOwner{Type: domain.OwnerIndicatorBaselineComment, ID: b.ID}]
	}

	refsByIndicator := groupBy(indicatorRefs, func(r domain.IndicatorReference) uuid.UUID { return r.IndicatorID })
	baselinesByIndicator := groupBy(baselines, func(b domain.Baseline) uuid.UUID { return b.IndicatorID })
	periodsByIndicator := groupBy(periods, func(p domain.Period) uuid.UUID { return p.IndicatorID })
	for i := range indicators {
		ind := &indicators[i]
		ind.Title = narratives[domain.NarrativeOwner{Type: domain.OwnerIndicatorTitle, ID: ind.ID}]
		ind.Description = narratives[domain.NarrativeOwner{Type: domain.OwnerIndicatorDescription, ID: ind.ID}]
		ind.References = refsByIndicator[ind.ID]
		ind.Baselines = baselinesByIndicator[ind.ID]
		ind.Periods = periodsByIndicator[ind.ID]
	}

	refsByResult := groupBy(resultRefs, func(r domain.ResultReference) uuid.UUID { return r.ResultID })
	indicatorsByResult := groupBy(indicators, func(i domain.Indicator) uuid.UUID { return i.ResultID })
	for i := range results {
		r := &results[i]
		r.Title = narratives[domain.NarrativeOwner{Type: domain.OwnerResultTitle, ID: r.ID}]
		r.Description = narratives[domain.NarrativeOwner{Type: domain.OwnerResultDescription, ID: r.ID}]
		r.References = refsByResult[r.ID]
		r.Indicators = indicatorsByResult[r.ID]
	}
	return nil
}

func groupBy[T any](rows []T, key func(T) uuid.UUID) map[uuid.UUID][]T {
	out := make(map[uuid.UUID][]T)
	for _, r := range rows {
		out[key(r)] = append(out[key(r)], r)
	}
	return out
}
