// Package result implements the repositories of the result tree:
// result -> indicator -> period -> target/actual -> dimension/location,
// plus the lookup resolving any node to its owning activity.
package result

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres/element"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// Repo groups the tables of the result tree.
type Repo struct {
	db postgres.Querier

	Results             *element.Table[domain.Result]
	ResultReferences    *element.Table[domain.ResultReference]
	Indicators          *element.Table[domain.Indicator]
	IndicatorReferences *element.Table[domain.IndicatorReference]
	Baselines           *element.Table[domain.Baseline]
	Periods             *element.Table[domain.Period]
	PeriodValues        *element.Table[domain.PeriodValue]
	Dimensions          *element.Table[domain.PeriodDimension]
	Locations           *element.Table[domain.PeriodLocation]
}

// New creates the result tree repository.
func New(db postgres.Querier) *Repo {
	return &Repo{
		db: db,
		Results: element.NewTable(db, element.TableDef[domain.Result]{
			Name:    "results",
			Entity:  "result",
			Columns: []string{"id", "activity_id", "type", "aggregation_status"},
			OrderBy: []string{"id"},
			Values: func(r domain.Result) []any {
				return []any{r.ID, r.ActivityID, r.Type, r.AggregationStatus}
			},
		}),
		ResultReferences: element.NewTable(db, element.TableDef[domain.ResultReference]{
			Name:    "result_references",
			Entity:  "result_reference",
			Columns: []string{"id", "result_id", "vocabulary", "code", "vocabulary_uri"},
			OrderBy: []string{"id"},
			Values: func(r domain.ResultReference) []any {
				return []any{r.ID, r.ResultID, r.Vocabulary, r.Code, r.VocabularyURI}
			},
		}),
		Indicators: element.NewTable(db, element.TableDef[domain.Indicator]{
			Name:    "indicators",
			Entity:  "indicator",
			Columns: []string{"id", "result_id", "measure", "ascending", "aggregation_status"},
			OrderBy: []string{"id"},
			Values: func(i domain.Indicator) []any {
				return []any{i.ID, i.ResultID, i.Measure, i.Ascending, i.AggregationStatus}
			},
		}),
		IndicatorReferences: element.NewTable(db, element.TableDef[domain.IndicatorReference]{
			Name:    "indicator_references",
			Entity:  "indicator_reference",
			Columns: []string{"id", "indicator_id", "vocabulary", "code", "indicator_uri"},
			OrderBy: []string{"id"},
			Values: func(r domain.IndicatorReference) []any {
				return []any{r.ID, r.IndicatorID, r.Vocabulary, r.Code, r.IndicatorURI}
			},
		}),
		Baselines: element.NewTable(db, element.TableDef[domain.Baseline]{
			Name:    "indicator_baselines",
			Entity:  "baseline",
			Columns: []string{"id", "indicator_id", "year", "iso_date", "value"},
			OrderBy: []string{"id"},
			Values: func(b domain.Baseline) []any {
				return []any{b.ID, b.IndicatorID, b.Year, b.ISODate, b.Value}
			},
		}),
		Periods: element.NewTable(db, element.TableDef[domain.Period]{
			Name:    "indicator_periods",
			Entity:  "period",
			Columns: []string{"id", "indicator_id", "period_start", "period_end"},
			OrderBy: []string{"period_start", "id"},
			Values: func(p domain.Period) []any {
				return []any{p.ID, p.IndicatorID, p.PeriodStart, p.PeriodEnd}
			},
		}),
		PeriodValues: element.NewTable(db, element.TableDef[domain.PeriodValue]{
			Name:    "period_values",
			Entity:  "period_value",
			Columns: []string{"id", "period_id", "kind", "value"},
			OrderBy: []string{"kind", "id"},
			Values: func(v domain.PeriodValue) []any {
				return []any{v.ID, v.PeriodID, v.Kind, v.Value}
			},
		}),
		Dimensions: element.NewTable(db, element.TableDef[domain.PeriodDimension]{
			Name:    "period_dimensions",
			Entity:  "period_dimension",
			Columns: []string{"id", "period_value_id", "name", "value"},
			OrderBy: []string{"id"},
			Values: func(d domain.PeriodDimension) []any {
				return []any{d.ID, d.PeriodValueID, d.Name, d.Value}
			},
		}),
		Locations: element.NewTable(db, element.TableDef[domain.PeriodLocation]{
			Name:    "period_locations",
			Entity:  "period_location",
			Columns: []string{"id", "period_value_id", "ref"},
			OrderBy: []string{"id"},
			Values: func(l domain.PeriodLocation) []any {
				return []any{l.ID, l.PeriodValueID, l.Ref}
			},
		}),
	}
}

// ---------------------------------------------------------------------------
// Lineage
// ---------------------------------------------------------------------------

// lineageSQL resolves a node of a given kind to its activity. Each query
// joins up the tree from the node table to results.
var lineageSQL = map[domain.EntityType]string{
	domain.EntityTypeResult: `
SELECT a.id, a.publisher_id FROM results r
JOIN activities a ON a.id = r.activity_id
WHERE r.id = $1`,
	domain.EntityTypeResultReference: `
SELECT a.id, a.publisher_id FROM result_references x
JOIN results r ON r.id = x.result_id
JOIN activities a ON a.id = r.activity_id
WHERE x.id = $1`,
	domain.EntityTypeIndicator: `
SELECT a.id, a.publisher_id FROM indicators i
JOIN results r ON r.id = i.result_id
JOIN activities a ON a.id = r.activity_id
WHERE i.id = $1`,
	domain.EntityTypeIndicatorReference: `
SELECT a.id, a.publisher_id FROM indicator_references x
JOIN indicators i ON i.id = x.indicator_id
JOIN results r ON r.id = i.result_id
JOIN activities a ON a.id = r.activity_id
WHERE x.id = $1`,
	domain.EntityTypeBaseline: `
SELECT a.id, a.publisher_id FROM indicator_baselines x
JOIN indicators i ON i.id = x.indicator_id
JOIN results r ON r.id = i.result_id
JOIN activities a ON a.id = r.activity_id
WHERE x.id = $1`,
	domain.EntityTypePeriod: `
SELECT a.id, a.publisher_id FROM indicator_periods p
JOIN indicators i ON i.id = p.indicator_id
JOIN results r ON r.id = i.result_id
JOIN activities a ON a.id = r.activity_id
WHERE p.id = $1`,
	domain.EntityTypePeriodValue: `
SELECT a.id, a.publisher_id FROM period_values v
JOIN indicator_periods p ON p.id = v.period_id
JOIN indicators i ON i.id = p.indicator_id
JOIN results r ON r.id = i.result_id
JOIN activities a ON a.id = r.activity_id
WHERE v.id = $1`,
	domain.EntityTypePeriodDimension: `
SELECT a.id, a.publisher_id FROM period_dimensions x
JOIN period_values v ON v.id = x.period_value_id
JOIN indicator_periods p ON p.id = v.period_id
JOIN indicators i ON i.id = p.indicator_id
JOIN results r ON r.id = i.result_id
JOIN activities a ON a.id = r.activity_id
WHERE x.id = $1`,
	domain.EntityTypePeriodLocation: `
SELECT a.id, a.publisher_id FROM period_locations x
JOIN period_values v ON v.id = x.period_value_id
JOIN indicator_periods p ON p.id = v.period_id
JOIN indicators i ON i.id = p.indicator_id
JOIN results r ON r.id = i.result_id
JOIN activities a ON a.id = r.activity_id
WHERE x.id = $1`,
}

// ActivityOf returns the activity (and its publisher) owning the node id of
// the given kind.
func (r *Repo) ActivityOf(ctx context.Context, kind domain.EntityType, id uuid.UUID) (domain.Lineage, error) {
	sql, ok := lineageSQL[kind]
	if !ok {
		return domain.Lineage{}, fmt.Errorf("lineage of %s: unsupported entity type", kind)
	}

	var l domain.Lineage
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &l, squirrel.Expr(sql, id)); err != nil {
		return domain.Lineage{}, postgres.MapError(err, kind.String(), id)
	}
	return l, nil
}
