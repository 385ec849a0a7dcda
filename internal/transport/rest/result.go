package rest

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/result"
)

type resultService interface {
	CreateResult(ctx context.Context, publisherID, activityID uuid.UUID, in result.ResultInput) (domain.Result, error)
	UpdateResult(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.ResultInput) (domain.Result, error)
	DeleteResult(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateResultReference(ctx context.Context, publisherID, activityID, resultID uuid.UUID, in result.ResultReferenceInput) (domain.ResultReference, error)
	UpdateResultReference(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.ResultReferenceInput) (domain.ResultReference, error)
	DeleteResultReference(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateIndicator(ctx context.Context, publisherID, activityID, resultID uuid.UUID, in result.IndicatorInput) (domain.Indicator, error)
	UpdateIndicator(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.IndicatorInput) (domain.Indicator, error)
	DeleteIndicator(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateIndicatorReference(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in result.IndicatorReferenceInput) (domain.IndicatorReference, error)
	UpdateIndicatorReference(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.IndicatorReferenceInput) (domain.IndicatorReference, error)
	DeleteIndicatorReference(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateBaseline(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in result.BaselineInput) (domain.Baseline, error)
	UpdateBaseline(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.BaselineInput) (domain.Baseline, error)
	DeleteBaseline(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreatePeriod(ctx context.Context, publisherID, activityID, indicatorID uuid.UUID, in result.PeriodInput) (domain.Period, error)
	UpdatePeriod(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.PeriodInput) (domain.Period, error)
	DeletePeriod(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreatePeriodValue(ctx context.Context, publisherID, activityID, periodID uuid.UUID, in result.PeriodValueInput) (domain.PeriodValue, error)
	UpdatePeriodValue(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.PeriodValueInput) (domain.PeriodValue, error)
	DeletePeriodValue(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreateDimension(ctx context.Context, publisherID, activityID, valueID uuid.UUID, in result.DimensionInput) (domain.PeriodDimension, error)
	UpdateDimension(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.DimensionInput) (domain.PeriodDimension, error)
	DeleteDimension(ctx context.Context, publisherID, activityID, id uuid.UUID) error

	CreatePeriodLocation(ctx context.Context, publisherID, activityID, valueID uuid.UUID, in result.PeriodLocationInput) (domain.PeriodLocation, error)
	UpdatePeriodLocation(ctx context.Context, publisherID, activityID, id uuid.UUID, in result.PeriodLocationInput) (domain.PeriodLocation, error)
	DeletePeriodLocation(ctx context.Context, publisherID, activityID, id uuid.UUID) error
}

// ResultHandler serves the writes of the result tree.
type ResultHandler struct {
	svc resultService
	log *slog.Logger
}

// NewResultHandler creates a ResultHandler.
func NewResultHandler(svc resultService, logger *slog.Logger) *ResultHandler {
	return &ResultHandler{svc: svc, log: logger.With("handler", "result")}
}

// nested adapts the service methods of a result tree node created below
// the parent named by the parent path value.
func nested[R, I, T any](
	path, parent string,
	convert func(R) I,
	create func(ctx context.Context, publisherID, activityID, parentID uuid.UUID, in I) (T, error),
	update func(ctx context.Context, publisherID, activityID, id uuid.UUID, in I) (T, error),
	remove func(ctx context.Context, publisherID, activityID, id uuid.UUID) error,
) collection[R, I, T] {
	return collection[R, I, T]{
		path:    path,
		parent:  parent,
		convert: convert,
		create: func(ctx context.Context, s scope, in I) (T, error) {
			return create(ctx, s.publisherID, s.activityID, s.parentID, in)
		},
		update: func(ctx context.Context, s scope, in I) (T, error) {
			return update(ctx, s.publisherID, s.activityID, s.id, in)
		},
		remove: func(ctx context.Context, s scope) error {
			return remove(ctx, s.publisherID, s.activityID, s.id)
		},
	}
}

// Routes returns the create, update and delete routes of every result tree
// node kind.
func (h *ResultHandler) Routes() []route {
	s := h.svc
	var out []route
	add := func(rs []route) { out = append(out, rs...) }

	add(child("/results", resultRequest.input,
		s.CreateResult, s.UpdateResult, s.DeleteResult).routes(h.log))
	add(nested("/results/{resultID}/references", "resultID", resultReferenceRequest.input,
		s.CreateResultReference, s.UpdateResultReference, s.DeleteResultReference).routes(h.log))
	add(nested("/results/{resultID}/indicators", "resultID", indicatorRequest.input,
		s.CreateIndicator, s.UpdateIndicator, s.DeleteIndicator).routes(h.log))
	add(nested("/indicators/{indicatorID}/references", "indicatorID", indicatorReferenceRequest.input,
		s.CreateIndicatorReference, s.UpdateIndicatorReference, s.DeleteIndicatorReference).routes(h.log))
	add(nested("/indicators/{indicatorID}/baselines", "indicatorID", baselineRequest.input,
		s.CreateBaseline, s.UpdateBaseline, s.DeleteBaseline).routes(h.log))
	add(nested("/indicators/{indicatorID}/periods", "indicatorID", periodRequest.input,
		s.CreatePeriod, s.UpdatePeriod, s.DeletePeriod).routes(h.log))
	add(nested("/periods/{periodID}/targets", "periodID", periodValueOf(domain.PeriodValueTarget),
		s.CreatePeriodValue, s.UpdatePeriodValue, s.DeletePeriodValue).routes(h.log))
	add(nested("/periods/{periodID}/actuals", "periodID", periodValueOf(domain.PeriodValueActual),
		s.CreatePeriodValue, s.UpdatePeriodValue, s.DeletePeriodValue).routes(h.log))
	add(nested("/period-values/{valueID}/dimensions", "valueID", dimensionRequest.input,
		s.CreateDimension, s.UpdateDimension, s.DeleteDimension).routes(h.log))
	add(nested("/period-values/{valueID}/locations", "valueID", periodLocationRequest.input,
		s.CreatePeriodLocation, s.UpdatePeriodLocation, s.DeletePeriodLocation).routes(h.log))

	return out
}

func periodValueOf(kind domain.PeriodValueKind) func(periodValueRequest) result.PeriodValueInput {
	return func(r periodValueRequest) result.PeriodValueInput { return r.input(kind) }
}
