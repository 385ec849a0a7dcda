package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/activity"
	"github.com/heartmarshall/iati-publisher/internal/service/element"
	"github.com/heartmarshall/iati-publisher/internal/service/result"
	"github.com/heartmarshall/iati-publisher/internal/transport/dataloader"
	"github.com/heartmarshall/iati-publisher/internal/transport/middleware"
)

type activityService interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	GetByIATIIdentifier(ctx context.Context, identifier string) (domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter) (domain.ActivityPage, error)
	Detail(ctx context.Context, id uuid.UUID) (domain.ActivityDetail, error)
	History(ctx context.Context, publisherID, id uuid.UUID, limit int) ([]domain.AuditRecord, error)
	Create(ctx context.Context, publisherID uuid.UUID, input activity.Input) (domain.Activity, error)
	Update(ctx context.Context, publisherID, id uuid.UUID, input activity.Input) (domain.Activity, error)
	Delete(ctx context.Context, publisherID, id uuid.UUID) error
	MarkReadyToPublish(ctx context.Context, publisherID, id uuid.UUID, ready bool) error
	Publish(ctx context.Context, publisherID, id uuid.UUID) error
}

type financeLister interface {
	ListTransactions(ctx context.Context, activityID uuid.UUID, limit, offset int) (element.Page[domain.Transaction], error)
	ListBudgets(ctx context.Context, activityID uuid.UUID, limit, offset int) (element.Page[domain.Budget], error)
}

type resultLister interface {
	ListResults(ctx context.Context, activityID uuid.UUID, limit, offset int) (result.Page, error)
	GetResult(ctx context.Context, activityID, id uuid.UUID) (domain.Result, error)
}

type balanceReader interface {
	Get(ctx context.Context, activityID uuid.UUID) (domain.TransactionBalance, error)
}

// ActivityHandler serves activity reads and the writes on the activity
// root. Writes are scoped to the publisher in the path.
type ActivityHandler struct {
	svc      activityService
	finance  financeLister
	results  resultLister
	balances balanceReader
	log      *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(
	svc activityService,
	finance financeLister,
	results resultLister,
	balances balanceReader,
	logger *slog.Logger,
) *ActivityHandler {
	return &ActivityHandler{
		svc:      svc,
		finance:  finance,
		results:  results,
		balances: balances,
		log:      logger.With("handler", "activity"),
	}
}

// activityListItem is an activity of a list page with its batched title
// and stored balance.
type activityListItem struct {
	domain.Activity
	Balance *domain.TransactionBalance `json:"balance,omitempty"`
}

// List handles GET /api/activities.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := activityFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items, err := h.enrich(r.Context(), page.Items)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPage(items, page.Total))
}

// enrich loads titles and balances of a page through the request loaders,
// which collapse the per-item loads into one query each.
func (h *ActivityHandler) enrich(ctx context.Context, activities []domain.Activity) ([]activityListItem, error) {
	loaders := dataloader.FromContext(ctx)
	items := make([]activityListItem, len(activities))

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range activities {
		items[i].Activity = a
		g.Go(func() error {
			title, err := loaders.TitlesByActivityID.Load(gctx, a.ID)()
			if err != nil {
				return err
			}
			items[i].Title = title
			return nil
		})
		g.Go(func() error {
			balance, err := loaders.BalanceByActivityID.Load(gctx, a.ID)()
			if err != nil {
				return err
			}
			items[i].Balance = balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func activityFilter(r *http.Request) (domain.ActivityFilter, error) {
	var (
		filter domain.ActivityFilter
		err    error
	)
	q := r.URL.Query()

	if s := q.Get("publisher"); s != "" {
		id, perr := uuid.Parse(s)
		if perr != nil {
			return filter, domain.NewValidationError("publisher", "must be a UUID")
		}
		filter.PublisherID = &id
	}
	if filter.Modified, err = queryBool(r, "modified"); err != nil {
		return filter, err
	}
	if filter.Published, err = queryBool(r, "published"); err != nil {
		return filter, err
	}
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		return filter, err
	}
	filter.Query = q.Get("q")
	return filter, nil
}

// Detail handles GET /api/activities/{activityID}.
func (h *ActivityHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "activityID")
	if !ok {
		return
	}

	d, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// ByIATIIdentifier handles GET /api/iati-activities/{iatiIdentifier...}. The
// identifier may contain slashes.
func (h *ActivityHandler) ByIATIIdentifier(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetByIATIIdentifier(r.Context(), r.PathValue("iatiIdentifier"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Transactions handles GET /api/activities/{activityID}/transactions.
func (h *ActivityHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, limit, offset, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	page, err := h.finance.ListTransactions(r.Context(), id, limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPage(page.Items, page.Total))
}

// Budgets handles GET /api/activities/{activityID}/budgets.
func (h *ActivityHandler) Budgets(w http.ResponseWriter, r *http.Request) {
	id, limit, offset, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	page, err := h.finance.ListBudgets(r.Context(), id, limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPage(page.Items, page.Total))
}

// Results handles GET /api/activities/{activityID}/results.
func (h *ActivityHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, limit, offset, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	page, err := h.results.ListResults(r.Context(), id, limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPage(page.Items, page.Total))
}

// Result handles GET /api/activities/{activityID}/results/{resultID}.
func (h *ActivityHandler) Result(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "activityID", "resultID")
	if !ok {
		return
	}

	res, err := h.results.GetResult(r.Context(), ids[0], ids[1])
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Balance handles GET /api/activities/{activityID}/balance.
func (h *ActivityHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "activityID")
	if !ok {
		return
	}

	b, err := h.balances.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *ActivityHandler) pageParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, int, bool) {
	id, ok := pathUUID(w, r, "activityID")
	if !ok {
		return uuid.Nil, 0, 0, false
	}
	limit, offset, err := pagination(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return uuid.Nil, 0, 0, false
	}
	return id, limit, offset, true
}

// ---------------------------------------------------------------------------
// Publisher-scoped writes
// ---------------------------------------------------------------------------

// Create handles POST /api/publishers/{publisherID}/activities.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	publisherID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req activityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.svc.Create(r.Context(), publisherID, req.input())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// Update handles PUT /api/publishers/{publisherID}/activities/{activityID}.
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	publisherID, id, ok := h.authorizeActivity(w, r)
	if !ok {
		return
	}

	var req activityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.svc.Update(r.Context(), publisherID, id, req.input())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /api/publishers/{publisherID}/activities/{activityID}.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	publisherID, id, ok := h.authorizeActivity(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), publisherID, id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Ready handles POST .../activities/{activityID}/ready. The body may carry
// {"ready": false} to withdraw the flag; an empty body sets it.
func (h *ActivityHandler) Ready(w http.ResponseWriter, r *http.Request) {
	publisherID, id, ok := h.authorizeActivity(w, r)
	if !ok {
		return
	}

	ready := true
	if r.ContentLength != 0 {
		var req readyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Ready != nil {
			ready = *req.Ready
		}
	}

	if err := h.svc.MarkReadyToPublish(r.Context(), publisherID, id, ready); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST .../activities/{activityID}/publish.
func (h *ActivityHandler) Publish(w http.ResponseWriter, r *http.Request) {
	publisherID, id, ok := h.authorizeActivity(w, r)
	if !ok {
		return
	}

	if err := h.svc.Publish(r.Context(), publisherID, id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// History handles GET .../activities/{activityID}/history?limit=.
func (h *ActivityHandler) History(w http.ResponseWriter, r *http.Request) {
	publisherID, id, ok := h.authorizeActivity(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	records, err := h.svc.History(r.Context(), publisherID, id, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *ActivityHandler) authorize(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return authorizePublisher(h.log, w, r)
}

func (h *ActivityHandler) authorizeActivity(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	publisherID, ok := h.authorize(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := pathUUID(w, r, "activityID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return publisherID, id, true
}

// authorizePublisher parses {publisherID} and checks that the caller may
// act for it.
func authorizePublisher(log *slog.Logger, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	publisherID, ok := pathUUID(w, r, "publisherID")
	if !ok {
		return uuid.Nil, false
	}
	if err := middleware.RequirePublisher(r.Context(), publisherID); err != nil {
		handleError(log, w, r, err)
		return uuid.Nil, false
	}
	return publisherID, true
}
