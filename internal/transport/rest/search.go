package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/search"
)

type searchService interface {
	Search(ctx context.Context, q search.Query) ([]domain.SearchDocument, error)
}

// SearchHandler serves full text search over the search index.
type SearchHandler struct {
	svc searchService
	log *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc searchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, log: logger.With("handler", "search")}
}

type searchResponse struct {
	Kind  string                  `json:"kind"`
	Query string                  `json:"q"`
	Items []domain.SearchDocument `json:"items"`
}

// Search handles GET /api/search?kind=&q=&limit=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	q := search.Query{
		Kind:  r.URL.Query().Get("kind"),
		Text:  r.URL.Query().Get("q"),
		Limit: limit,
	}
	docs, err := h.svc.Search(r.Context(), q)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if docs == nil {
		docs = []domain.SearchDocument{}
	}

	kind := q.Kind
	if kind == "" {
		kind = domain.SearchKindActivity.String()
	}
	writeJSON(w, http.StatusOK, searchResponse{Kind: kind, Query: q.Text, Items: docs})
}
