package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

type codeListService interface {
	Lists(ctx context.Context) ([]domain.CodeListSummary, error)
	List(ctx context.Context, list, vocabulary string) ([]domain.CodeListItem, error)
}

// CodeListHandler serves the read-only code list endpoints.
type CodeListHandler struct {
	svc codeListService
	log *slog.Logger
}

// NewCodeListHandler creates a CodeListHandler.
func NewCodeListHandler(svc codeListService, logger *slog.Logger) *CodeListHandler {
	return &CodeListHandler{svc: svc, log: logger.With("handler", "codelist")}
}

// Lists handles GET /api/codelists.
func (h *CodeListHandler) Lists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.Lists(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if lists == nil {
		lists = []domain.CodeListSummary{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// List handles GET /api/codelists/{list}?vocabulary=.
func (h *CodeListHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.PathValue("list"), r.URL.Query().Get("vocabulary"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
