package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/publisher"
	"github.com/heartmarshall/iati-publisher/internal/transport/middleware"
)

type publisherService interface {
	Create(ctx context.Context, input publisher.Input) (publisher.Created, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Publisher, error)
	List(ctx context.Context) ([]domain.Publisher, error)
	Update(ctx context.Context, id uuid.UUID, input publisher.Input) (domain.Publisher, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RotateKey(ctx context.Context, id uuid.UUID) (string, error)
}

// PublisherHandler serves publisher management. Everything but Get is
// restricted to administrators.
type PublisherHandler struct {
	svc publisherService
	log *slog.Logger
}

// NewPublisherHandler creates a PublisherHandler.
func NewPublisherHandler(svc publisherService, logger *slog.Logger) *PublisherHandler {
	return &PublisherHandler{svc: svc, log: logger.With("handler", "publisher")}
}

// createdPublisherResponse carries the API key, which is shown only once.
type createdPublisherResponse struct {
	domain.Publisher
	APIKey string `json:"api_key"`
}

type apiKeyResponse struct {
	APIKey string `json:"api_key"`
}

// Create handles POST /api/admin/publishers.
func (h *PublisherHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req publisherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdPublisherResponse{Publisher: created.Publisher, APIKey: created.APIKey})
}

// List handles GET /api/admin/publishers.
func (h *PublisherHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	publishers, err := h.svc.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if publishers == nil {
		publishers = []domain.Publisher{}
	}

	writeJSON(w, http.StatusOK, publishers)
}

// Get handles GET /api/publishers/{publisherID}.
func (h *PublisherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "publisherID")
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /api/publishers/{publisherID}.
func (h *PublisherHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	id, ok := pathUUID(w, r, "publisherID")
	if !ok {
		return
	}

	var req publisherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), id, req.input())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/publishers/{publisherID}.
func (h *PublisherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	id, ok := pathUUID(w, r, "publisherID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RotateKey handles POST /api/admin/publishers/{publisherID}/api-key.
func (h *PublisherHandler) RotateKey(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	id, ok := pathUUID(w, r, "publisherID")
	if !ok {
		return
	}

	key, err := h.svc.RotateKey(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apiKeyResponse{APIKey: key})
}
