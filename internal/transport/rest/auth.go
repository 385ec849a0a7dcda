package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/service/auth"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	IssueToken(ctx context.Context, input auth.TokenInput) (auth.TokenResult, error)
}

// AuthHandler serves the token endpoint.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	PublisherID uuid.UUID `json:"publisher_id"`
	Role        string    `json:"role"`
}

// Token handles POST /api/auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.IssueToken(r.Context(), auth.TokenInput{
		Publisher: req.Publisher,
		APIKey:    req.APIKey,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		PublisherID: result.PublisherID,
		Role:        result.Role.String(),
	})
}
