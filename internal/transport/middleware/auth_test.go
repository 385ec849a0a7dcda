package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/pkg/ctxutil"
)

//go:generate moq -out token_validator_mock_test.go -pkg middleware . tokenValidator

func TestAuth_ValidToken(t *testing.T) {
	publisherID := uuid.New()
	validator := &tokenValidatorMock{
		ValidateTokenFunc: func(ctx context.Context, token string) (uuid.UUID, domain.Role, error) {
			if token == "valid-token" {
				return publisherID, domain.RolePublisher, nil
			}
			return uuid.Nil, "", errors.New("invalid token")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := ctxutil.PublisherIDFromCtx(r.Context())
		if !ok {
			t.Error("expected publisherID in context")
			return
		}
		if got != publisherID {
			t.Errorf("expected publisherID %v, got %v", publisherID, got)
		}
		if role := ctxutil.RoleFromCtx(r.Context()); role != "publisher" {
			t.Errorf("expected role publisher, got %q", role)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	Auth(validator)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAuth_AdminToken(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateTokenFunc: func(context.Context, string) (uuid.UUID, domain.Role, error) {
			return uuid.Nil, domain.RoleAdmin, nil
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ctxutil.IsAdminCtx(r.Context()) {
			t.Error("expected admin context")
		}
		if _, ok := ctxutil.PublisherIDFromCtx(r.Context()); ok {
			t.Error("expected no publisher for the admin token")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-secret")
	rec := httptest.NewRecorder()

	Auth(validator)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateTokenFunc: func(context.Context, string) (uuid.UUID, domain.Role, error) {
			return uuid.Nil, "", errors.New("invalid token")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()

	Auth(validator)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if body := rec.Body.String(); body != "{\"error\":\"unauthorized\"}\n" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestAuth_Anonymous(t *testing.T) {
	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Bearer "} {
		validator := &tokenValidatorMock{}
		called := false

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if _, ok := ctxutil.PublisherIDFromCtx(r.Context()); ok {
				t.Errorf("header %q: expected anonymous request", header)
			}
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		Auth(validator)(handler).ServeHTTP(rec, req)

		if !called || rec.Code != http.StatusOK {
			t.Errorf("header %q: expected pass-through, got status %d", header, rec.Code)
		}
		if len(validator.ValidateTokenCalls()) > 0 {
			t.Errorf("header %q: ValidateToken should not be called", header)
		}
	}
}

func TestExtractBearerToken_Cases(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer with token", "Bearer valid-token", "valid-token"},
		{"bearer lowercase", "bearer valid-token", "valid-token"},
		{"bearer mixed case", "BEARER valid-token", "valid-token"},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
		{"bearer no space", "Bearertoken", ""},
		{"bearer empty token", "Bearer ", ""},
		{"just bearer", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := extractBearerToken(req); got != tc.want {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
