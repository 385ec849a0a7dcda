package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/pkg/ctxutil"
)

func TestRequestID_ReuseIncoming(t *testing.T) {
	incomingID := uuid.New().String()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := ctxutil.RequestIDFromCtx(r.Context()); got != incomingID {
			t.Errorf("expected requestID %s, got %s", incomingID, got)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incomingID)
	rec := httptest.NewRecorder()

	RequestID()(handler).ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != incomingID {
		t.Errorf("expected response header %s, got %s", incomingID, got)
	}
}

func TestRequestID_Generated(t *testing.T) {
	for _, incoming := range []string{"", strings.Repeat("x", maxRequestIDLen+1)} {
		var ctxID string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxID = ctxutil.RequestIDFromCtx(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if incoming != "" {
			req.Header.Set(RequestIDHeader, incoming)
		}
		rec := httptest.NewRecorder()

		RequestID()(handler).ServeHTTP(rec, req)

		if _, err := uuid.Parse(ctxID); err != nil {
			t.Errorf("expected generated UUID, got %q", ctxID)
		}
		if got := rec.Header().Get(RequestIDHeader); got != ctxID {
			t.Errorf("expected response header %q, got %q", ctxID, got)
		}
	}
}
