package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerMock struct {
	err error
}

func (m *pingerMock) Ping(_ context.Context) error {
	return m.err
}

func TestHealthHandler_Probes(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")

	tests := []struct {
		name       string
		probe      func(h *HealthHandler) http.HandlerFunc
		db         error
		search     pinger
		wantCode   int
		wantStatus string
		wantComps  map[string]string
	}{
		{
			name:       "live ignores database",
			probe:      func(h *HealthHandler) http.HandlerFunc { return h.Live },
			db:         refused,
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "ready database up",
			probe:      func(h *HealthHandler) http.HandlerFunc { return h.Ready },
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "ready database down",
			probe:      func(h *HealthHandler) http.HandlerFunc { return h.Ready },
			db:         refused,
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "down",
		},
		{
			name:       "health without search index",
			probe:      func(h *HealthHandler) http.HandlerFunc { return h.Health },
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantComps:  map[string]string{"database": "ok"},
		},
		{
			name:       "health all up",
			probe:      func(h *HealthHandler) http.HandlerFunc { return h.Health },
			search:     &pingerMock{},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantComps:  map[string]string{"database": "ok", "search_index": "ok"},
		},
		{
			name:       "health search index down degrades",
			probe:      func(h *HealthHandler) http.HandlerFunc { return h.Health },
			search:     &pingerMock{err: errors.New("breaker open")},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
			wantComps:  map[string]string{"database": "ok", "search_index": "degraded"},
		},
		{
			name:       "health database down wins",
			probe:      func(h *HealthHandler) http.HandlerFunc { return h.Health },
			db:         refused,
			search:     &pingerMock{err: refused},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "down",
			wantComps:  map[string]string{"database": "down", "search_index": "degraded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(&pingerMock{err: tt.db}, tt.search, "v1.2.0")
			rec := httptest.NewRecorder()
			tt.probe(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, tt.wantCode, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.False(t, resp.Timestamp.IsZero())

			if tt.wantComps == nil {
				assert.Empty(t, resp.Components)
				return
			}
			assert.Equal(t, "v1.2.0", resp.Version)
			got := make(map[string]string, len(resp.Components))
			for name, c := range resp.Components {
				got[name] = c.Status
				assert.NotEmpty(t, c.Latency, name)
			}
			assert.Equal(t, tt.wantComps, got)
		})
	}
}

func TestHealthHandler_SearchErrorReported(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&pingerMock{}, &pingerMock{err: errors.New("breaker open")}, "v1.2.0")
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "breaker open", resp.Components["search_index"].Error)
	assert.Empty(t, resp.Components["database"].Error)
}

func TestHealthHandler_Legacy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "database up", wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "database down", err: errors.New("refused"), wantCode: http.StatusInternalServerError, wantBody: `{"status":"error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(&pingerMock{err: tt.err}, nil, "v1.2.0")
			rec := httptest.NewRecorder()
			h.Legacy(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
