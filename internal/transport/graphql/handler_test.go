package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/transport/dataloader"
)

// ---------------------------------------------------------------------------
// Test mocks (minimal, inline)
// ---------------------------------------------------------------------------

type activityServiceMock struct {
	GetFunc                 func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	GetByIATIIdentifierFunc func(ctx context.Context, identifier string) (domain.Activity, error)
	ListFunc                func(ctx context.Context, filter domain.ActivityFilter) (domain.ActivityPage, error)
	DetailFunc              func(ctx context.Context, id uuid.UUID) (domain.ActivityDetail, error)

	detailCalls atomic.Int32
}

func (m *activityServiceMock) Get(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.GetFunc(ctx, id)
}

func (m *activityServiceMock) GetByIATIIdentifier(ctx context.Context, identifier string) (domain.Activity, error) {
	return m.GetByIATIIdentifierFunc(ctx, identifier)
}

func (m *activityServiceMock) List(ctx context.Context, filter domain.ActivityFilter) (domain.ActivityPage, error) {
	return m.ListFunc(ctx, filter)
}

func (m *activityServiceMock) Detail(ctx context.Context, id uuid.UUID) (domain.ActivityDetail, error) {
	m.detailCalls.Add(1)
	return m.DetailFunc(ctx, id)
}

type narrativeRepoMock struct {
	titles map[uuid.UUID][]domain.Narrative
	calls  atomic.Int32
}

func (m *narrativeRepoMock) ListByOwners(_ context.Context, owners []domain.NarrativeOwner) ([]domain.Narrative, error) {
	m.calls.Add(1)
	var out []domain.Narrative
	for _, o := range owners {
		out = append(out, m.titles[o.ID]...)
	}
	return out, nil
}

type balanceRepoMock struct {
	balances []domain.TransactionBalance
	calls    atomic.Int32
}

func (m *balanceRepoMock) ListByActivityIDs(_ context.Context, ids []uuid.UUID) ([]domain.TransactionBalance, error) {
	m.calls.Add(1)
	var out []domain.TransactionBalance
	for _, b := range m.balances {
		if slices.Contains(ids, b.ActivityID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type gqlError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path"`
	Extensions map[string]any `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func newServer(svc *activityServiceMock, narratives *narrativeRepoMock, balances *balanceRepoMock) http.Handler {
	if narratives == nil {
		narratives = &narrativeRepoMock{}
	}
	if balances == nil {
		balances = &balanceRepoMock{}
	}
	h := NewHandler(NewResolver(svc), slog.New(slog.DiscardHandler))
	return dataloader.Middleware(&dataloader.Repos{Narratives: narratives, Balances: balances})(h)
}

func post(t *testing.T, h http.Handler, query string, vars map[string]any) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp gqlResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp), rec.Body.String())
	return resp
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var (
	act1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	act2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	act3 = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestActivities_BatchesTitlesAndBalances(t *testing.T) {
	t.Parallel()

	var got domain.ActivityFilter
	svc := &activityServiceMock{
		ListFunc: func(_ context.Context, f domain.ActivityFilter) (domain.ActivityPage, error) {
			got = f
			return domain.ActivityPage{Total: 7, Items: []domain.Activity{
				{ID: act1, IATIIdentifier: "XM-1"},
				{ID: act2, IATIIdentifier: "XM-2"},
				{ID: act3, IATIIdentifier: "XM-3"},
			}}, nil
		},
	}
	narratives := &narrativeRepoMock{titles: map[uuid.UUID][]domain.Narrative{
		act1: {{OwnerType: domain.OwnerActivityTitle, OwnerID: act1, Language: "en", Content: "Water"}},
		act3: {{OwnerType: domain.OwnerActivityTitle, OwnerID: act3, Language: "fr", Content: "Eau"}},
	}}
	balances := &balanceRepoMock{balances: []domain.TransactionBalance{
		{ActivityID: act1, Currency: "EUR", TotalBudget: decimal.RequireFromString("100.50")},
	}}

	resp := post(t, newServer(svc, narratives, balances), `{
		activities(limit: 3, offset: 3, filter: {published: true, query: "XM"}) {
			total
			items { iatiIdentifier title { language content } balance { currency totalBudget } }
		}
	}`, nil)

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"activities": {"total": 7, "items": [
		{"iatiIdentifier": "XM-1", "title": [{"language": "en", "content": "Water"}], "balance": {"currency": "EUR", "totalBudget": "100.5"}},
		{"iatiIdentifier": "XM-2", "title": [], "balance": null},
		{"iatiIdentifier": "XM-3", "title": [{"language": "fr", "content": "Eau"}], "balance": null}
	]}}`, string(resp.Data))

	assert.Equal(t, int32(1), narratives.calls.Load())
	assert.Equal(t, int32(1), balances.calls.Load())

	published := true
	assert.Equal(t, domain.ActivityFilter{Published: &published, Query: "XM", Limit: 3, Offset: 3}, got)
}

func TestActivities_SkipsLoadersWhenNotSelected(t *testing.T) {
	t.Parallel()

	svc := &activityServiceMock{
		ListFunc: func(context.Context, domain.ActivityFilter) (domain.ActivityPage, error) {
			return domain.ActivityPage{Total: 1, Items: []domain.Activity{{ID: act1}}}, nil
		},
	}
	narratives, balances := &narrativeRepoMock{}, &balanceRepoMock{}

	resp := post(t, newServer(svc, narratives, balances), `{ activities { items { id } } }`, nil)

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"activities": {"items": [{"id": "`+act1.String()+`"}]}}`, string(resp.Data))
	assert.Zero(t, narratives.calls.Load())
	assert.Zero(t, balances.calls.Load())
}

func TestActivity_NestedChildrenReadDetailOnce(t *testing.T) {
	t.Parallel()

	svc := &activityServiceMock{
		GetFunc: func(_ context.Context, id uuid.UUID) (domain.Activity, error) {
			return domain.Activity{ID: id, IATIIdentifier: "XM-1", Hierarchy: 1}, nil
		},
		DetailFunc: func(_ context.Context, id uuid.UUID) (domain.ActivityDetail, error) {
			return domain.ActivityDetail{
				Activity: domain.Activity{ID: id},
				Sectors: []domain.Sector{{
					Code: "11110", Vocabulary: "1", Percentage: dec("60"),
					Narratives: []domain.Narrative{{Content: "Education policy"}},
				}},
				Budgets: []domain.Budget{{
					Type: "1", Status: "2", PeriodStart: date(2026, 1, 1), PeriodEnd: date(2026, 12, 31),
					Value: decimal.RequireFromString("2500.00"),
				}},
				Results: []domain.Result{{
					Type:  "1",
					Title: []domain.Narrative{{Language: "en", Content: "Access to water"}},
					Indicators: []domain.Indicator{{
						Measure: "1",
						Periods: []domain.Period{{
							PeriodStart: date(2026, 1, 1),
							Targets:     []domain.PeriodValue{{Value: dec("10")}},
						}},
					}},
				}},
				TransactionsNotice: "too many",
				Aggregation:        domain.Aggregation{Budget: decimal.NewFromInt(2500)},
			}, nil
		},
	}

	resp := post(t, newServer(svc, nil, nil), `query($id: UUID!) {
		activity(id: $id) {
			__typename
			iatiIdentifier
			hierarchy
			sectors { code percentage narratives { content } }
			budgets { periodStart value currency }
			results { title { content } indicators { measure periods { periodStart targets { value } } } }
			budgetsNotice
			transactionsNotice
			aggregation { budget }
		}
	}`, map[string]any{"id": act1.String()})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"activity": {
		"__typename": "Activity",
		"iatiIdentifier": "XM-1",
		"hierarchy": 1,
		"sectors": [{"code": "11110", "percentage": "60", "narratives": [{"content": "Education policy"}]}],
		"budgets": [{"periodStart": "2026-01-01", "value": "2500", "currency": null}],
		"results": [{"title": [{"content": "Access to water"}], "indicators": [
			{"measure": "1", "periods": [{"periodStart": "2026-01-01", "targets": [{"value": "10"}]}]}
		]}],
		"budgetsNotice": null,
		"transactionsNotice": "too many",
		"aggregation": {"budget": "2500"}
	}}`, string(resp.Data))
	assert.Equal(t, int32(1), svc.detailCalls.Load())
}

func TestActivity_NotFound(t *testing.T) {
	t.Parallel()

	svc := &activityServiceMock{
		GetFunc: func(context.Context, uuid.UUID) (domain.Activity, error) {
			return domain.Activity{}, domain.ErrNotFound
		},
	}

	resp := post(t, newServer(svc, nil, nil), `{ activity(id: "`+act2.String()+`") { id } }`, nil)

	assert.JSONEq(t, `{"activity": null}`, string(resp.Data))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NOT_FOUND", resp.Errors[0].Extensions["code"])
	assert.Equal(t, []any{"activity"}, resp.Errors[0].Path)
}

func TestActivityByIdentifier(t *testing.T) {
	t.Parallel()

	svc := &activityServiceMock{
		GetByIATIIdentifierFunc: func(_ context.Context, identifier string) (domain.Activity, error) {
			return domain.Activity{ID: act3, IATIIdentifier: identifier}, nil
		},
	}

	resp := post(t, newServer(svc, nil, nil), `{ activityByIdentifier(iatiIdentifier: "XM/1") { id iatiIdentifier } }`, nil)

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"activityByIdentifier": {"id": "`+act3.String()+`", "iatiIdentifier": "XM/1"}}`, string(resp.Data))
}

func TestActivities_InvalidFilterNullsRoot(t *testing.T) {
	t.Parallel()

	svc := &activityServiceMock{}

	resp := post(t, newServer(svc, nil, nil), `query($f: ActivityFilter) { activities(filter: $f) { total } }`,
		map[string]any{"f": map[string]any{"publisherId": "not-a-uuid"}})

	assert.JSONEq(t, `null`, string(resp.Data))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "VALIDATION", resp.Errors[0].Extensions["code"])
	assert.Equal(t, map[string]any{"filter.publisherId": "must be a UUID"}, resp.Errors[0].Extensions["fields"])
}

func TestHandler_RejectsMutations(t *testing.T) {
	t.Parallel()

	resp := post(t, newServer(&activityServiceMock{}, nil, nil), `mutation { deleteActivity(id: "x") }`, nil)

	require.NotEmpty(t, resp.Errors)
	assert.NotEqual(t, "INTERNAL", resp.Errors[0].Extensions["code"])
}

func TestHandler_GET(t *testing.T) {
	t.Parallel()

	svc := &activityServiceMock{
		ListFunc: func(context.Context, domain.ActivityFilter) (domain.ActivityPage, error) {
			return domain.ActivityPage{}, nil
		},
	}

	q := url.Values{"query": {`{ activities { total items { id } } }`}}
	rec := httptest.NewRecorder()
	newServer(svc, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphql?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data": {"activities": {"total": 0, "items": []}}}`, rec.Body.String())
}
