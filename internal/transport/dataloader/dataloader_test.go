package dataloader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	dl "github.com/heartmarshall/iati-publisher/internal/transport/dataloader"
)

// ---------------------------------------------------------------------------
// Mock repos
// ---------------------------------------------------------------------------

type mockNarrativeRepo struct {
	result []domain.Narrative
	err    error
	owners [][]domain.NarrativeOwner
}

func (m *mockNarrativeRepo) ListByOwners(_ context.Context, owners []domain.NarrativeOwner) ([]domain.Narrative, error) {
	m.owners = append(m.owners, owners)
	return m.result, m.err
}

type mockBalanceRepo struct {
	result []domain.TransactionBalance
	err    error
}

func (m *mockBalanceRepo) ListByActivityIDs(_ context.Context, _ []uuid.UUID) ([]domain.TransactionBalance, error) {
	return m.result, m.err
}

func emptyRepos() *dl.Repos {
	return &dl.Repos{
		Narratives: &mockNarrativeRepo{},
		Balances:   &mockBalanceRepo{},
	}
}

// ---------------------------------------------------------------------------
// Context / Middleware tests
// ---------------------------------------------------------------------------

func TestFromContext_ReturnsLoaders(t *testing.T) {
	loaders := dl.NewLoaders(emptyRepos())
	ctx := dl.WithLoaders(context.Background(), loaders)

	assert.Equal(t, loaders, dl.FromContext(ctx))
}

func TestFromContext_PanicsWhenMissing(t *testing.T) {
	assert.Panics(t, func() {
		dl.FromContext(context.Background())
	})
}

func TestMiddleware_InjectsLoaders(t *testing.T) {
	var gotLoaders *dl.Loaders
	handler := dl.Middleware(emptyRepos())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotLoaders = dl.FromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/activities", nil))

	require.NotNil(t, gotLoaders)
	assert.NotNil(t, gotLoaders.TitlesByActivityID)
	assert.NotNil(t, gotLoaders.BalanceByActivityID)
}

// ---------------------------------------------------------------------------
// Batch function tests
// ---------------------------------------------------------------------------

func TestTitlesLoader_GroupsByActivityID(t *testing.T) {
	a1, a2 := uuid.New(), uuid.New()
	repo := &mockNarrativeRepo{
		result: []domain.Narrative{
			{ID: uuid.New(), OwnerType: domain.OwnerActivityTitle, OwnerID: a1, Language: "en", Content: "Water"},
			{ID: uuid.New(), OwnerType: domain.OwnerActivityTitle, OwnerID: a1, Language: "fr", Content: "Eau"},
			{ID: uuid.New(), OwnerType: domain.OwnerActivityTitle, OwnerID: a2, Content: "Schools"},
		},
	}
	repos := emptyRepos()
	repos.Narratives = repo

	loaders := dl.NewLoaders(repos)
	ctx := context.Background()

	t1 := loaders.TitlesByActivityID.Load(ctx, a1)
	t2 := loaders.TitlesByActivityID.Load(ctx, a2)

	got1, err := t1()
	require.NoError(t, err)
	assert.Len(t, got1, 2)

	got2, err := t2()
	require.NoError(t, err)
	assert.Len(t, got2, 1)

	require.Len(t, repo.owners, 1, "both keys should be served by one batch")
	assert.ElementsMatch(t, []domain.NarrativeOwner{
		{Type: domain.OwnerActivityTitle, ID: a1},
		{Type: domain.OwnerActivityTitle, ID: a2},
	}, repo.owners[0])
}

func TestTitlesLoader_EmptyResult(t *testing.T) {
	loaders := dl.NewLoaders(emptyRepos())

	result, err := loaders.TitlesByActivityID.Load(context.Background(), uuid.New())()
	require.NoError(t, err)
	assert.NotNil(t, result, "should return empty slice, not nil")
	assert.Empty(t, result)
}

func TestTitlesLoader_PropagatesError(t *testing.T) {
	repos := emptyRepos()
	repos.Narratives = &mockNarrativeRepo{err: domain.ErrNotFound}

	_, err := dl.NewLoaders(repos).TitlesByActivityID.Load(context.Background(), uuid.New())()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBalanceLoader_NullableResult(t *testing.T) {
	withBalance, without := uuid.New(), uuid.New()
	repos := emptyRepos()
	repos.Balances = &mockBalanceRepo{
		result: []domain.TransactionBalance{{ActivityID: withBalance, Currency: "EUR", TotalBudget: decimal.NewFromInt(5)}},
	}

	loaders := dl.NewLoaders(repos)
	ctx := context.Background()

	got, err := loaders.BalanceByActivityID.Load(ctx, withBalance)()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "EUR", got.Currency)

	got, err = loaders.BalanceByActivityID.Load(ctx, without)()
	require.NoError(t, err)
	assert.Nil(t, got)
}
