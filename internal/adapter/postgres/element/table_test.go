package element

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestTable_ValuesMatchColumns(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	counts := map[string][2]int{
		"descriptions":        {len(NewDescriptions(mock).columns), len(NewDescriptions(mock).values(domain.Description{}))},
		"activity_dates":      {len(NewActivityDates(mock).columns), len(NewActivityDates(mock).values(domain.ActivityDate{}))},
		"participating_orgs":  {len(NewParticipatingOrgs(mock).columns), len(NewParticipatingOrgs(mock).values(domain.ParticipatingOrg{}))},
		"recipient_countries": {len(NewRecipientCountries(mock).columns), len(NewRecipientCountries(mock).values(domain.RecipientCountry{}))},
		"recipient_regions":   {len(NewRecipientRegions(mock).columns), len(NewRecipientRegions(mock).values(domain.RecipientRegion{}))},
		"sectors":             {len(NewSectors(mock).columns), len(NewSectors(mock).values(domain.Sector{}))},
		"policy_markers":      {len(NewPolicyMarkers(mock).columns), len(NewPolicyMarkers(mock).values(domain.PolicyMarker{}))},
		"conditions":          {len(NewConditions(mock).columns), len(NewConditions(mock).values(domain.Condition{}))},
		"budgets":             {len(NewBudgets(mock).columns), len(NewBudgets(mock).values(domain.Budget{}))},
		"transactions":        {len(NewTransactions(mock).columns), len(NewTransactions(mock).values(domain.Transaction{}))},
		"document_links":      {len(NewDocumentLinks(mock).columns), len(NewDocumentLinks(mock).values(domain.DocumentLink{}))},
		"locations":           {len(NewLocations(mock).columns), len(NewLocations(mock).values(domain.Location{}))},
	}
	for table, c := range counts {
		assert.Equal(t, c[0], c[1], table)
	}
}

func TestTable_ListByParent_Paginated(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewBudgets(mock)
	activityID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM budgets WHERE activity_id = \$1 ORDER BY period_start, id LIMIT 10 OFFSET 20`).
		WithArgs(activityID.String()).
		WillReturnRows(pgxmock.NewRows(repo.columns).
			AddRow(uuid.New(), activityID, "1", "2", start, end, decimal.RequireFromString("100.00"), "EUR", nil))

	got, err := repo.ListByParent(context.Background(), activityID, 10, 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "EUR", got[0].Currency)
	assert.True(t, got[0].Value.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, got[0].ValueDate)
}

func TestTable_Update_SkipsKeys(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewConditions(mock)
	c := domain.Condition{ID: uuid.New(), ActivityID: uuid.New(), Type: "2"}

	mock.ExpectQuery(`UPDATE conditions SET type = \$1 WHERE id = \$2 RETURNING id, activity_id, type`).
		WithArgs("2", c.ID.String()).
		WillReturnRows(pgxmock.NewRows(repo.columns).AddRow(c.ID, c.ActivityID, "2"))

	got, err := repo.Update(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestTable_Get_NotFound(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewSectors(mock)
	id := uuid.New()

	mock.ExpectQuery(`FROM sectors WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(pgxmock.NewRows(repo.columns))

	_, err := repo.Get(context.Background(), id)

	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestTable_Delete(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewLocations(mock)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM locations WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), id)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAggregates_SectorPercentage(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	agg := NewAggregates(mock)
	activityID, exclude := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT coalesce\(sum\(percentage\), 0\) FROM sectors WHERE activity_id = \$1 AND vocabulary = \$2 AND id <> \$3`).
		WithArgs(activityID.String(), "1", exclude.String()).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("60")))

	got, err := agg.SectorPercentage(context.Background(), activityID, "1", exclude)

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(60)))
}

func TestAggregates_LocationRefExists(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	agg := NewAggregates(mock)
	activityID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM locations WHERE activity_id = \$1 AND ref = \$2 \)`).
		WithArgs(activityID.String(), "LOC-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := agg.LocationRefExists(context.Background(), activityID, "LOC-1")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTable_ListByParents(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewDescriptions(mock)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM descriptions WHERE activity_id IN \(\$1,\$2\) ORDER BY activity_id, id`).
		WithArgs(a, b).
		WillReturnRows(pgxmock.NewRows(repo.columns).
			AddRow(uuid.New(), a, "1").
			AddRow(uuid.New(), b, "2"))

	got, err := repo.ListByParents(context.Background(), []uuid.UUID{a, b})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b, got[1].ActivityID)

	none, err := repo.ListByParents(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}
