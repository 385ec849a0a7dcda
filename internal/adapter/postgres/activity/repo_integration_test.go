//go:build integration

package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres/activity"
	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

func TestRepo_CreateUpdateGet(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := activity.New(pool)
	ctx := context.Background()
	pub := testhelper.SeedPublisher(t, pool)

	spend := decimal.RequireFromString("12.50")
	a := domain.Activity{
		ID:             uuid.New(),
		PublisherID:    pub.ID,
		IATIIdentifier: pub.IATIID + "-A1",
		DefaultLang:    "en",
		Hierarchy:      1,
		CapitalSpend:   &spend,
	}

	created, err := repo.Create(ctx, a)
	require.NoError(t, err)
	assert.True(t, created.Modified)
	assert.False(t, created.Published)
	require.NotNil(t, created.CapitalSpend)
	assert.True(t, spend.Equal(*created.CapitalSpend))

	_, err = repo.Create(ctx, domain.Activity{ID: uuid.New(), PublisherID: pub.ID, IATIIdentifier: a.IATIIdentifier, Hierarchy: 1})
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists), "got %v", err)

	created.DefaultCurrency = "USD"
	created.CapitalSpend = nil
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "USD", updated.DefaultCurrency)
	assert.Nil(t, updated.CapitalSpend)

	byIdent, err := repo.GetByIATIIdentifier(ctx, a.IATIIdentifier)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byIdent.ID)
}

func TestRepo_ModifiedLifecycle(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := activity.New(pool)
	ctx := context.Background()
	pub := testhelper.SeedPublisher(t, pool)
	act := testhelper.SeedActivity(t, pool, pub.ID)

	require.NoError(t, repo.MarkModified(ctx, act.ID))
	stored, err := repo.GetByID(ctx, act.ID)
	require.NoError(t, err)
	require.True(t, stored.Modified)

	// A write after the read makes the guarded clear a no-op.
	require.NoError(t, repo.MarkModified(ctx, act.ID))
	cleared, err := repo.ClearModified(ctx, act.ID, stored.UpdatedAt)
	require.NoError(t, err)
	assert.False(t, cleared)

	fresh, err := repo.GetByID(ctx, act.ID)
	require.NoError(t, err)
	cleared, err = repo.ClearModified(ctx, act.ID, fresh.UpdatedAt)
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.False(t, testhelper.ActivityModified(t, pool, act.ID))
}

func TestRepo_List(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := activity.New(pool)
	ctx := context.Background()
	pub := testhelper.SeedPublisher(t, pool)
	for i := 0; i < 3; i++ {
		testhelper.SeedActivity(t, pool, pub.ID)
	}

	page, err := repo.List(ctx, domain.ActivityFilter{PublisherID: &pub.ID, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)

	published := true
	page, err = repo.List(ctx, domain.ActivityFilter{PublisherID: &pub.ID, Published: &published, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestRepo_Publish(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := activity.New(pool)
	ctx := context.Background()
	pub := testhelper.SeedPublisher(t, pool)
	act := testhelper.SeedActivity(t, pool, pub.ID)

	require.NoError(t, repo.SetReadyToPublish(ctx, act.ID, true))
	require.NoError(t, repo.Publish(ctx, act.ID))

	got, err := repo.GetByID(ctx, act.ID)
	require.NoError(t, err)
	assert.True(t, got.Published)
	assert.False(t, got.ReadyToPublish)
	assert.NotNil(t, got.LastUpdatedDatetime)

	err = repo.Publish(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
