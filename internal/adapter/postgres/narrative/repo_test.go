package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func narrativeRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "activity_id", "owner_type", "owner_id", "language", "content"})
}

func TestRepo_ListByOwner(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	activityID, ownerID := uuid.New(), uuid.New()
	owner := domain.NarrativeOwner{Type: domain.OwnerDescription, ID: ownerID}
	id1, id2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM narratives WHERE owner_id = \$1 AND owner_type = \$2 ORDER BY position, id`).
		WithArgs(ownerID.String(), domain.OwnerDescription).
		WillReturnRows(narrativeRows().
			AddRow(id1, activityID, domain.OwnerDescription, ownerID, "en", "Water").
			AddRow(id2, activityID, domain.OwnerDescription, ownerID, "fr", "Eau"))

	got, err := repo.ListByOwner(context.Background(), owner)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Water", got[0].Content)
	assert.Equal(t, "fr", got[1].Language)
	assert.Equal(t, owner, got[1].Owner())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListByOwners_Empty(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	got, err := repo.ListByOwners(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListByOwners(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	a, b := uuid.New(), uuid.New()
	owners := []domain.NarrativeOwner{
		{Type: domain.OwnerTransactionDescription, ID: a},
		{Type: domain.OwnerTransactionProvider, ID: b},
	}

	mock.ExpectQuery("JOIN unnest").
		WithArgs(
			[]string{"transaction_description", "transaction_provider"},
			[]uuid.UUID{a, b},
		).
		WillReturnRows(narrativeRows().
			AddRow(uuid.New(), uuid.New(), domain.OwnerTransactionDescription, a, "", "Payment"))

	got, err := repo.ListByOwners(context.Background(), owners)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a, got[0].OwnerID)
}

func TestRepo_Create(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	activityID, ownerID := uuid.New(), uuid.New()
	n1 := domain.Narrative{ID: uuid.New(), ActivityID: activityID, OwnerType: domain.OwnerActivityTitle, OwnerID: ownerID, Language: "en", Content: "Title"}
	n2 := domain.Narrative{ID: uuid.New(), ActivityID: activityID, OwnerType: domain.OwnerActivityTitle, OwnerID: ownerID, Language: "fr", Content: "Titre"}

	mock.ExpectExec(`INSERT INTO narratives \(id,activity_id,owner_type,owner_id,language,content,position\)`).
		WithArgs(
			n1.ID, activityID, domain.OwnerActivityTitle, ownerID, "en", "Title", 2,
			n2.ID, activityID, domain.OwnerActivityTitle, ownerID, "fr", "Titre", 3,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	err := repo.Create(context.Background(), []domain.Narrative{n1, n2}, 2)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Update_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	owner := domain.NarrativeOwner{Type: domain.OwnerSector, ID: uuid.New()}
	n := domain.Narrative{ID: uuid.New(), Language: "en", Content: "x"}

	mock.ExpectExec("UPDATE narratives SET language = \\$1, content = \\$2, position = \\$3").
		WithArgs("en", "x", 0, n.ID.String(), owner.ID.String(), domain.OwnerSector).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), owner, n, 0)

	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestRepo_DeleteByOwner(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	a, b := uuid.New(), uuid.New()
	mock.ExpectExec(`DELETE FROM narratives WHERE \(owner_id = \$1 AND owner_type = \$2 OR owner_id = \$3 AND owner_type = \$4\)`).
		WithArgs(a.String(), domain.OwnerLocationName, b.String(), domain.OwnerLocationDescription).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteByOwner(context.Background(),
		domain.NarrativeOwner{Type: domain.OwnerLocationName, ID: a},
		domain.NarrativeOwner{Type: domain.OwnerLocationDescription, ID: b},
	)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestDeleteOrphansQuery_CoversEveryOwnerTable(t *testing.T) {
	t.Parallel()

	sql, args, err := deleteOrphansQuery(uuid.New()).ToSql()
	require.NoError(t, err)

	for _, table := range []string{"activities", "results", "indicators", "indicator_baselines", "period_values", "transactions"} {
		assert.Contains(t, sql, "FROM "+table+" t WHERE t.id = n.owner_id", "missing %s", table)
	}
	assert.True(t, strings.HasPrefix(sql, "DELETE FROM narratives n WHERE n.activity_id = $1"), sql)
	// activity id plus one arg per owner type
	assert.Len(t, args, 1+len(ownerTables))
}

func TestOwnerTables_CoverAllOwnerTypes(t *testing.T) {
	t.Parallel()

	for ownerType := range ownerTables {
		assert.True(t, ownerType.IsValid(), "%s", ownerType)
	}
	for _, ot := range []domain.NarrativeOwnerType{
		domain.OwnerActivityTitle, domain.OwnerPeriodActualComment, domain.OwnerLocationActivityDescription,
	} {
		_, ok := ownerTables[ot]
		assert.True(t, ok, "%s", ot)
	}
}
