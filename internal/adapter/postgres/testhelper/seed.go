//go:build integration

package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedPublisher creates a publisher with a dummy key hash.
func SeedPublisher(t *testing.T, pool *pgxpool.Pool) domain.Publisher {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Publisher{
		ID:          uuid.New(),
		IATIID:      "XM-TEST-" + suffix,
		Name:        "publisher-" + suffix,
		DisplayName: "Test Publisher " + suffix,
		APIKeyHash:  "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalid12",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO publishers (id, iati_id, name, display_name, api_key_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.IATIID, p.Name, p.DisplayName, p.APIKeyHash, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPublisher: %v", err)
	}
	return p
}

// SeedActivity creates an activity of publisherID with an English title.
// The activity starts with modified = false so tests can observe the flag.
func SeedActivity(t *testing.T, pool *pgxpool.Pool, publisherID uuid.UUID) domain.Activity {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	a := domain.Activity{
		ID:              uuid.New(),
		PublisherID:     publisherID,
		IATIIdentifier:  "XM-TEST-" + suffix + "-1",
		DefaultLang:     "en",
		DefaultCurrency: "EUR",
		Hierarchy:       1,
		ActivityStatus:  "2",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO activities (id, publisher_id, iati_identifier, default_lang, default_currency,
		                         hierarchy, activity_status, modified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)`,
		a.ID, a.PublisherID, a.IATIIdentifier, a.DefaultLang, a.DefaultCurrency,
		a.Hierarchy, a.ActivityStatus, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity: %v", err)
	}

	title := SeedNarrative(t, pool, a.ID, a.TitleOwner(), "en", "Activity "+suffix)
	a.Title = []domain.Narrative{title}
	return a
}

// SeedNarrative attaches one narrative to owner.
func SeedNarrative(t *testing.T, pool *pgxpool.Pool, activityID uuid.UUID, owner domain.NarrativeOwner, lang, content string) domain.Narrative {
	t.Helper()

	n := domain.Narrative{
		ID:         uuid.New(),
		ActivityID: activityID,
		OwnerType:  owner.Type,
		OwnerID:    owner.ID,
		Language:   lang,
		Content:    content,
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO narratives (id, activity_id, owner_type, owner_id, language, content)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.ActivityID, string(n.OwnerType), n.OwnerID, n.Language, n.Content,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedNarrative: %v", err)
	}
	return n
}

// SeedTransaction creates a transaction of the given type and value in EUR.
func SeedTransaction(t *testing.T, pool *pgxpool.Pool, activityID uuid.UUID, txType string, value string, date time.Time) domain.Transaction {
	t.Helper()

	tx := domain.Transaction{
		ID:              uuid.New(),
		ActivityID:      activityID,
		TransactionType: txType,
		TransactionDate: date.UTC().Truncate(24 * time.Hour),
		Value:           decimal.RequireFromString(value),
		Currency:        "EUR",
	}
	valueDate := tx.TransactionDate
	tx.ValueDate = &valueDate

	_, err := pool.Exec(context.Background(),
		`INSERT INTO transactions (id, activity_id, transaction_type, transaction_date, value, currency, value_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tx.ID, tx.ActivityID, tx.TransactionType, tx.TransactionDate, tx.Value, tx.Currency, tx.ValueDate,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTransaction: %v", err)
	}
	return tx
}

// SeedLocation creates a location with the given ref.
func SeedLocation(t *testing.T, pool *pgxpool.Pool, activityID uuid.UUID, ref string) domain.Location {
	t.Helper()

	loc := domain.Location{ID: uuid.New(), ActivityID: activityID, Ref: ref}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO locations (id, activity_id, ref) VALUES ($1, $2, $3)`,
		loc.ID, loc.ActivityID, loc.Ref,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLocation: %v", err)
	}
	return loc
}

// SeedResult creates a result with one indicator, one period and a target
// value. It returns the ids of every level.
func SeedResult(t *testing.T, pool *pgxpool.Pool, activityID uuid.UUID) (resultID, indicatorID, periodID, valueID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	resultID, indicatorID, periodID, valueID = uuid.New(), uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO results (id, activity_id, type) VALUES ($1, $2, '1')`, []any{resultID, activityID}},
		{`INSERT INTO indicators (id, result_id, measure) VALUES ($1, $2, '1')`, []any{indicatorID, resultID}},
		{`INSERT INTO indicator_periods (id, indicator_id, period_start, period_end) VALUES ($1, $2, $3, $4)`, []any{periodID, indicatorID, start, end}},
		{`INSERT INTO period_values (id, period_id, kind, value) VALUES ($1, $2, 'target', 10)`, []any{valueID, periodID}},
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s.sql, s.args...); err != nil {
			t.Fatalf("testhelper: SeedResult: %v", err)
		}
	}

	SeedNarrative(t, pool, activityID, domain.NarrativeOwner{Type: domain.OwnerResultTitle, ID: resultID}, "en", "Result")
	SeedNarrative(t, pool, activityID, domain.NarrativeOwner{Type: domain.OwnerIndicatorTitle, ID: indicatorID}, "en", "Indicator")
	SeedNarrative(t, pool, activityID, domain.NarrativeOwner{Type: domain.OwnerPeriodTargetComment, ID: valueID}, "en", "Target")
	return resultID, indicatorID, periodID, valueID
}

// ActivityModified reads the modified flag of an activity.
func ActivityModified(t *testing.T, pool *pgxpool.Pool, activityID uuid.UUID) bool {
	t.Helper()

	var modified bool
	err := pool.QueryRow(context.Background(), `SELECT modified FROM activities WHERE id = $1`, activityID).Scan(&modified)
	if err != nil {
		t.Fatalf("testhelper: ActivityModified: %v", err)
	}
	return modified
}
