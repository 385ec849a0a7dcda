//go:build integration

package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	pub := SeedPublisher(t, pool)
	act := SeedActivity(t, pool, pub.ID)

	var identifier string
	err := pool.QueryRow(
		context.Background(),
		`SELECT iati_identifier FROM activities WHERE id = $1`,
		act.ID,
	).Scan(&identifier)
	if err != nil {
		t.Fatalf("expected activity in DB, got error: %v", err)
	}
	if identifier != act.IATIIdentifier {
		t.Fatalf("expected identifier %q, got %q", act.IATIIdentifier, identifier)
	}

	var codes int
	if err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM code_list_items WHERE list = 'Country'`).Scan(&codes); err != nil {
		t.Fatalf("count code lists: %v", err)
	}
	if codes == 0 {
		t.Fatal("expected bundled code lists to be seeded")
	}
}
