package codelist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

type mockResolver struct {
	got     []domain.CodeRef
	missing []domain.CodeRef
	err     error
}

func (m *mockResolver) Resolve(_ context.Context, refs []domain.CodeRef) ([]domain.CodeRef, error) {
	m.got = refs
	return m.missing, m.err
}

func TestChecker_Require_Scoping(t *testing.T) {
	t.Parallel()
	res := &mockResolver{}
	c := NewChecker(res)

	c.Require("activity_status", domain.ListActivityStatus, "ignored", "2")
	c.Require("sector", domain.ListSector, "", "11110")
	c.Require("sector", domain.ListSector, "2", "111")
	c.Require("sector", domain.ListSector, "99", "ANYTHING")
	c.Require("sector", domain.ListSector, "7", "whatever")
	c.Require("currency", domain.ListCurrency, "", "")

	_, err := c.Check(context.Background())
	require.NoError(t, err)

	want := []domain.CodeRef{
		{List: domain.ListActivityStatus, Code: "2"},
		{List: domain.ListSector, Vocabulary: "1", Code: "11110"},
		{List: domain.ListSector, Vocabulary: "2", Code: "111"},
	}
	if diff := cmp.Diff(want, res.got); diff != "" {
		t.Errorf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestChecker_Require_TrimsWhitespace(t *testing.T) {
	t.Parallel()
	res := &mockResolver{}
	c := NewChecker(res)

	c.Require("type", domain.ListDescriptionType, "", " 1 ")
	c.Require("sector", domain.ListSector, " 2 ", "\t111\n")
	c.Require("currency", domain.ListCurrency, "", "   ")

	_, err := c.Check(context.Background())
	require.NoError(t, err)

	want := []domain.CodeRef{
		{List: domain.ListDescriptionType, Code: "1"},
		{List: domain.ListSector, Vocabulary: "2", Code: "111"},
	}
	if diff := cmp.Diff(want, res.got); diff != "" {
		t.Errorf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestChecker_Check_ReportsEveryField(t *testing.T) {
	t.Parallel()
	bad := domain.CodeRef{List: domain.ListCountry, Code: "XX"}
	res := &mockResolver{missing: []domain.CodeRef{bad}}
	c := NewChecker(res)

	c.Require("recipient_country", domain.ListCountry, "", "XX")
	c.Require("default_currency", domain.ListCurrency, "", "EUR")
	c.RequireAll("languages", domain.ListLanguage, []string{"en", "fr"})
	c.Require("receiver_country", domain.ListCountry, "", "XX")

	errs, err := c.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.FieldError{
		{Field: "recipient_country", Message: `unknown code "XX" in Country`},
		{Field: "receiver_country", Message: `unknown code "XX" in Country`},
	}, errs)
	assert.Len(t, res.got, 5)
}

func TestChecker_Check_Empty(t *testing.T) {
	t.Parallel()
	res := &mockResolver{err: errors.New("must not be called")}

	errs, err := NewChecker(res).Check(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, errs)
	assert.Nil(t, res.got)
}

func TestChecker_Check_ResolverError(t *testing.T) {
	t.Parallel()
	res := &mockResolver{err: errors.New("db down")}
	c := NewChecker(res)
	c.Require("scope", domain.ListActivityScope, "", "1")

	_, err := c.Check(context.Background())

	assert.ErrorContains(t, err, "db down")
}

func TestChecker_Err_MergesInputAndCodeErrors(t *testing.T) {
	t.Parallel()
	res := &mockResolver{missing: []domain.CodeRef{{List: domain.ListCurrency, Code: "ZZZ"}}}
	c := NewChecker(res)
	c.Require("default_currency", domain.ListCurrency, "", "ZZZ")

	err := c.Err(context.Background(), []domain.FieldError{{Field: "hierarchy", Message: "must be at least 1"}})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{
		"hierarchy":        "must be at least 1",
		"default_currency": `unknown code "ZZZ" in Currency`,
	}, ve.Fields())
}

func TestChecker_Err_NilWhenValid(t *testing.T) {
	t.Parallel()
	c := NewChecker(&mockResolver{})
	c.Require("default_currency", domain.ListCurrency, "", "EUR")

	assert.NoError(t, c.Err(context.Background(), nil))
}
