package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTooManyNotice(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"This activity has more than 100 transactions! To get all transactions, please use the transaction endpoint instead!",
		TooManyNotice(100, "transactions"))
	assert.Equal(t,
		"This activity has more than 100 results! To get all results, please use the result endpoint instead!",
		TooManyNotice(100, "results"))
}

func TestGroupNarratives(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	narratives := []Narrative{
		{ID: uuid.New(), OwnerType: OwnerDescription, OwnerID: a, Content: "one"},
		{ID: uuid.New(), OwnerType: OwnerDescription, OwnerID: b, Content: "two"},
		{ID: uuid.New(), OwnerType: OwnerDescription, OwnerID: a, Content: "three"},
		{ID: uuid.New(), OwnerType: OwnerActivityDate, OwnerID: a, Content: "four"},
	}

	grouped := GroupNarratives(narratives)

	assert.Len(t, grouped[NarrativeOwner{Type: OwnerDescription, ID: a}], 2)
	assert.Len(t, grouped[NarrativeOwner{Type: OwnerDescription, ID: b}], 1)
	assert.Len(t, grouped[NarrativeOwner{Type: OwnerActivityDate, ID: a}], 1)
}

func TestSumPercentages(t *testing.T) {
	t.Parallel()

	p := func(v int64) *decimal.Decimal { d := decimal.NewFromInt(v); return &d }

	got := SumPercentages(p(40), nil, p(35))
	assert.True(t, decimal.NewFromInt(75).Equal(got), "got %s", got)
}

func TestSearchDocument_Tokens(t *testing.T) {
	t.Parallel()

	doc := SearchDocument{
		Identifier: "XM-DAC-41114-1",
		Title:      "Water supply",
		Text:       []string{"water sanitation", "Kenya"},
	}

	assert.Equal(t, []string{"xm-dac-41114-1", "water", "supply", "sanitation", "kenya"}, doc.Tokens())
}
