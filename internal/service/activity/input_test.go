package activity

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
	"github.com/heartmarshall/iati-publisher/internal/service/narrative"
)

func TestInput_Validate(t *testing.T) {
	t.Parallel()

	spend := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}

	tests := []struct {
		name          string
		mutate        func(*Input)
		titleRequired bool
		want          []domain.FieldError
	}{
		{
			name:          "valid",
			mutate:        func(*Input) {},
			titleRequired: true,
		},
		{
			name:   "identifier required",
			mutate: func(i *Input) { i.IATIIdentifier = "   " },
			want:   []domain.FieldError{{Field: "iati_identifier", Message: "required"}},
		},
		{
			name:   "identifier with inner whitespace",
			mutate: func(i *Input) { i.IATIIdentifier = "GB 1" },
			want:   []domain.FieldError{{Field: "iati_identifier", Message: "must not contain whitespace"}},
		},
		{
			name:   "identifier too long",
			mutate: func(i *Input) { i.IATIIdentifier = strings.Repeat("x", 151) },
			want:   []domain.FieldError{{Field: "iati_identifier", Message: "too long (max 150)"}},
		},
		{
			name:   "capital spend bounds are inclusive",
			mutate: func(i *Input) { i.CapitalSpend = spend(100) },
		},
		{
			name:   "negative capital spend",
			mutate: func(i *Input) { i.CapitalSpend = spend(-1) },
			want:   []domain.FieldError{{Field: "capital_spend", Message: "must be between 0 and 100"}},
		},
		{
			name:   "relative linked data uri",
			mutate: func(i *Input) { i.LinkedDataURI = "/activities/1" },
			want:   []domain.FieldError{{Field: "linked_data_uri", Message: "must be an absolute URI"}},
		},
		{
			name:   "title optional on update",
			mutate: func(i *Input) { i.Title = nil },
		},
		{
			name: "duplicate title language counts default language",
			mutate: func(i *Input) {
				i.Title = []narrative.Input{{Text: "a"}, {Language: "en", Text: "b"}}
			},
			want: []domain.FieldError{{
				Field:   "title.narratives[1].language",
				Message: "duplicate language, already used by title.narratives[0]",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validInput()
			tt.mutate(&in)

			got := in.Validate(codelist.NewChecker(&mockResolver{}), tt.titleRequired)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput_Apply_DefaultsHierarchy(t *testing.T) {
	t.Parallel()
	var a domain.Activity
	in := validInput()
	in.IATIIdentifier = "  GB-1-1  "

	in.apply(&a)

	assert.Equal(t, 1, a.Hierarchy)
	assert.Equal(t, "GB-1-1", a.IATIIdentifier)
}
