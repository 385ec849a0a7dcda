package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  hello  ", want: "hello"},
		{name: "lowercase", input: "Hello World", want: "hello world"},
		{name: "compress multiple spaces", input: "hello   world", want: "hello world"},
		{name: "tabs become spaces", input: "water\t\tsupply", want: "water supply"},
		{name: "diacritics preserved", input: "Côte d'Ivoire", want: "côte d'ivoire"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "words", input: "Clean Water for Schools", want: []string{"clean", "water", "for", "schools"}},
		{name: "identifier kept whole", input: "GB-1-12345 water", want: []string{"gb-1-12345", "water"}},
		{name: "punctuation split", input: "water, sanitation; hygiene!", want: []string{"water", "sanitation", "hygiene"}},
		{name: "duplicates removed", input: "water Water WATER", want: []string{"water"}},
		{name: "trailing dot trimmed", input: "end.", want: []string{"end"}},
		{name: "empty", input: "  ", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, Tokenize(tt.input)); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}
