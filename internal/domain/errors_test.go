package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("iati_identifier", "required")

	if got := err.Error(); got != "validation: iati_identifier: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "iati_identifier", Message: "required"},
		{Field: "title.narratives", Message: "at least one required"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestValidationError_WrappedStillMatches(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("create budget: %w", NewValidationError("value", "required"))

	var ve *ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("errors.As should find *ValidationError")
	}
	if !errors.Is(wrapped, ErrValidation) {
		t.Fatal("errors.Is(wrapped, ErrValidation) = false")
	}
}

func TestValidationError_Fields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "value", Message: "required"},
		{Field: "currency", Message: "required"},
		{Field: "value", Message: "must be positive"},
	})

	want := map[string]string{
		"value":    "required; must be positive",
		"currency": "required",
	}
	if diff := cmp.Diff(want, err.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrefixFieldErrors(t *testing.T) {
	t.Parallel()

	got := PrefixFieldErrors("title", []FieldError{{Field: "narratives[0].text", Message: "required"}})
	want := []FieldError{{Field: "title.narratives[0].text", Message: "required"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PrefixFieldErrors mismatch (-want +got):\n%s", diff)
	}

	if got := PrefixFieldErrors("", want); len(got) != 1 || got[0].Field != want[0].Field {
		t.Errorf("empty prefix should return input unchanged, got %+v", got)
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation,
		ErrUnauthorized, ErrForbidden, ErrConflict,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}
