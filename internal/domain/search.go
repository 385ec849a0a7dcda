package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchDocument is what the search index stores for one entity.
type SearchDocument struct {
	Kind       SearchKind     `json:"kind"`
	ID         uuid.UUID      `json:"id"`
	Identifier string         `json:"identifier"`
	Title      string         `json:"title"`
	Text       []string       `json:"text,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	IndexedAt  time.Time      `json:"indexed_at"`
}

// Tokens returns the search tokens of the document.
func (d SearchDocument) Tokens() []string {
	parts := make([]string, 0, len(d.Text)+2)
	parts = append(parts, d.Identifier, d.Title)
	parts = append(parts, d.Text...)

	var out []string
	seen := make(map[string]struct{})
	for _, p := range parts {
		for _, tok := range Tokenize(p) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
