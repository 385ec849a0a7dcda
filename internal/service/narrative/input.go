package narrative

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/internal/service/codelist"
)

// MaxTextLength bounds the length of one narrative in characters.
const MaxTextLength = 20000

// Input is one narrative of a container as sent by a client. ID refers to
// an existing narrative to update; a nil ID creates a new one.
type Input struct {
	ID       *uuid.UUID
	Language string
	Text     string
}

// Validate checks a narrative container and records the language codes in
// checker. field is the path of the container, e.g. "title.narratives".
// defaultLang is the activity default language; an empty Language stands
// for it when detecting duplicate languages.
func Validate(field string, inputs []Input, required bool, defaultLang string, checker *codelist.Checker) []domain.FieldError {
	var errs []domain.FieldError

	if required && len(inputs) == 0 {
		return []domain.FieldError{{Field: field, Message: "at least one narrative is required"}}
	}

	seen := make(map[string]int, len(inputs))
	for i, in := range inputs {
		path := fmt.Sprintf("%s[%d]", field, i)

		text := strings.TrimSpace(in.Text)
		switch {
		case text == "":
			errs = append(errs, domain.FieldError{Field: path + ".text", Message: "required"})
		case utf8.RuneCountInString(text) > MaxTextLength:
			errs = append(errs, domain.FieldError{Field: path + ".text", Message: fmt.Sprintf("too long (max %d)", MaxTextLength)})
		}

		lang := strings.TrimSpace(in.Language)
		if checker != nil {
			checker.Require(path+".language", domain.ListLanguage, "", lang)
		}

		effective := lang
		if effective == "" {
			effective = defaultLang
		}
		if prev, dup := seen[effective]; dup {
			errs = append(errs, domain.FieldError{
				Field:   path + ".language",
				Message: fmt.Sprintf("duplicate language, already used by %s[%d]", field, prev),
			})
			continue
		}
		seen[effective] = i
	}

	return errs
}

// Normalize trims language and text of every input.
func Normalize(inputs []Input) []Input {
	out := make([]Input, len(inputs))
	for i, in := range inputs {
		out[i] = Input{ID: in.ID, Language: strings.TrimSpace(in.Language), Text: strings.TrimSpace(in.Text)}
	}
	return out
}

// FromDomain converts stored narratives back into inputs that keep them.
func FromDomain(narratives []domain.Narrative) []Input {
	out := make([]Input, len(narratives))
	for i, n := range narratives {
		id := n.ID
		out[i] = Input{ID: &id, Language: n.Language, Text: n.Content}
	}
	return out
}
