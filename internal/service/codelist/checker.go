package codelist

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// checkedVocabularies lists, per vocabulary-scoped list, the vocabularies
// whose codes are stored and therefore checked. Codes of other
// vocabularies are only required to be non-empty.
var checkedVocabularies = map[string]map[string]bool{
	domain.ListSector: {"1": true, "2": true},
	domain.ListRegion: {"1": true, "2": true},
}

// Checker collects code references while an input is validated and
// resolves them in one batch.
type Checker struct {
	resolver resolver
	refs     []domain.CodeRef
	fields   []string
}

// NewChecker creates a Checker backed by r.
func NewChecker(r resolver) *Checker {
	return &Checker{resolver: r}
}

// Require records that code must exist in list. Empty codes are ignored;
// required-ness is checked by the input validation. vocab is only used for
// vocabulary-scoped lists and defaults to the list's default vocabulary.
// Surrounding whitespace of code and vocab is ignored.
func (c *Checker) Require(field, list, vocab, code string) {
	code, vocab = strings.TrimSpace(code), strings.TrimSpace(vocab)
	if code == "" {
		return
	}

	if domain.IsVocabularyScoped(list) {
		if vocab == "" {
			vocab = domain.DefaultVocabulary
		}
		if !checkedVocabularies[list][vocab] {
			return
		}
	} else {
		vocab = ""
	}

	c.refs = append(c.refs, domain.CodeRef{List: list, Vocabulary: vocab, Code: code})
	c.fields = append(c.fields, field)
}

// RequireAll records every code of a multi-valued field, indexing the field
// path per element.
func (c *Checker) RequireAll(field, list string, codes []string) {
	for i, code := range codes {
		c.Require(fmt.Sprintf("%s[%d]", field, i), list, "", code)
	}
}

// Len returns the number of recorded references.
func (c *Checker) Len() int { return len(c.refs) }

// Check resolves the recorded references and returns a field error for each
// unknown or withdrawn code.
func (c *Checker) Check(ctx context.Context) ([]domain.FieldError, error) {
	if len(c.refs) == 0 {
		return nil, nil
	}

	missing, err := c.resolver.Resolve(ctx, c.refs)
	if err != nil {
		return nil, fmt.Errorf("resolve code lists: %w", err)
	}
	if len(missing) == 0 {
		return nil, nil
	}

	unknown := make(map[domain.CodeRef]bool, len(missing))
	for _, ref := range missing {
		unknown[ref] = true
	}

	var errs []domain.FieldError
	for i, ref := range c.refs {
		if unknown[ref] {
			errs = append(errs, domain.FieldError{
				Field:   c.fields[i],
				Message: fmt.Sprintf("unknown code %q in %s", ref.Code, ref.List),
			})
		}
	}
	return errs, nil
}

// Err resolves the recorded references and merges the unknown codes into
// errs. It returns nil when both are empty and a *domain.ValidationError
// otherwise.
func (c *Checker) Err(ctx context.Context, errs []domain.FieldError) error {
	codeErrs, err := c.Check(ctx)
	if err != nil {
		return err
	}
	errs = append(errs, codeErrs...)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
