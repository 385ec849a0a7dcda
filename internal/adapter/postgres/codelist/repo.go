// Package codelist implements the code list repository using PostgreSQL.
package codelist

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// importChunkSize bounds the number of rows per INSERT statement.
const importChunkSize = 500

var itemColumns = []string{"list", "vocabulary", "code", "name", "description", "category", "withdrawn"}

// Repo provides code list persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new code list repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const resolveSQL = `
SELECT r.list, r.vocabulary, r.code
FROM unnest($1::text[], $2::text[], $3::text[]) AS r(list, vocabulary, code)
WHERE NOT EXISTS (
    SELECT 1 FROM code_list_items c
    WHERE c.list = r.list AND c.vocabulary = r.vocabulary AND c.code = r.code AND NOT c.withdrawn
)`

// Resolve returns the references that do not match an active code list item.
// All references are checked in one round trip; withdrawn codes count as missing.
func (r *Repo) Resolve(ctx context.Context, refs []domain.CodeRef) ([]domain.CodeRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	seen := make(map[domain.CodeRef]struct{}, len(refs))
	lists := make([]string, 0, len(refs))
	vocabs := make([]string, 0, len(refs))
	codes := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		lists = append(lists, ref.List)
		vocabs = append(vocabs, ref.Vocabulary)
		codes = append(codes, ref.Code)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, resolveSQL, lists, vocabs, codes)
	if err != nil {
		return nil, postgres.MapError(err, "code_list_items", nil)
	}
	defer rows.Close()

	var missing []domain.CodeRef
	for rows.Next() {
		var ref domain.CodeRef
		if err := rows.Scan(&ref.List, &ref.Vocabulary, &ref.Code); err != nil {
			return nil, fmt.Errorf("scan code ref: %w", err)
		}
		missing = append(missing, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "code_list_items", nil)
	}

	return missing, nil
}

// List returns the items of one code list. An empty vocabulary returns the
// items of every vocabulary.
func (r *Repo) List(ctx context.Context, list, vocabulary string) ([]domain.CodeListItem, error) {
	q := postgres.Builder().
		Select(itemColumns...).
		From("code_list_items").
		Where(squirrel.Eq{"list": list}).
		OrderBy("vocabulary", "code")
	if vocabulary != "" {
		q = q.Where(squirrel.Eq{"vocabulary": vocabulary})
	}

	var items []domain.CodeListItem
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &items, q); err != nil {
		return nil, postgres.MapError(err, "code_list", list)
	}
	return items, nil
}

// Lists returns a summary of every stored code list.
func (r *Repo) Lists(ctx context.Context) ([]domain.CodeListSummary, error) {
	q := postgres.Builder().
		Select("list", "vocabulary", "count(*) AS items").
		From("code_list_items").
		GroupBy("list", "vocabulary").
		OrderBy("list", "vocabulary")

	var out []domain.CodeListSummary
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, q); err != nil {
		return nil, postgres.MapError(err, "code_lists", nil)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Import upserts code list items and returns the number of rows written.
func (r *Repo) Import(ctx context.Context, items []domain.CodeListItem) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var total int
	for start := 0; start < len(items); start += importChunkSize {
		end := min(start+importChunkSize, len(items))

		ins := postgres.Builder().Insert("code_list_items").Columns(itemColumns...)
		for _, it := range items[start:end] {
			ins = ins.Values(it.List, it.Vocabulary, it.Code, it.Name, it.Description, it.Category, it.Withdrawn)
		}
		ins = ins.Suffix(`ON CONFLICT (list, vocabulary, code) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			withdrawn = EXCLUDED.withdrawn`)

		n, err := postgres.Exec(ctx, q, ins)
		if err != nil {
			return total, postgres.MapError(err, "code_list_items", nil)
		}
		total += int(n)
	}

	return total, nil
}
