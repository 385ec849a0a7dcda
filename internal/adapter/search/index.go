package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/heartmarshall/iati-publisher/internal/config"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// Index is the Redis-backed search index.
type Index struct {
	client  *redis.Client
	prefix  string
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// NewIndex creates an index storing its keys under cfg.KeyPrefix.
func NewIndex(logger *slog.Logger, client *redis.Client, cfg config.SearchConfig) *Index {
	log := logger.With("adapter", "search")
	return &Index{
		client:  client,
		prefix:  cfg.KeyPrefix,
		breaker: newBreaker(log, cfg),
		log:     log,
	}
}

func (i *Index) docKey(kind domain.SearchKind, id string) string {
	return i.prefix + ":doc:" + kind.String() + ":" + id
}

func (i *Index) tokenKey(kind domain.SearchKind, token string) string {
	return i.prefix + ":idx:" + kind.String() + ":" + token
}

// termsKey holds the tokens a document was last indexed under, so that a
// re-index or delete can remove it from sets it no longer belongs to.
func (i *Index) termsKey(kind domain.SearchKind, id string) string {
	return i.prefix + ":terms:" + kind.String() + ":" + id
}

// Index stores the document and replaces its token memberships.
func (i *Index) Index(ctx context.Context, doc domain.SearchDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search.Index marshal: %w", err)
	}

	id := doc.ID.String()
	tokens := doc.Tokens()

	_, err = execute(i.breaker, func() (struct{}, error) {
		old, err := i.client.SMembers(ctx, i.termsKey(doc.Kind, id)).Result()
		if err != nil {
			return struct{}{}, err
		}
		_, err = i.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			for _, tok := range old {
				p.SRem(ctx, i.tokenKey(doc.Kind, tok), id)
			}
			p.Del(ctx, i.termsKey(doc.Kind, id))
			p.Set(ctx, i.docKey(doc.Kind, id), body, 0)
			for _, tok := range tokens {
				p.SAdd(ctx, i.tokenKey(doc.Kind, tok), id)
			}
			if len(tokens) > 0 {
				p.SAdd(ctx, i.termsKey(doc.Kind, id), members(tokens)...)
			}
			return nil
		})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("search.Index %s %s: %w", doc.Kind, id, err)
	}

	i.log.DebugContext(ctx, "document indexed",
		slog.String("kind", doc.Kind.String()),
		slog.String("id", id),
		slog.Int("tokens", len(tokens)),
	)
	return nil
}

// Delete removes the document and its token memberships. Deleting a missing
// document is not an error.
func (i *Index) Delete(ctx context.Context, kind domain.SearchKind, id uuid.UUID) error {
	key := id.String()

	_, err := execute(i.breaker, func() (struct{}, error) {
		old, err := i.client.SMembers(ctx, i.termsKey(kind, key)).Result()
		if err != nil {
			return struct{}{}, err
		}
		_, err = i.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			for _, tok := range old {
				p.SRem(ctx, i.tokenKey(kind, tok), key)
			}
			p.Del(ctx, i.termsKey(kind, key), i.docKey(kind, key))
			return nil
		})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("search.Delete %s %s: %w", kind, key, err)
	}
	return nil
}

// Search returns up to limit documents of the kind that contain every token
// of the query, ordered by id. A query without tokens matches nothing.
func (i *Index) Search(ctx context.Context, kind domain.SearchKind, query string, limit int) ([]domain.SearchDocument, error) {
	tokens := domain.Tokenize(query)
	if len(tokens) == 0 || limit <= 0 {
		return []domain.SearchDocument{}, nil
	}

	keys := make([]string, len(tokens))
	for n, tok := range tokens {
		keys[n] = i.tokenKey(kind, tok)
	}

	raw, err := execute(i.breaker, func() ([]interface{}, error) {
		ids, err := i.client.SInter(ctx, keys...).Result()
		if err != nil || len(ids) == 0 {
			return nil, err
		}
		slices.Sort(ids)
		if len(ids) > limit {
			ids = ids[:limit]
		}
		docKeys := make([]string, len(ids))
		for n, id := range ids {
			docKeys[n] = i.docKey(kind, id)
		}
		return i.client.MGet(ctx, docKeys...).Result()
	})
	if err != nil {
		return nil, fmt.Errorf("search.Search %s: %w", kind, err)
	}

	docs := make([]domain.SearchDocument, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			// Set member without a document: deleted between SINTER and MGET.
			continue
		}
		var doc domain.SearchDocument
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, fmt.Errorf("search.Search decode: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Ping checks that Redis answers.
func (i *Index) Ping(ctx context.Context) error {
	_, err := execute(i.breaker, func() (string, error) {
		return i.client.Ping(ctx).Result()
	})
	return err
}

// State reports the circuit breaker state: closed, half-open or open.
func (i *Index) State() string {
	return i.breaker.State().String()
}

func members(tokens []string) []interface{} {
	out := make([]interface{}, len(tokens))
	for n, t := range tokens {
		out[n] = t
	}
	return out
}
