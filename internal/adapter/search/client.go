// Package search stores search documents in Redis. Every document is a JSON
// blob and each of its tokens is a set of document ids; a query intersects
// the sets of its tokens.
package search

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/iati-publisher/internal/config"
)

// NewClient builds a Redis client from the configuration. The connection is
// established lazily so that an unreachable index does not block startup.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	return redis.NewClient(opts), nil
}
