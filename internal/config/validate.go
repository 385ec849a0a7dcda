package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AdminToken != "" && len(c.Auth.AdminToken) < 32 {
		return fmt.Errorf("auth.admin_token must be at least 32 characters (got %d)", len(c.Auth.AdminToken))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be in [4, 31] (got %d)", c.Auth.BcryptCost)
	}

	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Worker.validate(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	if err := c.Activity.validate(); err != nil {
		return fmt.Errorf("activity: %w", err)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be in [0, 1] (got %v)", c.Tracing.SampleRatio)
	}
	if c.Audit.RetentionDays < 1 {
		return fmt.Errorf("audit.retention_days must be positive (got %d)", c.Audit.RetentionDays)
	}

	return nil
}

func (r *RateLimitConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	if r.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be > 0 (got %v)", r.RequestsPerSecond)
	}
	if r.Burst < 1 {
		return fmt.Errorf("burst must be >= 1 (got %d)", r.Burst)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	if s.KeyPrefix == "" {
		return fmt.Errorf("key_prefix is required")
	}
	if s.DefaultLimit <= 0 || s.DefaultLimit > s.MaxLimit {
		return fmt.Errorf("default_limit must be in [1, max_limit] (got %d)", s.DefaultLimit)
	}
	if s.BreakerFailureThreshold <= 0 || s.BreakerFailureThreshold > 1 {
		return fmt.Errorf("breaker_failure_threshold must be in (0, 1] (got %v)", s.BreakerFailureThreshold)
	}
	return nil
}

func (w *WorkerConfig) validate() error {
	if _, err := time.LoadLocation(w.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", w.Timezone, err)
	}
	if w.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", w.BatchSize)
	}
	if w.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0 (got %d)", w.Concurrency)
	}
	return nil
}

func (a *ActivityConfig) validate() error {
	if a.DetailLimit <= 0 {
		return fmt.Errorf("detail_limit must be > 0 (got %d)", a.DetailLimit)
	}
	if a.ListMaxLimit <= 0 {
		return fmt.Errorf("list_max_limit must be > 0 (got %d)", a.ListMaxLimit)
	}
	if a.ListDefaultLimit <= 0 || a.ListDefaultLimit > a.ListMaxLimit {
		return fmt.Errorf("list_default_limit must be in [1, list_max_limit] (got %d)", a.ListDefaultLimit)
	}
	if a.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be > 0 (got %d)", a.HistoryLimit)
	}
	return nil
}
