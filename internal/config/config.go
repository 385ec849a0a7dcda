package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Search    SearchConfig    `yaml:"search"`
	Worker    WorkerConfig    `yaml:"worker"`
	Activity  ActivityConfig  `yaml:"activity"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Audit     AuditConfig     `yaml:"audit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns         int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns         int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ApplicationName  string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"iati-publisher"`
	StatementTimeout time.Duration `yaml:"statement_timeout"  env:"DATABASE_STATEMENT_TIMEOUT"  env-default:"30s"`
}

// RedisConfig holds the search index connection settings.
type RedisConfig struct {
	URL          string        `yaml:"url"            env:"REDIS_URL"            env-default:"redis://localhost:6379/0"`
	PoolSize     int           `yaml:"pool_size"      env:"REDIS_POOL_SIZE"      env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout"   env:"REDIS_DIAL_TIMEOUT"   env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout"   env:"REDIS_READ_TIMEOUT"   env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout"  env:"REDIS_WRITE_TIMEOUT"  env-default:"3s"`
}

// AuthConfig holds token and API key settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"iati-publisher"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"1h"`
	AdminToken     string        `yaml:"admin_token"      env:"AUTH_ADMIN_TOKEN"`
	BcryptCost     int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"      env-default:"10"`
}

// AdminEnabled reports whether admin routes can be used.
func (c AuthConfig) AdminEnabled() bool {
	return c.AdminToken != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"             env-default:"true"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"RATE_LIMIT_REQUESTS_PER_SECOND" env-default:"10"`
	Burst             int           `yaml:"burst"               env:"RATE_LIMIT_BURST"               env-default:"20"`
	IdleTTL           time.Duration `yaml:"idle_ttl"            env:"RATE_LIMIT_IDLE_TTL"            env-default:"10m"`
}

// SearchConfig holds search index and circuit breaker settings.
type SearchConfig struct {
	KeyPrefix               string        `yaml:"key_prefix"                env:"SEARCH_KEY_PREFIX"                env-default:"iati"`
	DefaultLimit            int           `yaml:"default_limit"             env:"SEARCH_DEFAULT_LIMIT"             env-default:"20"`
	MaxLimit                int           `yaml:"max_limit"                 env:"SEARCH_MAX_LIMIT"                 env-default:"100"`
	BreakerMaxRequests      uint32        `yaml:"breaker_max_requests"      env:"SEARCH_BREAKER_MAX_REQUESTS"      env-default:"3"`
	BreakerInterval         time.Duration `yaml:"breaker_interval"          env:"SEARCH_BREAKER_INTERVAL"          env-default:"60s"`
	BreakerTimeout          time.Duration `yaml:"breaker_timeout"           env:"SEARCH_BREAKER_TIMEOUT"           env-default:"30s"`
	BreakerFailureThreshold float64       `yaml:"breaker_failure_threshold" env:"SEARCH_BREAKER_FAILURE_THRESHOLD" env-default:"0.6"`
	BreakerMinRequests      uint32        `yaml:"breaker_min_requests"      env:"SEARCH_BREAKER_MIN_REQUESTS"      env-default:"5"`
}

// WorkerConfig holds background job settings.
type WorkerConfig struct {
	ReindexSchedule string        `yaml:"reindex_schedule" env:"WORKER_REINDEX_SCHEDULE" env-default:"@every 1m"`
	BalanceSchedule string        `yaml:"balance_schedule" env:"WORKER_BALANCE_SCHEDULE" env-default:"0 3 * * *"`
	Timezone        string        `yaml:"timezone"         env:"WORKER_TIMEZONE"         env-default:"UTC"`
	BatchSize       int           `yaml:"batch_size"       env:"WORKER_BATCH_SIZE"       env-default:"100"`
	Concurrency     int           `yaml:"concurrency"      env:"WORKER_CONCURRENCY"      env-default:"4"`
	JobTimeout      time.Duration `yaml:"job_timeout"      env:"WORKER_JOB_TIMEOUT"      env-default:"10m"`
	MetricsPort     int           `yaml:"metrics_port"     env:"WORKER_METRICS_PORT"     env-default:"9091"`
}

// ActivityConfig holds activity read limits.
type ActivityConfig struct {
	DetailLimit      int `yaml:"detail_limit"       env:"ACTIVITY_DETAIL_LIMIT"       env-default:"100"`
	ListDefaultLimit int `yaml:"list_default_limit" env:"ACTIVITY_LIST_DEFAULT_LIMIT" env-default:"20"`
	ListMaxLimit     int `yaml:"list_max_limit"     env:"ACTIVITY_LIST_MAX_LIMIT"     env-default:"100"`
	HistoryLimit     int `yaml:"history_limit"      env:"ACTIVITY_HISTORY_LIMIT"      env-default:"50"`
}

// TracingConfig holds OpenTelemetry settings. Tracing is off when Endpoint
// is empty.
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint"     env:"TRACING_ENDPOINT"`
	ServiceName string  `yaml:"service_name" env:"TRACING_SERVICE_NAME" env-default:"iati-publisher"`
	SampleRatio float64 `yaml:"sample_ratio" env:"TRACING_SAMPLE_RATIO" env-default:"1.0"`
}

// AuditConfig holds audit log retention used by the cleanup command.
type AuditConfig struct {
	RetentionDays int `yaml:"retention_days" env:"AUDIT_RETENTION_DAYS" env-default:"365"`
}
