package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RateLimit caps requests per minute per client IP. Zero disables it.
	RateLimit int `yaml:"rate_limit" env:"SERVER_RATE_LIMIT" env-default:"600"`
}

// CORSConfig holds CORS settings for the read-only HTTP API.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type,X-Request-Id"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DSN may be empty for commands that never touch storage.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// FetchConfig holds settings for downloading feed files.
type FetchConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"FETCH_BASE_URL"   env-default:"http://data.gdeltproject.org/gdeltv2"`
	Timeout   time.Duration `yaml:"timeout"    env:"FETCH_TIMEOUT"    env-default:"5m"`
	UserAgent string        `yaml:"user_agent" env:"FETCH_USER_AGENT" env-default:"gkgfeed"`
	DataDir   string        `yaml:"data_dir"   env:"FETCH_DATA_DIR"   env-default:"./data"`
	KeepZip   bool          `yaml:"keep_zip"   env:"FETCH_KEEP_ZIP"`
	Retries   int           `yaml:"retries"    env:"FETCH_RETRIES"    env-default:"2"`
}

// IngestConfig holds settings for the parse-and-store pipeline.
type IngestConfig struct {
	BatchSize int  `yaml:"batch_size" env:"INGEST_BATCH_SIZE" env-default:"500"`
	Workers   int  `yaml:"workers"    env:"INGEST_WORKERS"    env-default:"4"`
	DryRun    bool `yaml:"dry_run"    env:"INGEST_DRY_RUN"`
	// MaxErrors aborts a run once more lines than this were rejected.
	// Zero means no limit.
	MaxErrors int `yaml:"max_errors" env:"INGEST_MAX_ERRORS" env-default:"0"`
	// Interval makes serve poll for the newest feed file and ingest it.
	// Zero disables polling.
	Interval    time.Duration `yaml:"interval"    env:"INGEST_INTERVAL"    env-default:"0s"`
	Translation bool          `yaml:"translation" env:"INGEST_TRANSLATION"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
