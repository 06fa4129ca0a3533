package ingest

import (
	"github.com/heartmarshall/gkgfeed/internal/config"
	"github.com/heartmarshall/gkgfeed/internal/filter"
)

const (
	defaultBatchSize = 500
	defaultWorkers   = 4
)

// Config holds pipeline settings.
type Config struct {
	BatchSize int
	Workers   int
	DryRun    bool
	// MaxErrors aborts the run once more lines than this were rejected.
	// Zero disables the limit.
	MaxErrors int
	// Filter drops parsed records that do not match. Nil keeps everything.
	Filter filter.Filter
}

// ConfigFrom builds a pipeline Config from the application settings.
func ConfigFrom(c config.IngestConfig, f filter.Filter) Config {
	return Config{
		BatchSize: c.BatchSize,
		Workers:   c.Workers,
		DryRun:    c.DryRun,
		MaxErrors: c.MaxErrors,
		Filter:    f,
	}
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	return c
}
