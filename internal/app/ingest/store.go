// Package ingest streams a GKG feed through the parser and filters into storage.
package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// RecordStore is the storage contract consumed by the pipeline.
// app.Storage adapts the Postgres repositories to it.
type RecordStore interface {
	// StartRun persists a new run in the running state and returns it with its ID set.
	StartRun(ctx context.Context, source string) (domain.IngestRun, error)

	// BulkInsertRecords inserts records, skipping ids already stored.
	// It returns the number of rows actually inserted.
	BulkInsertRecords(ctx context.Context, runID uuid.UUID, records []domain.Record) (int, error)

	// FinishRun stores the final counters and status of a run.
	FinishRun(ctx context.Context, run domain.IngestRun) error
}
