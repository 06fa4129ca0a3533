package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewRecord returns a record with a unique id and the given source.
// Tone is set; collections are empty but non-nil.
func NewRecord(source string, date int64) domain.Record {
	id := "test-" + uniqueSuffix()
	return domain.Record{
		RecordID:              id,
		Date:                  date,
		SourceCollectionID:    1,
		SourceCommonName:      source,
		DocumentIdentifier:    "https://" + source + "/" + id,
		Counts:                []domain.Count{},
		EnhancedCounts:        []domain.EnhancedCount{},
		Themes:                []string{},
		EnhancedThemes:        []domain.EnhancedTheme{},
		Locations:             []domain.Location{},
		EnhancedLocations:     []domain.EnhancedLocation{},
		Persons:               []string{},
		EnhancedPersons:       []domain.EnhancedEntity{},
		Organizations:         []string{},
		EnhancedOrganizations: []domain.EnhancedEntity{},
		Tone:                  &domain.Tone{Tone: 0, WordCount: 100},
		EnhancedDates:         []domain.EnhancedDate{},
		GCAM:                  []domain.GCAMEntry{},
		RelatedImages:         []string{},
		SocialImageEmbeds:     []string{},
		SocialVideoEmbeds:     []string{},
		Quotations:            []domain.Quotation{},
		AllNames:              []domain.NameEntry{},
		Amounts:               []domain.AmountEntry{},
	}
}

// SeedRun inserts a finished, successful ingest run.
func SeedRun(t *testing.T, pool *pgxpool.Pool, source string) domain.IngestRun {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	run := domain.IngestRun{
		ID:        uuid.New(),
		Source:    source,
		StartedAt: now,
	}
	run.Finish(now, nil)

	_, err := pool.Exec(context.Background(),
		`INSERT INTO ingest_runs (id, source, status, started_at, finished_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Source, string(run.Status), run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRun: %v", err)
	}
	return run
}

// SeedRecord inserts rec directly, bypassing the repository.
func SeedRecord(t *testing.T, pool *pgxpool.Pool, rec domain.Record) {
	t.Helper()

	doc, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord encode: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO gkg_records (gkg_record_id, date, source_collection_id, source_common_name, document_identifier, record)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.RecordID, rec.Date, rec.SourceCollectionID, rec.SourceCommonName, rec.DocumentIdentifier, doc,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord: %v", err)
	}
}
