// Package gkgrecord implements storage of parsed GKG records in PostgreSQL.
package gkgrecord

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/gkgfeed/internal/adapter/postgres"
	"github.com/heartmarshall/gkgfeed/internal/domain"
)

const entity = "gkg_record"

// Repo provides record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new record repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// BulkInsertRecords inserts records using pgx.Batch inside one transaction.
// Records whose gkg_record_id is already stored are skipped via
// ON CONFLICT DO NOTHING. Strings are stored cleaned of NUL bytes and
// invalid UTF-8, which Postgres rejects. Returns the number of actually
// inserted rows.
func (r *Repo) BulkInsertRecords(ctx context.Context, runID uuid.UUID, records []domain.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var run *uuid.UUID
	if runID != uuid.Nil {
		run = &runID
	}

	batch := &pgx.Batch{}
	for i := range records {
		clean := cleanRecord(records[i])
		rec := &clean
		doc, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("%s %s: encode: %w", entity, rec.RecordID, err)
		}

		var tone *float64
		if rec.Tone != nil {
			tone = &rec.Tone.Tone
		}

		batch.Queue(
			`INSERT INTO gkg_records (gkg_record_id, run_id, date, source_collection_id, source_common_name,
			     document_identifier, themes, persons, organizations, country_codes, tone, record)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (gkg_record_id) DO NOTHING`,
			rec.RecordID, run, rec.Date, rec.SourceCollectionID, rec.SourceCommonName,
			rec.DocumentIdentifier, themeCodes(rec), rec.Persons, rec.Organizations, countryCodes(rec), tone, doc,
		)
	}

	var inserted int
	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = r.sendBatchExec(ctx, batch)
		return err
	})
	if err != nil {
		return 0, postgres.MapError(err, entity, fmt.Sprintf("batch of %d", len(records)))
	}
	return inserted, nil
}

// GetByID returns a stored record. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var doc []byte
	err := q.QueryRow(ctx, `SELECT record FROM gkg_records WHERE gkg_record_id = $1`, id).Scan(&doc)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}

	return decodeRecord(doc)
}

// sendBatchExec sends a pgx.Batch and counts affected rows from Exec results.
func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

func decodeRecord(doc []byte) (*domain.Record, error) {
	var rec domain.Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", entity, err)
	}
	return &rec, nil
}

// themeCodes returns the distinct theme codes of V1 and enhanced themes.
func themeCodes(rec *domain.Record) []string {
	seen := make(map[string]bool, len(rec.Themes)+len(rec.EnhancedThemes))
	codes := make([]string, 0, len(rec.Themes))
	add := func(code string) {
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	}
	for _, t := range rec.Themes {
		add(t)
	}
	for _, t := range rec.EnhancedThemes {
		add(t.Theme)
	}
	return codes
}

// countryCodes returns the distinct upper-cased country codes of the record.
func countryCodes(rec *domain.Record) []string {
	codes := rec.CountryCodes()
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(c)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
