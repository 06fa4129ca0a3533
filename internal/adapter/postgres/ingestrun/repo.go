// Package ingestrun implements the ingest run history using PostgreSQL.
package ingestrun

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/gkgfeed/internal/adapter/postgres"
	"github.com/heartmarshall/gkgfeed/internal/domain"
)

const (
	entity = "ingest_run"

	columns = `id, source, status, lines, parsed, rejected, filtered, stored, error, started_at, finished_at`

	defaultListLimit = 20
)

// Repo provides ingest run persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ingest run repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// StartRun inserts a run in the running state.
func (r *Repo) StartRun(ctx context.Context, source string) (domain.IngestRun, error) {
	run := domain.IngestRun{
		ID:        uuid.New(),
		Source:    source,
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	_, err := q.Exec(ctx,
		`INSERT INTO ingest_runs (id, source, status, started_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.Source, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return domain.IngestRun{}, postgres.MapError(err, entity, run.ID)
	}

	return run, nil
}

// FinishRun stores the counters and final status of run.
// Returns domain.ErrNotFound if the run does not exist.
func (r *Repo) FinishRun(ctx context.Context, run domain.IngestRun) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := q.Exec(ctx,
		`UPDATE ingest_runs
		 SET status = $2, lines = $3, parsed = $4, rejected = $5, filtered = $6, stored = $7,
		     error = $8, finished_at = $9
		 WHERE id = $1`,
		run.ID, string(run.Status), run.Lines, run.Parsed, run.Rejected, run.Filtered, run.Stored,
		run.Error, run.FinishedAt,
	)
	if err != nil {
		return postgres.MapError(err, entity, run.ID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, entity, run.ID)
	}

	return nil
}

// GetRun returns a run by ID. Returns domain.ErrNotFound if absent.
func (r *Repo) GetRun(ctx context.Context, id uuid.UUID) (*domain.IngestRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	run, err := scanRun(q.QueryRow(ctx, `SELECT `+columns+` FROM ingest_runs WHERE id = $1`, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit uses the default.
func (r *Repo) ListRuns(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT `+columns+` FROM ingest_runs ORDER BY started_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, postgres.MapError(err, entity, uuid.Nil)
	}
	defer rows.Close()

	runs := make([]domain.IngestRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, postgres.MapError(err, entity, uuid.Nil)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, entity, uuid.Nil)
	}

	return runs, nil
}

func scanRun(row pgx.Row) (domain.IngestRun, error) {
	var (
		run    domain.IngestRun
		status string
	)
	err := row.Scan(
		&run.ID, &run.Source, &status,
		&run.Lines, &run.Parsed, &run.Rejected, &run.Filtered, &run.Stored,
		&run.Error, &run.StartedAt, &run.FinishedAt,
	)
	run.Status = domain.RunStatus(status)
	return run, err
}
