// Package app wires configuration, storage, the ingest pipeline and the HTTP
// surface into the operations exposed by the gkgfeed command.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres"
	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres/gkgrecord"
	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres/ingestrun"
	"github.com/heartmarshall/gkgfeed/internal/app/ingest"
	"github.com/heartmarshall/gkgfeed/internal/config"
	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/fetch"
	"github.com/heartmarshall/gkgfeed/internal/filter"
	"github.com/heartmarshall/gkgfeed/internal/metrics"
	"github.com/heartmarshall/gkgfeed/internal/transport/middleware"
	"github.com/heartmarshall/gkgfeed/internal/transport/rest"
)

// Compile-time interface assertions.
var (
	_ ingest.RecordStore = ingestStore{}
	_ rest.RecordReader  = (*gkgrecord.Repo)(nil)
	_ rest.RunReader     = (*ingestrun.Repo)(nil)
)

// Storage bundles the Postgres pool and the repositories built on it.
type Storage struct {
	Pool    *pgxpool.Pool
	Records *gkgrecord.Repo
	Runs    *ingestrun.Repo
}

// OpenStorage connects to Postgres. The caller must Close the result.
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	txm := postgres.NewTxManager(pool)
	return &Storage{
		Pool:    pool,
		Records: gkgrecord.New(pool, txm),
		Runs:    ingestrun.New(pool),
	}, nil
}

// Close releases the pool.
func (s *Storage) Close() { s.Pool.Close() }

// Migrate applies pending migrations and returns their versions.
func (s *Storage) Migrate(ctx context.Context, log *slog.Logger) ([]int64, error) {
	db := postgres.OpenDB(s.Pool)
	defer db.Close()
	return postgres.Migrate(ctx, db, log)
}

// IngestStore adapts the repositories to the pipeline's store contract.
func (s *Storage) IngestStore() ingest.RecordStore {
	return ingestStore{records: s.Records, runs: s.Runs}
}

type ingestStore struct {
	records *gkgrecord.Repo
	runs    *ingestrun.Repo
}

func (s ingestStore) StartRun(ctx context.Context, source string) (domain.IngestRun, error) {
	return s.runs.StartRun(ctx, source)
}

func (s ingestStore) BulkInsertRecords(ctx context.Context, runID uuid.UUID, records []domain.Record) (int, error) {
	return s.records.BulkInsertRecords(ctx, runID, records)
}

func (s ingestStore) FinishRun(ctx context.Context, run domain.IngestRun) error {
	return s.runs.FinishRun(ctx, run)
}

// Migrate connects to the configured database and applies pending migrations.
func Migrate(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	st, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	applied, err := st.Migrate(ctx, log)
	if err != nil {
		return err
	}

	db := postgres.OpenDB(st.Pool)
	defer db.Close()
	version, err := postgres.MigrationVersion(ctx, db)
	if err != nil {
		return err
	}
	log.Info("migrations complete",
		slog.Int("applied", len(applied)),
		slog.Int64("schema_version", version),
	)
	return nil
}

// Ingest streams the feed file at path through the pipeline. Unless
// cfg.Ingest.DryRun is set, records are stored in Postgres. A one-shot run
// has no scrape endpoint, so no metrics are collected.
func Ingest(ctx context.Context, cfg *config.Config, log *slog.Logger, path string, f filter.Filter) (ingest.Result, error) {
	src, err := fetch.OpenGKG(path)
	if err != nil {
		return ingest.Result{}, err
	}
	defer src.Close()

	var store ingest.RecordStore
	if !cfg.Ingest.DryRun {
		if err := cfg.RequireDatabase(); err != nil {
			return ingest.Result{}, err
		}
		st, err := OpenStorage(ctx, cfg.Database)
		if err != nil {
			return ingest.Result{}, err
		}
		defer st.Close()
		store = st.IngestStore()
	}

	p := ingest.NewPipeline(log, store, nil, ingest.ConfigFrom(cfg.Ingest, f))
	return p.Run(ctx, src, filepath.Base(path))
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
// Pending migrations are applied on startup. With cfg.Ingest.Interval set,
// a Poller ingests new feed files in the background and reports to the
// same metrics the API serves.
func Serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	st, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.Migrate(ctx, log); err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	m := metrics.New()

	pollCtx, stopPoller := context.WithCancel(ctx)
	pollerDone := make(chan struct{})
	if cfg.Ingest.Interval > 0 {
		pipeline := ingest.NewPipeline(log, st.IngestStore(), m, ingest.ConfigFrom(cfg.Ingest, nil))
		poller := NewPoller(fetch.NewClient(cfg.Fetch, log), pipeline, log, cfg.Ingest.Interval, cfg.Ingest.Translation)
		go func() {
			defer close(pollerDone)
			poller.Run(pollCtx)
		}()
	} else {
		close(pollerDone)
	}
	// The pool must outlive an in-flight ingest.
	defer func() {
		stopPoller()
		<-pollerDone
	}()

	handler := rest.NewRouter(rest.Deps{
		Log:     log,
		Records: st.Records,
		Runs:    st.Runs,
		Health:  rest.NewHealthHandler(Version, map[string]rest.Pinger{"database": st.Pool}),
		Metrics: m,
		Limiter: limiter,
		Server:  cfg.Server,
		CORS:    cfg.CORS,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", BuildVersion()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
