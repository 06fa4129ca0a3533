package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/gkg"
	"github.com/heartmarshall/gkgfeed/internal/metrics"
)

// ErrTooManyRejects aborts a run whose rejected line count exceeds Config.MaxErrors.
var ErrTooManyRejects = errors.New("too many rejected lines")

// Result holds the outcome of a single run.
type Result struct {
	RunID    uuid.UUID
	Lines    int
	Parsed   int
	Rejected int
	Filtered int
	// Accepted counts records that passed the filters. In a dry run nothing
	// is stored, so Stored and Duplicates stay zero.
	Accepted int
	// Stored counts rows inserted; records whose id was already stored are
	// counted in Duplicates instead.
	Stored     int
	Duplicates int
	Duration   time.Duration
}

// Pipeline reads lines, parses them on a worker pool, filters the records
// and writes them to the store in batches.
type Pipeline struct {
	log     *slog.Logger
	store   RecordStore
	metrics *metrics.Metrics
	cfg     Config
}

// NewPipeline creates a Pipeline. store may be nil when cfg.DryRun is set;
// m may be nil.
func NewPipeline(log *slog.Logger, store RecordStore, m *metrics.Metrics, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		store:   store,
		metrics: m,
		cfg:     cfg.withDefaults(),
	}
}

type parsed struct {
	line int
	rec  domain.Record
	err  error
}

// Run ingests src. name identifies the input in logs and in the stored run.
// On failure the partial Result is returned along with the error.
func (p *Pipeline) Run(ctx context.Context, src io.Reader, name string) (Result, error) {
	start := time.Now()
	log := p.log.With(slog.String("source", name), slog.Bool("dry_run", p.cfg.DryRun))

	var run domain.IngestRun
	if !p.cfg.DryRun {
		if p.store == nil {
			return Result{}, fmt.Errorf("ingest: no store configured")
		}
		var err error
		run, err = p.store.StartRun(ctx, name)
		if err != nil {
			return Result{}, fmt.Errorf("start run: %w", err)
		}
		log = log.With(slog.String("run_id", run.ID.String()))
	}

	log.Info("ingest started", slog.Int("workers", p.cfg.Workers), slog.Int("batch_size", p.cfg.BatchSize))

	res, runErr := p.process(ctx, log, src, run.ID)
	res.RunID = run.ID
	res.Duration = time.Since(start)

	if !p.cfg.DryRun {
		run.Lines = res.Lines
		run.Parsed = res.Parsed
		run.Rejected = res.Rejected
		run.Filtered = res.Filtered
		run.Stored = res.Stored
		run.Finish(time.Now(), runErr)

		// The run row is written even when ctx was cancelled.
		if err := p.store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			log.Error("finish run", slog.String("error", err.Error()))
			if runErr == nil {
				runErr = fmt.Errorf("finish run: %w", err)
			}
		}
	}
	p.metrics.RunFinished(time.Now())

	if runErr != nil {
		log.Warn("ingest failed",
			slog.String("error", runErr.Error()),
			slog.Int("lines", res.Lines),
			slog.Int("rejected", res.Rejected),
			slog.Duration("duration", res.Duration),
		)
		return res, runErr
	}

	log.Info("ingest completed",
		slog.Int("lines", res.Lines),
		slog.Int("parsed", res.Parsed),
		slog.Int("rejected", res.Rejected),
		slog.Int("filtered", res.Filtered),
		slog.Int("accepted", res.Accepted),
		slog.Int("stored", res.Stored),
		slog.Int("duplicates", res.Duplicates),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (p *Pipeline) process(ctx context.Context, log *slog.Logger, src io.Reader, runID uuid.UUID) (Result, error) {
	g, gctx := errgroup.WithContext(ctx)

	lines := make(chan gkg.Line, p.cfg.Workers*2)
	results := make(chan parsed, p.cfg.Workers*2)

	var lineCount int

	// Reader.
	g.Go(func() error {
		defer close(lines)
		for line, err := range gkg.NewReader(src).All() {
			if err != nil {
				return err
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			lineCount++
			p.metrics.LineRead()
			select {
			case lines <- line:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Parse workers.
	var wg sync.WaitGroup
	for range p.cfg.Workers {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for line := range lines {
				rec, err := gkg.ParseRecord(line.Text, line.Number)
				select {
				case results <- parsed{line: line.Number, rec: rec, err: err}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Filter and write.
	var res Result
	g.Go(func() error {
		batch := make([]domain.Record, 0, p.cfg.BatchSize)
		for r := range results {
			if r.err != nil {
				res.Rejected++
				p.metrics.LineRejected()
				log.Warn("line rejected",
					slog.Int("line", r.line),
					slog.String("record_id", rejectedID(r.err)),
					slog.String("error", r.err.Error()),
				)
				if p.cfg.MaxErrors > 0 && res.Rejected > p.cfg.MaxErrors {
					return fmt.Errorf("%w: %d > %d", ErrTooManyRejects, res.Rejected, p.cfg.MaxErrors)
				}
				continue
			}

			res.Parsed++
			p.metrics.RecordParsed()

			if p.cfg.Filter != nil && !p.cfg.Filter.Match(&r.rec) {
				res.Filtered++
				p.metrics.RecordFiltered()
				continue
			}

			res.Accepted++
			if p.cfg.DryRun {
				continue
			}
			batch = append(batch, r.rec)
			if len(batch) >= p.cfg.BatchSize {
				if err := p.flush(gctx, runID, batch, &res); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		return p.flush(gctx, runID, batch, &res)
	})

	err := g.Wait()
	res.Lines = lineCount
	return res, err
}

func (p *Pipeline) flush(ctx context.Context, runID uuid.UUID, batch []domain.Record, res *Result) error {
	if len(batch) == 0 {
		return nil
	}

	start := time.Now()
	inserted, err := p.store.BulkInsertRecords(ctx, runID, batch)
	if err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	p.metrics.BatchStored(inserted, time.Since(start))

	res.Stored += inserted
	res.Duplicates += len(batch) - inserted
	return nil
}

func rejectedID(err error) string {
	var pe *gkg.ParseError
	if errors.As(err, &pe) {
		return pe.RecordID
	}
	return ""
}
