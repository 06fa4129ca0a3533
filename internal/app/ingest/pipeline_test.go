package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/filter"
	"github.com/heartmarshall/gkgfeed/internal/metrics"
)

// mockStore records calls to verify pipeline behavior.
type mockStore struct {
	mu sync.Mutex

	runID    uuid.UUID
	batches  [][]domain.Record
	stored   map[string]bool
	finished *domain.IngestRun

	startErr  error
	insertErr error
	finishErr error
}

func newMockStore() *mockStore {
	return &mockStore{runID: uuid.New(), stored: make(map[string]bool)}
}

func (m *mockStore) StartRun(_ context.Context, source string) (domain.IngestRun, error) {
	if m.startErr != nil {
		return domain.IngestRun{}, m.startErr
	}
	return domain.IngestRun{ID: m.runID, Source: source, Status: domain.RunRunning}, nil
}

func (m *mockStore) BulkInsertRecords(_ context.Context, runID uuid.UUID, records []domain.Record) (int, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	if runID != m.runID {
		return 0, fmt.Errorf("unexpected run id %s", runID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches = append(m.batches, append([]domain.Record(nil), records...))
	inserted := 0
	for _, r := range records {
		if !m.stored[r.RecordID] {
			m.stored[r.RecordID] = true
			inserted++
		}
	}
	return inserted, nil
}

func (m *mockStore) FinishRun(_ context.Context, run domain.IngestRun) error {
	m.mu.Lock()
	m.finished = &run
	m.mu.Unlock()
	return m.finishErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gkgLine(id, source string) string {
	return strings.Join([]string{id, "20250217120000", "1", source, "https://" + source + "/" + id}, "\t")
}

func feed(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestPipeline_StoresParsedRecords(t *testing.T) {
	store := newMockStore()
	m := metrics.New()
	p := NewPipeline(testLogger(), store, m, Config{BatchSize: 2, Workers: 3})

	res, err := p.Run(context.Background(), feed(
		gkgLine("r1", "a.com"),
		"",
		gkgLine("r2", "b.com"),
		"broken\tline",
		gkgLine("r3", "c.com"),
		gkgLine("r4", "d.com"),
		gkgLine("r5", "e.com"),
	), "test.csv")
	require.NoError(t, err)

	assert.Equal(t, store.runID, res.RunID)
	assert.Equal(t, 6, res.Lines)
	assert.Equal(t, 5, res.Parsed)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 5, res.Accepted)
	assert.Equal(t, 5, res.Stored)
	assert.Equal(t, 0, res.Duplicates)
	assert.Len(t, store.stored, 5)

	// Batches of 2 with a final partial batch.
	require.Len(t, store.batches, 3)
	for _, b := range store.batches[:2] {
		assert.Len(t, b, 2)
	}
	assert.Len(t, store.batches[2], 1)

	require.NotNil(t, store.finished)
	assert.Equal(t, domain.RunSucceeded, store.finished.Status)
	assert.Equal(t, "test.csv", store.finished.Source)
	assert.Equal(t, 6, store.finished.Lines)
	assert.Equal(t, 1, store.finished.Rejected)
	assert.Equal(t, 5, store.finished.Stored)
}

func TestPipeline_Filter(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(testLogger(), store, nil, Config{
		BatchSize: 10,
		Workers:   2,
		Filter:    filter.Source{Pattern: "nytimes"},
	})

	res, err := p.Run(context.Background(), feed(
		gkgLine("r1", "nytimes.com"),
		gkgLine("r2", "bbc.co.uk"),
		gkgLine("r3", "NYTimes.com"),
	), "filtered.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 1, res.Filtered)
	assert.Equal(t, 2, res.Stored)
	assert.True(t, store.stored["r1"])
	assert.True(t, store.stored["r3"])
	assert.False(t, store.stored["r2"])
}

func TestPipeline_Duplicates(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(testLogger(), store, nil, Config{BatchSize: 1, Workers: 1})

	res, err := p.Run(context.Background(), feed(
		gkgLine("r1", "a.com"),
		gkgLine("r1", "a.com"),
	), "dup.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Accepted)
	assert.Equal(t, 1, res.Stored)
	assert.Equal(t, 1, res.Duplicates)
}

func TestPipeline_DryRunNeverTouchesStore(t *testing.T) {
	p := NewPipeline(testLogger(), nil, nil, Config{DryRun: true})

	res, err := p.Run(context.Background(), feed(
		gkgLine("r1", "a.com"),
		"x",
		gkgLine("r2", "b.com"),
	), "dry.csv")
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, res.RunID)
	assert.Equal(t, 3, res.Lines)
	assert.Equal(t, 2, res.Parsed)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 2, res.Accepted)
	assert.Equal(t, 0, res.Stored)
}

func TestPipeline_NoStoreWithoutDryRun(t *testing.T) {
	p := NewPipeline(testLogger(), nil, nil, Config{})

	_, err := p.Run(context.Background(), feed(gkgLine("r1", "a.com")), "x.csv")
	require.Error(t, err)
}

func TestPipeline_TooManyRejects(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(testLogger(), store, nil, Config{Workers: 1, MaxErrors: 1})

	_, err := p.Run(context.Background(), feed("bad", "worse", gkgLine("r1", "a.com")), "bad.csv")
	require.ErrorIs(t, err, ErrTooManyRejects)

	require.NotNil(t, store.finished)
	assert.Equal(t, domain.RunFailed, store.finished.Status)
	require.NotNil(t, store.finished.Error)
	assert.Contains(t, *store.finished.Error, "too many rejected lines")
}

func TestPipeline_MaxErrorsZeroIsUnlimited(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(testLogger(), store, nil, Config{})

	res, err := p.Run(context.Background(), feed("a", "b", "c", gkgLine("r1", "a.com")), "ok.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rejected)
	assert.Equal(t, 1, res.Stored)
}

func TestPipeline_StoreErrors(t *testing.T) {
	errDB := errors.New("db down")

	t.Run("start", func(t *testing.T) {
		store := newMockStore()
		store.startErr = errDB
		p := NewPipeline(testLogger(), store, nil, Config{})

		_, err := p.Run(context.Background(), feed(gkgLine("r1", "a.com")), "x.csv")
		require.ErrorIs(t, err, errDB)
		assert.Nil(t, store.finished)
	})

	t.Run("insert", func(t *testing.T) {
		store := newMockStore()
		store.insertErr = errDB
		p := NewPipeline(testLogger(), store, nil, Config{})

		_, err := p.Run(context.Background(), feed(gkgLine("r1", "a.com")), "x.csv")
		require.ErrorIs(t, err, errDB)
		require.NotNil(t, store.finished)
		assert.Equal(t, domain.RunFailed, store.finished.Status)
	})

	t.Run("finish", func(t *testing.T) {
		store := newMockStore()
		store.finishErr = errDB
		p := NewPipeline(testLogger(), store, nil, Config{})

		_, err := p.Run(context.Background(), feed(gkgLine("r1", "a.com")), "x.csv")
		require.ErrorIs(t, err, errDB)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk error") }

func TestPipeline_ReadError(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(testLogger(), store, nil, Config{})

	_, err := p.Run(context.Background(), failingReader{}, "x.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk error")
	require.NotNil(t, store.finished)
	assert.Equal(t, domain.RunFailed, store.finished.Status)
}

func TestPipeline_CancelledContext(t *testing.T) {
	store := newMockStore()
	p := NewPipeline(testLogger(), store, nil, Config{BatchSize: 1, Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lines := make([]string, 1000)
	for i := range lines {
		lines[i] = gkgLine(fmt.Sprintf("r%d", i), "a.com")
	}

	_, err := p.Run(ctx, feed(lines...), "x.csv")
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, store.finished)
	assert.Equal(t, domain.RunFailed, store.finished.Status)
}

func TestPipeline_SampleFile(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	f, err := os.Open(filepath.Join(filepath.Dir(file), "..", "..", "gkg", "testdata", "sample.gkg.csv"))
	require.NoError(t, err)
	defer f.Close()

	store := newMockStore()
	p := NewPipeline(testLogger(), store, nil, Config{Workers: 4})

	res, err := p.Run(context.Background(), f, "sample.gkg.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 3, res.Stored)
}

func TestConfigFrom_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, defaultBatchSize, cfg.BatchSize)
	assert.Equal(t, defaultWorkers, cfg.Workers)
}
