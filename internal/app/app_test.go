package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres"
	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres/gkgrecord"
	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres/ingestrun"
	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/gkgfeed/internal/app/ingest"
	"github.com/heartmarshall/gkgfeed/internal/config"
	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/metrics"
)

func TestStorage_IngestSampleFile(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	st := &Storage{
		Pool:    pool,
		Records: gkgrecord.New(pool, postgres.NewTxManager(pool)),
		Runs:    ingestrun.New(pool),
	}

	f, err := os.Open(filepath.Join("..", "gkg", "testdata", "sample.gkg.csv"))
	require.NoError(t, err)
	defer f.Close()

	p := ingest.NewPipeline(slog.New(slog.DiscardHandler), st.IngestStore(), metrics.New(), ingest.Config{BatchSize: 2, Workers: 2})
	res, err := p.Run(context.Background(), f, "sample.gkg.csv")
	require.NoError(t, err)

	ctx := context.Background()
	run, err := st.Runs.GetRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, run.Status)
	assert.Equal(t, 1, run.Rejected)

	// Rows from earlier runs may exist; ids are stable so re-ingesting stores nothing new.
	rec, err := st.Records.GetByID(ctx, "20150218231500-2")
	require.NoError(t, err)
	assert.Equal(t, "bbc.co.uk", rec.SourceCommonName)
}

func TestIngest_DryRunWithoutDatabase(t *testing.T) {
	cfg := &config.Config{Ingest: config.IngestConfig{BatchSize: 10, Workers: 2, DryRun: true}}

	res, err := Ingest(context.Background(), cfg, slog.New(slog.DiscardHandler),
		filepath.Join("..", "gkg", "testdata", "sample.gkg.csv"), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 3, res.Accepted)
	assert.Zero(t, res.Stored)
}

func TestIngest_RequiresDatabase(t *testing.T) {
	cfg := &config.Config{Ingest: config.IngestConfig{BatchSize: 10, Workers: 2}}

	_, err := Ingest(context.Background(), cfg, slog.New(slog.DiscardHandler),
		filepath.Join("..", "gkg", "testdata", "sample.gkg.csv"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
}
