package rest

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres/gkgrecord"
	"github.com/heartmarshall/gkgfeed/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRecords struct {
	records []domain.Record
	total   int64
	err     error
	lastQ   gkgrecord.Query
	calls   int
}

func (f *fakeRecords) Search(_ context.Context, q gkgrecord.Query) ([]domain.Record, error) {
	f.lastQ = q
	f.calls++
	return f.records, f.err
}

func (f *fakeRecords) Count(_ context.Context, q gkgrecord.Query) (int64, error) {
	f.lastQ = q
	return f.total, f.err
}

func (f *fakeRecords) GetByID(_ context.Context, id string) (*domain.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.records {
		if f.records[i].RecordID == id {
			return &f.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeRuns struct {
	runs      []domain.IngestRun
	err       error
	lastLimit int
}

func (f *fakeRuns) GetRun(_ context.Context, id uuid.UUID) (*domain.IngestRun, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRuns) ListRuns(_ context.Context, limit int) ([]domain.IngestRun, error) {
	f.lastLimit = limit
	return f.runs, f.err
}

func sampleRecord(id, source string) domain.Record {
	return domain.Record{
		RecordID:           id,
		Date:               20250101120000,
		SourceCollectionID: 1,
		SourceCommonName:   source,
		DocumentIdentifier: "https://" + source + "/" + id,
		Themes:             []string{"TAX_FNCACT"},
		Persons:            []string{},
		Tone:               &domain.Tone{Tone: -1.5, WordCount: 300},
	}
}
