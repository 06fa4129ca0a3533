package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/filter"
	"github.com/heartmarshall/gkgfeed/internal/gkg"
)

// ErrStopScan may be returned by a ScanFunc to end a scan early without error.
var ErrStopScan = errors.New("stop scan")

// ScanFunc receives each record that passed the filter.
type ScanFunc func(rec *domain.Record) error

// ScanResult counts what a scan saw.
type ScanResult struct {
	Lines    int
	Parsed   int
	Rejected int
	Matched  int
}

// Scan parses src line by line on the calling goroutine and hands every
// record matching f to fn. Rejected lines are logged and skipped. A nil
// filter matches everything.
func Scan(ctx context.Context, src io.Reader, log *slog.Logger, f filter.Filter, fn ScanFunc) (ScanResult, error) {
	var res ScanResult
	r := gkg.NewReader(src)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("scan: %w", err)
		}
		res.Lines++

		rec, err := gkg.ParseRecord(line.Text, line.Number)
		if err != nil {
			res.Rejected++
			logReject(ctx, log, err)
			continue
		}
		res.Parsed++

		if f != nil && !f.Match(&rec) {
			continue
		}
		res.Matched++

		if err := fn(&rec); err != nil {
			if errors.Is(err, ErrStopScan) {
				return res, nil
			}
			return res, err
		}
	}
}

func logReject(ctx context.Context, log *slog.Logger, err error) {
	attrs := []any{slog.String("error", err.Error())}
	var pe *gkg.ParseError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.Int("line", pe.Line), slog.String("record_id", pe.RecordID))
	}
	log.WarnContext(ctx, "line rejected", attrs...)
}

// Page returns a ScanFunc that skips the first offset records, then passes
// at most limit records to fn. A non-positive limit means no cap.
func Page(offset, limit int, fn ScanFunc) ScanFunc {
	seen, taken := 0, 0
	return func(rec *domain.Record) error {
		if seen < offset {
			seen++
			return nil
		}
		if limit > 0 && taken >= limit {
			return ErrStopScan
		}
		taken++
		if err := fn(rec); err != nil {
			return err
		}
		if limit > 0 && taken >= limit {
			return ErrStopScan
		}
		return nil
	}
}
