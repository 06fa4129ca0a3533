// Package output writes parsed records as JSON, compact JSON or NDJSON and
// describes the record layout as a JSON Schema.
package output

import (
	"fmt"
	"io"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// Output format names accepted by NewFormatter.
const (
	FormatJSON        = "json"
	FormatJSONCompact = "json-compact"
	FormatNDJSON      = "ndjson"
)

// Formatter streams records to a writer. Begin is called once before the
// first record and Finish once after the last, even when no record was
// written.
type Formatter interface {
	Begin() error
	WriteRecord(rec *domain.Record) error
	Finish() error
}

// NewFormatter returns the formatter for format. When fields is non-empty
// each record is projected onto those snake_case keys, in that order.
func NewFormatter(format string, w io.Writer, fields []string) (Formatter, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONFormatter(w, true, fields), nil
	case FormatJSONCompact:
		return NewJSONFormatter(w, false, fields), nil
	case FormatNDJSON:
		return NewNDJSONFormatter(w, fields), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, FormatJSON, FormatJSONCompact, FormatNDJSON)
	}
}
