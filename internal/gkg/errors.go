package gkg

import (
	"errors"
	"fmt"
)

// MinFields is the smallest number of tab-delimited fields a line must
// carry to be accepted as a record.
const MinFields = 5

// ErrTooFewFields is wrapped by ParseError when a line is structurally short.
var ErrTooFewFields = errors.New("too few fields")

// ParseError reports a line that could not be assembled into a record.
// RecordID is the first field of the line, kept so callers can tally
// rejected records.
type ParseError struct {
	Line     int
	RecordID string
	Fields   int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrTooFewFields }
