package gkg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

const readBufferSize = 64 * 1024

// Line is one non-blank line of a feed file.
// Number is the 1-based physical line number, counting skipped blank lines.
type Line struct {
	Number int
	Text   string
}

// Reader yields the non-blank lines of a feed stream in order.
// It is single-use: once Next has returned io.EOF or a read error,
// every later call returns the same result.
type Reader struct {
	br     *bufio.Reader
	lineNo int
	err    error
}

// NewReader wraps r. Lines have no length limit.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, readBufferSize)}
}

// Next returns the next non-blank line with its trailing "\n" and any
// preceding "\r" removed. It returns io.EOF at end of input and a wrapped
// error if the underlying reader fails.
func (r *Reader) Next() (Line, error) {
	for r.err == nil {
		text, err := r.br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			r.err = fmt.Errorf("read line %d: %w", r.lineNo+1, err)
			break
		}
		if err != nil && text == "" {
			r.err = io.EOF
			break
		}
		if err != nil {
			// Final line without a terminator: yield it, then stop.
			r.err = io.EOF
		}

		r.lineNo++
		text = strings.TrimRight(strings.TrimSuffix(text, "\n"), "\r")
		if text == "" {
			continue
		}
		return Line{Number: r.lineNo, Text: text}, nil
	}
	return Line{}, r.err
}

// All returns an iterator over the remaining lines. Iteration stops after
// the first read error, which is yielded with a zero Line.
func (r *Reader) All() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for {
			line, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}
