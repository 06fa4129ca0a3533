package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// JSONFormatter writes records as one JSON array.
type JSONFormatter struct {
	w      *bufio.Writer
	pretty bool
	fields []string
	first  bool
}

// NewJSONFormatter creates a JSONFormatter. pretty indents each record.
func NewJSONFormatter(w io.Writer, pretty bool, fields []string) *JSONFormatter {
	return &JSONFormatter{w: bufio.NewWriter(w), pretty: pretty, fields: fields, first: true}
}

func (f *JSONFormatter) Begin() error {
	_, err := f.w.WriteString("[\n")
	return err
}

func (f *JSONFormatter) WriteRecord(rec *domain.Record) error {
	data, err := encodeRecord(rec, f.fields)
	if err != nil {
		return err
	}
	if f.pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("indent record %s: %w", rec.RecordID, err)
		}
		data = buf.Bytes()
	}

	if !f.first {
		if _, err := f.w.WriteString(",\n"); err != nil {
			return err
		}
	}
	f.first = false

	_, err = f.w.Write(data)
	return err
}

func (f *JSONFormatter) Finish() error {
	if _, err := f.w.WriteString("\n]\n"); err != nil {
		return err
	}
	return f.w.Flush()
}

// NDJSONFormatter writes one compact JSON object per line.
type NDJSONFormatter struct {
	w      *bufio.Writer
	fields []string
}

// NewNDJSONFormatter creates an NDJSONFormatter.
func NewNDJSONFormatter(w io.Writer, fields []string) *NDJSONFormatter {
	return &NDJSONFormatter{w: bufio.NewWriter(w), fields: fields}
}

func (f *NDJSONFormatter) Begin() error { return nil }

func (f *NDJSONFormatter) WriteRecord(rec *domain.Record) error {
	data, err := encodeRecord(rec, f.fields)
	if err != nil {
		return err
	}
	if _, err := f.w.Write(data); err != nil {
		return err
	}
	return f.w.WriteByte('\n')
}

func (f *NDJSONFormatter) Finish() error { return f.w.Flush() }

func encodeRecord(rec *domain.Record, fields []string) ([]byte, error) {
	if len(fields) == 0 {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode record %s: %w", rec.RecordID, err)
		}
		return data, nil
	}
	return Project(rec, fields)
}

// Project encodes rec as a JSON object holding only the named keys, in the
// order given. Unknown and repeated names are skipped.
func Project(rec *domain.Record, fields []string) ([]byte, error) {
	full, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", rec.RecordID, err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(full, &obj); err != nil {
		return nil, fmt.Errorf("project record %s: %w", rec.RecordID, err)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	for _, name := range fields {
		val, ok := obj[name]
		if !ok {
			continue
		}
		delete(obj, name)
		if n > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		n++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
