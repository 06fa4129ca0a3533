package gkg

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

var fuzzSeeds = []string{
	"",
	"\t\t\t\t",
	"a\tb\tc",
	"KILL#5#attackers#4#Baghdad, Baghdad, Iraq#IZ#IZ05#33.34#44.4#-1552751",
	"4#Washington, District of Columbia, United States#US#USDC#38.8951#-77.0364#531871",
	"120|45|said|we must act now#300|30|stated|the economy is growing",
	"Biden, Joe,250",
	"-3.5,1.2,4.7,5.9,22.1,0.5,312",
	"wc:125,c1.2:3",
	"srclc:fra;eng:GT-FRA 1.0",
	";;;###|||,,,:::",
	"\x00\xff\xfe",
}

func FuzzParseRecord(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}
	f.Add(strings.Repeat("x\t", FieldCount-1) + "x")

	f.Fuzz(func(t *testing.T, line string) {
		rec, err := ParseRecord(line, 1)
		if err != nil {
			if !errors.Is(err, ErrTooFewFields) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		if rec.Themes == nil || rec.Counts == nil || rec.Quotations == nil {
			t.Fatalf("nil collection in %+v", rec)
		}
	})
}

// FuzzParseRecordField places the fuzzed value at every field position of an
// otherwise valid line so each sub-parser sees arbitrary input through the
// dispatch path.
func FuzzParseRecordField(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, value string) {
		value = strings.ReplaceAll(value, "\t", " ")
		fields := make([]string, FieldCount)
		for i := range fields {
			fields[i] = "x"
		}
		for pos := range FieldCount {
			saved := fields[pos]
			fields[pos] = value
			if _, err := ParseRecord(strings.Join(fields, "\t"), pos+1); err != nil {
				t.Fatalf("field %d: %v", pos, err)
			}
			fields[pos] = saved
		}
	})
}

func FuzzSubParsers(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		_ = parseCounts(input)
		_ = parseEnhancedCounts(input)
		_ = splitList(input)
		_ = parseEnhancedThemes(input)
		_ = parseLocations(input)
		_ = parseEnhancedLocations(input)
		_ = parseEnhancedEntities(input)
		_ = parseTone(input)
		_ = parseEnhancedDates(input)
		_ = parseGCAM(input)
		_ = parseQuotations(input)
		_ = parseNames(input)
		_ = parseAmounts(input)
		_ = parseTranslationInfo(input)

		if input == "" && parseTone(input) != nil {
			t.Fatal("empty tone must be nil")
		}
	})
}

func FuzzReader(f *testing.F) {
	f.Add([]byte("a\nb\r\n\n c"))
	f.Add([]byte("\r\r\n\n"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		r := NewReader(bytes.NewReader(data))
		prev := 0
		for {
			line, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if line.Text == "" {
				t.Fatal("blank line yielded")
			}
			if line.Number <= prev {
				t.Fatalf("line numbers not increasing: %d after %d", line.Number, prev)
			}
			prev = line.Number
		}
		if prev > bytes.Count(data, []byte("\n"))+1 {
			t.Fatalf("line number %d exceeds physical lines", prev)
		}
	})
}
