package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// Options is the flat form of a filter set, as read from flags or query
// parameters. Empty strings and nil pointers are ignored by Build.
type Options struct {
	Person   string
	Org      string
	Theme    string
	Location string
	Country  string
	Source   string
	ToneMin  *float64
	ToneMax  *float64
	// DateFrom and DateTo accept YYYYMMDD or YYYYMMDDHHMMSS.
	DateFrom string
	DateTo   string
	HasImage bool
	HasQuote bool
}

// Build turns opts into a composite. It fails only on malformed dates.
func Build(opts Options) (Composite, error) {
	var c Composite

	if opts.Person != "" {
		c.Add(Person{Pattern: opts.Person})
	}
	if opts.Org != "" {
		c.Add(Org{Pattern: opts.Org})
	}
	if opts.Theme != "" {
		c.Add(Theme{Pattern: opts.Theme})
	}
	if opts.Location != "" {
		c.Add(Location{Pattern: opts.Location})
	}
	if opts.Country != "" {
		c.Add(Country{Code: opts.Country})
	}
	if opts.ToneMin != nil || opts.ToneMax != nil {
		c.Add(ToneRange{Min: opts.ToneMin, Max: opts.ToneMax})
	}

	if opts.DateFrom != "" || opts.DateTo != "" {
		var dr DateRange
		if opts.DateFrom != "" {
			from, err := ParseDateBound(opts.DateFrom, false)
			if err != nil {
				return nil, err
			}
			dr.From = &from
		}
		if opts.DateTo != "" {
			to, err := ParseDateBound(opts.DateTo, true)
			if err != nil {
				return nil, err
			}
			dr.To = &to
		}
		c.Add(dr)
	}

	if opts.Source != "" {
		c.Add(Source{Pattern: opts.Source})
	}
	if opts.HasImage {
		c.Add(HasImage{})
	}
	if opts.HasQuote {
		c.Add(HasQuote{})
	}

	return c, nil
}

// ParseDateBound parses a YYYYMMDD or YYYYMMDDHHMMSS date. A bare day is
// widened to its first second, or to its last second when end is set.
func ParseDateBound(s string, end bool) (int64, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 8:
		if end {
			s += "235959"
		} else {
			s += "000000"
		}
	case 14:
	default:
		return 0, domain.NewValidationError("date", fmt.Sprintf("%q must be YYYYMMDD or YYYYMMDDHHMMSS", s))
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, domain.NewValidationError("date", fmt.Sprintf("%q is not numeric", s))
	}
	return v, nil
}
