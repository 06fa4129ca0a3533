// Package filter selects parsed records by person, organization, theme,
// location, country, tone, date, source and attachments.
package filter

import "github.com/heartmarshall/gkgfeed/internal/domain"

// Filter reports whether a record should be kept.
type Filter interface {
	Match(rec *domain.Record) bool
}

// Composite keeps a record only when every member keeps it.
// The zero value matches everything.
type Composite []Filter

// Add appends f to the composite.
func (c *Composite) Add(f Filter) {
	*c = append(*c, f)
}

// Empty reports whether the composite has no members.
func (c Composite) Empty() bool {
	return len(c) == 0
}

func (c Composite) Match(rec *domain.Record) bool {
	for _, f := range c {
		if !f.Match(rec) {
			return false
		}
	}
	return true
}
