package filter

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// Person matches a case-insensitive substring of any V1 or enhanced person.
type Person struct{ Pattern string }

func (p Person) Match(rec *domain.Record) bool {
	pat := strings.ToLower(p.Pattern)
	for _, name := range rec.Persons {
		if strings.Contains(strings.ToLower(name), pat) {
			return true
		}
	}
	for _, e := range rec.EnhancedPersons {
		if strings.Contains(strings.ToLower(e.Name), pat) {
			return true
		}
	}
	return false
}

// Org matches a case-insensitive substring of any V1 or enhanced organization.
type Org struct{ Pattern string }

func (o Org) Match(rec *domain.Record) bool {
	pat := strings.ToLower(o.Pattern)
	for _, name := range rec.Organizations {
		if strings.Contains(strings.ToLower(name), pat) {
			return true
		}
	}
	for _, e := range rec.EnhancedOrganizations {
		if strings.Contains(strings.ToLower(e.Name), pat) {
			return true
		}
	}
	return false
}

// Theme matches an upper-cased substring of any V1 or enhanced theme code.
type Theme struct{ Pattern string }

func (t Theme) Match(rec *domain.Record) bool {
	pat := strings.ToUpper(t.Pattern)
	for _, theme := range rec.Themes {
		if strings.Contains(strings.ToUpper(theme), pat) {
			return true
		}
	}
	for _, e := range rec.EnhancedThemes {
		if strings.Contains(strings.ToUpper(e.Theme), pat) {
			return true
		}
	}
	return false
}

// Location matches a case-insensitive substring of any location full name.
type Location struct{ Pattern string }

func (l Location) Match(rec *domain.Record) bool {
	pat := strings.ToLower(l.Pattern)
	for _, loc := range rec.Locations {
		if strings.Contains(strings.ToLower(loc.FullName), pat) {
			return true
		}
	}
	for _, loc := range rec.EnhancedLocations {
		if strings.Contains(strings.ToLower(loc.FullName), pat) {
			return true
		}
	}
	return false
}

// Country matches a FIPS country code of any location, ignoring case.
type Country struct{ Code string }

func (c Country) Match(rec *domain.Record) bool {
	for _, loc := range rec.Locations {
		if strings.EqualFold(loc.CountryCode, c.Code) {
			return true
		}
	}
	for _, loc := range rec.EnhancedLocations {
		if strings.EqualFold(loc.CountryCode, c.Code) {
			return true
		}
	}
	return false
}

// ToneRange matches records whose overall tone lies within the inclusive
// bounds. A nil bound is open. Records without tone never match.
type ToneRange struct {
	Min *float64
	Max *float64
}

func (t ToneRange) Match(rec *domain.Record) bool {
	if rec.Tone == nil {
		return false
	}
	if t.Min != nil && rec.Tone.Tone < *t.Min {
		return false
	}
	if t.Max != nil && rec.Tone.Tone > *t.Max {
		return false
	}
	return true
}

// DateRange matches records whose YYYYMMDDHHMMSS date lies within the
// inclusive bounds. A nil bound is open.
type DateRange struct {
	From *int64
	To   *int64
}

func (d DateRange) Match(rec *domain.Record) bool {
	if d.From != nil && rec.Date < *d.From {
		return false
	}
	if d.To != nil && rec.Date > *d.To {
		return false
	}
	return true
}

// Source matches a case-insensitive substring of the source common name.
type Source struct{ Pattern string }

func (s Source) Match(rec *domain.Record) bool {
	return strings.Contains(strings.ToLower(rec.SourceCommonName), strings.ToLower(s.Pattern))
}

// HasImage matches records with a sharing image.
type HasImage struct{}

func (HasImage) Match(rec *domain.Record) bool { return rec.SharingImage != nil }

// HasQuote matches records with at least one quotation.
type HasQuote struct{}

func (HasQuote) Match(rec *domain.Record) bool { return len(rec.Quotations) > 0 }
