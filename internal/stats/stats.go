// Package stats computes frequency and tone summaries over parsed GKG records.
package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// DefaultTopN is the table length used when a non-positive topN is given.
const DefaultTopN = 10

// Summary is the result of Compute.
type Summary struct {
	TotalRecords  int              `json:"total_records"`
	Themes        []FrequencyEntry `json:"themes"`
	Countries     []FrequencyEntry `json:"countries"`
	Persons       []FrequencyEntry `json:"persons"`
	Organizations []FrequencyEntry `json:"organizations"`
	Sources       []FrequencyEntry `json:"sources"`
	Tone          *ToneStats       `json:"tone"`
}

// FrequencyEntry is one row of a frequency table. Pct is relative to the
// number of values counted for that table, not to the record count.
type FrequencyEntry struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// ToneStats summarizes the document tone of records that carry one.
type ToneStats struct {
	Mean         float64    `json:"mean"`
	StdDev       float64    `json:"std_dev"`
	Min          float64    `json:"min"`
	Max          float64    `json:"max"`
	MostPositive ArticleRef `json:"most_positive"`
	MostNegative ArticleRef `json:"most_negative"`
}

// ArticleRef points at a single document and its tone.
type ArticleRef struct {
	URL  string  `json:"url"`
	Tone float64 `json:"tone"`
}

// Compute builds a Summary over records. Nil records are skipped.
func Compute(records []*domain.Record, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var (
		themes, countries, persons, orgs, sources counter
		tones                                     []ArticleRef
	)

	total := 0
	for _, rec := range records {
		if rec == nil {
			continue
		}
		total++

		seenThemes := make(map[string]bool, len(rec.EnhancedThemes))
		for _, et := range rec.EnhancedThemes {
			name := DisplayTheme(et.Theme)
			if name == "" || seenThemes[name] {
				continue
			}
			seenThemes[name] = true
			themes.add(name)
		}

		seenCountries := make(map[string]bool, len(rec.EnhancedLocations))
		for _, loc := range rec.EnhancedLocations {
			if loc.CountryCode == "" || seenCountries[loc.CountryCode] {
				continue
			}
			seenCountries[loc.CountryCode] = true
			countries.add(loc.CountryCode)
		}

		for _, p := range rec.Persons {
			persons.add(p)
		}
		for _, o := range rec.Organizations {
			orgs.add(o)
		}
		sources.add(rec.SourceCommonName)

		if rec.Tone != nil {
			tones = append(tones, ArticleRef{URL: rec.DocumentIdentifier, Tone: rec.Tone.Tone})
		}
	}

	return Summary{
		TotalRecords:  total,
		Themes:        themes.top(topN),
		Countries:     countries.top(topN),
		Persons:       persons.top(topN),
		Organizations: orgs.top(topN),
		Sources:       sources.top(topN),
		Tone:          toneStats(tones),
	}
}

// counter tallies non-empty names and remembers the number of values seen.
type counter struct {
	counts map[string]int
	total  int
}

func (c *counter) add(name string) {
	if name == "" {
		return
	}
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[name]++
	c.total++
}

// top returns the n most frequent names, ties broken by name.
func (c *counter) top(n int) []FrequencyEntry {
	entries := make([]FrequencyEntry, 0, len(c.counts))
	for name, count := range c.counts {
		entries = append(entries, FrequencyEntry{
			Name:  name,
			Count: count,
			Pct:   float64(count) / float64(c.total) * 100,
		})
	}
	slices.SortFunc(entries, func(a, b FrequencyEntry) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func toneStats(refs []ArticleRef) *ToneStats {
	if len(refs) == 0 {
		return nil
	}

	ts := &ToneStats{
		Min:          refs[0].Tone,
		Max:          refs[0].Tone,
		MostPositive: refs[0],
		MostNegative: refs[0],
	}

	var sum float64
	for _, r := range refs {
		sum += r.Tone
		if r.Tone > ts.MostPositive.Tone {
			ts.MostPositive = r
		}
		if r.Tone < ts.MostNegative.Tone {
			ts.MostNegative = r
		}
	}
	ts.Min = ts.MostNegative.Tone
	ts.Max = ts.MostPositive.Tone

	n := float64(len(refs))
	ts.Mean = sum / n

	// Sample standard deviation; a single value has no spread.
	if len(refs) > 1 {
		var sq float64
		for _, r := range refs {
			d := r.Tone - ts.Mean
			sq += d * d
		}
		ts.StdDev = math.Sqrt(sq / (n - 1))
	}

	return ts
}
