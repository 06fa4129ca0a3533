package stats

import (
	"bufio"
	"fmt"
	"io"
)

// Print renders the summary as plain-text tables. Empty tables are omitted.
func (s Summary) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\n=== GDELT Analysis Stats (%d records) ===\n", s.TotalRecords)

	printTable(bw, "Top Themes", s.Themes)
	printTable(bw, "Top Countries", s.Countries)

	if t := s.Tone; t != nil {
		fmt.Fprintf(bw, "\n--- Tone ---\n")
		fmt.Fprintf(bw, "  Mean: %.2f  Std: %.2f  Range: [%.2f, %.2f]\n", t.Mean, t.StdDev, t.Min, t.Max)
		fmt.Fprintf(bw, "  Most positive: [%.2f] %s\n", t.MostPositive.Tone, t.MostPositive.URL)
		fmt.Fprintf(bw, "  Most negative: [%.2f] %s\n", t.MostNegative.Tone, t.MostNegative.URL)
	}

	printTable(bw, "Top Persons", s.Persons)
	printTable(bw, "Top Organizations", s.Organizations)
	printTable(bw, "Top Sources", s.Sources)

	fmt.Fprintln(bw)
	return bw.Flush()
}

func printTable(w io.Writer, title string, entries []FrequencyEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- %s ---\n", title)

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	for i, e := range entries {
		fmt.Fprintf(w, "  %2d. %-*s  %4d  (%.1f%%)\n", i+1, width, e.Name, e.Count, e.Pct)
	}
}
