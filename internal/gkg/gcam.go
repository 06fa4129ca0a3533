package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// parseGCAM decodes "DIMENSION:VALUE,..." pairs. The first entry of a real
// feed is the word count ("wc:123"); it is kept like any other dimension.
func parseGCAM(input string) []domain.GCAMEntry {
	pairs := splitBlocks(input, ',')
	entries := make([]domain.GCAMEntry, 0, len(pairs))
	for _, pair := range pairs {
		dim, value, _ := strings.Cut(pair, ":")
		entries = append(entries, domain.GCAMEntry{
			Dimension: dim,
			Value:     parseFloat(value),
		})
	}
	return entries
}
