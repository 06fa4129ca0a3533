// Package fetch downloads GKG feed files from the GDELT v2 file server
// and opens them for parsing.
package fetch

import (
	"strconv"
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// gkgMarker identifies the GKG file among the export, mentions and GKG
// entries of a lastupdate listing.
const gkgMarker = ".gkg.csv"

// LastUpdateEntry is one line of lastupdate.txt: "SIZE MD5 URL".
type LastUpdateEntry struct {
	SizeBytes int64
	MD5       string
	URL       string
}

// ParseLastUpdate parses a lastupdate listing. Blank lines and lines with
// fewer than three whitespace-separated fields are skipped; an unparsable
// size reads as 0.
func ParseLastUpdate(text string) []LastUpdateEntry {
	var entries []LastUpdateEntry
	for line := range strings.Lines(text) {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}
		size, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			size = 0
		}
		entries = append(entries, LastUpdateEntry{
			SizeBytes: size,
			MD5:       parts[1],
			URL:       parts[2],
		})
	}
	return entries
}

// FindGKG returns the first entry whose URL names a GKG file.
func FindGKG(entries []LastUpdateEntry) (LastUpdateEntry, error) {
	for _, e := range entries {
		if strings.Contains(e.URL, gkgMarker) {
			return e, nil
		}
	}
	return LastUpdateEntry{}, domain.ErrNoGKGFile
}
