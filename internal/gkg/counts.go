package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// minCountParts is the number of '#'-parts a count block needs: a type and
// a count. Everything after that may be missing.
const minCountParts = 2

// parseCounts decodes V1 counts:
//
//	TYPE#COUNT#OBJECT#LOCTYPE#FULLNAME#COUNTRY#ADM1#LAT#LON#FEATUREID;...
func parseCounts(input string) []domain.Count {
	blocks := splitBlocks(input, ';')
	counts := make([]domain.Count, 0, len(blocks))
	for _, block := range blocks {
		parts := strings.Split(block, "#")
		if len(parts) < minCountParts {
			continue
		}
		counts = append(counts, domain.Count{
			Type:       field(parts, 0),
			Count:      parseInt64(field(parts, 1)),
			ObjectType: field(parts, 2),
			Location:   countLocation(parts),
		})
	}
	return counts
}

// parseEnhancedCounts decodes V2.1 counts, which append a character offset
// as the eleventh part.
func parseEnhancedCounts(input string) []domain.EnhancedCount {
	blocks := splitBlocks(input, ';')
	counts := make([]domain.EnhancedCount, 0, len(blocks))
	for _, block := range blocks {
		parts := strings.Split(block, "#")
		if len(parts) < minCountParts {
			continue
		}
		counts = append(counts, domain.EnhancedCount{
			Type:       field(parts, 0),
			Count:      parseInt64(field(parts, 1)),
			ObjectType: field(parts, 2),
			Location:   countLocation(parts),
			CharOffset: parseInt64(field(parts, 10)),
		})
	}
	return counts
}

// countLocation reads the embedded V1 location at parts[3:10].
func countLocation(parts []string) domain.Location {
	return domain.Location{
		Type:        parseInt32(field(parts, 3)),
		FullName:    field(parts, 4),
		CountryCode: field(parts, 5),
		ADM1Code:    field(parts, 6),
		Latitude:    parseFloat(field(parts, 7)),
		Longitude:   parseFloat(field(parts, 8)),
		FeatureID:   field(parts, 9),
	}
}
