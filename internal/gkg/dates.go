package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// parseEnhancedDates decodes "RES,MONTH,DAY,YEAR,OFFSET;..." blocks.
func parseEnhancedDates(input string) []domain.EnhancedDate {
	blocks := splitBlocks(input, ';')
	dates := make([]domain.EnhancedDate, 0, len(blocks))
	for _, block := range blocks {
		parts := strings.Split(block, ",")
		dates = append(dates, domain.EnhancedDate{
			Resolution: parseInt32(field(parts, 0)),
			Month:      parseInt32(field(parts, 1)),
			Day:        parseInt32(field(parts, 2)),
			Year:       parseInt32(field(parts, 3)),
			CharOffset: parseInt64(field(parts, 4)),
		})
	}
	return dates
}
