package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// parseAmounts decodes "AMOUNT,OBJECT,OFFSET;..." blocks. The split is
// capped at three parts, so a comma inside OFFSET stays there and the
// offset parses as zero.
func parseAmounts(input string) []domain.AmountEntry {
	blocks := splitBlocks(input, ';')
	amounts := make([]domain.AmountEntry, 0, len(blocks))
	for _, block := range blocks {
		parts := strings.SplitN(block, ",", 3)
		amounts = append(amounts, domain.AmountEntry{
			Amount:     parseFloat(field(parts, 0)),
			Object:     field(parts, 1),
			CharOffset: parseInt64(field(parts, 2)),
		})
	}
	return amounts
}
