package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

const quotationParts = 4

// parseQuotations decodes "OFFSET|LENGTH|VERB|QUOTE#..." blocks. Unlike the
// other list fields, blocks are separated by '#'. Blocks with fewer than
// four '|'-parts are dropped.
func parseQuotations(input string) []domain.Quotation {
	blocks := splitBlocks(input, '#')
	quotes := make([]domain.Quotation, 0, len(blocks))
	for _, block := range blocks {
		parts := strings.Split(block, "|")
		if len(parts) < quotationParts {
			continue
		}
		quotes = append(quotes, domain.Quotation{
			Offset: parseInt64(parts[0]),
			Length: parseInt64(parts[1]),
			Verb:   parts[2],
			Quote:  parts[3],
		})
	}
	return quotes
}
