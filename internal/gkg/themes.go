package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// parseEnhancedThemes decodes "THEME,OFFSET;..." blocks. Only the first
// comma separates the offset; a block without one gets offset 0.
func parseEnhancedThemes(input string) []domain.EnhancedTheme {
	blocks := splitBlocks(input, ';')
	themes := make([]domain.EnhancedTheme, 0, len(blocks))
	for _, block := range blocks {
		theme, offset, _ := strings.Cut(block, ",")
		themes = append(themes, domain.EnhancedTheme{
			Theme:      theme,
			CharOffset: parseInt64(offset),
		})
	}
	return themes
}
