package gkg

import "github.com/heartmarshall/gkgfeed/internal/domain"

// parseNames decodes the all-names field, "NAME,OFFSET;...", splitting on
// the last comma like the enhanced entity lists.
func parseNames(input string) []domain.NameEntry {
	blocks := splitBlocks(input, ';')
	names := make([]domain.NameEntry, 0, len(blocks))
	for _, block := range blocks {
		name, offset, ok := cutLast(block, ',')
		if !ok || name == "" {
			continue
		}
		names = append(names, domain.NameEntry{
			Name:       name,
			CharOffset: parseInt64(offset),
		})
	}
	return names
}
