package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// parseEnhancedEntities decodes "NAME,OFFSET;..." blocks for persons and
// organizations. Names may contain commas, so the offset follows the last
// comma. Blocks without a comma or with an empty name are dropped.
func parseEnhancedEntities(input string) []domain.EnhancedEntity {
	blocks := splitBlocks(input, ';')
	entities := make([]domain.EnhancedEntity, 0, len(blocks))
	for _, block := range blocks {
		name, offset, ok := cutLast(block, ',')
		if !ok || name == "" {
			continue
		}
		entities = append(entities, domain.EnhancedEntity{
			Name:       name,
			CharOffset: parseInt64(offset),
		})
	}
	return entities
}

// cutLast slices s around the last instance of sep.
func cutLast(s string, sep byte) (before, after string, found bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
