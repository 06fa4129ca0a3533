package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// parseLocations decodes V1 locations:
//
//	TYPE#FULLNAME#COUNTRY#ADM1#LAT#LON#FEATUREID;...
func parseLocations(input string) []domain.Location {
	blocks := splitBlocks(input, ';')
	locs := make([]domain.Location, 0, len(blocks))
	for _, block := range blocks {
		parts := strings.Split(block, "#")
		locs = append(locs, domain.Location{
			Type:        parseInt32(field(parts, 0)),
			FullName:    field(parts, 1),
			CountryCode: field(parts, 2),
			ADM1Code:    field(parts, 3),
			Latitude:    parseFloat(field(parts, 4)),
			Longitude:   parseFloat(field(parts, 5)),
			FeatureID:   field(parts, 6),
		})
	}
	return locs
}

// parseEnhancedLocations decodes V2 locations. ADM2 sits between ADM1 and
// the latitude, which shifts every later part by one relative to V1:
//
//	TYPE#FULLNAME#COUNTRY#ADM1#ADM2#LAT#LON#FEATUREID#OFFSET;...
func parseEnhancedLocations(input string) []domain.EnhancedLocation {
	blocks := splitBlocks(input, ';')
	locs := make([]domain.EnhancedLocation, 0, len(blocks))
	for _, block := range blocks {
		parts := strings.Split(block, "#")
		locs = append(locs, domain.EnhancedLocation{
			Type:        parseInt32(field(parts, 0)),
			FullName:    field(parts, 1),
			CountryCode: field(parts, 2),
			ADM1Code:    field(parts, 3),
			ADM2Code:    field(parts, 4),
			Latitude:    parseFloat(field(parts, 5)),
			Longitude:   parseFloat(field(parts, 6)),
			FeatureID:   field(parts, 7),
			CharOffset:  parseInt64(field(parts, 8)),
		})
	}
	return locs
}
