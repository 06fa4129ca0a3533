package gkg

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// Field positions of the GKG v2.1 wire format.
const (
	fieldRecordID = iota
	fieldDate
	fieldSourceCollectionID
	fieldSourceCommonName
	fieldDocumentIdentifier
	fieldCounts
	fieldEnhancedCounts
	fieldThemes
	fieldEnhancedThemes
	fieldLocations
	fieldEnhancedLocations
	fieldPersons
	fieldEnhancedPersons
	fieldOrganizations
	fieldEnhancedOrganizations
	fieldTone
	fieldEnhancedDates
	fieldGCAM
	fieldSharingImage
	fieldRelatedImages
	fieldSocialImageEmbeds
	fieldSocialVideoEmbeds
	fieldQuotations
	fieldAllNames
	fieldAmounts
	fieldTranslationInfo
	fieldExtrasXML

	// FieldCount is the number of fields in a complete line.
	FieldCount
)

// ParseRecord parses one feed line. lineNumber is only used in errors.
// It fails with a *ParseError when the line has fewer than MinFields
// tab-delimited fields; any other malformation is absorbed field by field.
func ParseRecord(line string, lineNumber int) (domain.Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < MinFields {
		return domain.Record{}, &ParseError{
			Line:     lineNumber,
			RecordID: fields[fieldRecordID],
			Fields:   len(fields),
			Message:  fmt.Sprintf("expected at least %d tab-delimited fields, got %d", MinFields, len(fields)),
		}
	}

	get := func(i int) string { return field(fields, i) }

	return domain.Record{
		RecordID:              get(fieldRecordID),
		Date:                  parseInt64(get(fieldDate)),
		SourceCollectionID:    parseInt32(get(fieldSourceCollectionID)),
		SourceCommonName:      get(fieldSourceCommonName),
		DocumentIdentifier:    get(fieldDocumentIdentifier),
		Counts:                parseCounts(get(fieldCounts)),
		EnhancedCounts:        parseEnhancedCounts(get(fieldEnhancedCounts)),
		Themes:                splitList(get(fieldThemes)),
		EnhancedThemes:        parseEnhancedThemes(get(fieldEnhancedThemes)),
		Locations:             parseLocations(get(fieldLocations)),
		EnhancedLocations:     parseEnhancedLocations(get(fieldEnhancedLocations)),
		Persons:               splitList(get(fieldPersons)),
		EnhancedPersons:       parseEnhancedEntities(get(fieldEnhancedPersons)),
		Organizations:         splitList(get(fieldOrganizations)),
		EnhancedOrganizations: parseEnhancedEntities(get(fieldEnhancedOrganizations)),
		Tone:                  parseTone(get(fieldTone)),
		EnhancedDates:         parseEnhancedDates(get(fieldEnhancedDates)),
		GCAM:                  parseGCAM(get(fieldGCAM)),
		SharingImage:          nonEmpty(get(fieldSharingImage)),
		RelatedImages:         splitList(get(fieldRelatedImages)),
		SocialImageEmbeds:     splitList(get(fieldSocialImageEmbeds)),
		SocialVideoEmbeds:     splitList(get(fieldSocialVideoEmbeds)),
		Quotations:            parseQuotations(get(fieldQuotations)),
		AllNames:              parseNames(get(fieldAllNames)),
		Amounts:               parseAmounts(get(fieldAmounts)),
		TranslationInfo:       parseTranslationInfo(get(fieldTranslationInfo)),
		ExtrasXML:             nonEmpty(get(fieldExtrasXML)),
	}, nil
}
