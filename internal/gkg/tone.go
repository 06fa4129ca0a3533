package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// parseTone decodes the single comma-separated tone block:
//
//	TONE,POSITIVE,NEGATIVE,POLARITY,ACTIVITY,SELFGROUP,WORDCOUNT
//
// An empty field yields nil. Missing positions are zero.
func parseTone(input string) *domain.Tone {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return &domain.Tone{
		Tone:                parseFloat(field(parts, 0)),
		PositiveScore:       parseFloat(field(parts, 1)),
		NegativeScore:       parseFloat(field(parts, 2)),
		Polarity:            parseFloat(field(parts, 3)),
		ActivityRefDensity:  parseFloat(field(parts, 4)),
		SelfGroupRefDensity: parseFloat(field(parts, 5)),
		WordCount:           parseInt64(field(parts, 6)),
	}
}
