package gkg

import (
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

const (
	prefixSourceLanguage = "srclc:"
	prefixEngine         = "eng:"
)

// parseTranslationInfo decodes "srclc:fra;eng:GT-FRA 1.0". Unknown tokens
// are ignored. It returns nil unless at least one known prefix carries a
// value; a repeated prefix overwrites the earlier value.
func parseTranslationInfo(input string) *domain.TranslationInfo {
	if input == "" {
		return nil
	}

	var info domain.TranslationInfo
	for _, token := range strings.Split(input, ";") {
		token = strings.TrimSpace(token)
		if lang, ok := strings.CutPrefix(token, prefixSourceLanguage); ok {
			info.SourceLanguage = strings.TrimSpace(lang)
		} else if eng, ok := strings.CutPrefix(token, prefixEngine); ok {
			info.Engine = strings.TrimSpace(eng)
		}
	}

	if info.SourceLanguage == "" && info.Engine == "" {
		return nil
	}
	return &info
}
