package stats

import "strings"

// taxonomyPrefixes are stripped from theme codes for display.
var taxonomyPrefixes = []string{
	"TAX_TERROR_GROUP_",
	"TAX_POLITICAL_PARTY_",
	"TAX_WORLDLANGUAGES_",
	"TAX_WORLDMAMMALS_",
	"TAX_WORLDBIRDS_",
	"TAX_WORLDREPTILES_",
	"TAX_WORLDFISH_",
	"TAX_ETHNICITY_",
	"TAX_FNCACT_",
	"CRISISLEX_",
	"EPU_CATS_",
	"EPU_POLICY_",
	"USPEC_POLITICS_",
	"MEDIA_",
}

// DisplayTheme turns a GKG theme code into a readable label:
// "TAX_FNCACT_PRESIDENT" becomes "PRESIDENT", "WB_2433_CONFLICT_AND_VIOLENCE"
// becomes "CONFLICT AND VIOLENCE".
func DisplayTheme(theme string) string {
	for _, prefix := range taxonomyPrefixes {
		if rest, ok := strings.CutPrefix(theme, prefix); ok && rest != "" {
			return strings.ReplaceAll(rest, "_", " ")
		}
	}

	if rest, ok := strings.CutPrefix(theme, "WB_"); ok {
		if _, after, found := strings.Cut(rest, "_"); found && after != "" {
			return strings.ReplaceAll(after, "_", " ")
		}
	}

	return strings.ReplaceAll(theme, "_", " ")
}
