package domain

// Record is one parsed line of the GKG v2.1 feed.
// Collection fields are never nil: an empty slice means "no data".
// Optional singular fields are nil when the source field was empty.
type Record struct {
	RecordID              string             `json:"gkg_record_id"`
	Date                  int64              `json:"date"`
	SourceCollectionID    int32              `json:"source_collection_id"`
	SourceCommonName      string             `json:"source_common_name"`
	DocumentIdentifier    string             `json:"document_identifier"`
	Counts                []Count            `json:"v1_counts"`
	EnhancedCounts        []EnhancedCount    `json:"v21_counts"`
	Themes                []string           `json:"v1_themes"`
	EnhancedThemes        []EnhancedTheme    `json:"v2_enhanced_themes"`
	Locations             []Location         `json:"v1_locations"`
	EnhancedLocations     []EnhancedLocation `json:"v2_enhanced_locations"`
	Persons               []string           `json:"v1_persons"`
	EnhancedPersons       []EnhancedEntity   `json:"v2_enhanced_persons"`
	Organizations         []string           `json:"v1_organizations"`
	EnhancedOrganizations []EnhancedEntity   `json:"v2_enhanced_organizations"`
	Tone                  *Tone              `json:"tone"`
	EnhancedDates         []EnhancedDate     `json:"v21_enhanced_dates"`
	GCAM                  []GCAMEntry        `json:"gcam"`
	SharingImage          *string            `json:"sharing_image"`
	RelatedImages         []string           `json:"related_images"`
	SocialImageEmbeds     []string           `json:"social_image_embeds"`
	SocialVideoEmbeds     []string           `json:"social_video_embeds"`
	Quotations            []Quotation        `json:"quotations"`
	AllNames              []NameEntry        `json:"all_names"`
	Amounts               []AmountEntry      `json:"amounts"`
	TranslationInfo       *TranslationInfo   `json:"translation_info"`
	ExtrasXML             *string            `json:"extras_xml"`
}

// Collection returns the typed source collection of the record.
func (r *Record) Collection() SourceCollection {
	return SourceCollectionFromID(r.SourceCollectionID)
}

// CountryCodes returns the distinct country codes of all V1 and enhanced
// locations, in order of first appearance.
func (r *Record) CountryCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	add := func(code string) {
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	}
	for _, l := range r.Locations {
		add(l.CountryCode)
	}
	for _, l := range r.EnhancedLocations {
		add(l.CountryCode)
	}
	return codes
}

// Location is a geocoded place in the V1 location grammar.
type Location struct {
	Type        int32   `json:"location_type"`
	FullName    string  `json:"full_name"`
	CountryCode string  `json:"country_code"`
	ADM1Code    string  `json:"adm1_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	FeatureID   string  `json:"feature_id"`
}

// EnhancedLocation is a V2 location. It adds the ADM2 code and the
// character offset of the mention in the source text.
type EnhancedLocation struct {
	Type        int32   `json:"location_type"`
	FullName    string  `json:"full_name"`
	CountryCode string  `json:"country_code"`
	ADM1Code    string  `json:"adm1_code"`
	ADM2Code    string  `json:"adm2_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	FeatureID   string  `json:"feature_id"`
	CharOffset  int64   `json:"char_offset"`
}

// Count is a quantified event such as KILL or ARREST.
type Count struct {
	Type       string   `json:"count_type"`
	Count      int64    `json:"count"`
	ObjectType string   `json:"object_type"`
	Location   Location `json:"location"`
}

// EnhancedCount is a V2.1 count with a character offset.
type EnhancedCount struct {
	Type       string   `json:"count_type"`
	Count      int64    `json:"count"`
	ObjectType string   `json:"object_type"`
	Location   Location `json:"location"`
	CharOffset int64    `json:"char_offset"`
}

// EnhancedTheme is a theme code with its character offset.
type EnhancedTheme struct {
	Theme      string `json:"theme"`
	CharOffset int64  `json:"char_offset"`
}

// EnhancedEntity is a person or organization mention with its character offset.
type EnhancedEntity struct {
	Name       string `json:"name"`
	CharOffset int64  `json:"char_offset"`
}

// Tone holds the document sentiment and lexical summary.
type Tone struct {
	Tone                float64 `json:"tone"`
	PositiveScore       float64 `json:"positive_score"`
	NegativeScore       float64 `json:"negative_score"`
	Polarity            float64 `json:"polarity"`
	ActivityRefDensity  float64 `json:"activity_ref_density"`
	SelfGroupRefDensity float64 `json:"self_group_ref_density"`
	WordCount           int64   `json:"word_count"`
}

// EnhancedDate is a date mentioned in the text.
type EnhancedDate struct {
	Resolution int32 `json:"resolution"`
	Month      int32 `json:"month"`
	Day        int32 `json:"day"`
	Year       int32 `json:"year"`
	CharOffset int64 `json:"char_offset"`
}

// GCAMEntry is one content-analysis dimension score.
type GCAMEntry struct {
	Dimension string  `json:"dimension"`
	Value     float64 `json:"value"`
}

// Quotation is a quote extracted from the text.
type Quotation struct {
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
	Verb   string `json:"verb"`
	Quote  string `json:"quote"`
}

// NameEntry is a generic named entity with its character offset.
type NameEntry struct {
	Name       string `json:"name"`
	CharOffset int64  `json:"char_offset"`
}

// AmountEntry is a numeric or monetary mention.
type AmountEntry struct {
	Amount     float64 `json:"amount"`
	Object     string  `json:"object"`
	CharOffset int64   `json:"char_offset"`
}

// TranslationInfo describes the source language of a translated document.
type TranslationInfo struct {
	SourceLanguage string `json:"source_language"`
	Engine         string `json:"engine"`
}
