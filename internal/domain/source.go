package domain

// SourceCollection identifies the collection a document was drawn from.
type SourceCollection int32

const (
	SourceUnknown SourceCollection = iota
	SourceWeb
	SourceCitationOnly
	SourceCore
	SourceDTIC
	SourceJSTOR
	SourceNonTextual
)

// SourceCollectionFromID maps the numeric collection id of the feed.
// Unrecognized values map to SourceUnknown.
func SourceCollectionFromID(id int32) SourceCollection {
	c := SourceCollection(id)
	if c < SourceWeb || c > SourceNonTextual {
		return SourceUnknown
	}
	return c
}

func (c SourceCollection) String() string {
	switch c {
	case SourceWeb:
		return "web"
	case SourceCitationOnly:
		return "citation_only"
	case SourceCore:
		return "core"
	case SourceDTIC:
		return "dtic"
	case SourceJSTOR:
		return "jstor"
	case SourceNonTextual:
		return "non_textual"
	default:
		return "unknown"
	}
}
