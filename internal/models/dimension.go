package models

import "regexp"

// Display names are restricted to letters (incl. umlauts), digits, space,
// dot, dash and underscore. Anything else is rejected before it reaches SQL.
var displayNameRegex = regexp.MustCompile(`^[a-zA-ZäöüÄÖÜß0-9 ._-]+$`)

// Protocol and submission identifiers are hyphenated lowercase hex UUIDs.
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Dimension is one of the four independent classification axes a protocol is
// indexed by. Year is handled separately since it carries no display name.
type Dimension string

const (
	DimensionExaminer Dimension = "Examiner"
	DimensionSubject  Dimension = "Subject"
	DimensionSeason   Dimension = "Season"
	DimensionStex     Dimension = "Stex"
)

// Table maps a dimension to its backing table name. The mapping is the only
// place table names come from, so dimension lookups never interpolate
// caller-provided identifiers.
func (d Dimension) Table() (string, bool) {
	switch d {
	case DimensionExaminer:
		return "examiners", true
	case DimensionSubject:
		return "subjects", true
	case DimensionSeason:
		return "seasons", true
	case DimensionStex:
		return "stexes", true
	default:
		return "", false
	}
}

type DimensionValue struct {
	ID          int64  `db:"id" json:"id"`
	DisplayName string `db:"display_name" json:"display_name"`
}

// SelectionIdentifiers carries the full id/name sets for all four dimensions,
// used by clients to build their filter UI.
type SelectionIdentifiers struct {
	Examiners []DimensionValue `json:"examiners"`
	Subjects  []DimensionValue `json:"subjects"`
	Stex      []DimensionValue `json:"stex"`
	Seasons   []DimensionValue `json:"seasons"`
}

func ValidDisplayName(name string) bool {
	return displayNameRegex.MatchString(name)
}

func ValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}
