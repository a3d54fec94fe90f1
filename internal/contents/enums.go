package contents

import "strconv"

// Style, Veracity and Purpose mirror the target schema's snippet
// attribute enums. They serialize as their schema spelling.
type (
	Style    string
	Veracity string
	Purpose  string
)

const (
	StyleNormal    Style = "Normal"
	StyleReadAloud Style = "Read_Aloud"
	StyleHandout   Style = "Handout"
	StyleFlavor    Style = "Flavor"
	StyleCallout   Style = "Callout"

	VeracityTruth   Veracity = "Truth"
	VeracityPartial Veracity = "Partial"
	VeracityLie     Veracity = "Lie"

	PurposeStoryOnly      Purpose = "Story_Only"
	PurposeDirectionsOnly Purpose = "Directions_Only"
	PurposeBoth           Purpose = "Both"
)

// Nature is the relationship kind.
type Nature string

const (
	NatureArbitrary       Nature = "Arbitrary"
	NatureGeneric         Nature = "Generic"
	NatureUnion           Nature = "Union"
	NatureParentOffspring Nature = "Parent_To_Offspring"
	NatureMasterMinion    Nature = "Master_To_Minion"
	NaturePublicAttitude  Nature = "Public_Attitude_Towards"
	NaturePrivateAttitude Nature = "Private_Attitude_Towards"
)

// IsAttitude reports whether the nature carries a numeric attitude rating
// instead of a qualifier tag.
func (n Nature) IsAttitude() bool {
	return n == NaturePublicAttitude || n == NaturePrivateAttitude
}

// QualifierDomain names the domain whose vocabulary qualifies this
// nature, or "" when the nature takes no qualifier tag.
func (n Nature) QualifierDomain() string {
	switch n {
	case NatureGeneric:
		return "Generic Relationship Types"
	case NatureUnion:
		return "Union Relationship Types"
	case NatureParentOffspring:
		return "Family Relationship Types"
	case NatureMasterMinion:
		return "Comprises Relationship Types"
	}
	return ""
}

// AttitudeLevels orders the attitude qualifiers from worst to best. The
// numeric rating is derived from the position (center is zero), so the
// schema enum and the rating can never drift apart.
var AttitudeLevels = []string{
	"Hatred", "Hostility", "Dislike", "Neutral", "Like", "Friendship", "Love",
}

// AttitudeRating maps an attitude level name to its signed rating.
func AttitudeRating(level string) (string, bool) {
	for i, name := range AttitudeLevels {
		if name == level {
			return strconv.Itoa(i - len(AttitudeLevels)/2), true
		}
	}
	return "", false
}
