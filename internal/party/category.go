// =============================================================================
// donorlens - Party Categories
// =============================================================================
//
// Free-text party labels ("Republican Party", "democratic-farmer-labor",
// "Nonpartisan") collapse into four coarse buckets for split reporting. The
// category is derived from a per-party file stem by case-insensitive
// substring rules evaluated in fixed priority order; a stem matching several
// rules takes the first. Unrecognized labels are third-party by default.
//
// Raw party labels survive only as display text and output file names. Once
// a label has been categorized, the category is the key.
//
// =============================================================================

package party

import "strings"

// Category is one of the four coarse political buckets.
type Category string

const (
	Republican  Category = "republican"
	Democratic  Category = "democratic"
	ThirdParty  Category = "thirdParty"
	Nonpartisan Category = "nonpartisan"
)

// Categories lists the buckets in report column order.
func Categories() []Category {
	return []Category{Republican, Democratic, ThirdParty, Nonpartisan}
}

/// Categorize maps a party file stem to its category. Priority order matters:
// "GOP-republican-central" is republican even though later rules could also
// fire on other stems.
func Categorize(stem string) Category {
	s := strings.ToLower(stem)
	switch {
	case strings.Contains(s, "republic"):
		return Republican
	case strings.Contains(s, "democ"):
		return Democratic
	case strings.Contains(s, "non") || strings.Contains(s, "no-party") || strings.Contains(s, "nonpartisan"):
		return Nonpartisan
	default:
		return ThirdParty
	}
}

// Slug converts a raw party label into the file stem used for its output
// file: lower-cased with spaces replaced by dashes.
func Slug(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}
