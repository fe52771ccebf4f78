// =============================================================================
// donorlens - Canonical Donor Identity
// =============================================================================
//
// A contribution row is resolved to a canonical identity key: the tuple of
// its six identifying fields, each trimmed of surrounding whitespace. Two
// rows with identical tuples denote the same donor for the rest of the run.
//
// Matching is exact and case-sensitive. Internal whitespace, casing and
// punctuation are preserved deliberately: collapsing them would merge more
// donors but also more strangers, and the upstream ledgers are consistent
// enough that trimming alone carries the grouping. The accepted consequence
// is that two different people sharing name, city and state are merged
// silently; see the duplicate report for the partial mitigation.
//
// =============================================================================

package donor

import "strings"

// Row is one contribution record as produced by the row reader. At most one
// of EntityName / person-name fields is semantically primary, though both may
// be populated for an organization's known officer.
type Row struct {
	EntityName          string
	FirstName           string
	MiddleInitial       string
	LastName            string
	City                string
	State               string
	Eid                 string // external lookup identifier, may be empty
	DonationsToCampaign string // self-reported total, currency text
}

// Key is the canonical identity tuple. It is comparable and used directly as
// a map key. Empty fields are empty strings, never sentinel values.
type Key struct {
	EntityName    string
	FirstName     string
	MiddleInitial string
	LastName      string
	City          string
	State         string
}

// Canonicalize derives the identity key for a row. Pure function of the six
// string fields: each is trimmed, nothing else changes. It returns a key even
// when every field is empty; callers that care must check IsZero.
func Canonicalize(row Row) Key {
	return Key{
		EntityName:    strings.TrimSpace(row.EntityName),
		FirstName:     strings.TrimSpace(row.FirstName),
		MiddleInitial: strings.TrimSpace(row.MiddleInitial),
		LastName:      strings.TrimSpace(row.LastName),
		City:          strings.TrimSpace(row.City),
		State:         strings.TrimSpace(row.State),
	}
}

// IsZero reports whether the key carries no identity at all.
func (k Key) IsZero() bool {
	return k == Key{}
}

// DisplayName renders the key for human-readable reports: "First Last" when
// a person name is present, otherwise the entity name.
func (k Key) DisplayName() string {
	if k.FirstName != "" || k.LastName != "" {
		return strings.TrimSpace(k.FirstName + " " + k.LastName)
	}
	return k.EntityName
}
