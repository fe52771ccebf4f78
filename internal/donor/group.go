// =============================================================================
// donorlens - Donor Group Index
// =============================================================================
//
// The group index is the merge unit of the pipeline. Scanning a candidate's
// donor file builds two mappings:
//
//   - lookup identifier -> canonical identity key
//   - canonical identity key -> DonorGroup (display fields, identifier set,
//     self-reported contribution total)
//
// An organization is frequently looked up under several identifiers that all
// canonicalize to one key; the index is what lets the party accumulator land
// every one of those observations in the same cell.
//
// Group state is first-writer-wins by policy, not by accident: creation and
// observation are separate steps, and a later row with the same key never
// overwrites the stored display fields or total. Indices are scoped to one
// candidate's pass and rebuilt from scratch each run.
//
// =============================================================================

package donor

import (
	"github.com/civicsignal/donorlens/internal/amount"
)

// Group is the merge record for one canonical identity.
type Group struct {
	// Key is the canonical identity this group merges.
	Key Key

	// SelfReportedTotal is the donationsToCampaign value parsed from the
	// first row seen for this key. Later duplicates do not overwrite it.
	SelfReportedTotal float64

	// Identifiers is the set of external lookup identifiers known to belong
	// to this donor. Grows monotonically as rows are ingested.
	Identifiers map[string]struct{}
}

// Resolver maps a lookup identifier back to a canonical identity key. Both
// index variants satisfy it, which is all the party accumulator needs.
type Resolver interface {
	Resolve(eid string) (Key, bool)
}

// =============================================================================
// GROUP INDEX (with self-reported totals)
// =============================================================================

// GroupIndex merges contribution rows into donor groups keyed by canonical
// identity. This is the run mode that tracks self-reported totals.
type GroupIndex struct {
	byEid  map[string]Key
	groups map[Key]*Group
	order  []Key // first-seen key order, for deterministic iteration
}

// NewGroupIndex returns an empty index.
func NewGroupIndex() *GroupIndex {
	return &GroupIndex{
		byEid:  make(map[string]Key),
		groups: make(map[Key]*Group),
	}
}

// Ingest records one contribution row under its lookup identifier and returns
// the canonical key so callers can index by it directly.
//
// First sighting of a key creates the group and parses the row's
// self-reported total (strict currency parse, unparsable -> 0.0). Every later
// row with the same key only grows the identifier set; display fields and the
// stored total stay untouched.
func (ix *GroupIndex) Ingest(row Row, eid string) Key {
	key := Canonicalize(row)

	group, seen := ix.groups[key]
	if !seen {
		group = &Group{
			Key:               key,
			SelfReportedTotal: amount.ParseStrict(row.DonationsToCampaign),
			Identifiers:       make(map[string]struct{}),
		}
		ix.groups[key] = group
		ix.order = append(ix.order, key)
	}

	if eid != "" {
		group.Identifiers[eid] = struct{}{}
		ix.byEid[eid] = key
	}

	return key
}

// Resolve returns the canonical key for a known identifier. The boolean is
// false when the identifier was never ingested; the caller must skip the
// observation rather than fabricate a group.
func (ix *GroupIndex) Resolve(eid string) (Key, bool) {
	key, ok := ix.byEid[eid]
	return key, ok
}

// Group returns the merge record for a key.
func (ix *GroupIndex) Group(key Key) (*Group, bool) {
	g, ok := ix.groups[key]
	return g, ok
}

// Len returns the number of donor groups in the index.
func (ix *GroupIndex) Len() int {
	return len(ix.groups)
}

// Keys returns the canonical keys in first-seen order.
func (ix *GroupIndex) Keys() []Key {
	out := make([]Key, len(ix.order))
	copy(out, ix.order)
	return out
}

// =============================================================================
// IDENTIFIER INDEX (no totals)
// =============================================================================

// IdentifierIndex is the simpler run mode: grouping is solely by lookup
// identifier, collecting the distinct display tuples seen for each one, with
// no self-reported totals. Used when a run does not track aggregate totals.
type IdentifierIndex struct {
	byEid  map[string]Key
	tuples map[string]map[Key]struct{}
}

// NewIdentifierIndex returns an empty identifier-only index.
func NewIdentifierIndex() *IdentifierIndex {
	return &IdentifierIndex{
		byEid:  make(map[string]Key),
		tuples: make(map[string]map[Key]struct{}),
	}
}

// Observe records one display tuple for an identifier. The first tuple seen
// becomes the identifier's representative identity.
func (ix *IdentifierIndex) Observe(row Row, eid string) Key {
	key := Canonicalize(row)
	if eid == "" {
		return key
	}

	if _, seen := ix.byEid[eid]; !seen {
		ix.byEid[eid] = key
	}
	set, ok := ix.tuples[eid]
	if !ok {
		set = make(map[Key]struct{})
		ix.tuples[eid] = set
	}
	set[key] = struct{}{}

	return key
}

// Resolve returns the representative identity for an identifier.
func (ix *IdentifierIndex) Resolve(eid string) (Key, bool) {
	key, ok := ix.byEid[eid]
	return key, ok
}

// TupleCount returns how many distinct display tuples were observed for an
// identifier. More than one usually means inconsistent source spelling.
func (ix *IdentifierIndex) TupleCount(eid string) int {
	return len(ix.tuples[eid])
}
