// =============================================================================
// donorlens - Party Accumulator
// =============================================================================
//
// The accumulator turns a stream of (lookup identifier, party label, amount)
// observations from the donor-lookup service into per-candidate tables:
// party label -> canonical identity -> accumulated dollars.
//
// Observations are best-effort by contract. A donor with no record for a
// given party and period is the common case, so an empty party label, a
// non-positive or unparsable amount, or an identifier the group index has
// never seen all discard the observation silently instead of erroring.
//
// Because several identifiers can resolve to one canonical identity, the
// cell addressed by (party, key) accumulates across all of them; that is the
// whole point of routing through the resolver.
//
// =============================================================================

package party

import (
	"sort"

	"github.com/civicsignal/donorlens/internal/amount"
	"github.com/civicsignal/donorlens/internal/donor"
)

// Cell is one aggregated table entry for a party.
type Cell struct {
	Key    donor.Key
	Amount float64
}

// Accumulator aggregates party observations for one candidate's pass. It is
// not safe for concurrent use; the pipeline is sequential by design.
type Accumulator struct {
	resolver donor.Resolver

	cells      map[string]map[donor.Key]float64
	partyOrder []string
	keyOrder   map[string][]donor.Key

	recorded  int
	discarded int
}

// NewAccumulator returns an empty accumulator resolving identifiers through
// the given index.
func NewAccumulator(resolver donor.Resolver) *Accumulator {
	return &Accumulator{
		resolver: resolver,
		cells:    make(map[string]map[donor.Key]float64),
		keyOrder: make(map[string][]donor.Key),
	}
}

// Record adds one observation to the table. It reports whether the
// observation was kept; a false return is expected traffic, not an error.
func (a *Accumulator) Record(eid, partyLabel, amountText string) bool {
	if partyLabel == "" {
		a.discarded++
		return false
	}

	amt, ok := amount.ParseObserved(amountText)
	if !ok || amt <= 0 {
		a.discarded++
		return false
	}

	key, ok := a.resolver.Resolve(eid)
	if !ok {
		a.discarded++
		return false
	}

	table, ok := a.cells[partyLabel]
	if !ok {
		table = make(map[donor.Key]float64)
		a.cells[partyLabel] = table
		a.partyOrder = append(a.partyOrder, partyLabel)
	}
	if _, ok := table[key]; !ok {
		a.keyOrder[partyLabel] = append(a.keyOrder[partyLabel], key)
	}
	table[key] += amt

	a.recorded++
	return true
}

// Parties returns the party labels in first-observed order.
func (a *Accumulator) Parties() []string {
	out := make([]string, len(a.partyOrder))
	copy(out, a.partyOrder)
	return out
}

// Rows returns a party's cells sorted by accumulated amount descending. The
// sort is stable, so ties keep their first-observed order.
func (a *Accumulator) Rows(partyLabel string) []Cell {
	table := a.cells[partyLabel]
	order := a.keyOrder[partyLabel]

	rows := make([]Cell, 0, len(order))
	for _, key := range order {
		rows = append(rows, Cell{Key: key, Amount: table[key]})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount > rows[j].Amount
	})
	return rows
}

// Amount returns the accumulated value of one cell.
func (a *Accumulator) Amount(partyLabel string, key donor.Key) float64 {
	return a.cells[partyLabel][key]
}

// Recorded and Discarded report how many observations were kept and dropped,
// for the end-of-pass summary.
func (a *Accumulator) Recorded() int  { return a.recorded }
func (a *Accumulator) Discarded() int { return a.discarded }
