// =============================================================================
// donorlens - Party Category Splitter
// =============================================================================
//
// The splitter estimates how partisan a candidate's donor base is: sum the
// preferred dollar column of every per-party file, bucket the sums by
// category, and report each bucket as a percentage of the candidate's grand
// total.
//
// "Preferred" means the self-reported donation column when the file has one,
// falling back to the observed amount column. Column detection is a
// case-insensitive substring match on header names, first match wins.
//
// =============================================================================

package party

import (
	"strings"

	"github.com/civicsignal/donorlens/internal/amount"
)

// Split is the per-candidate result: percentage of total per category. All
// four percentages are 0.0 when the candidate has no dollars at all, never a
// division error.
type Split struct {
	Candidate string
	Percent   map[Category]float64
}

// Tally accumulates per-category dollar sums for one candidate.
type Tally struct {
	sums map[Category]float64
}

// NewTally returns a tally with every category at 0.0.
func NewTally() *Tally {
	sums := make(map[Category]float64, 4)
	for _, c := range Categories() {
		sums[c] = 0
	}
	return &Tally{sums: sums}
}

// Add adds a file's dollar sum to its category bucket.
func (t *Tally) Add(c Category, v float64) {
	t.sums[c] += v
}

// Sum returns one category's accumulated dollars.
func (t *Tally) Sum(c Category) float64 {
	return t.sums[c]
}

// Split computes the percentage split for a candidate. A grand total of zero
// or less forces every percentage to 0.0.
func (t *Tally) Split(candidate string) Split {
	total := 0.0
	for _, c := range Categories() {
		total += t.sums[c]
	}

	percent := make(map[Category]float64, 4)
	if total <= 0 {
		for _, c := range Categories() {
			percent[c] = 0
		}
	} else {
		for _, c := range Categories() {
			percent[c] = t.sums[c] / total * 100
		}
	}

	return Split{Candidate: candidate, Percent: percent}
}

// =============================================================================
// PREFERRED-AMOUNT COLUMN SUMMING
// =============================================================================

// FindDonationField returns the first header containing "donat"
// (case-insensitive), or "".
func FindDonationField(header []string) string {
	return findField(header, "donat")
}

// FindAmountField returns the first header containing "amount"
// (case-insensitive), or "".
func FindAmountField(header []string) string {
	return findField(header, "amount")
}

func findField(header []string, substr string) string {
	for _, h := range header {
		if h != "" && strings.Contains(strings.ToLower(h), substr) {
			return h
		}
	}
	return ""
}

// SumPreferred sums a party file's preferred dollar column: the
// donation-to-campaign column when present, else the amount column. Missing
// both sums to 0.0, as does every unparsable cell.
func SumPreferred(header []string, rows []map[string]string) float64 {
	field := FindDonationField(header)
	if field == "" {
		field = FindAmountField(header)
	}
	if field == "" {
		return 0
	}

	total := 0.0
	for _, row := range rows {
		v := strings.TrimSpace(row[field])
		if v == "" {
			continue
		}
		total += amount.ParseColumn(v)
	}
	return total
}

// SumAmount sums the amount column only, for the raw campaign totals report.
func SumAmount(header []string, rows []map[string]string) float64 {
	field := FindAmountField(header)
	if field == "" {
		return 0
	}

	total := 0.0
	for _, row := range rows {
		v := strings.TrimSpace(row[field])
		if v == "" {
			continue
		}
		total += amount.ParseColumn(v)
	}
	return total
}

// PrettyCandidate converts a directory-style candidate id ("jennifer-owen")
// into a display name ("Jennifer Owen"). Hyphens and underscores become
// spaces and each word is title-cased.
func PrettyCandidate(raw string) string {
	if raw == "" {
		return raw
	}
	s := strings.NewReplacer("-", " ", "_", " ").Replace(raw)

	parts := strings.Fields(s)
	for i, p := range parts {
		r := []rune(strings.ToLower(p))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
