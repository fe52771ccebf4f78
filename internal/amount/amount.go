// =============================================================================
// donorlens - Amount Parsing and Formatting
// =============================================================================
//
// This package owns every currency conversion in the pipeline. Source ledgers
// format dollar values inconsistently ("$1,234.56", "1234.56", "1'234.56",
// bare integers), and downstream duplicate matching compares formatted
// strings, so both directions live in one place:
//
//   - Parsing is a set of independently testable stages rather than nested
//     fallbacks. Callers pick the stage chain that matches their contract.
//   - Formatting follows a single rule: integer string when the value is
//     mathematically an integer, otherwise two decimal places.
//
// Nothing here returns an error to the caller in a way that should abort a
// batch; unparsable input degrades to 0.0 or an explicit "not ok" result.
//
// =============================================================================

package amount

import (
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// PARSE STAGES
// =============================================================================

// ParseStrict strips every character except digits, '.' and '-' before
// converting. An empty or unparsable result yields 0.0. This is the contract
// for self-reported contribution totals: a malformed ledger cell must not
// poison the donor group, it just records zero.
func ParseStrict(text string) float64 {
	clean := keepChars(text, "-.")
	if clean == "" {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseObserved converts a party-observation amount: commas are removed and
// the remainder must parse as a float. The boolean reports success so the
// caller can discard the observation instead of recording a zero.
func ParseObserved(text string) (float64, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseLoose is the first stage of the two-stage column-summing parse. It
// keeps digits, '.', '-' and the apostrophe some exports use as a thousands
// separator. When the loose result does not parse, ParseColumn falls back to
// the strict stage.
func ParseLoose(text string) (float64, bool) {
	clean := keepChars(text, "-.'")
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseColumn is the parse used when summing an amount column: loose stage
// first, strict stage as fallback, 0.0 when both fail. Unparsable cells
// contribute zero without aborting the file.
func ParseColumn(text string) float64 {
	if v, ok := ParseLoose(text); ok {
		return v
	}
	return ParseStrict(text)
}

// keepChars returns text with every rune removed except ASCII digits and the
// runes listed in extra.
func keepChars(text, extra string) string {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || strings.ContainsRune(extra, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// OUTPUT FORMATTING
// =============================================================================

// Format renders a dollar value for output files: "15" for 15.0, "15.50" for
// 15.5. Negative zero renders as "0". Duplicate matching compares these
// strings, so the rule must not drift.
func Format(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatDollars is Format with a leading dollar sign, used by the duplicate
// report.
func FormatDollars(v float64) string {
	return "$" + Format(v)
}
