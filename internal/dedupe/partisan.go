// =============================================================================
// donorlens - Known-Partisan Donor Removal
// =============================================================================
//
// Companion operation to the duplicate detector with a different match key.
// Here the goal is collapsing a known-partisan donor's appearance in the
// nominally non-partisan files, so the key INCLUDES the self-reported total
// as a disambiguating field: two different people sharing a name are
// unlikely to also share the same total. Names are normalized (lower-cased,
// whitespace collapsed) because these rows cross files we wrote ourselves.
//
// =============================================================================

package dedupe

import (
	"strconv"
	"strings"

	"github.com/civicsignal/donorlens/internal/rowio"
)

// Matcher builds partisan match keys for rows from one table's header. The
// header is resolved once; rows are then keyed without per-row fallbacks.
type Matcher struct {
	fields rowio.FieldMap
}

// NewMatcher resolves a table header into a matcher.
func NewMatcher(header []string) Matcher {
	return Matcher{fields: rowio.ResolveFields(header)}
}

// Key builds the match key for a row: (entity name, donation) when an entity
// name is present, else (first, last, donation). The boolean is false when
// the row carries nothing to match on.
func (m Matcher) Key(row map[string]string) (string, bool) {
	donation := normalizeDonation(m.donationValue(row))

	if entity := m.fields.Get(row, "entityName"); entity != "" {
		return "e\x1f" + normalizeName(entity) + "\x1f" + donation, true
	}

	first := m.fields.Get(row, "firstName")
	last := m.fields.Get(row, "lastName")
	if first != "" || last != "" || donation != "" {
		return "p\x1f" + normalizeName(first) + "\x1f" + normalizeName(last) + "\x1f" + donation, true
	}
	return "", false
}

// donationValue prefers the self-reported column and falls back to the
// observed amount column.
func (m Matcher) donationValue(row map[string]string) string {
	if v := m.fields.Get(row, "donationsToCampaign"); v != "" {
		return v
	}
	return m.fields.Amount(row)
}

// BuildPartisanKeys collects the match keys of every row in the candidate's
// republican and democratic tables.
func BuildPartisanKeys(tables []*rowio.Table) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, table := range tables {
		matcher := NewMatcher(table.Header)
		for _, row := range table.Rows {
			if key, ok := matcher.Key(row); ok {
				keys[key] = struct{}{}
			}
		}
	}
	return keys
}

// FilterRows partitions a table's rows against the partisan key set,
// returning the rows to keep and the count removed.
func FilterRows(table *rowio.Table, partisan map[string]struct{}) ([]map[string]string, int) {
	matcher := NewMatcher(table.Header)

	kept := make([]map[string]string, 0, len(table.Rows))
	removed := 0
	for _, row := range table.Rows {
		if key, ok := matcher.Key(row); ok {
			if _, hit := partisan[key]; hit {
				removed++
				continue
			}
		}
		kept = append(kept, row)
	}
	return kept, removed
}

// normalizeName lower-cases and collapses interior whitespace.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// normalizeDonation strips a leading dollar sign and commas, then formats
// the parsed value without a trailing ".0" so "150", "$150" and "150.0" all
// compare equal. Unparsable values compare lower-cased verbatim.
func normalizeDonation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return strings.ToLower(s)
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
