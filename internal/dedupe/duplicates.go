// =============================================================================
// donorlens - Cross-File Duplicate Detector
// =============================================================================
//
// Given one candidate's already-aggregated per-party tables, find donor
// identities that recur in more than one table and report them with
// provenance. The file list is the actionable signal: it flags donors who
// appear to split giving between nominally non-partisan and partisan
// committees.
//
// Matching deliberately ignores any field named "amount" (case-insensitive):
// the same donor legitimately gives different amounts to different party
// committees, and the identity match must not be amount-sensitive.
//
// =============================================================================

package dedupe

import (
	"sort"
	"strings"

	"github.com/civicsignal/donorlens/internal/amount"
	"github.com/civicsignal/donorlens/internal/rowio"
)

// Record is one reported duplicate identity.
type Record struct {
	// DisplayName is "First Last" from the first-seen row, falling back to
	// the entity name.
	DisplayName string

	// SelfReported is the formatted self-reported total ("$150", "$10.50"),
	// or the raw cell text when it does not parse.
	SelfReported string

	// Files is the sorted, de-duplicated list of file stems containing this
	// identity.
	Files []string
}

// FindDuplicates scans a candidate's per-party tables for identities
// appearing in two or more distinct files. Zero or one table makes
// duplicates impossible, so it returns nil without scanning.
func FindDuplicates(tables []*rowio.Table) []Record {
	if len(tables) < 2 {
		return nil
	}

	matchFields := fieldUnion(tables)

	type entry struct {
		files map[string]struct{}
		rep   map[string]string
	}
	entries := make(map[string]*entry)
	var order []string

	for _, table := range tables {
		for _, row := range table.Rows {
			key := matchKey(row, matchFields)

			e, seen := entries[key]
			if !seen {
				e = &entry{files: make(map[string]struct{}), rep: row}
				entries[key] = e
				order = append(order, key)
			}
			e.files[table.Name] = struct{}{}
		}
	}

	var records []Record
	for _, key := range order {
		e := entries[key]
		if len(e.files) < 2 {
			continue
		}

		files := make([]string, 0, len(e.files))
		for f := range e.files {
			files = append(files, f)
		}
		sort.Strings(files)

		records = append(records, Record{
			DisplayName:  displayName(e.rep),
			SelfReported: selfReported(e.rep),
			Files:        files,
		})
	}
	return records
}

// fieldUnion builds the stable match-field list: the union of all tables'
// headers, preserving first-seen order.
func fieldUnion(tables []*rowio.Table) []string {
	var fields []string
	seen := make(map[string]struct{})
	for _, table := range tables {
		for _, h := range table.Header {
			if _, ok := seen[h]; !ok {
				seen[h] = struct{}{}
				fields = append(fields, h)
			}
		}
	}
	return fields
}

// matchKey serializes the (field, trimmed value) pairs for every match field
// except amount-named ones. Unit separators keep distinct tuples distinct.
func matchKey(row map[string]string, matchFields []string) string {
	var b strings.Builder
	for _, field := range matchFields {
		if strings.EqualFold(field, "amount") {
			continue
		}
		b.WriteString(field)
		b.WriteByte(0x1f)
		b.WriteString(strings.TrimSpace(row[field]))
		b.WriteByte(0x1e)
	}
	return b.String()
}

func displayName(row map[string]string) string {
	first := strings.TrimSpace(row["firstName"])
	last := strings.TrimSpace(row["lastName"])
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	return strings.TrimSpace(row["entityName"])
}

// selfReported formats the representative row's self-reported total. An
// empty cell reads "$0"; a cell that does not parse at all is kept verbatim.
func selfReported(row map[string]string) string {
	v := strings.TrimSpace(row["donationsToCampaign"])
	if v == "" {
		return "$0"
	}
	if !strings.ContainsAny(v, "0123456789") {
		return v
	}
	return amount.FormatDollars(amount.ParseStrict(v))
}
