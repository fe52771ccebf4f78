// =============================================================================
// donorlens - Field Alias Resolution
// =============================================================================
//
// Source ledgers spell the same column several ways ("First Name",
// "FirstName", "firstName"). Rather than sprinkling fallback lookups through
// the core, the alias table is consulted once per input file: the header is
// resolved to a FieldMap up front, and every row is normalized into the one
// row shape the core logic consumes.
//
// =============================================================================

package rowio

import (
	"strings"

	"github.com/civicsignal/donorlens/internal/donor"
)

// aliases maps each canonical field name to the header spellings observed in
// the wild. Matching is exact after trimming; the amount column is the one
// exception, detected by substring because exports qualify it freely
// ("Amount", "Total Amount", "amount_usd").
var aliases = map[string][]string{
	"entityName":          {"entityName", "EntityName", "Entity Name"},
	"firstName":           {"firstName", "FirstName", "First Name"},
	"middleInitial":       {"middleInitial", "MiddleInitial", "Middle Initial"},
	"lastName":            {"lastName", "LastName", "Last Name"},
	"city":                {"city", "City"},
	"state":               {"state", "State"},
	"eid":                 {"eid", "Eid", "EID"},
	"donationsToCampaign": {"donationsToCampaign", "DonationsToCampaign", "donation"},
}

// FieldMap is the resolved header for one input file: canonical field name ->
// actual header name present in the file.
type FieldMap struct {
	fields      map[string]string
	amountField string
}

// ResolveFields builds the field map for a header. Unmatched canonical
// fields are simply absent; reads through them return "".
func ResolveFields(header []string) FieldMap {
	present := make(map[string]string, len(header))
	for _, h := range header {
		present[h] = h
	}

	m := FieldMap{fields: make(map[string]string)}
	for canonical, spellings := range aliases {
		for _, s := range spellings {
			if actual, ok := present[s]; ok {
				m.fields[canonical] = actual
				break
			}
		}
	}

	for _, h := range header {
		if h != "" && strings.Contains(strings.ToLower(h), "amount") {
			m.amountField = h
			break
		}
	}

	return m
}

// Get returns a row's trimmed value for a canonical field, or "" when the
// file has no such column.
func (m FieldMap) Get(row map[string]string, canonical string) string {
	actual, ok := m.fields[canonical]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[actual])
}

// AmountField returns the file's amount column header, or "".
func (m FieldMap) AmountField() string {
	return m.amountField
}

// Amount returns a row's trimmed amount value, or "".
func (m FieldMap) Amount(row map[string]string) string {
	if m.amountField == "" {
		return ""
	}
	return strings.TrimSpace(row[m.amountField])
}

// DonorRow normalizes a raw row into the shape the core consumes.
func (m FieldMap) DonorRow(row map[string]string) donor.Row {
	return donor.Row{
		EntityName:          m.Get(row, "entityName"),
		FirstName:           m.Get(row, "firstName"),
		MiddleInitial:       m.Get(row, "middleInitial"),
		LastName:            m.Get(row, "lastName"),
		City:                m.Get(row, "city"),
		State:               m.Get(row, "state"),
		Eid:                 m.Get(row, "eid"),
		DonationsToCampaign: m.Get(row, "donationsToCampaign"),
	}
}
