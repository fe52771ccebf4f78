// =============================================================================
// donorlens - Lookup Response Decoding
// =============================================================================
//
// The donor-lookup service answers an entity page load with a JSON body of
// giving records. Each record nests its values one level deep under a
// repeated key:
//
//   {"records": [
//     {"Party":   {"Party": "Republican Party", ...},
//      "Total_$": {"Total_$": "1,500.00", ...}},
//     ...
//   ]}
//
// Amounts arrive as strings or bare numbers depending on the record; they
// are kept as text here and parsed by the accumulator, which owns the
// discard rules.
//
// =============================================================================

package lookup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Observation is one (party, amount) fact for the entity that was looked up.
// The lookup identifier is supplied by the caller that issued the fetch.
type Observation struct {
	Party  string
	Amount string
}

type payload struct {
	Records []record `json:"records"`
}

type record struct {
	Party partyField `json:"Party"`
	Total totalField `json:"Total_$"`
}

type partyField struct {
	Party string `json:"Party"`
}

type totalField struct {
	Total json.RawMessage `json:"Total_$"`
}

// DecodeObservations parses a lookup response body. An empty body decodes to
// no observations; records with no party survive here and are discarded by
// the accumulator, keeping the filter rules in one place.
func DecodeObservations(body []byte) ([]Observation, error) {
	if len(body) == 0 {
		return nil, nil
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	obs := make([]Observation, 0, len(p.Records))
	for _, r := range p.Records {
		obs = append(obs, Observation{
			Party:  r.Party.Party,
			Amount: rawToText(r.Total.Total),
		})
	}
	return obs, nil
}

// rawToText renders a JSON value that may be a string, a number or absent as
// plain text.
func rawToText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
