package donor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeDeterministic(t *testing.T) {
	r1 := Row{
		EntityName: "  Acme PAC ",
		City:       "Helena",
		State:      "MT",
	}
	r2 := Row{
		EntityName: "Acme PAC",
		City:       "  Helena  ",
		State:      "MT ",
	}

	// Identical canonical fields must produce identical keys regardless of
	// surrounding whitespace.
	assert.Equal(t, Canonicalize(r1), Canonicalize(r2))
}

func TestCanonicalizePreservesCaseAndInteriorSpacing(t *testing.T) {
	k1 := Canonicalize(Row{FirstName: "Mike", LastName: "Nelson"})
	k2 := Canonicalize(Row{FirstName: "MIKE", LastName: "NELSON"})
	assert.NotEqual(t, k1, k2, "matching is case-sensitive by design")

	k3 := Canonicalize(Row{EntityName: "Acme  PAC"})
	k4 := Canonicalize(Row{EntityName: "Acme PAC"})
	assert.NotEqual(t, k3, k4, "interior whitespace is preserved")
}

func TestCanonicalizeEmptyRow(t *testing.T) {
	k := Canonicalize(Row{})
	assert.True(t, k.IsZero())

	k = Canonicalize(Row{City: "Helena"})
	assert.False(t, k.IsZero())
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected string
	}{
		{"person", Key{FirstName: "Mike", LastName: "Nelson"}, "Mike Nelson"},
		{"last only", Key{LastName: "Nelson"}, "Nelson"},
		{"entity fallback", Key{EntityName: "Acme PAC"}, "Acme PAC"},
		{"person beats entity", Key{EntityName: "Acme PAC", FirstName: "Jo"}, "Jo"},
		{"empty", Key{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.DisplayName())
		})
	}
}
