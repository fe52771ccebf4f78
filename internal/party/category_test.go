package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		stem     string
		expected Category
	}{
		{"republican", Republican},
		{"GOP-republican-central", Republican},
		{"Republican-Party", Republican},
		{"democratic", Democratic},
		{"democratic-farmer-labor", Democratic},
		{"nonpartisan", Nonpartisan},
		{"nonpartisan-judges", Nonpartisan},
		{"no-party", Nonpartisan},
		{"libertarian", ThirdParty},
		{"green", ThirdParty},
		{"", ThirdParty},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.stem))
		})
	}
}

func TestCategorizePriorityOrder(t *testing.T) {
	// A stem matching several rules takes the first matching category.
	assert.Equal(t, Republican, Categorize("republican-nonpartisan"))
	assert.Equal(t, Democratic, Categorize("democratic-nonpartisan"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "republican-party", Slug("Republican Party"))
	assert.Equal(t, "no-party-affiliation", Slug("No Party Affiliation"))
	assert.Equal(t, "green", Slug("GREEN"))
}
