package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObservations(t *testing.T) {
	body := `{
		"records": [
			{"Party": {"Party": "Republican Party"}, "Total_$": {"Total_$": "1,500.00"}},
			{"Party": {"Party": "Democratic Party"}, "Total_$": {"Total_$": 250}},
			{"Party": {"Party": ""}, "Total_$": {"Total_$": "10"}}
		]
	}`

	obs, err := DecodeObservations([]byte(body))
	require.NoError(t, err)
	require.Len(t, obs, 3)

	assert.Equal(t, Observation{Party: "Republican Party", Amount: "1,500.00"}, obs[0])
	assert.Equal(t, Observation{Party: "Democratic Party", Amount: "250"}, obs[1])
	// Empty parties survive decoding; the accumulator discards them.
	assert.Equal(t, "", obs[2].Party)
}

func TestDecodeObservationsEmptyBody(t *testing.T) {
	obs, err := DecodeObservations(nil)
	require.NoError(t, err)
	assert.Empty(t, obs)

	obs, err = DecodeObservations([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestDecodeObservationsMalformed(t *testing.T) {
	_, err := DecodeObservations([]byte(`<html>error page</html>`))
	assert.Error(t, err)
}

func TestDecodeObservationsMissingFields(t *testing.T) {
	obs, err := DecodeObservations([]byte(`{"records": [{"Party": {}}]}`))
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "", obs[0].Party)
	assert.Equal(t, "", obs[0].Amount)
}
