package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/config"
	"github.com/civicsignal/donorlens/internal/donor"
)

func TestNameQuery(t *testing.T) {
	q, ok := NameQuery(donor.Row{FirstName: "Mike", LastName: "Nelson"})
	require.True(t, ok)
	assert.Equal(t, ":Mike+Nelson", q)

	q, ok = NameQuery(donor.Row{FirstName: "Mary Jo", MiddleInitial: "K", LastName: "Smith"})
	require.True(t, ok)
	assert.Equal(t, ":Mary+Jo+K+Smith", q)

	q, ok = NameQuery(donor.Row{EntityName: "Acme PAC"})
	require.True(t, ok)
	assert.Equal(t, ":Acme+PAC", q)

	_, ok = NameQuery(donor.Row{City: "Helena"})
	assert.False(t, ok)
}

func TestBuildQuery(t *testing.T) {
	v := BuildQuery(":Mike+Nelson", "MT", "CA")
	assert.Equal(t, "1", v.Get("navType"))
	assert.Equal(t, "1", v.Get("noclicky"))
	assert.Equal(t, ":Mike+Nelson", v.Get("eid"))
	assert.Equal(t, "MT", v.Get("s"))
	assert.Equal(t, "CA", v.Get("add-s"))

	// A row without a state still sends add-s, empty, so the search stays
	// unnarrowed rather than widening to the home state.
	v = BuildQuery(":Mike+Nelson", "MT", "  ")
	assert.True(t, v.Has("add-s"))
	assert.Equal(t, "", v.Get("add-s"))
}

func TestSearch(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("eid")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(resultPage))
	}))
	defer srv.Close()

	c := NewClient(config.SearchSettings{
		BaseURL:   srv.URL + "/entitySearch.php",
		State:     "MT",
		TimeoutMs: 2000,
		UserAgent: "donorlens-test",
	}, zap.NewNop())

	results, err := c.Search(context.Background(), donor.Row{FirstName: "Mike", LastName: "Nelson"})
	require.NoError(t, err)
	assert.Equal(t, ":Mike+Nelson", gotQuery)
	assert.Equal(t, "donorlens-test", gotUA)
	assert.Len(t, results, 2)
}

func TestSearchSkipsUnnameable(t *testing.T) {
	c := NewClient(config.SearchSettings{BaseURL: "http://unused.test", TimeoutMs: 100}, zap.NewNop())

	results, err := c.Search(context.Background(), donor.Row{City: "Helena"})
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(config.SearchSettings{BaseURL: srv.URL, TimeoutMs: 2000}, zap.NewNop())

	_, err := c.Search(context.Background(), donor.Row{FirstName: "A", LastName: "B"})
	assert.Error(t, err)
}
