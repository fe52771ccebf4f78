// =============================================================================
// donorlens - Entity Search Client
// =============================================================================
//
// The entity-search endpoint is a plain GET that answers with an HTML result
// page, so an ordinary HTTP client is enough here; only the entity-details
// pages need a browser. Queries follow the service's own convention: the name
// goes into the "eid" parameter as ":First+Last" with each part form-encoded
// before the literal plus signs are inserted.
//
// Requests are sequential with a mandatory minimum delay between them, same
// contract as the lookup client. A failed search means the donor stays
// unresolved; nothing is retried.
//
// =============================================================================

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/config"
	"github.com/civicsignal/donorlens/internal/donor"
)

// Client searches the entity service for donors by name.
type Client struct {
	cfg  config.SearchSettings
	log  *zap.Logger
	http *http.Client

	lastRequest time.Time
}

// NewClient builds a search client from the configured politeness settings.
func NewClient(cfg config.SearchSettings, log *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		log: log,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
	}
}

// Search queries the service for the named donor and returns the
// positive-dollar hits. Donors with neither a personal name nor an entity
// name cannot be queried and come back empty.
func (c *Client) Search(ctx context.Context, row donor.Row) ([]Result, error) {
	query, ok := NameQuery(row)
	if !ok {
		return nil, nil
	}

	c.politeWait(ctx)
	c.lastRequest = time.Now()

	target := c.cfg.BaseURL + "?" + BuildQuery(query, c.cfg.State, row.State).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	results, err := ParseResults(string(body), siteRoot(c.cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	c.log.Debug("searched for donor",
		zap.String("query", query),
		zap.Int("hits", len(results)))
	return results, nil
}

// NameQuery renders a donor's name in the service's ":First+Last" query
// convention. The middle initial rides along when present. Organizations
// query by entity name as a single part.
func NameQuery(row donor.Row) (string, bool) {
	first := strings.TrimSpace(row.FirstName)
	last := strings.TrimSpace(row.LastName)

	if first != "" && last != "" {
		parts := []string{quotePlus(first)}
		if middle := strings.TrimSpace(row.MiddleInitial); middle != "" {
			parts = append(parts, quotePlus(middle))
		}
		parts = append(parts, quotePlus(last))
		return ":" + strings.Join(parts, "+"), true
	}

	if entity := strings.TrimSpace(row.EntityName); entity != "" {
		return ":" + quotePlus(entity), true
	}
	return "", false
}

// BuildQuery assembles the search parameters. homeState qualifies the whole
// search; add-s carries the donor row's own state and is sent empty when the
// row has none, leaving the search unnarrowed.
func BuildQuery(nameQuery, homeState, rowState string) url.Values {
	v := url.Values{}
	v.Set("navType", "1")
	v.Set("noclicky", "1")
	v.Set("eid", nameQuery)
	v.Set("s", homeState)
	v.Set("add-s", strings.TrimSpace(rowState))
	return v
}

// quotePlus form-encodes a name part: spaces become plus signs, everything
// else percent-escapes.
func quotePlus(s string) string {
	return url.QueryEscape(s)
}

// siteRoot reduces the endpoint URL to scheme and host, the base that
// relative result hrefs resolve against.
func siteRoot(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return endpoint
	}
	return u.Scheme + "://" + u.Host
}

// politeWait sleeps out the remainder of the inter-request delay, bailing
// early if the context is cancelled.
func (c *Client) politeWait(ctx context.Context) {
	if c.lastRequest.IsZero() {
		return
	}
	remaining := time.Duration(c.cfg.DelayMs)*time.Millisecond - time.Since(c.lastRequest)
	if remaining <= 0 {
		return
	}
	select {
	case <-time.After(remaining):
	case <-ctx.Done():
	}
}
