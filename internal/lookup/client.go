// =============================================================================
// donorlens - Browser-Driven Lookup Client
// =============================================================================
//
// The donor-lookup service does not expose its records API directly; the
// entity page fetches them over XHR after load. The client drives a headless
// browser (rod), navigates to the entity page and captures the JSON response
// whose URL matches the configured path, exactly as a human session would
// produce it.
//
// Fetches are strictly sequential on one page, with a mandatory minimum
// delay between navigations. That delay is the rate-limit contract with the
// service. Failures are returned to the caller, which treats them as "no
// party observations for this identifier" and moves on; nothing is retried.
//
// =============================================================================

package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/config"
)

// Client fetches party giving records for lookup identifiers.
type Client struct {
	cfg      config.LookupSettings
	log      *zap.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	lastFetch time.Time
}

// NewClient launches the browser and opens the single page all fetches share.
func NewClient(cfg config.LookupSettings, log *zap.Logger) (*Client, error) {
	headless := cfg.Headless == nil || *cfg.Headless

	l := launcher.New().Headless(headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to enable network capture: %w", err)
	}

	return &Client{
		cfg:      cfg,
		log:      log,
		launcher: l,
		browser:  browser,
		page:     page,
	}, nil
}

// Close shuts the browser down.
func (c *Client) Close() {
	if c.browser != nil {
		_ = c.browser.Close()
	}
	if c.launcher != nil {
		c.launcher.Cleanup()
	}
}

// Fetch loads the entity page for eid and returns the observations decoded
// from the captured records response. The politeness delay is applied before
// the navigation, so the first fetch of a run is immediate.
func (c *Client) Fetch(ctx context.Context, eid string) ([]Observation, error) {
	c.politeWait(ctx)
	c.lastFetch = time.Now()

	target := fmt.Sprintf("%s/entity-details?eid=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.QueryEscape(eid))

	page := c.page.Context(ctx).Timeout(time.Duration(c.cfg.TimeoutMs) * time.Millisecond)

	var body string
	var captureErr error
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if !strings.Contains(e.Response.URL, c.cfg.ResponsePath) {
			return false
		}
		reply, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(page)
		if err != nil {
			captureErr = fmt.Errorf("failed to read response body: %w", err)
			return true
		}
		body = reply.Body
		return true
	})

	if err := page.Navigate(target); err != nil {
		return nil, fmt.Errorf("failed to navigate to entity page: %w", err)
	}
	wait()

	if captureErr != nil {
		return nil, captureErr
	}
	if body == "" {
		return nil, fmt.Errorf("no records response captured for eid=%s", eid)
	}

	obs, err := DecodeObservations([]byte(body))
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetched lookup records",
		zap.String("eid", eid),
		zap.Int("records", len(obs)))
	return obs, nil
}

// politeWait sleeps out the remainder of the inter-request delay, bailing
// early if the context is cancelled.
func (c *Client) politeWait(ctx context.Context) {
	if c.lastFetch.IsZero() {
		return
	}
	remaining := time.Duration(c.cfg.DelayMs)*time.Millisecond - time.Since(c.lastFetch)
	if remaining <= 0 {
		return
	}
	select {
	case <-time.After(remaining):
	case <-ctx.Done():
	}
}
