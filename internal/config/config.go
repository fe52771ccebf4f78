// =============================================================================
// donorlens - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration: directory
// layout for the three pipeline stages (raw contributions, resolved donors,
// per-party aggregates) and the politeness contracts for the two external
// services.
//
// The inter-request delays are not performance knobs. They are the
// rate-limit contract with the lookup service and must stay configurable
// minimums, never be optimized away.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration, loaded from config.yaml.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// DataDir holds the raw per-candidate contribution exports
	// (*-contributions.csv, pipe- or comma-delimited).
	// Default: "./data"
	DataDir string `yaml:"data_dir"`

	// DonorsDir holds the resolved donor files produced by the search
	// command (donors-<candidate>.csv with eid and name columns).
	// Default: "./output"
	DonorsDir string `yaml:"donors_dir"`

	// ByDonorDir holds the aggregate output tree: one subdirectory per
	// candidate with per-party CSVs, plus the duplicate reports and the
	// splits table.
	// Default: "./by-donor-output"
	ByDonorDir string `yaml:"by_donor_dir"`

	// =========================================================================
	// EXTERNAL SERVICE SETTINGS
	// =========================================================================

	// Lookup configures the browser-driven donor-lookup client.
	Lookup LookupSettings `yaml:"lookup"`

	// Search configures the entity-search HTTP client.
	Search SearchSettings `yaml:"search"`
}

// LookupSettings configures the browser-driven donor-lookup client.
type LookupSettings struct {
	// BaseURL is the lookup service root. Entity pages load from
	// <BaseURL>/entity-details?eid=<eid>.
	// Default: "https://www.followthemoney.org"
	BaseURL string `yaml:"base_url"`

	// ResponsePath is the substring identifying the captured JSON response
	// among the page's network traffic.
	// Default: "/aaengine/aafetch.php"
	ResponsePath string `yaml:"response_path"`

	// DelayMs is the mandatory minimum pause between entity page loads, in
	// milliseconds. Politeness contract with the service.
	// Default: 500
	DelayMs int `yaml:"delay_ms"`

	// TimeoutMs is the per-page response wait timeout, in milliseconds.
	// Default: 15000
	TimeoutMs int `yaml:"timeout_ms"`

	// Headless runs the browser without a window. Set false for debugging.
	// Default: true
	Headless *bool `yaml:"headless"`

	// Limit caps the number of identifiers fetched per candidate file.
	// Zero means all; useful for smoke-testing a run.
	Limit int `yaml:"limit"`
}

// SearchSettings configures the entity-search HTTP client.
type SearchSettings struct {
	// BaseURL is the entity-search endpoint.
	// Default: "https://www.followthemoney.org/metaselect/full/entitySearch.php"
	BaseURL string `yaml:"base_url"`

	// State qualifies every search query ("add-s" parameter fallback).
	// Default: "MT"
	State string `yaml:"state"`

	// DelayMs is the pause between search requests, in milliseconds.
	// Default: 1000
	DelayMs int `yaml:"delay_ms"`

	// TimeoutMs is the HTTP request timeout, in milliseconds.
	// Default: 10000
	TimeoutMs int `yaml:"timeout_ms"`

	// UserAgent identifies the client to the service.
	// Default: "donorlens/1.0 (+https://github.com/civicsignal/donorlens)"
	UserAgent string `yaml:"user_agent"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from a YAML file, applies defaults and
// validates it. A missing file is not an error: every setting has a default,
// so the zero configuration is usable.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.DonorsDir == "" {
		cfg.DonorsDir = "./output"
	}
	if cfg.ByDonorDir == "" {
		cfg.ByDonorDir = "./by-donor-output"
	}

	if cfg.Lookup.BaseURL == "" {
		cfg.Lookup.BaseURL = "https://www.followthemoney.org"
	}
	if cfg.Lookup.ResponsePath == "" {
		cfg.Lookup.ResponsePath = "/aaengine/aafetch.php"
	}
	if cfg.Lookup.DelayMs == 0 {
		cfg.Lookup.DelayMs = 500
	}
	if cfg.Lookup.TimeoutMs == 0 {
		cfg.Lookup.TimeoutMs = 15000
	}
	if cfg.Lookup.Headless == nil {
		headless := true
		cfg.Lookup.Headless = &headless
	}

	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://www.followthemoney.org/metaselect/full/entitySearch.php"
	}
	if cfg.Search.State == "" {
		cfg.Search.State = "MT"
	}
	if cfg.Search.DelayMs == 0 {
		cfg.Search.DelayMs = 1000
	}
	if cfg.Search.TimeoutMs == 0 {
		cfg.Search.TimeoutMs = 10000
	}
	if cfg.Search.UserAgent == "" {
		cfg.Search.UserAgent = "donorlens/1.0 (+https://github.com/civicsignal/donorlens)"
	}
}

// validate rejects configurations that would break the politeness contract
// or point the pipeline at nothing.
func validate(cfg *Config) error {
	if cfg.Lookup.DelayMs < 0 {
		return fmt.Errorf("lookup.delay_ms must not be negative")
	}
	if cfg.Search.DelayMs < 0 {
		return fmt.Errorf("search.delay_ms must not be negative")
	}
	if cfg.Lookup.Limit < 0 {
		return fmt.Errorf("lookup.limit must not be negative")
	}
	return nil
}
