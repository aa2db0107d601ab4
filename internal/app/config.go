package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/idiomsearch/internal/orchestrator"
)

// Defaults shared by flag parsing and the config-file overlay.
const (
	DefaultPaceMin = orchestrator.DefaultPaceMin
	DefaultPaceMax = orchestrator.DefaultPaceMax
)

// Config holds runtime configuration for the application.
type Config struct {
	// Keyword runs a single session; empty means read keywords from input.
	Keyword    string
	OutputPath string

	// Dictionary login
	Cookies     string
	CookiesFile string

	// Search scope
	Sites []orchestrator.Site

	// Endpoints
	SearchEndpoint  string
	SearchFile      string
	MeaningEndpoint string

	// Pacing between site searches. Zero means no pause; the CLI defaults
	// to DefaultPaceMin..DefaultPaceMax.
	PaceMin time.Duration
	PaceMax time.Duration

	// Result-page cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}

// ParseSites parses "name=domain,name=domain". Blank entries are skipped.
func ParseSites(s string) ([]orchestrator.Site, error) {
	var out []orchestrator.Site
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, domain, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("site %q: want name=domain", part)
		}
		out = append(out, orchestrator.Site{Name: strings.TrimSpace(name), Domain: strings.TrimSpace(domain)})
	}
	return out, nil
}

// sitesOrDefault returns the configured sites, falling back to the defaults.
func (c Config) sitesOrDefault() []orchestrator.Site {
	if len(c.Sites) == 0 {
		return orchestrator.DefaultSites()
	}
	return c.Sites
}
