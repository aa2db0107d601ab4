// Package orchestrator runs one scoped search per configured site, one site
// at a time, with a randomized pause between sites.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/idiomsearch/internal/search"
)

// Site is one search scope: a display name and the domain results must
// live under.
type Site struct {
	Name   string `yaml:"name" json:"name"`
	Domain string `yaml:"domain" json:"domain"`
}

// DefaultSites are the trusted news domains searched when none are configured.
func DefaultSites() []Site {
	return []Site{
		{Name: "人民网", Domain: "people.com.cn"},
		{Name: "光明网", Domain: "gmw.cn"},
		{Name: "新华网", Domain: "xinhuanet.com"},
	}
}

// SiteResults holds the accepted results of one site, in page order.
type SiteResults struct {
	Site    Site
	Results []search.Result
	// Err records why the site yielded nothing, if it failed.
	Err error
}

// ResultSet lists every queried site in query order.
type ResultSet []SiteResults

// Lookup returns the results recorded for the named site.
func (rs ResultSet) Lookup(name string) (SiteResults, bool) {
	for _, s := range rs {
		if s.Site.Name == name {
			return s, true
		}
	}
	return SiteResults{}, false
}

// Total is the number of results across all sites.
func (rs ResultSet) Total() int {
	n := 0
	for _, s := range rs {
		n += len(s.Results)
	}
	return n
}

// Orchestrator is not safe for concurrent Runs; one Run is one session.
type Orchestrator struct {
	Provider search.Provider
	// Pacer defaults to a RandomPacer between DefaultPaceMin and DefaultPaceMax.
	Pacer Pacer
}

// Run searches keyword on every site in order. A site that fails is
// recorded with no results and the run continues. Between two sites Run
// waits on the pacer; if ctx is cancelled, remaining sites are recorded
// empty with ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, keyword string, sites []Site) ResultSet {
	pacer := o.Pacer
	if pacer == nil {
		pacer = NewRandomPacer(DefaultPaceMin, DefaultPaceMax)
	}
	out := make(ResultSet, 0, len(sites))
	for i, site := range sites {
		if i > 0 {
			if err := pacer.Wait(ctx); err != nil {
				out = append(out, SiteResults{Site: site, Err: err})
				continue
			}
		}
		out = append(out, o.searchSite(ctx, keyword, site))
	}
	return out
}

func (o *Orchestrator) searchSite(ctx context.Context, keyword string, site Site) SiteResults {
	sr := SiteResults{Site: site}
	if err := ctx.Err(); err != nil {
		sr.Err = err
		return sr
	}
	if o.Provider == nil {
		sr.Err = errors.New("no search provider configured")
		return sr
	}
	log.Info().Str("site", site.Name).Str("domain", site.Domain).Msg("searching")
	start := time.Now()
	results, err := o.Provider.Search(ctx, keyword, site.Domain)
	if err != nil {
		log.Warn().Err(err).Str("site", site.Name).Msg("search failed; recording no results")
		sr.Err = err
		return sr
	}
	sr.Results = results
	log.Info().Str("site", site.Name).Int("results", len(results)).Dur("took", time.Since(start)).Msg("site done")
	return sr
}
