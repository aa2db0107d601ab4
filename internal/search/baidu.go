package search

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/idiomsearch/internal/fetch"
	"github.com/hyperifyio/idiomsearch/internal/session"
)

// DefaultTimeout bounds one results-page fetch.
const DefaultTimeout = 15 * time.Second

// Getter performs one GET; *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, r fetch.Request) (*fetch.Response, error)
}

// Baidu implements Provider by scraping the Baidu results page with an
// inurl: domain restriction.
type Baidu struct {
	Client  Getter
	Session *session.Session
	// Endpoint overrides DefaultEndpoint.
	Endpoint string
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
	// Parser overrides the default result parser.
	Parser *Parser
}

func (b *Baidu) Name() string { return "baidu" }

// Search fetches and parses one results page. Transport failures and
// non-2xx statuses are returned as errors; the caller decides whether they
// are fatal.
func (b *Baidu) Search(ctx context.Context, keyword, domain string) ([]Result, error) {
	if b.Client == nil {
		return nil, fmt.Errorf("baidu: no http client configured")
	}
	endpoint := b.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	u := BuildQueryURLAt(endpoint, keyword, domain)
	log.Debug().Str("url", u).Str("domain", domain).Msg("search request")

	resp, err := b.Client.Get(ctx, fetch.Request{
		URL:     u,
		Header:  b.Session.Header("https://www.baidu.com/"),
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch results page: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.Status)
	}
	p := b.Parser
	if p == nil {
		p = &Parser{}
	}
	if p.Source == "" {
		cp := *p
		cp.Source = b.Name()
		p = &cp
	}
	return p.Parse(resp.Body, keyword)
}
