// Package meaning fetches an idiom's dictionary entry from a site that
// requires a logged-in session.
package meaning

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/hyperifyio/idiomsearch/internal/extract"
	"github.com/hyperifyio/idiomsearch/internal/fetch"
	"github.com/hyperifyio/idiomsearch/internal/session"
)

const (
	// DefaultEndpoint is the dictionary search page; the keyword is appended.
	DefaultEndpoint = "https://www.xingguanggongkao.com/pc/words/search.html?keywords="
	// DefaultReferer is sent with every dictionary request.
	DefaultReferer = "https://www.xingguanggongkao.com/"
	// DefaultTimeout bounds one dictionary fetch.
	DefaultTimeout = 10 * time.Second
	// LoginMarker appears in the body when the session cookies are missing or expired.
	LoginMarker = "请先登录"
)

const (
	explainSelector  = "div.words-search-explain"
	analysisSelector = "div.words-search-analysis"
	valueSelector    = "div.words-search-analysis-value"
)

var (
	// ErrStatus is returned for a non-200 dictionary response.
	ErrStatus = errors.New("meaning: unexpected status")
	// ErrLoginRequired is returned when the dictionary asks for a login.
	ErrLoginRequired = errors.New("meaning: login required")
)

// Meaning is one dictionary entry. Analysis is empty when the entry has
// no supplemental section; its newlines are paragraph boundaries.
type Meaning struct {
	Idiom       string
	Explanation string
	Analysis    string
}

// Getter performs one GET; *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, r fetch.Request) (*fetch.Response, error)
}

// Fetcher retrieves meanings with an authenticated session.
type Fetcher struct {
	Client  Getter
	Session *session.Session
	// Endpoint overrides DefaultEndpoint.
	Endpoint string
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

// Fetch returns the meaning of keyword, or nil when none is available.
// Every failure degrades to nil and is logged; Fetch itself never fails
// the caller.
func (f *Fetcher) Fetch(ctx context.Context, keyword string) *Meaning {
	m, err := f.Lookup(ctx, keyword)
	switch {
	case errors.Is(err, ErrLoginRequired):
		log.Warn().Str("keyword", keyword).Msg("dictionary cookies missing or expired")
	case err != nil:
		log.Warn().Err(err).Str("keyword", keyword).Msg("dictionary lookup failed")
	case m == nil:
		log.Info().Str("keyword", keyword).Msg("no dictionary entry")
	}
	if err != nil {
		return nil
	}
	return m
}

// Lookup is Fetch with the failure reason exposed. A page without an
// explanation block yields (nil, nil).
func (f *Fetcher) Lookup(ctx context.Context, keyword string) (*Meaning, error) {
	if f.Client == nil {
		return nil, errors.New("meaning: no http client configured")
	}
	endpoint := f.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	resp, err := f.Client.Get(ctx, fetch.Request{
		URL:     endpoint + url.QueryEscape(keyword),
		Header:  f.Session.Header(DefaultReferer),
		Cookie:  f.Session.CookieHeader(),
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch dictionary page: %w", err)
	}
	if resp.Status != 200 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.Status)
	}
	if bytes.Contains(resp.Body, []byte(LoginMarker)) {
		return nil, ErrLoginRequired
	}
	return Parse(resp.Body, keyword)
}

// Parse extracts a Meaning from a dictionary page. It returns (nil, nil)
// when the page has no explanation block.
func Parse(body []byte, keyword string) (*Meaning, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse dictionary page: %w", err)
	}
	explain := doc.Find(explainSelector).First()
	if explain.Length() == 0 {
		return nil, nil
	}
	m := &Meaning{Idiom: keyword, Explanation: strippedText(explain)}
	value := doc.Find(analysisSelector).First().Find(valueSelector).First()
	if value.Length() > 0 {
		replaceBreaks(value)
		m.Analysis = extract.NormalizeParagraphs(value.Text())
	}
	return m, nil
}

// strippedText concatenates the trimmed text nodes under s, dropping
// whitespace-only nodes.
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.TextNode {
				b.WriteString(strings.TrimSpace(n.Data))
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(n)
	}
	return b.String()
}

// replaceBreaks swaps every <br> under s for a newline text node.
func replaceBreaks(s *goquery.Selection) {
	s.Find("br").Each(func(_ int, br *goquery.Selection) {
		for _, n := range br.Nodes {
			if n.Parent == nil {
				continue
			}
			n.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: "\n"}, n)
			n.Parent.RemoveChild(n)
		}
	})
}
