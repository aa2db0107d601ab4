package search

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/idiomsearch/internal/extract"
)

// ContainerSelector matches one organic result on the results page.
const ContainerSelector = "div.c-container"

// AbstractStrategy pulls the raw abstract text out of a result container.
// It returns "" when it finds nothing.
type AbstractStrategy interface {
	Abstract(container *goquery.Selection) string
}

// SelectorStrategy takes the text of the first element matching a CSS selector.
type SelectorStrategy string

func (s SelectorStrategy) Abstract(container *goquery.Selection) string {
	return strings.TrimSpace(container.Find(string(s)).First().Text())
}

// DefaultAbstractStrategies run from the most specific current layout to the
// most generic legacy ones. The first non-empty match wins.
var DefaultAbstractStrategies = []AbstractStrategy{
	SelectorStrategy("span.summary-text_560AW"),
	SelectorStrategy("div.cu-line-clamp-2 span.summary-text_560AW"),
	SelectorStrategy("div.c-abstract"),
	SelectorStrategy("div.content-right_8Zs40"),
	SelectorStrategy("span.content-right_8Zs40"),
}

// Parser turns a results page into accepted Results.
type Parser struct {
	// Strategies defaults to DefaultAbstractStrategies.
	Strategies []AbstractStrategy
	// Tiers defaults to extract.DefaultTiers.
	Tiers []extract.Tier
	// Source is copied into every Result.
	Source string
}

// ParseResults parses body with the default strategies.
func ParseResults(body []byte, keyword string) ([]Result, error) {
	return (&Parser{}).Parse(body, keyword)
}

// Parse returns the accepted results in page order. Only a document that
// cannot be parsed at all is an error; a container that fails is logged
// and skipped.
func (p *Parser) Parse(body []byte, keyword string) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}
	var out []Result
	doc.Find(ContainerSelector).Each(func(i int, c *goquery.Selection) {
		r, ok, err := p.container(c, keyword)
		if err != nil {
			log.Warn().Err(err).Int("container", i).Msg("skipping malformed result")
			return
		}
		if ok {
			out = append(out, r)
		}
	})
	return out, nil
}

func (p *Parser) container(c *goquery.Selection, keyword string) (r Result, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("result container: %v", rec)
			ok = false
		}
	}()

	h3 := c.Find("h3").First()
	if h3.Length() == 0 {
		return Result{}, false, nil
	}
	abstract := p.abstract(c)
	if abstract == "" {
		return Result{}, false, nil
	}
	abstract = extract.CollapseWhitespace(abstract)
	if !Acceptable(abstract, keyword) {
		return Result{}, false, nil
	}
	tiers := p.Tiers
	if tiers == nil {
		tiers = extract.DefaultTiers
	}
	snippet := extract.FirstOf(tiers, abstract, keyword)
	if snippet == "" {
		snippet = extract.Truncate(abstract, extract.FallbackLength, extract.TruncateMarker)
	}
	href, _ := h3.Find("a").First().Attr("href")
	return Result{
		Title:   strings.TrimSpace(h3.Text()),
		URL:     strings.TrimSpace(href),
		Snippet: snippet,
		Source:  p.Source,
	}, true, nil
}

func (p *Parser) abstract(c *goquery.Selection) string {
	strategies := p.Strategies
	if len(strategies) == 0 {
		strategies = DefaultAbstractStrategies
	}
	for _, s := range strategies {
		if text := s.Abstract(c); text != "" {
			return text
		}
	}
	return ""
}

// Acceptable reports whether a normalized abstract mentions keyword and is
// long enough to carry context.
func Acceptable(abstract, keyword string) bool {
	return keyword != "" &&
		strings.Contains(abstract, keyword) &&
		utf8.RuneCountInString(abstract) > extract.MinAbstractLength
}
