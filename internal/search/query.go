package search

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultEndpoint is the search-engine results page.
const DefaultEndpoint = "https://www.baidu.com/s"

// PageSize is the number of results requested per page.
const PageSize = 20

// BuildQueryURL returns the results-page URL for keyword restricted to
// pages under domain.
func BuildQueryURL(keyword, domain string) string {
	return BuildQueryURLAt(DefaultEndpoint, keyword, domain)
}

// BuildQueryURLAt is BuildQueryURL against a different endpoint.
func BuildQueryURLAt(endpoint, keyword, domain string) string {
	q := "inurl:" + domain + " " + keyword
	// Fixed parameter order keeps the URL stable for the page cache.
	return endpoint + "?ie=utf-8&f=3&rsv_bp=1&tn=baidu&wd=" + escape(q) + "&rn=" + strconv.Itoa(PageSize)
}

// escape percent-encodes q with spaces as %20 rather than '+'.
func escape(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}
