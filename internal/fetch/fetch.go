package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/idiomsearch/internal/cache"
)

// Request describes one outbound GET.
type Request struct {
	URL    string
	Header http.Header
	// Cookie is a raw Cookie header value sent byte for byte. It is not
	// routed through http.Cookie, which would re-quote or drop bytes.
	Cookie string
	// Timeout bounds this request; zero falls back to Client.PerRequestTimeout.
	Timeout time.Duration
}

// Response is a fully read, UTF-8 decoded reply. Non-2xx statuses are
// reported here rather than as errors so callers can classify them.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status <= 299
}

// Client wraps http.Client with per-request timeouts, a redirect cap,
// content-type gating, charset decoding and an optional on-disk cache.
// It never retries: each call is exactly one attempt.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// PerRequestTimeout bounds each request unless Request.Timeout is set.
	PerRequestTimeout time.Duration
	// Optional on-disk cache for GET bodies. Requests that carry a cookie
	// are never cached.
	Cache *cache.HTTPCache
	// If true, skip conditional revalidation but still save fresh bodies.
	BypassCache bool

	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Get performs one GET. Transport failures, timeouts, disallowed schemes and
// non-HTML bodies are errors; any HTTP status is returned in the Response.
func (c *Client) Get(ctx context.Context, r Request) (*Response, error) {
	cacheable := c.Cache != nil && r.Cookie == "" && r.Header.Get("Cookie") == ""
	var etag, lastMod string
	if cacheable && !c.BypassCache {
		if meta, err := c.Cache.LoadMeta(ctx, r.URL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}

	resp, newEtag, newLastMod, err := c.do(ctx, r, etag, lastMod)
	if err != nil {
		return nil, err
	}
	if cacheable && resp.Status == http.StatusNotModified {
		if cached, err := c.Cache.LoadBody(ctx, r.URL); err == nil {
			log.Debug().Str("url", r.URL).Msg("served from cache")
			return &Response{Status: http.StatusOK, ContentType: resp.ContentType, Body: cached}, nil
		}
	}
	if cacheable && resp.Status == http.StatusOK {
		if err := c.Cache.Save(ctx, r.URL, resp.ContentType, newEtag, newLastMod, resp.Body); err != nil {
			log.Debug().Err(err).Str("url", r.URL).Msg("cache save failed")
		}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, r Request, etag, lastMod string) (*Response, string, string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = c.PerRequestTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("new request: %w", err)
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(req.URL) {
		return nil, "", "", fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if r.Cookie != "" {
		req.Header["Cookie"] = []string{r.Cookie}
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, "", "", err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	out := &Response{Status: resp.StatusCode, ContentType: contentType}
	if resp.StatusCode == http.StatusNotModified {
		return out, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return out, "", "", nil
	}
	if !isAllowedHTMLContentType(contentType) {
		return nil, "", "", fmt.Errorf("unsupported content type: %s", contentType)
	}
	body, err := readUTF8(resp.Body, contentType)
	if err != nil {
		return nil, "", "", fmt.Errorf("read body: %w", err)
	}
	out.Body = body
	return out, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), nil
}

// readUTF8 decodes the body to UTF-8 using the Content-Type charset, a BOM
// or a <meta> declaration, in that order.
func readUTF8(r io.Reader, contentType string) ([]byte, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		// Sniffing an empty body hits EOF before any decoding starts.
		if errors.Is(err, io.EOF) {
			return []byte{}, nil
		}
		return nil, err
	}
	return io.ReadAll(cr)
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	// allow text/html variants and application/xhtml+xml
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
