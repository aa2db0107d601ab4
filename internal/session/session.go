// Package session holds the per-run request context shared by every
// outbound call: browser-like headers and the cookies of an already
// authenticated dictionary login. A Session is built once and never
// mutated afterwards, so it can be handed to any number of fetchers.
package session

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// DefaultUserAgent mimics a desktop browser; the search engine serves a
// reduced page to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Session is immutable after New.
type Session struct {
	raw     string
	cookies []*http.Cookie
	header  http.Header
}

// New builds a session from a Cookie header style string such as
// "a=1; b=2". The string is kept as pasted and sent verbatim; it is parsed
// only to tell whether it holds any cookie at all. An empty string yields
// an anonymous session.
func New(cookieString string) *Session {
	h := http.Header{}
	h.Set("User-Agent", DefaultUserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	h.Set("Upgrade-Insecure-Requests", "1")
	raw := strings.TrimSpace(cookieString)
	return &Session{raw: raw, cookies: ParseCookies(raw), header: h}
}

// FromFile reads the cookie string from path. Surrounding whitespace and
// a trailing newline are dropped.
func FromFile(path string) (*Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	return New(strings.TrimSpace(string(b))), nil
}

// ParseCookies splits a "k=v; k2=v2" string. Values may contain '='.
func ParseCookies(s string) []*http.Cookie {
	var out []*http.Cookie
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, &http.Cookie{Name: strings.TrimSpace(name), Value: value})
	}
	return out
}

// Anonymous reports whether the session carries no cookies.
func (s *Session) Anonymous() bool {
	return s == nil || len(s.cookies) == 0
}

// CookieHeader returns the cookie string exactly as given to New, or ""
// for an anonymous session.
func (s *Session) CookieHeader() string {
	if s.Anonymous() {
		return ""
	}
	return s.raw
}

// Cookies returns copies of the parsed session cookies.
func (s *Session) Cookies() []*http.Cookie {
	if s == nil {
		return nil
	}
	out := make([]*http.Cookie, len(s.cookies))
	for i, c := range s.cookies {
		cp := *c
		out[i] = &cp
	}
	return out
}

// Header returns a fresh copy of the browser headers with Referer set when
// referer is non-empty.
func (s *Session) Header(referer string) http.Header {
	var h http.Header
	if s == nil {
		h = http.Header{}
	} else {
		h = s.header.Clone()
	}
	if referer != "" {
		h.Set("Referer", referer)
	}
	return h
}
