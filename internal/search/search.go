package search

import (
	"context"
	"errors"
)

// Result is one accepted search hit. Snippet, when non-empty, always
// contains the keyword it was extracted for.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string // provider name for observability
}

// Provider runs one keyword search restricted to a single domain.
type Provider interface {
	Search(ctx context.Context, keyword, domain string) ([]Result, error)
	Name() string
}

// ErrStatus is returned when the search engine answers with a non-2xx status.
var ErrStatus = errors.New("search: unexpected status")
