package search

import (
	"context"
	"errors"
	"os"
	"strings"
)

// FileProvider parses a results page saved on disk for every domain. It is
// meant for offline runs and for checking selector changes against a page
// captured from the live engine.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, keyword, _ string) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return (&Parser{Source: f.Name()}).Parse(b, keyword)
}
