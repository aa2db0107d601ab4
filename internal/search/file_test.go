package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProvider_ParsesSavedPage(t *testing.T) {
	f := &FileProvider{Path: "testdata/results.html"}
	got, err := f.Search(context.Background(), "一鸣惊人", "ignored.example")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "file", got[0].Source)
}

func TestFileProvider_Errors(t *testing.T) {
	_, err := (&FileProvider{}).Search(context.Background(), "一鸣惊人", "")
	assert.Error(t, err)
	_, err = (&FileProvider{Path: "testdata/missing.html"}).Search(context.Background(), "一鸣惊人", "")
	assert.Error(t, err)
}
