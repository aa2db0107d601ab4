package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCache_SaveAndLoad(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: t.TempDir()}
	ctx := context.Background()
	url := "https://www.baidu.com/s?wd=inurl%3Agmw.cn%20%E6%88%90%E8%AF%AD"
	require.NoError(t, c.Save(ctx, url, "text/html", `"etag"`, "Mon, 01 Jan 2024 00:00:00 GMT", []byte("<html>成语</html>")))

	meta, err := c.LoadMeta(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, url, meta.URL)
	assert.Equal(t, `"etag"`, meta.ETag)
	assert.False(t, meta.SavedAt.IsZero())

	body, err := c.LoadBody(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "<html>成语</html>", string(body))
}

func TestHTTPCache_MissingEntry(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: t.TempDir()}
	_, err := c.LoadBody(context.Background(), "https://example.com/none")
	assert.Error(t, err)
}

func TestHTTPCache_Unconfigured(t *testing.T) {
	t.Parallel()
	var c *HTTPCache
	_, err := c.LoadMeta(context.Background(), "https://example.com")
	assert.Error(t, err)
}

func TestHTTPCache_StrictPerms(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "http")
	c := &HTTPCache{Dir: dir, StrictPerms: true}
	url := "https://example.com/a"
	require.NoError(t, c.Save(context.Background(), url, "text/html", "", "", []byte("x")))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode()&0o777)

	finfo, err := os.Stat(filepath.Join(dir, Key(url)+".body"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), finfo.Mode()&0o777)
}

func TestPurgeHTTPCacheByAge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, "https://example.com/old", "text/html", "", "", []byte("old")))
	require.NoError(t, c.Save(ctx, "https://example.com/new", "text/html", "", "", []byte("new")))

	// Backdate the first entry.
	old := HTTPEntry{URL: "https://example.com/old", SavedAt: time.Now().UTC().Add(-48 * time.Hour)}
	b, _ := json.Marshal(old)
	require.NoError(t, os.WriteFile(filepath.Join(dir, Key(old.URL)+".meta.json"), b, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.body.tmp"), []byte("partial"), 0o644))

	removed, err := PurgeHTTPCacheByAge(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = c.LoadBody(ctx, "https://example.com/old")
	assert.Error(t, err, "old body should be removed")
	_, err = c.LoadBody(ctx, "https://example.com/new")
	assert.NoError(t, err, "new body should be kept")
	_, err = os.Stat(filepath.Join(dir, "stray.body.tmp"))
	assert.True(t, os.IsNotExist(err), "tmp file should be removed")
}

func TestPurgeHTTPCacheByAge_MissingDir(t *testing.T) {
	t.Parallel()
	n, err := PurgeHTTPCacheByAge(filepath.Join(t.TempDir(), "absent"), time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.body"), []byte("x"), 0o644))
	require.NoError(t, ClearDir(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Error(t, ClearDir("  "))
}
