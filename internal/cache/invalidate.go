package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClearDir empties dir and recreates it so the cache location stays valid.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeHTTPCacheByAge removes cached result pages older than maxAge and
// reports how many were removed. Age comes from the SavedAt field of each
// <key>.meta.json; unreadable sidecars are left alone. Leftover .tmp files
// from interrupted writes are removed as well but not counted.
func PurgeHTTPCacheByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, ".tmp") {
			_ = os.Remove(path)
			return nil
		}
		stem, ok := strings.CutSuffix(name, ".meta.json")
		if !ok {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var e HTTPEntry
		if json.Unmarshal(b, &e) != nil || !e.SavedAt.Before(cutoff) {
			return nil
		}
		_ = os.Remove(path)
		_ = os.Remove(filepath.Join(filepath.Dir(path), stem+".body"))
		removed++
		return nil
	})
	return removed, err
}
