package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps entries as JSON files under a directory, one
// subdirectory per key family:
//
//	<dir>/scan/3f/a9c1....json
//	<dir>/report/07/12be....json
//
// Safe for concurrent use within one process; writes go through a temp file
// and rename so readers never see a partial entry.
type FileCache struct {
	dir string
}

// NewFileCache creates the directory if needed and returns a cache over it.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk form. Key and Family are informational; lookups
// go by path.
type fileEntry struct {
	Key       string    `json:"key"`
	Family    string    `json:"family"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Data      []byte    `json:"data"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the entry for key. Expired and undecodable entries are
// removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set writes the entry for key. A ttl of zero never expires.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	e := fileEntry{Key: key, Family: KeyFamily(key), StoredAt: now, Data: data}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the entry for key; a missing entry is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// Clear removes every entry of family, or of all families when family is
// empty, and returns how many entries were removed. Emptied directories
// are pruned.
func (c *FileCache) Clear(family string) (int, error) {
	root := c.dir
	if family != "" {
		root = filepath.Join(c.dir, family)
	}
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if os.Remove(path) == nil && filepath.Ext(path) == ".json" {
			n++
		}
		return nil
	})
	if err != nil {
		return n, err
	}
	pruneEmptyDirs(root, root != c.dir)
	return n, nil
}

// Count returns the number of stored entries per family, expired ones
// included.
func (c *FileCache) Count() (map[string]int, error) {
	counts := make(map[string]int)
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return counts, err
	}
	for _, fam := range entries {
		if !fam.IsDir() {
			continue
		}
		_ = filepath.WalkDir(filepath.Join(c.dir, fam.Name()), func(path string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() && filepath.Ext(path) == ".json" {
				counts[fam.Name()]++
			}
			return nil
		})
	}
	return counts, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// path maps key to <dir>/<family>/<first two hash chars>/<rest>.json.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, KeyFamily(key), h[:2], h[2:]+".json")
}

// pruneEmptyDirs removes empty directories below root, and root itself
// when self is set.
func pruneEmptyDirs(root string, self bool) {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() && (self || path != root) {
			dirs = append(dirs, path)
		}
		return nil
	})
	// Deepest first; Remove fails on non-empty directories.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}
}

var _ Cache = (*FileCache)(nil)
