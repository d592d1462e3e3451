// Package caching stores fetched raw HTML on disk with a max-age policy so
// repeated runs against the same page skip the network.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a file-per-URL cache keyed by the SHA256 of the URL. Freshness
// comes from the file's modification time; entries older than maxAge are
// treated as misses.
type Cache struct {
	dir    string
	maxAge time.Duration
}

// New creates the cache directory if needed. A maxAge of zero disables the
// cache entirely: every Get is a miss.
func New(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, maxAge: maxAge}, nil
}

func (c *Cache) entryPath(url string) string {
	hash := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, fmt.Sprintf("%x.html", hash))
}

// Get returns the cached page and true on a fresh hit.
func (c *Cache) Get(url string) ([]byte, bool) {
	if c.maxAge <= 0 {
		return nil, false
	}
	path := c.entryPath(url)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.maxAge {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a fetched page, refreshing its age.
func (c *Cache) Set(url string, data []byte) error {
	if err := os.WriteFile(c.entryPath(url), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
