// Package thumbs implements best-effort thumbnail discovery for installed
// packages and the JSON side-cache memoizing its results.
//
// Discovery is a read-only filesystem search; the only write path is the
// side-cache file, which is guarded by a single-writer lock and replaced
// atomically. Results are memoized: once a package name resolves to
// "found" or "missing" it is not rescanned unless explicitly forgotten.
// Consistency guarantees are deliberately weak — this is an auxiliary
// read path with no write-back obligations on package content.
package thumbs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// flushInterval throttles cache writes so a burst of scan results does
// not rewrite the db file per entry.
const flushInterval = 500 * time.Millisecond

// statusMemoSize bounds the in-memory stat-check memo.
const statusMemoSize = 4096

// ScanStatus describes what the cache knows about a package name.
type ScanStatus string

// Scan states. Missing is a memoized negative result: the package was
// scanned and no thumbnail exists.
const (
	StatusFound   ScanStatus = "found"
	StatusMissing ScanStatus = "missing"
	StatusUnknown ScanStatus = "unknown"
)

// Entry is one side-cache record. An empty Path means "scanned, not
// found".
type Entry struct {
	Path   string `json:"path"`
	MTime  int64  `json:"mtime"`
	Source string `json:"source"`
}

// Cache is the thumbnail side-cache: a JSON map from package name to
// discovered image path, flushed atomically under a single-writer lock.
type Cache struct {
	path string

	mu       sync.Mutex
	db       map[string]Entry
	lastSave time.Time
	pending  bool

	// memo caches stat-verified scan statuses so table repaints do not
	// hit the filesystem per row.
	memo *lru.Cache[string, ScanStatus]
}

// NewCache opens (or creates) the side-cache at path. An unreadable or
// malformed db degrades to an empty cache rather than failing.
func NewCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	memo, err := lru.New[string, ScanStatus](statusMemoSize)
	if err != nil {
		return nil, err
	}

	c := &Cache{path: path, db: map[string]Entry{}, memo: memo}
	if data, err := os.ReadFile(path); err == nil {
		var db map[string]Entry
		if json.Unmarshal(data, &db) == nil && db != nil {
			c.db = db
		}
	}
	return c, nil
}

// Lookup returns the cached entry for name, if any.
func (c *Cache) Lookup(name string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.db[name]
	return e, ok
}

// Put records a discovered thumbnail path for name.
func (c *Cache) Put(name string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db[name] = e
	c.memo.Remove(name)
	c.flushThrottledLocked()
}

// MarkMissing memoizes a negative scan result for name so it is not
// searched again next session.
func (c *Cache) MarkMissing(name string) {
	c.Put(name, Entry{Source: "none"})
}

// Forget drops a single mapping so the next scan re-discovers it.
func (c *Cache) Forget(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.db[name]; !ok {
		return nil
	}
	delete(c.db, name)
	c.memo.Remove(name)
	return c.flushLocked()
}

// ClearAll drops every mapping.
func (c *Cache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = map[string]Entry{}
	c.memo.Purge()
	return c.flushLocked()
}

// Len returns the number of cached mappings (found and missing).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.db)
}

// Status reports whether name has a usable thumbnail. A cached path that
// no longer exists on disk counts as missing. Results are memoized in
// memory until the entry changes.
func (c *Cache) Status(name string) ScanStatus {
	if st, ok := c.memo.Get(name); ok {
		return st
	}

	c.mu.Lock()
	e, ok := c.db[name]
	c.mu.Unlock()

	st := StatusUnknown
	switch {
	case !ok:
		return StatusUnknown // nothing to memoize yet
	case e.Path == "":
		st = StatusMissing
	case fileExists(e.Path):
		st = StatusFound
	default:
		st = StatusMissing
	}
	c.memo.Add(name, st)
	return st
}

// Flush forces any pending state to disk immediately.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

// flushThrottledLocked writes the db if enough time has passed since the
// last write, otherwise marks it pending for the next Flush.
func (c *Cache) flushThrottledLocked() {
	if time.Since(c.lastSave) >= flushInterval {
		_ = c.flushLocked()
		return
	}
	c.pending = true
}

// flushLocked serializes the db and atomically replaces the cache file.
// Callers hold c.mu.
func (c *Cache) flushLocked() error {
	data, err := json.MarshalIndent(c.db, "", "  ")
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.%d.tmp", c.path, os.Getpid())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return err
	}
	c.lastSave = time.Now()
	c.pending = false
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
