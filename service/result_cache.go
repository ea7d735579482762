package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ludo-technologies/pyblocks/domain"
)

// cacheFormatVersion is bumped whenever the stored FileBlocks layout changes
const cacheFormatVersion = 1

type cacheEntry struct {
	Result   domain.FileBlocks `msgpack:"result"`
	StoredAt int64             `msgpack:"stored_at"`
}

type cacheFile struct {
	Version int                   `msgpack:"version"`
	Entries map[string]cacheEntry `msgpack:"entries"`
}

// ResultCacheImpl keeps per-file analysis results keyed by a hash of the file
// content and the classifier fingerprint, persisted as msgpack
type ResultCacheImpl struct {
	mu      sync.RWMutex
	path    string
	entries map[string]cacheEntry
	dirty   bool
}

// NewResultCache creates an empty cache persisted at path. An empty path
// gives a memory-only cache.
func NewResultCache(path string) *ResultCacheImpl {
	return &ResultCacheImpl{
		path:    path,
		entries: make(map[string]cacheEntry),
	}
}

// LoadResultCache reads the cache at path. A missing file yields an empty
// cache; an unreadable or outdated one yields an empty cache and an error
// describing why it was dropped.
func LoadResultCache(path string) (*ResultCacheImpl, error) {
	c := NewResultCache(path)
	if path == "" {
		return c, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var data cacheFile
	if err := msgpack.NewDecoder(f).Decode(&data); err != nil {
		return c, fmt.Errorf("failed to decode cache %s: %w", path, err)
	}
	if data.Version != cacheFormatVersion {
		return c, fmt.Errorf("cache %s has format %d, want %d", path, data.Version, cacheFormatVersion)
	}
	if data.Entries != nil {
		c.entries = data.Entries
	}
	return c, nil
}

func cacheKey(content []byte, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for content analysed under fingerprint
func (c *ResultCacheImpl) Get(content []byte, fingerprint string) (*domain.FileBlocks, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(content, fingerprint)]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	result := entry.Result
	result.Cached = true
	return &result, true
}

// Put stores a result
func (c *ResultCacheImpl) Put(content []byte, fingerprint string, result *domain.FileBlocks) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(content, fingerprint)] = cacheEntry{
		Result:   *result,
		StoredAt: time.Now().Unix(),
	}
	c.dirty = true
}

// Len returns the number of cached results
func (c *ResultCacheImpl) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save writes the cache to disk if anything changed since it was loaded.
// The file is replaced atomically.
func (c *ResultCacheImpl) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" || !c.dirty {
		return nil
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".pyblocks-cache-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	data := cacheFile{Version: cacheFormatVersion, Entries: c.entries}
	if err := msgpack.NewEncoder(tmp).Encode(&data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("failed to replace cache: %w", err)
	}

	c.dirty = false
	return nil
}
