// Package cache stores analysis results keyed by content hash.
package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
)

// DefaultMemoryEntries is the size of the in-memory layer when none is given.
const DefaultMemoryEntries = 1024

// Cache is a two-level cache: an in-memory LRU in front of msgpack files on disk.
// A disabled cache never hits and silently drops writes.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	mem     *lru.Cache[uint64, Entry]
}

// Entry represents a cached analysis result.
type Entry struct {
	Key       string    `msgpack:"key"`
	Timestamp time.Time `msgpack:"timestamp"`
	Data      []byte    `msgpack:"data"`
}

// New creates a new cache instance. A zero ttl never expires entries.
func New(dir string, ttl time.Duration, memEntries int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	if memEntries <= 0 {
		memEntries = DefaultMemoryEntries
	}
	mem, err := lru.New[uint64, Entry](memEntries)
	if err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     ttl,
		enabled: true,
		mem:     mem,
	}, nil
}

// Enabled reports whether the cache stores anything.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Key derives a cache key from its parts with BLAKE3.
func Key(parts ...[]byte) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write(p)
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached entry if it exists and is not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	memKey := xxhash.Sum64String(key)
	if entry, ok := c.mem.Get(memKey); ok && entry.Key == key {
		if c.expired(entry) {
			c.mem.Remove(memKey)
		} else {
			return entry.Data, true
		}
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil || entry.Key != key {
		return nil, false
	}

	if c.expired(entry) {
		os.Remove(path)
		return nil, false
	}

	c.mem.Add(memKey, entry)
	return entry.Data, true
}

// Set stores data in the cache.
func (c *Cache) Set(key string, data []byte) error {
	if !c.enabled {
		return nil
	}

	entry := Entry{
		Key:       key,
		Timestamp: time.Now(),
		Data:      data,
	}

	encoded, err := msgpack.Marshal(&entry)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.keyPath(key), encoded, 0600); err != nil {
		return err
	}

	c.mem.Add(xxhash.Sum64String(key), entry)
	return nil
}

// GetValue decodes a cached msgpack value into v.
func (c *Cache) GetValue(key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return msgpack.Unmarshal(data, v) == nil
}

// SetValue encodes v with msgpack and stores it.
func (c *Cache) SetValue(key string, v any) error {
	if !c.enabled {
		return nil
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data)
}

// Invalidate removes a cache entry.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	c.mem.Remove(xxhash.Sum64String(key))
	err := os.Remove(c.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	c.mem.Purge()
	return os.RemoveAll(c.dir)
}

func (c *Cache) expired(e Entry) bool {
	return c.ttl > 0 && time.Since(e.Timestamp) > c.ttl
}

// keyPath converts a key to a filesystem path.
func (c *Cache) keyPath(key string) string {
	hash := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".msgpack")
}

// Stats describes the on-disk layer.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
	InMemory  int           `json:"in_memory"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{InMemory: c.mem.Len()}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".msgpack" {
			return nil
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		mod := info.ModTime()
		if oldest.IsZero() || mod.Before(oldest) {
			oldest = mod
		}
		if newest.IsZero() || mod.After(newest) {
			newest = mod
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
		stats.NewestAge = time.Since(newest)
	}
	return stats, nil
}
