package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/checkfox/leadintel/internal/models"
)

// DefaultTTL is how long a cached narrative stays valid
const DefaultTTL = 24 * time.Hour

// Entry holds a generated narrative and the moment it was stored
type Entry struct {
	Key       string
	Purpose   models.Purpose
	Payload   string
	CreatedAt time.Time
}

// Stats is a point-in-time view of the cache
type Stats struct {
	Total   int     `json:"total"`
	Valid   int     `json:"valid"`
	HitRate float64 `json:"hit_rate"`
	Enabled bool    `json:"enabled"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
}

// Option configures a ResponseCache
type Option func(*ResponseCache)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics records lookups and size on the given manager
func WithMetrics(m *metrics.Manager) Option {
	return func(c *ResponseCache) {
		c.metrics = m
	}
}

// ResponseCache maps (purpose, input) pairs to generated narratives.
// Expired entries are never returned but stay in the map until Clear.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	enabled bool
	ttl     time.Duration
	now     func() time.Time
	hits    int64
	misses  int64
	metrics *metrics.Manager
}

// New creates a cache. A negative ttl is treated as zero, which makes every
// entry immediately stale.
func New(enabled bool, ttl time.Duration, opts ...Option) *ResponseCache {
	if ttl < 0 {
		ttl = 0
	}
	c := &ResponseCache{
		entries: make(map[string]*Entry),
		enabled: enabled,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fingerprint derives the cache key for purpose and data. Data is reduced to
// canonical JSON first, so map insertion order and struct-vs-map encodings of
// the same fields produce the same key.
func Fingerprint(purpose models.Purpose, data interface{}) (string, error) {
	canonical, err := canonicalJSON(data)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize cache input for %s: %w", purpose, err)
	}

	h := sha256.New()
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write(canonical)
	return string(purpose) + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached narrative if present and still valid
func (c *ResponseCache) Get(purpose models.Purpose, data interface{}) (string, bool) {
	if !c.enabled {
		return "", false
	}

	key, err := Fingerprint(purpose, data)
	if err != nil {
		c.recordLookup(false)
		return "", false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	valid := ok && c.isValid(entry)
	c.mu.RUnlock()

	c.recordLookup(valid)
	if !valid {
		return "", false
	}
	return entry.Payload, true
}

// Peek is Get without touching the hit counters or metrics
func (c *ResponseCache) Peek(purpose models.Purpose, data interface{}) (string, bool) {
	if !c.enabled {
		return "", false
	}

	key, err := Fingerprint(purpose, data)
	if err != nil {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || !c.isValid(entry) {
		return "", false
	}
	return entry.Payload, true
}

// Put stores a narrative, replacing any previous entry for the same key.
// It is a no-op while caching is disabled.
func (c *ResponseCache) Put(purpose models.Purpose, data interface{}, text string) error {
	if !c.enabled {
		return nil
	}

	key, err := Fingerprint(purpose, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = &Entry{
		Key:       key,
		Purpose:   purpose,
		Payload:   text,
		CreatedAt: c.now(),
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.metrics.SetCacheEntries(size)
	return nil
}

// Clear drops every entry and resets the hit counters
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()

	c.metrics.SetCacheEntries(0)
}

// Stats reports entry counts and the hit rate since the last Clear
func (c *ResponseCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		Total:   len(c.entries),
		Enabled: c.enabled,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	for _, entry := range c.entries {
		if c.isValid(entry) {
			stats.Valid++
		}
	}
	if lookups := c.hits + c.misses; lookups > 0 {
		stats.HitRate = float64(c.hits) / float64(lookups)
	}
	return stats
}

// Enabled reports whether lookups can ever hit
func (c *ResponseCache) Enabled() bool {
	return c.enabled
}

// TTL returns the configured validity window
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// isValid must be called with c.mu held
func (c *ResponseCache) isValid(entry *Entry) bool {
	return c.enabled && c.now().Sub(entry.CreatedAt) < c.ttl
}

func (c *ResponseCache) recordLookup(hit bool) {
	c.mu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	c.metrics.RecordCacheLookup(hit)
}

// canonicalJSON re-encodes data through a generic value so object keys come
// out sorted and numbers keep their literal form
func canonicalJSON(data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
