package storage

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Response cache tuning. Independent of the client pool's tuning.
const (
	responseCacheTTL      = 5 * time.Minute
	responseCacheCapacity = 100
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// ResponseCache caches successful generation results keyed by a content
// fingerprint. Entries expire after a TTL (swept lazily on every read and
// write) and the oldest entry is evicted when the cache is at capacity.
// Get refreshes recency, so eviction is LRU-like rather than strictly
// insertion-ordered. Safe for concurrent use.
type ResponseCache[V any] struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry[V]
	order   []string // oldest first

	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewResponseCache creates a cache with the default TTL and capacity.
func NewResponseCache[V any]() *ResponseCache[V] {
	return &ResponseCache[V]{
		entries:  make(map[string]*cacheEntry[V]),
		ttl:      responseCacheTTL,
		capacity: responseCacheCapacity,
		now:      time.Now,
	}
}

// Get returns the cached value for a key. A hit moves the key to the back
// of the eviction order.
func (c *ResponseCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.touchLocked(key)
	return entry.value, true
}

// Set stores a value, evicting the oldest entry first when at capacity.
func (c *ResponseCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	if _, exists := c.entries[key]; exists {
		c.touchLocked(key)
	} else {
		c.order = append(c.order, key)
	}
	c.entries[key] = &cacheEntry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Clear drops all entries.
func (c *ResponseCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry[V])
	c.order = nil
}

// Len returns the number of live entries.
func (c *ResponseCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	return len(c.entries)
}

// sweepLocked deletes all expired entries. Caller holds c.mu.
func (c *ResponseCache[V]) sweepLocked() {
	now := c.now()
	kept := c.order[:0]
	for _, key := range c.order {
		entry, ok := c.entries[key]
		if !ok {
			continue
		}
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
}

// evictOldestLocked removes the entry at the front of the order.
func (c *ResponseCache[V]) evictOldestLocked() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

// touchLocked moves a key to the back of the order.
func (c *ResponseCache[V]) touchLocked(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

// Fingerprint computes the cache key for a generation request: a fast
// non-cryptographic hash over the prompt, model, search flag, and image
// content (or a fixed marker when no image is attached).
func Fingerprint(prompt, model string, useWebSearch bool, image []byte) string {
	imagePart := "no-image"
	if len(image) > 0 {
		imagePart = hashHex(image)
	}
	search := "plain"
	if useWebSearch {
		search = "search"
	}
	key := fmt.Sprintf("%s\x00%s\x00%s\x00%s", prompt, model, search, imagePart)
	return hashHex([]byte(key))
}

// hashHex uses xxHash: non-cryptographic but ideal for fingerprinting.
func hashHex(data []byte) string {
	h := xxhash.Sum64(data)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h)
	return hex.EncodeToString(buf[:])
}
