// Package cache keeps recent search responses in memory so repeated
// searches for the same term can skip the browser.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/shopscout/models"
)

type entry struct {
	response  *models.SearchResponse
	createdAt time.Time
}

// Cache is an in-memory cache for search responses.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a Cache holding at most maxEntries responses. A background
// goroutine evicts entries older than an hour every five minutes until
// Close is called.
func New(maxEntries int) *Cache {
	c := newCache(maxEntries)
	go c.cleanupLoop(5 * time.Minute)
	return c
}

func newCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        time.Hour,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// Key derives a cache key from the search term and the set of sites
// searched. Terms differing only in case or surrounding space share a key.
func Key(term string, sites []string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.Join(strings.Fields(term), " "))))
	for _, s := range sites {
		h.Write([]byte("|"))
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached response younger than maxAgeMs milliseconds.
// A non-positive maxAgeMs disables the lookup.
func (c *Cache) Get(key string, maxAgeMs int) (*models.SearchResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}

	return e.response, true
}

// Set stores resp. At capacity an arbitrary entry is evicted first.
func (c *Cache) Set(key string, resp *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		response:  resp,
		createdAt: c.now(),
	}
}

// Len returns the number of cached responses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) evictExpired() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}
