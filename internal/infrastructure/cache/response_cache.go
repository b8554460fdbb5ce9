package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Constants for response cache configuration
const (
	defaultMaxEntries      = 1000
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = time.Minute
)

// CachedResponse is a stored HTTP response body with its headers
type CachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
	StoredAt    time.Time
}

// ResponseCache is a size-capped in-memory cache for HTTP responses.
// When the entry count exceeds the cap, the least recently used entry
// is evicted. Entries also expire after a TTL.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	eviction   *list.List // front = most recently used
	maxEntries int
	ttl        time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	// Stats for monitoring
	hits      int64
	misses    int64
	evictions int64
}

// responseEntry is the eviction-list payload
type responseEntry struct {
	key       string
	value     *CachedResponse
	expiresAt time.Time
}

func (e *responseEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// ResponseCacheOption is a functional option for configuring the cache
type ResponseCacheOption func(*ResponseCache)

// WithMaxEntries caps the number of cached responses
func WithMaxEntries(max int) ResponseCacheOption {
	return func(c *ResponseCache) {
		if max > 0 {
			c.maxEntries = max
		}
	}
}

// WithTTL sets the default entry lifetime
func WithTTL(ttl time.Duration) ResponseCacheOption {
	return func(c *ResponseCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithResponseCacheLogger sets the logger for the cache
func WithResponseCacheLogger(logger *zap.Logger) ResponseCacheOption {
	return func(c *ResponseCache) {
		c.logger = logger
	}
}

// NewResponseCache creates a new size-capped response cache
func NewResponseCache(opts ...ResponseCacheOption) *ResponseCache {
	cache := &ResponseCache{
		entries:    make(map[string]*list.Element),
		eviction:   list.New(),
		maxEntries: defaultMaxEntries,
		ttl:        defaultTTL,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired(defaultCleanupInterval)

	return cache
}

// Get retrieves a cached response. Returns nil on miss or expiry.
func (c *ResponseCache) Get(key string) *CachedResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil
	}

	entry := elem.Value.(*responseEntry)
	if entry.isExpired() {
		c.removeElement(elem)
		atomic.AddInt64(&c.misses, 1)
		return nil
	}

	c.eviction.MoveToFront(elem)
	atomic.AddInt64(&c.hits, 1)
	c.logger.Debug("Response cache hit", zap.String("key", key))
	return entry.value
}

// Set stores a response under the given key. A zero ttl uses the
// cache default. Storing over an existing key refreshes its position.
func (c *ResponseCache) Set(key string, response *CachedResponse, ttl time.Duration) {
	if response == nil {
		return
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*responseEntry)
		entry.value = response
		entry.expiresAt = time.Now().Add(ttl)
		c.eviction.MoveToFront(elem)
		return
	}

	entry := &responseEntry{
		key:       key,
		value:     response,
		expiresAt: time.Now().Add(ttl),
	}
	c.entries[key] = c.eviction.PushFront(entry)

	for len(c.entries) > c.maxEntries {
		oldest := c.eviction.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		atomic.AddInt64(&c.evictions, 1)
	}
}

// Delete removes a single key from the cache
func (c *ResponseCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem)
	}
}

// InvalidatePrefix removes every entry whose key starts with prefix.
// Used when a write changes the data behind a family of cached reads.
func (c *ResponseCache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for key, elem := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.removeElement(elem)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("Invalidated cached responses",
			zap.String("prefix", prefix),
			zap.Int("removed", removed))
	}
	return removed
}

// InvalidateAll clears the cache
func (c *ResponseCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.eviction.Init()
	c.logger.Info("Invalidated all cached responses")
}

// Len returns the number of live entries
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetStats returns cache statistics
func (c *ResponseCache) GetStats() (hits, misses, evictions int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses), atomic.LoadInt64(&c.evictions)
}

// ResetStats resets the cache statistics
func (c *ResponseCache) ResetStats() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)
}

// Close stops the cleanup goroutine
func (c *ResponseCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// removeElement must be called with the mutex held
func (c *ResponseCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*responseEntry)
	delete(c.entries, entry.key)
	c.eviction.Remove(elem)
}

// cleanupExpired periodically removes expired entries
func (c *ResponseCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in response cache cleanup",
							zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

// doCleanup removes expired entries
func (c *ResponseCache) doCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for elem := c.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*responseEntry).isExpired() {
			c.removeElement(elem)
			removed++
		}
		elem = prev
	}

	if removed > 0 {
		c.logger.Debug("Cleaned up expired cached responses",
			zap.Int("removed", removed))
	}
}
