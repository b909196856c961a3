package cache

import (
	"net/url"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/metrics"
)

// CachedResponse is a stored copy of a successful read-only API response
type CachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// ResponseCache is a bounded TTL cache of GET responses, invalidated
// wholesale on any content write
type ResponseCache struct {
	inner      *gocache.Cache
	maxEntries int
	ttl        time.Duration
	logger     *logrus.Logger
}

// NewResponseCache creates a response cache with the given per-entry TTL
// and maximum entry count
func NewResponseCache(ttl time.Duration, maxEntries int, logger *logrus.Logger) *ResponseCache {
	return &ResponseCache{
		inner:      gocache.New(ttl, 2*ttl),
		maxEntries: maxEntries,
		ttl:        ttl,
		logger:     logger,
	}
}

// Key derives a deterministic cache key from a request path and its query
// parameters. Parameter order does not affect the key.
func Key(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		for _, v := range values {
			b.WriteByte('?')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

// Lookup returns the cached response for key, if present and fresh
func (c *ResponseCache) Lookup(key string) (*CachedResponse, bool) {
	value, found := c.inner.Get(key)
	if !found {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	resp, ok := value.(*CachedResponse)
	if !ok {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.Inc()
	return resp, true
}

// Store caches a response under key for the configured TTL. Callers are
// expected to store only successful responses to read-only requests.
func (c *ResponseCache) Store(key string, resp *CachedResponse) {
	if c.inner.ItemCount() >= c.maxEntries {
		c.inner.DeleteExpired()
		if c.inner.ItemCount() >= c.maxEntries {
			// Entries self-expire within one TTL, so dropping everything
			// at capacity costs at most a brief burst of misses
			c.logger.WithField("max_entries", c.maxEntries).Debug("Response cache at capacity, clearing")
			c.inner.Flush()
		}
	}

	c.inner.Set(key, resp, c.ttl)
}

// InvalidateAll removes every cached response
func (c *ResponseCache) InvalidateAll() {
	c.inner.Flush()
	metrics.CacheInvalidations.Inc()
}

// Sweep drops expired entries eagerly
func (c *ResponseCache) Sweep() {
	c.inner.DeleteExpired()
}

// Len returns the current entry count, counting entries not yet swept
// regardless of expiry
func (c *ResponseCache) Len() int {
	return c.inner.ItemCount()
}
