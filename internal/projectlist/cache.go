package projectlist

import (
	"sort"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
)

// CacheKey identifies a page for a tag selection: "<page>-<sorted tags>".
// Tag order does not affect the key.
func CacheKey(page int, tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return strconv.Itoa(page) + "-" + strings.Join(sorted, ",")
}

// PageCache memoizes fetched pages. It is safe for concurrent use.
type PageCache struct {
	store   *gocache.Cache
	metrics *Metrics
}

// NewPageCache creates a cache. A ttl of 0 keeps entries until cleared.
func NewPageCache(ttl time.Duration, metrics *Metrics) *PageCache {
	expiration, cleanup := gocache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, 2*ttl
	}
	return &PageCache{
		store:   gocache.New(expiration, cleanup),
		metrics: metrics,
	}
}

// Get returns a copy of the cached page.
func (c *PageCache) Get(key string) ([]projectapi.Project, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		if c.metrics != nil {
			c.metrics.CacheMissesTotal.Inc()
		}
		return nil, false
	}
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	items := v.([]projectapi.Project)
	return append([]projectapi.Project{}, items...), true
}

// Set stores a copy of items under key.
func (c *PageCache) Set(key string, items []projectapi.Project) {
	c.store.Set(key, append([]projectapi.Project{}, items...), gocache.DefaultExpiration)
	c.updateSize()
}

// Clear removes every entry.
func (c *PageCache) Clear() {
	c.store.Flush()
	c.updateSize()
}

// Len returns the number of cached pages, including expired ones not yet
// cleaned up.
func (c *PageCache) Len() int {
	return c.store.ItemCount()
}

func (c *PageCache) updateSize() {
	if c.metrics != nil {
		c.metrics.CacheSize.Set(float64(c.store.ItemCount()))
	}
}
