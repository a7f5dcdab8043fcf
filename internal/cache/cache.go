// Package cache implements the in-memory response cache for seolens
// tool handlers.
//
// Entries are keyed by category-structured strings (see Key) and carry
// a TTL. Expired entries are logically misses the instant their expiry
// passes; they are evicted lazily on the read that finds them expired.
// There is no background sweep and no persistence: the cache lives and
// dies with the process.
//
// A Cache is an explicit instance, constructed once in the composition
// root and handed to whichever tool needs it. Two concurrent tool calls
// may race to compute and Set the same key; the last writer wins and no
// in-flight deduplication is attempted. Duplicate backend calls under
// identical concurrent requests are wasteful but not unsafe.
package cache

import (
	"strings"
	"sync"
	"time"
)

// keySep joins the components of a cache key. Component values are
// escaped (see escapeComponent) so the separator never appears
// unescaped inside a component and distinct tuples never collide.
const keySep = ":"

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL-based key/value store with prefix invalidation.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration

	// now is overridable in tests.
	now func() time.Time

	hits   int64
	misses int64
}

// Stats holds cache hit/miss counters and the current entry count.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns the hit rate as a percentage (0-100), or 0 when no
// lookups have happened yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// New creates a Cache whose Set calls default to the given TTL.
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Key builds a deterministic cache key from a category, a domain, and
// zero or more discriminator values. Discriminators are order-significant
// and are not sorted: a date-range discriminator means something different
// before a filter discriminator than after it.
//
// Every key ends with the separator, so Key(category, domain) is itself
// a precise DeletePattern prefix for that category/domain pair: it covers
// all discriminator variants but cannot sweep up a longer domain that
// merely extends the shorter one (example.com vs example.community).
func Key(category, domain string, discriminators ...string) string {
	parts := make([]string, 0, 2+len(discriminators))
	parts = append(parts, escapeComponent(category), escapeComponent(domain))
	for _, d := range discriminators {
		parts = append(parts, escapeComponent(d))
	}
	return strings.Join(parts, keySep) + keySep
}

// escapeComponent makes a key component safe to join with keySep.
// "%" must be escaped first so unescaping is unambiguous.
func escapeComponent(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	return strings.ReplaceAll(s, keySep, "%3A")
}

// Get returns the value stored under key. An entry whose expiry has
// passed is indistinguishable from an absent one; it is evicted on the
// way out.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return e.value, true
}

// Set stores value under key with the cache's default TTL, replacing
// any existing entry.
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL. A second Set on
// the same key always creates a fresh entry: the new expiry governs,
// never the old one.
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// DeletePattern removes every entry whose key starts with prefix and
// returns the number removed. Removing nothing is a normal outcome.
func (c *Cache) DeletePattern(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, including entries
// that have expired but not yet been evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.entries),
	}
}
