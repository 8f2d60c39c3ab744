package translation

import "sync"

// DefaultCacheSize is the number of translations the server keeps in memory.
// UI strings are short and repeat constantly, so a few thousand entries cover
// the working set of every active client.
const DefaultCacheSize = 4096

type cacheKey struct {
	text    string
	target  string
	context string
}

// Cache is a bounded in-memory translation cache. Entries are evicted in
// insertion order once the capacity is reached, which is enough for UI
// strings where the hot set is small and stable.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[cacheKey]string
	order    []cacheKey
}

// NewCache creates a cache holding at most capacity entries. A capacity of
// zero or less falls back to DefaultCacheSize.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[cacheKey]string, capacity),
	}
}

// Get looks up a cached translation for (text, target, context).
func (c *Cache) Get(text, target, uiContext string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	translated, ok := c.entries[cacheKey{text: text, target: target, context: uiContext}]
	return translated, ok
}

// Put stores a translation, evicting the oldest entry when full.
func (c *Cache) Put(text, target, uiContext, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{text: text, target: target, context: uiContext}
	if _, exists := c.entries[key]; exists {
		c.entries[key] = translated
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = translated
	c.order = append(c.order, key)
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
