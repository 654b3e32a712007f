package processor

import "sync"

// resultCache is a fixed-capacity map with insertion-order eviction: when
// full, the oldest inserted entry leaves, regardless of how recently it
// was read. A viewer stepping through a series touches each slice in
// order, so age tracks usefulness closely enough that hit bookkeeping
// would buy little.
type resultCache struct {
	mu    sync.Mutex
	cap   int
	items map[string]*DecodedImage
	order []string
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		cap:   capacity,
		items: make(map[string]*DecodedImage, capacity),
	}
}

func (c *resultCache) get(key string) (*DecodedImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.items[key]
	return img, ok
}

func (c *resultCache) put(key string, img *DecodedImage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; exists {
		c.items[key] = img
		return
	}
	if len(c.order) >= c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.items[key] = img
	c.order = append(c.order, key)
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*DecodedImage, c.cap)
	c.order = nil
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
