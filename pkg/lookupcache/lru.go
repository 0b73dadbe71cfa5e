package lookupcache

import (
	"container/list"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 100

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// lru is a bounded map with an explicit recency list, most recent at the
// front. It is not safe for concurrent use; Cache serialises access.
type lru[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List
}

func newLRU[K comparable, V any](capacity int) *lru[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &lru[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// get returns the value for key and marks it most recently used.
func (c *lru[K, V]) get(key K) (V, bool) {
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}

	var zero V
	return zero, false
}

// put inserts or replaces key at the front and evicts from the back until the
// map is within capacity.
func (c *lru[K, V]) put(key K, value V) {
	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}

	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})

	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
	}
}

func (c *lru[K, V]) remove(key K) {
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *lru[K, V]) purge() {
	c.items = make(map[K]*list.Element)
	c.order.Init()
}

func (c *lru[K, V]) len() int {
	return c.order.Len()
}

// recent returns up to limit entries, most recent first, without touching recency.
func (c *lru[K, V]) recent(limit int) []lruEntry[K, V] {
	if limit < 0 || limit > c.order.Len() {
		limit = c.order.Len()
	}

	entries := make([]lruEntry[K, V], 0, limit)
	for elem := c.order.Front(); elem != nil && len(entries) < limit; elem = elem.Next() {
		entries = append(entries, *elem.Value.(*lruEntry[K, V]))
	}
	return entries
}

func (c *lru[K, V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*lruEntry[K, V]).key)
}
