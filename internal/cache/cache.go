package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRUCache is a bounded, mutex-protected LRU. Entries only leave through
// eviction.
type LRUCache[K comparable, V any] struct {
	capacity  int
	items     map[K]*list.Element
	evictList *list.List
	mu        sync.Mutex
}

func New[K comparable, V any](capacity int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
	}
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.evictList.MoveToFront(elem)
		return elem.Value.(*entry[K, V]).value, true
	}

	var zero V
	return zero, false
}

func (c *LRUCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		return
	}

	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		c.evictList.MoveToFront(elem)
		return
	}

	c.items[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value})
	for c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *LRUCache[K, V]) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

// Resize changes the bound, evicting least recently used entries as needed.
func (c *LRUCache[K, V]) Resize(capacity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = capacity
	for c.evictList.Len() > 0 && c.evictList.Len() > capacity {
		c.removeOldest()
	}
}

func (c *LRUCache[K, V]) removeOldest() {
	elem := c.evictList.Back()
	if elem == nil {
		return
	}
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*entry[K, V]).key)
}
