package cache

import (
	"sync"
)

// DefaultCapacity is used when NewLRU is given a non-positive capacity.
const DefaultCapacity = 1000

// node represents a doubly linked list node
type node[V any] struct {
	key   string
	value V
	prev  *node[V]
	next  *node[V]
}

// LRU is a thread-safe least-recently-used cache keyed by string.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*node[V]
	head     *node[V] // sentinel, head.next is most recently used
	tail     *node[V] // sentinel, tail.prev is least recently used
}

// NewLRU creates an LRU cache with given capacity
func NewLRU[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &LRU[V]{
		capacity: capacity,
		items:    make(map[string]*node[V], capacity),
		head:     &node[V]{},
		tail:     &node[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get retrieves value and marks as recently used
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Put adds or updates a key-value pair
func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	if len(c.items) >= c.capacity {
		c.evictTail()
	}
	n := &node[V]{key: key, value: value}
	c.addToFront(n)
	c.items[key] = n
}

// Len returns the number of cached entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRU[V]) moveToFront(n *node[V]) {
	c.removeNode(n)
	c.addToFront(n)
}

// removeNode unlinks n from the list (doesn't delete from map)
func (c *LRU[V]) removeNode(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (c *LRU[V]) addToFront(n *node[V]) {
	first := c.head.next
	n.next = first
	n.prev = c.head
	c.head.next = n
	first.prev = n
}

func (c *LRU[V]) evictTail() {
	lru := c.tail.prev
	if lru == c.head {
		return
	}
	c.removeNode(lru)
	delete(c.items, lru.key)
}
