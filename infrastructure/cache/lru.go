package cache

import (
	"container/list"
	"sync"
)

// NamespaceLRU is a namespace-based LRU cache. Keys are scoped by namespace so
// one entity type can be invalidated without touching the others.
type NamespaceLRU[V any] struct {
	capacity int
	items    map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex
}

type entry[V any] struct {
	namespace string
	key       string
	value     V
}

// NewNamespaceLRU creates a cache holding at most capacity entries. A
// non-positive capacity disables caching.
func NewNamespaceLRU[V any](capacity int) *NamespaceLRU[V] {
	return &NamespaceLRU[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
	}
}

func compositeKey(namespace, key string) string {
	return namespace + ":" + key
}

// Set adds or updates a value and marks it as most recently used
func (c *NamespaceLRU[V]) Set(namespace, key string, value V) {
	if c.capacity <= 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	ck := compositeKey(namespace, key)
	if element, exists := c.items[ck]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*entry[V]).value = value
		return
	}

	c.items[ck] = c.queue.PushFront(&entry[V]{
		namespace: namespace,
		key:       key,
		value:     value,
	})

	for c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get retrieves a value and marks it as most recently used. Reordering the
// queue is a write, so Get takes the exclusive lock.
func (c *NamespaceLRU[V]) Get(namespace, key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	element, exists := c.items[compositeKey(namespace, key)]
	if !exists {
		var zero V
		return zero, false
	}

	c.queue.MoveToFront(element)
	return element.Value.(*entry[V]).value, true
}

// Invalidate removes a single entry
func (c *NamespaceLRU[V]) Invalidate(namespace, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ck := compositeKey(namespace, key)
	if element, exists := c.items[ck]; exists {
		c.queue.Remove(element)
		delete(c.items, ck)
	}
}

// InvalidateNamespace removes every entry of namespace
func (c *NamespaceLRU[V]) InvalidateNamespace(namespace string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for ck, element := range c.items {
		if element.Value.(*entry[V]).namespace == namespace {
			c.queue.Remove(element)
			delete(c.items, ck)
		}
	}
}

// Clear empties the cache
func (c *NamespaceLRU[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]*list.Element)
	c.queue = list.New()
}

// Size returns the current number of entries
func (c *NamespaceLRU[V]) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.queue.Len()
}

// evict removes the least recently used entry. The caller holds the lock.
func (c *NamespaceLRU[V]) evict() {
	element := c.queue.Back()
	if element == nil {
		return
	}
	c.queue.Remove(element)
	e := element.Value.(*entry[V])
	delete(c.items, compositeKey(e.namespace, e.key))
}
