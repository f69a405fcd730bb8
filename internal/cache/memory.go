package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Memory is an in-process LRU cache with TTL and size-based eviction.
type Memory struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type memoryItem struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// NewMemory creates a cache holding at most maxSize entries for ttl each.
func NewMemory(maxSize int, ttl time.Duration) *Memory {
	return &Memory{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Get retrieves a value from the cache
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}

	item := elem.Value.(*memoryItem)
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return nil, false, nil
	}

	c.lru.MoveToFront(elem)
	return item.data, true, nil
}

// Set stores a value in the cache
func (c *Memory) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if elem, ok := c.items[key]; ok {
		item := elem.Value.(*memoryItem)
		item.data = value
		item.expiresAt = expiresAt
		c.lru.MoveToFront(elem)
		return nil
	}

	c.items[key] = c.lru.PushFront(&memoryItem{key: key, data: value, expiresAt: expiresAt})
	for c.maxSize > 0 && c.lru.Len() > c.maxSize {
		c.removeElement(c.lru.Back())
	}
	return nil
}

// Delete removes a key from the cache
func (c *Memory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Len returns the current number of entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// CleanExpired drops expired entries and returns how many were removed.
func (c *Memory) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*memoryItem).expiresAt) {
			c.removeElement(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Run cleans expired entries every interval until ctx is done.
func (c *Memory) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.CleanExpired()
		}
	}
}

func (c *Memory) removeElement(elem *list.Element) {
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*memoryItem).key)
}
