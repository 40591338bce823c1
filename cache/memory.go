package cache

import (
	"container/list"
	"sync"
	"time"
)

// Memory is a capacity-bounded LRU with an optional per-entry TTL.
type Memory struct {
	capacity int
	ttl      time.Duration // 0 disables expiry
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front = most recently used
	hits    uint64
	misses  uint64
	closed  bool
}

type memEntry struct {
	key    string
	val    []byte
	stored time.Time
}

// NewMemory returns an empty LRU holding at most capacity entries (minimum 1).
func NewMemory(capacity int, ttl time.Duration) *Memory {
	return &Memory{
		capacity: max(1, capacity),
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get implements Store.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrClosed
	}

	el, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false, nil
	}
	e := el.Value.(*memEntry)
	if m.ttl > 0 && m.now().Sub(e.stored) > m.ttl {
		m.removeLocked(el)
		m.misses++
		return nil, false, nil
	}
	m.lru.MoveToFront(el)
	m.hits++

	return e.val, true, nil
}

// Put implements Store. The oldest entry is evicted when capacity is exceeded.
func (m *Memory) Put(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	if el, ok := m.entries[key]; ok {
		e := el.Value.(*memEntry)
		e.val, e.stored = val, m.now()
		m.lru.MoveToFront(el)
		return nil
	}
	m.entries[key] = m.lru.PushFront(&memEntry{key: key, val: val, stored: m.now()})
	for m.lru.Len() > m.capacity {
		m.removeLocked(m.lru.Back())
	}

	return nil
}

func (m *Memory) removeLocked(el *list.Element) {
	m.lru.Remove(el)
	delete(m.entries, el.Value.(*memEntry).key)
}

// Stats returns the current size and lookup counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{Size: len(m.entries), Hits: m.hits, Misses: m.misses}
}

// Close drops every entry; later calls return ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	m.lru.Init()

	return nil
}
