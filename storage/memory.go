package storage

import (
	"sync"
	"time"
)

// item is a stored value with an optional expiration (zero means never)
type item struct {
	value      []byte
	expiration time.Time
}

func (i *item) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// MemoryStorage is an in-memory fiber.Storage with expiration. It backs
// the session store, so dashboard state lives exactly as long as the
// session does.
type MemoryStorage struct {
	items map[string]*item
	mu    sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

// NewMemoryStorage creates a storage and starts its cleanup loop.
func NewMemoryStorage(cleanupInterval time.Duration) *MemoryStorage {
	s := &MemoryStorage{
		items: make(map[string]*item),
		done:  make(chan struct{}),
	}

	go s.cleanupLoop(cleanupInterval)

	return s
}

// Get returns nil, nil for missing or expired keys.
func (s *MemoryStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	s.mu.RLock()
	it, exists := s.items[key]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	if it.expired(time.Now()) {
		_ = s.Delete(key)
		return nil, nil
	}
	return it.value, nil
}

// Set stores a copy of val. exp <= 0 keeps it until deleted.
func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	// fasthttp reuses the caller's buffer
	v := make([]byte, len(val))
	copy(v, val)

	it := &item{value: v}
	if exp > 0 {
		it.expiration = time.Now().Add(exp)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
	return nil
}

// Delete removes an item
func (s *MemoryStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Reset removes all items
func (s *MemoryStorage) Reset() error {
	s.mu.Lock()
	s.items = make(map[string]*item)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup loop. It is safe to call more than once.
func (s *MemoryStorage) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Size returns the number of stored items, expired ones included
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// cleanupLoop periodically removes expired items
func (s *MemoryStorage) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

// cleanup removes expired items
func (s *MemoryStorage) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, it := range s.items {
		if it.expired(now) {
			delete(s.items, key)
		}
	}
}
