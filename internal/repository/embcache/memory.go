package embcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/fusegate/internal/db"
)

// DefaultMemorySize is the entry count used when none is configured.
// At 768 dimensions * 4 bytes, 1000 entries is about 3MB.
const DefaultMemorySize = 1000

// Compile-time check: MemoryStore implements db.KVStore.
var _ db.KVStore = (*MemoryStore)(nil)

// MemoryStore is an in-process LRU used when the backend has no key-value
// store (Postgres). Entry TTL is fixed at construction.
type MemoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore creates an LRU of size entries. A zero ttl disables expiry.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns the cached value or db.ErrKeyNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

// SetWithTTL stores value. The per-call ttl is ignored in favour of the
// store-wide one.
func (m *MemoryStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.lru.Add(key, value)
	return nil
}

// Len returns the number of live entries.
func (m *MemoryStore) Len() int {
	return m.lru.Len()
}
