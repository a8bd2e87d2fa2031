package objstore

import (
	"bytes"
	"context"
	"sync"

	"github.com/kestrelvcs/kestrel/core"
)

// MemoryStore is the default, in-memory Store implementation: a mutex
// around a plain hash-keyed map. This mirrors the teacher's own
// Persistence mutex (a single sync.RWMutex guarding the whole repo),
// scoped here to just the object graph.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[core.Hash]core.Object
}

// NewMemoryStore returns an empty, ready-to-use in-memory object store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[core.Hash]core.Object)}
}

func (s *MemoryStore) Get(_ context.Context, hash core.Hash) (core.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[hash]
	return obj, ok
}

func (s *MemoryStore) Put(_ context.Context, obj core.Object) core.Hash {
	hash := obj.Hash()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[hash]; !exists {
		s.objects[hash] = obj
	}
	return hash
}

func (s *MemoryStore) Dump(_ context.Context) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.objects))
	for h, o := range s.objects {
		out = append(out, Entry{Hash: h, Object: o})
	}
	return out
}

// Load validates that entries is injective (no hash maps to two distinct
// serializations) before swapping in the new contents, so a failed load
// never leaves the store half-replaced.
func (s *MemoryStore) Load(_ context.Context, entries []Entry) error {
	replacement := make(map[core.Hash]core.Object, len(entries))
	for _, e := range entries {
		if existing, ok := replacement[e.Hash]; ok {
			if !bytes.Equal(existing.Serialize(), e.Object.Serialize()) {
				return &ErrNonInjectiveLoad{Hash: e.Hash}
			}
			continue
		}
		replacement[e.Hash] = e.Object
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = replacement
	return nil
}
