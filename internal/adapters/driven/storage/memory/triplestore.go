package memory

import (
	"context"
	"sync"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
)

// Ensure TripleStore implements the interface.
var _ driven.TripleStore = (*TripleStore)(nil)

// TripleStore is an in-memory implementation of driven.TripleStore.
// Triples are kept in insertion order; removed slots are compacted lazily.
type TripleStore struct {
	mu        sync.RWMutex
	triples   []domain.Triple
	live      []bool
	index     map[string]int
	bySubject map[string][]int
	removed   int
	closed    bool
}

// NewTripleStore creates a new in-memory triple store.
func NewTripleStore() *TripleStore {
	return &TripleStore{
		index:     make(map[string]int),
		bySubject: make(map[string][]int),
	}
}

// Add stores t and reports whether it was new.
func (s *TripleStore) Add(_ context.Context, t domain.Triple) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, domain.ErrStoreClosed
	}
	key := t.Key()
	if _, ok := s.index[key]; ok {
		return false, nil
	}
	pos := len(s.triples)
	s.triples = append(s.triples, t)
	s.live = append(s.live, true)
	s.index[key] = pos
	subject := t.Subject.Key()
	s.bySubject[subject] = append(s.bySubject[subject], pos)
	return true, nil
}

// Remove deletes t.
func (s *TripleStore) Remove(_ context.Context, t domain.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	key := t.Key()
	pos, ok := s.index[key]
	if !ok {
		return nil
	}
	delete(s.index, key)
	s.live[pos] = false
	s.removed++
	if s.removed > len(s.triples)/2 {
		s.compact()
	}
	return nil
}

// compact drops removed slots and rebuilds the indexes. Callers hold mu.
func (s *TripleStore) compact() {
	kept := make([]domain.Triple, 0, len(s.index))
	for i, t := range s.triples {
		if s.live[i] {
			kept = append(kept, t)
		}
	}
	s.triples = nil
	s.live = nil
	s.removed = 0
	s.index = make(map[string]int, len(kept))
	s.bySubject = make(map[string][]int)
	for _, t := range kept {
		pos := len(s.triples)
		s.triples = append(s.triples, t)
		s.live = append(s.live, true)
		s.index[t.Key()] = pos
		subject := t.Subject.Key()
		s.bySubject[subject] = append(s.bySubject[subject], pos)
	}
}

// Has reports whether t is stored.
func (s *TripleStore) Has(_ context.Context, t domain.Triple) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, domain.ErrStoreClosed
	}
	_, ok := s.index[t.Key()]
	return ok, nil
}

// Match returns the triples matching p in insertion order.
func (s *TripleStore) Match(_ context.Context, p domain.Pattern) ([]domain.Triple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}

	var result []domain.Triple
	if p.Subject != nil {
		for _, pos := range s.bySubject[p.Subject.Key()] {
			if s.live[pos] && p.Matches(s.triples[pos]) {
				result = append(result, s.triples[pos])
			}
		}
		return result, nil
	}
	for i, t := range s.triples {
		if s.live[i] && p.Matches(t) {
			result = append(result, t)
		}
	}
	return result, nil
}

// All returns every stored triple in insertion order.
func (s *TripleStore) All(ctx context.Context) ([]domain.Triple, error) {
	return s.Match(ctx, domain.Pattern{})
}

// Len returns the number of stored triples.
func (s *TripleStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, domain.ErrStoreClosed
	}
	return len(s.index), nil
}

// Clear deletes all triples.
func (s *TripleStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	s.triples = nil
	s.live = nil
	s.removed = 0
	s.index = make(map[string]int)
	s.bySubject = make(map[string][]int)
	return nil
}

// Close marks the store closed.
func (s *TripleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
