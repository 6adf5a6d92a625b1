// Package memory implements an in-process repository.Repository.
//
// A Store is owned by the service instance that created it; concurrent
// access is serialised by a sync.RWMutex.
package memory

import (
	"context"
	"sync"

	"github.com/apota/mydms-sub010/internal/repository"
)

// Store is a map backed repository keeping insertion order.
type Store[T repository.Entity[K], K comparable] struct {
	mu     sync.RWMutex
	items  map[K]T
	order  []K
	nextID func() K
	setID  func(*T, K)
}

// New creates a store. nextID and setID assign keys to entities added
// without one, both may be nil for entities carrying their own key.
func New[T repository.Entity[K], K comparable](nextID func() K, setID func(*T, K)) *Store[T, K] {
	return &Store[T, K]{
		items:  make(map[K]T),
		nextID: nextID,
		setID:  setID,
	}
}

// NewSequence creates a store assigning increasing integer ids starting at 1.
func NewSequence[T repository.Entity[int]](setID func(*T, int)) *Store[T, int] {
	s := New[T, int](nil, setID)

	last := 0

	// called with s.mu held
	s.nextID = func() int {
		for _, id := range s.order {
			last = max(last, id)
		}

		last++

		return last
	}

	return s
}

// GetAll returns a copy of every entity in insertion order.
func (s *Store[T, K]) GetAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}

	return out, nil
}

// GetByID returns nil, nil for an unknown id.
func (s *Store[T, K]) GetByID(_ context.Context, id K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, nil //nolint:nilnil
	}

	return &item, nil
}

// Add stores a copy of entity.
func (s *Store[T, K]) Add(_ context.Context, entity *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repository.Prepare(entity, true)

	id := (*entity).EntityID()
	if repository.IsZero(id) {
		if s.nextID == nil || s.setID == nil {
			return nil, repository.ErrEmptyID
		}

		id = s.nextID()
		s.setID(entity, id)
	}

	if _, ok := s.items[id]; ok {
		return nil, repository.ErrAlreadyExists
	}

	s.items[id] = *entity
	s.order = append(s.order, id)

	out := *entity

	return &out, nil
}

// Update replaces the stored entity.
func (s *Store[T, K]) Update(_ context.Context, entity *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := (*entity).EntityID()

	if _, ok := s.items[id]; !ok {
		return nil, repository.ErrNotFound
	}

	repository.Prepare(entity, false)
	s.items[id] = *entity

	out := *entity

	return &out, nil
}

// Delete removes id and reports whether it was stored.
func (s *Store[T, K]) Delete(_ context.Context, id K) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}

	delete(s.items, id)

	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	return true, nil
}

// Exists reports whether id is stored.
func (s *Store[T, K]) Exists(_ context.Context, id K) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[id]

	return ok, nil
}

// Count returns the number of stored entities.
func (s *Store[T, K]) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.items)), nil
}
