package service

import (
	"sync"
)

// SelectionStore keeps the ordered question ids offered for an in-progress
// attempt, keyed by attempt id. It is working memory for the render/submit
// round-trip of one attempt, not durable record: entries are dropped when the
// attempt finalizes and the store does not survive a restart (an attempt then
// simply gets a fresh selection on its next render).
type SelectionStore interface {
	Get(attemptID uint) ([]uint, bool)
	Put(attemptID uint, questionIDs []uint)
	Delete(attemptID uint)
}

type memorySelectionStore struct {
	mu         sync.RWMutex
	selections map[uint][]uint
}

func NewSelectionStore() SelectionStore {
	return &memorySelectionStore{selections: make(map[uint][]uint)}
}

func (s *memorySelectionStore) Get(attemptID uint) ([]uint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, ok := s.selections[attemptID]
	if !ok {
		return nil, false
	}
	out := make([]uint, len(ids))
	copy(out, ids)
	return out, true
}

func (s *memorySelectionStore) Put(attemptID uint, questionIDs []uint) {
	stored := make([]uint, len(questionIDs))
	copy(stored, questionIDs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[attemptID] = stored
}

func (s *memorySelectionStore) Delete(attemptID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, attemptID)
}
