package usecase

import (
	"sort"
	"sync"
)

// Selection tracks per-owner document ids picked for bulk operations.
// Purely in-memory UI state: never persisted, reset whenever the owner's
// document list is refetched.
type Selection struct {
	mu      sync.RWMutex
	byOwner map[string]map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{byOwner: make(map[string]map[string]struct{})}
}

// Toggle flips one document in the owner's selection and reports whether
// it is selected afterwards.
func (s *Selection) Toggle(ownerID, documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.byOwner[ownerID]
	if !ok {
		set = make(map[string]struct{})
		s.byOwner[ownerID] = set
	}
	if _, selected := set[documentID]; selected {
		delete(set, documentID)
		return false
	}
	set[documentID] = struct{}{}
	return true
}

func (s *Selection) SelectAll(ownerID string, documentIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(documentIDs))
	for _, id := range documentIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	s.byOwner[ownerID] = set
}

func (s *Selection) Clear(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byOwner, ownerID)
}

// Selected returns the owner's selection in stable order.
func (s *Selection) Selected(ownerID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.byOwner[ownerID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Selection) Reset(ownerID string) {
	s.Clear(ownerID)
}
