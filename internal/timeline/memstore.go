package timeline

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store. Batch updates are applied all-or-nothing
// and rejected when they would break a lane's non-overlap invariant.
type MemoryStore struct {
	mu       sync.RWMutex
	elements []Element
}

// NewMemoryStore creates a store seeded with a copy of elements.
func NewMemoryStore(elements ...Element) *MemoryStore {
	s := &MemoryStore{}
	s.elements = append(s.elements, elements...)
	return s
}

// Add appends an element.
func (s *MemoryStore) Add(el Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = append(s.elements, el)
}

// Elements returns a copy of every element.
func (s *MemoryStore) Elements() ([]Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out, nil
}

// Element returns a single element by id.
func (s *MemoryStore) Element(id string) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FindElement(s.elements, id)
}

// UpdateElement writes new bounds for one element.
func (s *MemoryStore) UpdateElement(id string, b Bounds) error {
	return s.UpdateElements([]ElementUpdate{{ID: id, Updates: b}})
}

// UpdateElements writes new bounds for several elements at once.
func (s *MemoryStore) UpdateElements(updates []ElementUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Element, len(s.elements))
	copy(next, s.elements)

	index := make(map[string]int, len(next))
	for i, el := range next {
		index[el.ID] = i
	}
	for _, u := range updates {
		i, ok := index[u.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrElementNotFound, u.ID)
		}
		next[i].StartTime = u.Updates.StartTime
		next[i].EndTime = u.Updates.EndTime
	}

	if conflicts := Validate(next); len(conflicts) > 0 {
		c := conflicts[0]
		return fmt.Errorf("%w: %s and %s on %s", ErrOverlap, c.First, c.Second, c.LaneID)
	}
	s.elements = next
	return nil
}
