package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure ItemStore implements the interface.
var _ driven.ItemStore = (*ItemStore)(nil)

// ItemStore is an in-memory implementation of driven.ItemStore.
// List preserves first-insertion order.
type ItemStore struct {
	mu    sync.RWMutex
	items map[string]domain.ConversionItem
	order []string
}

// NewItemStore creates a new in-memory item store.
func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[string]domain.ConversionItem)}
}

// Save inserts or replaces an item.
func (s *ItemStore) Save(_ context.Context, item domain.ConversionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
	return nil
}

// Get retrieves an item by ID.
func (s *ItemStore) Get(_ context.Context, id string) (domain.ConversionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return domain.ConversionItem{}, domain.ErrNotFound
	}
	return item, nil
}

// List returns all items in insertion order.
func (s *ItemStore) List(_ context.Context) ([]domain.ConversionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ConversionItem, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result, nil
}

// Delete removes an item.
func (s *ItemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
