package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
)

// Store keeps records in process memory. It is the default backend when no
// MongoDB deployment is configured, and the one used by tests.
type Store[T any] struct {
	mu      sync.RWMutex
	records map[string]T
	order   []string
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{records: make(map[string]T)}
}

// List returns all records in insertion order.
func (s *Store[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

// Get fetches a record by ID.
func (s *Store[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %s: %w", id, repository.ErrNotFound)
	}
	return record, nil
}

// Save inserts or replaces the record stored under id.
func (s *Store[T]) Save(_ context.Context, id string, record T) error {
	if id == "" {
		return fmt.Errorf("save: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	s.records[id] = record
	return nil
}

// Delete removes a record.
func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, repository.ErrNotFound)
	}
	delete(s.records, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// NewSet builds a repository.Set where every collection lives in memory.
func NewSet() *repository.Set {
	return &repository.Set{
		Pigs:           NewStore[models.Pig](),
		HealthRecords:  NewStore[models.HealthRecord](),
		Protocols:      NewStore[models.Protocol](),
		Tasks:          NewStore[models.Task](),
		Feed:           NewStore[models.FeedInventory](),
		Finance:        NewStore[models.FinanceRecord](),
		Budgets:        NewStore[models.BudgetRecord](),
		Loans:          NewStore[models.LoanRecord](),
		Assets:         NewStore[models.Asset](),
		Maintenance:    NewStore[models.MaintenanceLog](),
		Fuel:           NewStore[models.FuelLog](),
		Fields:         NewStore[models.Field](),
		Crops:          NewStore[models.Crop](),
		CropCycles:     NewStore[models.CropCycle](),
		CropActivities: NewStore[models.CropActivity](),
		Products:       NewStore[models.Product](),
		Orders:         NewStore[models.Order](),
		Customers:      NewStore[models.Customer](),
	}
}
