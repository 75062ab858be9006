package memory

import (
	"context"
	"sort"
	"sync"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/storage"
)

// FitResultStore is an in-memory implementation of storage.FitResultStore.
type FitResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FitResult // keyed by dataset name
}

// NewFitResultStore creates a new in-memory fit result store.
func NewFitResultStore() *FitResultStore {
	return &FitResultStore{
		data: make(map[string]*domain.FitResult),
	}
}

var _ storage.FitResultStore = (*FitResultStore)(nil)

// Insert adds a fit result. Returns ErrDuplicateKey if the dataset exists.
func (s *FitResultStore) Insert(_ context.Context, r *domain.FitResult) error {
	if r == nil || r.DatasetName == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.DatasetName]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *r
	cp.GridSurface = make([]domain.GridPoint, len(r.GridSurface))
	copy(cp.GridSurface, r.GridSurface)
	s.data[r.DatasetName] = &cp
	return nil
}

// GetByDataset retrieves the fit result for a dataset.
func (s *FitResultStore) GetByDataset(_ context.Context, datasetName string) (*domain.FitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[datasetName]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *r
	cp.GridSurface = make([]domain.GridPoint, len(r.GridSurface))
	copy(cp.GridSurface, r.GridSurface)
	return &cp, nil
}

// ListDatasets returns all dataset names with a stored fit, sorted.
func (s *FitResultStore) ListDatasets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
