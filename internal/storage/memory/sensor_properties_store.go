package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/storage"
)

// SensorPropertiesStore is an in-memory implementation of
// storage.SensorPropertiesStore.
type SensorPropertiesStore struct {
	mu   sync.RWMutex
	data map[string]domain.SensorProperties // keyed by dataset|sensor_num
}

// NewSensorPropertiesStore creates a new in-memory properties store.
func NewSensorPropertiesStore() *SensorPropertiesStore {
	return &SensorPropertiesStore{
		data: make(map[string]domain.SensorProperties),
	}
}

var _ storage.SensorPropertiesStore = (*SensorPropertiesStore)(nil)

func propKey(datasetName string, sensorNum int) string {
	return fmt.Sprintf("%s|%d", datasetName, sensorNum)
}

// InsertBulk adds one batch's property table atomically. Fails the entire
// batch on any duplicate (dataset, sensor_num) pair.
func (s *SensorPropertiesStore) InsertBulk(_ context.Context, datasetName string, rows []domain.SensorProperties) error {
	if datasetName == "" {
		return storage.ErrInvalidInput
	}
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates.
	batchKeys := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		key := propKey(datasetName, row.SensorNum)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, row := range rows {
		s.data[propKey(datasetName, row.SensorNum)] = row
	}

	return nil
}

// GetByDataset retrieves all property rows for a dataset, ordered by
// sensor_num ASC.
func (s *SensorPropertiesStore) GetByDataset(_ context.Context, datasetName string) ([]domain.SensorProperties, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := datasetName + "|"
	var out []domain.SensorProperties
	for key, row := range s.data {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, row)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SensorNum < out[j].SensorNum
	})
	return out, nil
}
