package memory

import (
	"context"
	"sort"
	"sync"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/storage"
)

// SensorReadingStore is an in-memory implementation of
// storage.SensorReadingStore.
type SensorReadingStore struct {
	mu   sync.RWMutex
	data []domain.SensorReading
}

// NewSensorReadingStore creates a new in-memory reading store.
func NewSensorReadingStore() *SensorReadingStore {
	return &SensorReadingStore{}
}

var _ storage.SensorReadingStore = (*SensorReadingStore)(nil)

// InsertBulk appends reading points.
func (s *SensorReadingStore) InsertBulk(_ context.Context, readings []domain.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}
	for _, r := range readings {
		if r.DatasetName == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, readings...)
	return nil
}

// GetBySensor retrieves all readings of one sensor, ordered by tick ASC.
func (s *SensorReadingStore) GetBySensor(_ context.Context, datasetName string, sensorNum int) ([]domain.SensorReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.SensorReading
	for _, r := range s.data {
		if r.DatasetName == datasetName && r.SensorNum == sensorNum {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Tick < out[j].Tick
	})
	return out, nil
}
