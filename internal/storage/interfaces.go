package storage

import (
	"context"

	"icgm-sensor-lab/internal/domain"
)

// FitResultStore provides access to fit_results storage. The grid surface is
// a diagnostic artifact and is not persisted; consumers read it from the
// in-memory FitResult.
type FitResultStore interface {
	// Insert adds a fit result. Returns ErrDuplicateKey if the dataset
	// already has one.
	Insert(ctx context.Context, r *domain.FitResult) error

	// GetByDataset retrieves the fit result for a dataset. Returns
	// ErrNotFound if not exists.
	GetByDataset(ctx context.Context, datasetName string) (*domain.FitResult, error)

	// ListDatasets returns the names of all datasets with a stored fit,
	// sorted ascending.
	ListDatasets(ctx context.Context) ([]string, error)
}

// SensorPropertiesStore provides access to sensor_properties storage.
type SensorPropertiesStore interface {
	// InsertBulk adds the property table of one generation batch. Fails
	// the entire batch with ErrDuplicateKey on any existing
	// (dataset, sensor_num) pair.
	InsertBulk(ctx context.Context, datasetName string, rows []domain.SensorProperties) error

	// GetByDataset retrieves all property rows for a dataset, ordered by
	// sensor_num ASC.
	GetByDataset(ctx context.Context, datasetName string) ([]domain.SensorProperties, error)
}

// SensorReadingStore provides access to the sensor_readings timeseries.
type SensorReadingStore interface {
	// InsertBulk appends reading points. Append-only; duplicates are the
	// caller's responsibility for timeseries backends.
	InsertBulk(ctx context.Context, readings []domain.SensorReading) error

	// GetBySensor retrieves all readings of one sensor in a dataset,
	// ordered by tick ASC.
	GetBySensor(ctx context.Context, datasetName string, sensorNum int) ([]domain.SensorReading, error)
}
