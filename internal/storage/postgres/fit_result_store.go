package postgres

import (
	"context"
	"fmt"
	"time"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/observability"
	"icgm-sensor-lab/internal/storage"
)

// FitResultStore implements storage.FitResultStore using PostgreSQL.
// The grid surface is not persisted; only the refined vector and loss are.
type FitResultStore struct {
	pool *Pool
}

// NewFitResultStore creates a new FitResultStore.
func NewFitResultStore(pool *Pool) *FitResultStore {
	return &FitResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FitResultStore = (*FitResultStore)(nil)

// Insert adds a fit result. Returns ErrDuplicateKey if the dataset exists.
func (s *FitResultStore) Insert(ctx context.Context, r *domain.FitResult) error {
	query := `
		INSERT INTO fit_results (
			dataset_name, shape_a, shape_b, location, scale,
			noise_coefficient, bias_drift_range_min, bias_drift_range_max,
			bias_drift_oscillations, loss, delay_minutes, random_seed
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12
		)
	`

	started := time.Now()
	_, err := s.pool.Exec(ctx, query,
		r.DatasetName, r.Params.A, r.Params.B, r.Params.Mu, r.Params.Sigma,
		r.Params.NoiseCoefficient, r.Params.BiasDriftRangeMin, r.Params.BiasDriftRangeMax,
		r.Params.BiasDriftOscillations, r.Loss, r.DelayMinutes, int64(r.RandomSeed),
	)
	observability.RecordDBQuery("postgres", "insert_fit_result", time.Since(started).Seconds(), err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert fit result: %w", err)
	}
	return nil
}

// GetByDataset retrieves the fit result for a dataset.
func (s *FitResultStore) GetByDataset(ctx context.Context, datasetName string) (*domain.FitResult, error) {
	query := `
		SELECT dataset_name, shape_a, shape_b, location, scale,
		       noise_coefficient, bias_drift_range_min, bias_drift_range_max,
		       bias_drift_oscillations, loss, delay_minutes, random_seed
		FROM fit_results
		WHERE dataset_name = $1
	`

	var r domain.FitResult
	var seed int64
	started := time.Now()
	err := s.pool.QueryRow(ctx, query, datasetName).Scan(
		&r.DatasetName, &r.Params.A, &r.Params.B, &r.Params.Mu, &r.Params.Sigma,
		&r.Params.NoiseCoefficient, &r.Params.BiasDriftRangeMin, &r.Params.BiasDriftRangeMax,
		&r.Params.BiasDriftOscillations, &r.Loss, &r.DelayMinutes, &seed,
	)
	observability.RecordDBQuery("postgres", "get_fit_result", time.Since(started).Seconds(), err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get fit result: %w", err)
	}
	r.RandomSeed = uint64(seed)
	return &r, nil
}

// ListDatasets returns all dataset names with a stored fit, sorted.
func (s *FitResultStore) ListDatasets(ctx context.Context) ([]string, error) {
	query := `SELECT dataset_name FROM fit_results ORDER BY dataset_name ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fit datasets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan fit dataset: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fit datasets: %w", err)
	}
	return names, nil
}
