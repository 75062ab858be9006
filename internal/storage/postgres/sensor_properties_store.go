package postgres

import (
	"context"
	"fmt"
	"time"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/observability"
	"icgm-sensor-lab/internal/storage"
)

// SensorPropertiesStore implements storage.SensorPropertiesStore using
// PostgreSQL.
type SensorPropertiesStore struct {
	pool *Pool
}

// NewSensorPropertiesStore creates a new SensorPropertiesStore.
func NewSensorPropertiesStore(pool *Pool) *SensorPropertiesStore {
	return &SensorPropertiesStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SensorPropertiesStore = (*SensorPropertiesStore)(nil)

// InsertBulk adds one batch's property table atomically. Fails the entire
// batch on any duplicate (dataset, sensor_num) pair.
func (s *SensorPropertiesStore) InsertBulk(ctx context.Context, datasetName string, rows []domain.SensorProperties) error {
	if datasetName == "" {
		return storage.ErrInvalidInput
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sensor_properties (
			dataset_name, sensor_num, initial_bias, phi_drift,
			bias_drift_range_start, bias_drift_range_end, bias_drift_oscillations,
			bias_norm_factor, noise_coefficient, delay_minutes,
			random_seed, bias_drift_type
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12
		)
	`

	started := time.Now()
	for _, row := range rows {
		_, err := tx.Exec(ctx, query,
			datasetName, row.SensorNum, row.InitialBias, row.PhiDrift,
			row.BiasDriftRangeStart, row.BiasDriftRangeEnd, row.BiasDriftOscillations,
			row.BiasNormFactor, row.NoiseCoefficient, row.DelayMinutes,
			int64(row.RandomSeed), string(row.BiasDriftType),
		)
		if err != nil {
			observability.RecordDBQuery("postgres", "insert_sensor_properties", time.Since(started).Seconds(), err)
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sensor properties in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	observability.RecordDBQuery("postgres", "insert_sensor_properties", time.Since(started).Seconds(), nil)

	return nil
}

// GetByDataset retrieves all property rows for a dataset, ordered by
// sensor_num ASC.
func (s *SensorPropertiesStore) GetByDataset(ctx context.Context, datasetName string) ([]domain.SensorProperties, error) {
	query := `
		SELECT sensor_num, initial_bias, phi_drift,
		       bias_drift_range_start, bias_drift_range_end, bias_drift_oscillations,
		       bias_norm_factor, noise_coefficient, delay_minutes,
		       random_seed, bias_drift_type
		FROM sensor_properties
		WHERE dataset_name = $1
		ORDER BY sensor_num ASC
	`

	started := time.Now()
	rows, err := s.pool.Query(ctx, query, datasetName)
	observability.RecordDBQuery("postgres", "get_sensor_properties", time.Since(started).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("get sensor properties: %w", err)
	}
	defer rows.Close()

	var out []domain.SensorProperties
	for rows.Next() {
		var p domain.SensorProperties
		var seed int64
		var driftType string
		if err := rows.Scan(
			&p.SensorNum, &p.InitialBias, &p.PhiDrift,
			&p.BiasDriftRangeStart, &p.BiasDriftRangeEnd, &p.BiasDriftOscillations,
			&p.BiasNormFactor, &p.NoiseCoefficient, &p.DelayMinutes,
			&seed, &driftType,
		); err != nil {
			return nil, fmt.Errorf("scan sensor properties: %w", err)
		}
		p.RandomSeed = uint64(seed)
		p.BiasDriftType = domain.BiasDriftType(driftType)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensor properties: %w", err)
	}
	return out, nil
}
