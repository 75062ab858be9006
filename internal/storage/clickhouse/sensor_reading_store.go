package clickhouse

import (
	"context"
	"fmt"
	"time"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/observability"
	"icgm-sensor-lab/internal/storage"
)

// SensorReadingStore implements storage.SensorReadingStore using ClickHouse.
type SensorReadingStore struct {
	conn *Conn
}

// NewSensorReadingStore creates a new SensorReadingStore.
func NewSensorReadingStore(conn *Conn) *SensorReadingStore {
	return &SensorReadingStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SensorReadingStore = (*SensorReadingStore)(nil)

// InsertBulk appends reading points via a native batch.
func (s *SensorReadingStore) InsertBulk(ctx context.Context, readings []domain.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}
	for _, r := range readings {
		if r.DatasetName == "" {
			return storage.ErrInvalidInput
		}
	}

	started := time.Now()
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO sensor_readings (
			dataset_name, sensor_num, tick, timestamp_ms, true_bg, sensor_bg
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range readings {
		var ts int64
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.UnixMilli()
		}
		err = batch.Append(
			r.DatasetName, int32(r.SensorNum), int32(r.Tick),
			uint64(ts), r.TrueBG, r.SensorBG,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	err = batch.Send()
	observability.RecordDBQuery("clickhouse", "insert_sensor_readings", time.Since(started).Seconds(), err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySensor retrieves all readings of one sensor, ordered by tick ASC.
func (s *SensorReadingStore) GetBySensor(ctx context.Context, datasetName string, sensorNum int) ([]domain.SensorReading, error) {
	query := `
		SELECT dataset_name, sensor_num, tick, timestamp_ms, true_bg, sensor_bg
		FROM sensor_readings
		WHERE dataset_name = ? AND sensor_num = ?
		ORDER BY tick ASC
	`

	started := time.Now()
	rows, err := s.conn.Query(ctx, query, datasetName, int32(sensorNum))
	observability.RecordDBQuery("clickhouse", "get_sensor_readings", time.Since(started).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query sensor readings: %w", err)
	}
	defer rows.Close()

	var out []domain.SensorReading
	for rows.Next() {
		var r domain.SensorReading
		var num, tick int32
		var ts uint64
		if err := rows.Scan(&r.DatasetName, &num, &tick, &ts, &r.TrueBG, &r.SensorBG); err != nil {
			return nil, fmt.Errorf("scan sensor reading: %w", err)
		}
		r.SensorNum = int(num)
		r.Tick = int(tick)
		if ts > 0 {
			r.Timestamp = time.UnixMilli(int64(ts)).UTC()
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensor readings: %w", err)
	}
	return out, nil
}
