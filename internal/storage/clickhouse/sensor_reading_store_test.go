package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/storage"
)

func makeReadings(dataset string, sensorNum, n int) []domain.SensorReading {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.SensorReading, n)
	for i := range out {
		out[i] = domain.SensorReading{
			DatasetName: dataset,
			SensorNum:   sensorNum,
			Tick:        i,
			Timestamp:   base.Add(time.Duration(i) * domain.TickDuration),
			TrueBG:      100 + float64(i),
			SensorBG:    102.5 + float64(i),
		}
	}
	return out
}

func TestSensorReadingStore_InsertBulk(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSensorReadingStore(conn)
	ctx := context.Background()

	// Empty insert is a no-op.
	assert.NoError(t, store.InsertBulk(ctx, nil))

	readings := makeReadings("dataset-a", 0, 4)
	require.NoError(t, store.InsertBulk(ctx, readings))

	got, err := store.GetBySensor(ctx, "dataset-a", 0)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, r := range got {
		assert.Equal(t, i, r.Tick, "readings ordered by tick")
		assert.Equal(t, readings[i].TrueBG, r.TrueBG)
		assert.Equal(t, readings[i].SensorBG, r.SensorBG)
		assert.True(t, readings[i].Timestamp.Equal(r.Timestamp), "timestamp %d", i)
	}
}

func TestSensorReadingStore_FiltersBySensor(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSensorReadingStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, makeReadings("dataset-a", 0, 3)))
	require.NoError(t, store.InsertBulk(ctx, makeReadings("dataset-a", 1, 2)))
	require.NoError(t, store.InsertBulk(ctx, makeReadings("dataset-b", 0, 5)))

	got, err := store.GetBySensor(ctx, "dataset-a", 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	empty, err := store.GetBySensor(ctx, "dataset-a", 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSensorReadingStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSensorReadingStore(conn)

	err := store.InsertBulk(context.Background(), makeReadings("", 0, 1))
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestSensorReadingStore_ZeroTimestamp(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSensorReadingStore(conn)
	ctx := context.Background()

	readings := makeReadings("dataset-a", 0, 1)
	readings[0].Timestamp = time.Time{}
	require.NoError(t, store.InsertBulk(ctx, readings))

	got, err := store.GetBySensor(ctx, "dataset-a", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Timestamp.IsZero(), "zero timestamp survives the round trip")
}
