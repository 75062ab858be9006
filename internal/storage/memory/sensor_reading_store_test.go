package memory

import (
	"context"
	"errors"
	"testing"
	"time"

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
			SensorBG:    102 + float64(i),
		}
	}
	return out
}

func TestSensorReadingStore_InsertBulkAndGet(t *testing.T) {
	store := NewSensorReadingStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, makeReadings("dataset-a", 0, 4)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	if err := store.InsertBulk(ctx, makeReadings("dataset-a", 1, 2)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetBySensor(ctx, "dataset-a", 0)
	if err != nil {
		t.Fatalf("GetBySensor failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d readings, want 4", len(got))
	}
	for i, r := range got {
		if r.Tick != i {
			t.Errorf("reading %d Tick = %d, want ascending order", i, r.Tick)
		}
		if r.SensorNum != 0 {
			t.Errorf("reading %d SensorNum = %d, want 0", i, r.SensorNum)
		}
	}
}

func TestSensorReadingStore_FiltersOtherSensors(t *testing.T) {
	store := NewSensorReadingStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, makeReadings("dataset-a", 0, 3)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	if err := store.InsertBulk(ctx, makeReadings("dataset-b", 0, 3)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetBySensor(ctx, "dataset-a", 0)
	if err != nil {
		t.Fatalf("GetBySensor failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d readings, want 3 (dataset filter leaked)", len(got))
	}

	empty, err := store.GetBySensor(ctx, "dataset-a", 99)
	if err != nil {
		t.Fatalf("GetBySensor failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown sensor returned %d readings", len(empty))
	}
}

func TestSensorReadingStore_InvalidInput(t *testing.T) {
	store := NewSensorReadingStore()
	ctx := context.Background()

	bad := makeReadings("", 0, 1)
	if err := store.InsertBulk(ctx, bad); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty dataset name: got %v, want ErrInvalidInput", err)
	}
	if err := store.InsertBulk(ctx, nil); err != nil {
		t.Errorf("empty batch: got %v, want nil", err)
	}
}
