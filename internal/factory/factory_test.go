package factory

import (
	"errors"
	"math"
	"testing"

	"icgm-sensor-lab/internal/domain"
)

func makeParams() domain.DistributionParams {
	return domain.DistributionParams{
		A:                     0,
		B:                     1,
		Mu:                    0,
		Sigma:                 1,
		NoiseCoefficient:      2.5,
		BiasDriftRangeMin:     0.95,
		BiasDriftRangeMax:     1.05,
		BiasDriftOscillations: 1,
	}
}

func TestGenerate_InvalidCount(t *testing.T) {
	f := New(Options{})
	if _, err := f.Generate(makeParams(), nil, 0); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("count 0: got %v, want ErrInvalidCount", err)
	}
	if _, err := f.Generate(makeParams(), nil, -3); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("negative count: got %v, want ErrInvalidCount", err)
	}
}

func TestGenerate_PropertyTableShape(t *testing.T) {
	f := New(Options{RandomSeed: 5, DelayMinutes: 5})
	out, err := f.Generate(makeParams(), nil, 4)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(out.Properties) != 4 {
		t.Fatalf("got %d property rows, want 4", len(out.Properties))
	}
	if out.Traces != nil {
		t.Error("no trace supplied, expected nil Traces")
	}
	for i, p := range out.Properties {
		if p.SensorNum != i {
			t.Errorf("row %d SensorNum = %d", i, p.SensorNum)
		}
		if p.RandomSeed != 5+uint64(i) {
			t.Errorf("row %d RandomSeed = %d, want %d", i, p.RandomSeed, 5+uint64(i))
		}
		if p.DelayMinutes != 5 {
			t.Errorf("row %d DelayMinutes = %d, want 5", i, p.DelayMinutes)
		}
		if p.BiasDriftType != domain.DriftRandom {
			t.Errorf("row %d BiasDriftType = %q", i, p.BiasDriftType)
		}
	}
}

func TestGenerate_ReproducibleAcrossRuns(t *testing.T) {
	params := makeParams()
	trace := []float64{100, 110, 120, 130, 140}

	a, err := New(Options{RandomSeed: 9}).Generate(params, trace, 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := New(Options{RandomSeed: 9}).Generate(params, trace, 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i := range a.Properties {
		if a.Properties[i] != b.Properties[i] {
			t.Errorf("row %d differs across identically seeded runs", i)
		}
		for j := range a.Traces[i] {
			va, vb := a.Traces[i][j], b.Traces[i][j]
			if va != vb && !(math.IsNaN(va) && math.IsNaN(vb)) {
				t.Errorf("trace %d sample %d differs: %v vs %v", i, j, va, vb)
			}
		}
	}

	c, err := New(Options{RandomSeed: 10}).Generate(params, trace, 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if a.Properties[0] == c.Properties[0] {
		t.Error("different seeds produced an identical first row")
	}
}

func TestGenerate_TraceLongerThanSensorLife(t *testing.T) {
	f := New(Options{SensorLifeDays: 1})
	trace := make([]float64, 3*domain.TicksPerDay)
	for i := range trace {
		trace[i] = 120
	}

	out, err := f.Generate(makeParams(), trace, 2)
	if err != nil {
		t.Fatalf("Generate over a long trace failed: %v", err)
	}
	for i, tr := range out.Traces {
		if len(tr) != len(trace) {
			t.Errorf("trace %d has %d samples, want %d", i, len(tr), len(trace))
		}
	}
}
