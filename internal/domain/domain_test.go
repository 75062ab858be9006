package domain

import (
	"math"
	"testing"
)

func TestClampBG(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{raw: 410.0, want: 400},
		{raw: 400.0, want: 400},
		{raw: 399.6, want: 400},
		{raw: 10.0, want: 40},
		{raw: 40.0, want: 40},
		{raw: 40.4, want: 40},
		{raw: 99.5, want: 100},
		{raw: 99.4, want: 99},
		{raw: -50.0, want: 40},
	}
	for _, c := range cases {
		if got := ClampBG(c.raw); got != c.want {
			t.Errorf("ClampBG(%v) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	p := DistributionParams{
		A:                     -0.5,
		B:                     1.5,
		Mu:                    2.0,
		Sigma:                 3.0,
		NoiseCoefficient:      4.5,
		BiasDriftRangeMin:     0.9,
		BiasDriftRangeMax:     1.1,
		BiasDriftOscillations: 2.0,
	}
	if got := ParamsFromVector(p.Vector()); got != p {
		t.Errorf("round trip changed params: got %+v, want %+v", got, p)
	}
}

func TestDistributionParams_Valid(t *testing.T) {
	good := DistributionParams{B: 1, Sigma: 1, BiasDriftRangeMin: 0.9, BiasDriftRangeMax: 1.1}
	if !good.Valid() {
		t.Error("expected valid params")
	}

	bad := good
	bad.Sigma = 0
	if bad.Valid() {
		t.Error("zero sigma should be invalid")
	}

	bad = good
	bad.B = -1
	if bad.Valid() {
		t.Error("negative shape b should be invalid")
	}

	bad = good
	bad.BiasDriftRangeMin, bad.BiasDriftRangeMax = 1.1, 0.9
	if bad.Valid() {
		t.Error("inverted drift range should be invalid")
	}
}

func TestBiasFactor(t *testing.T) {
	p := SensorProperties{InitialBias: 11, BiasNormFactor: PercentageBiasNormFactor}
	if got, want := p.BiasFactor(), (55.0+11.0)/55.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("percentage bias factor = %v, want %v", got, want)
	}

	// Absolute bias uses a norm factor of 1, never dividing by less than 1.
	abs := SensorProperties{InitialBias: 3, BiasNormFactor: NormFactorFor(BiasAbsolute)}
	if got, want := abs.BiasFactor(), 4.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("absolute bias factor = %v, want %v", got, want)
	}

	zero := SensorProperties{InitialBias: 5, BiasNormFactor: 0}
	if got, want := zero.BiasFactor(), 5.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("zero-norm bias factor = %v, want %v", got, want)
	}
}

func TestDefaultAccuracySpec(t *testing.T) {
	spec := DefaultAccuracySpec()
	thresholds := spec.Thresholds()
	want := [7]float64{0.85, 0.70, 0.80, 0.98, 0.99, 0.99, 0.87}
	if thresholds != want {
		t.Errorf("default thresholds = %v, want %v", thresholds, want)
	}
}
