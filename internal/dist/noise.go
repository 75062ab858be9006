package dist

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// noiseScaleFloor keeps a zero noise coefficient from producing a degenerate
// zero-variance distribution. Recovered locally, never surfaced.
const noiseScaleFloor = 2.220446049250313e-16

// NewRand returns a generator seeded for one computation unit.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NoiseSeries draws n i.i.d. normal noise samples with mean 0 and standard
// deviation max(coefficient, epsilon) from the supplied source.
func NoiseSeries(n int, coefficient float64, src rand.Source) []float64 {
	normal := distuv.Normal{
		Mu:    0,
		Sigma: math.Max(coefficient, noiseScaleFloor),
		Src:   src,
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = normal.Rand()
	}
	return out
}

// DriftMultipliers builds the n-tick drift-multiplier series for a sinusoid
// of the given oscillation count and phase, linearly mapped from [-1, 1]
// into [rangeStart, rangeEnd].
func DriftMultipliers(n int, oscillations, phi, rangeStart, rangeEnd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1) * oscillations * math.Pi
		}
		sn := math.Sin(t + phi)
		out[i] = rangeStart + (sn+1)/2*(rangeEnd-rangeStart)
	}
	return out
}

// ConstantMultipliers returns an n-tick series pinned at 1.0, the drift model
// for sensors without bias drift.
func ConstantMultipliers(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1.0
	}
	return out
}
