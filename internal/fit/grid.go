package fit

import (
	"errors"

	"icgm-sensor-lab/internal/domain"
)

// ErrDegenerateGrid is returned when the search grid is empty in any
// dimension. Configuration error, raised before any evaluation begins.
var ErrDegenerateGrid = errors.New("search grid is degenerate")

// Dimension is one bounded, discretized axis of the search grid.
type Dimension struct {
	Min  float64 // first grid value
	Max  float64 // inclusive upper bound
	Step float64 // spacing between grid values, > 0
}

// values expands the dimension into its grid values.
func (d Dimension) values() []float64 {
	if d.Step <= 0 || d.Max < d.Min {
		return nil
	}
	var out []float64
	// Epsilon on the bound keeps Max itself on the grid despite float steps.
	for v := d.Min; v <= d.Max+d.Step*1e-9; v += d.Step {
		out = append(out, v)
	}
	return out
}

// SearchRange bounds all eight dimensions of the parameter search, in
// canonical vector order.
type SearchRange struct {
	A                     Dimension
	B                     Dimension
	Mu                    Dimension
	Sigma                 Dimension
	NoiseCoefficient      Dimension
	BiasDriftRangeMin     Dimension
	BiasDriftRangeMax     Dimension
	BiasDriftOscillations Dimension
}

// DefaultSearchRange returns the domain-derived coarse grid the fit uses
// when the caller does not override it.
func DefaultSearchRange() SearchRange {
	return SearchRange{
		A:                     Dimension{Min: -1, Max: 1, Step: 1},
		B:                     Dimension{Min: 1, Max: 2, Step: 0.5},
		Mu:                    Dimension{Min: -2, Max: 2, Step: 2},
		Sigma:                 Dimension{Min: 1, Max: 7, Step: 3},
		NoiseCoefficient:      Dimension{Min: 2, Max: 10, Step: 4},
		BiasDriftRangeMin:     Dimension{Min: 0.85, Max: 0.95, Step: 0.05},
		BiasDriftRangeMax:     Dimension{Min: 1.05, Max: 1.15, Step: 0.05},
		BiasDriftOscillations: Dimension{Min: 1, Max: 2, Step: 0.5},
	}
}

// dimensions returns the axes in canonical order.
func (r SearchRange) dimensions() [8]Dimension {
	return [8]Dimension{
		r.A, r.B, r.Mu, r.Sigma,
		r.NoiseCoefficient, r.BiasDriftRangeMin, r.BiasDriftRangeMax, r.BiasDriftOscillations,
	}
}

// points expands the range into the full grid in row-major order (the last
// dimension varies fastest). Fails if any dimension expands to zero values.
func (r SearchRange) points() ([]domain.DistributionParams, error) {
	dims := r.dimensions()

	axes := make([][]float64, len(dims))
	total := 1
	for i, d := range dims {
		vals := d.values()
		if len(vals) == 0 {
			return nil, ErrDegenerateGrid
		}
		axes[i] = vals
		total *= len(vals)
	}

	out := make([]domain.DistributionParams, 0, total)
	idx := [8]int{}
	for {
		var v [8]float64
		for i := range v {
			v[i] = axes[i][idx[i]]
		}
		out = append(out, domain.ParamsFromVector(v))

		// Advance the odometer, last dimension fastest.
		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(axes[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	return out, nil
}
