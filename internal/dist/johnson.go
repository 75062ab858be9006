// Package dist provides the seeded distributions the sensor population is
// drawn from. Every draw consumes an explicitly passed source; there is no
// package-level random state.
package dist

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParams is returned for a non-positive scale or shape-b parameter.
var ErrInvalidParams = errors.New("johnson s_u: scale and shape b must be positive")

// JohnsonSU is the four-parameter Johnson S_U distribution, used to model the
// population distribution of initial sensor bias. A draw is the sinh
// transform of a standard normal: Loc + Scale*sinh((Z-A)/B).
type JohnsonSU struct {
	A     float64 // first shape parameter (skew)
	B     float64 // second shape parameter (tail weight), > 0
	Loc   float64 // location
	Scale float64 // scale, > 0
}

// NewJohnsonSU validates the parameters and returns the distribution.
func NewJohnsonSU(a, b, loc, scale float64) (JohnsonSU, error) {
	if scale <= 0 || b <= 0 {
		return JohnsonSU{}, ErrInvalidParams
	}
	return JohnsonSU{A: a, B: b, Loc: loc, Scale: scale}, nil
}

// Rand draws one sample using the supplied generator.
func (d JohnsonSU) Rand(rng *rand.Rand) float64 {
	z := rng.NormFloat64()
	return d.Loc + d.Scale*math.Sinh((z-d.A)/d.B)
}

// Quantile returns the value at probability p in (0, 1).
func (d JohnsonSU) Quantile(p float64) float64 {
	z := distuv.UnitNormal.Quantile(p)
	return d.Loc + d.Scale*math.Sinh((z-d.A)/d.B)
}

// SupportRange returns the central [lo, hi] quantile band covering
// probability mass (hi-lo). Used to bound sampled biases in diagnostics.
func (d JohnsonSU) SupportRange(lo, hi float64) (float64, float64) {
	return d.Quantile(lo), d.Quantile(hi)
}
