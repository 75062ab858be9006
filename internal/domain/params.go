package domain

// DistributionParams is the 8-dimensional parameter vector the fit procedure
// searches over. The first four parameters describe the Johnson S_U
// distribution the population's initial sensor bias is drawn from; the rest
// control per-sensor noise amplitude and bias-drift shape.
type DistributionParams struct {
	A     float64 // Johnson S_U first shape parameter (skew)
	B     float64 // Johnson S_U second shape parameter (tail weight), > 0
	Mu    float64 // Johnson S_U location
	Sigma float64 // Johnson S_U scale, > 0

	NoiseCoefficient      float64 // per-tick noise standard deviation (mg/dL)
	BiasDriftRangeMin     float64 // lower bound of the drift multiplier
	BiasDriftRangeMax     float64 // upper bound of the drift multiplier
	BiasDriftOscillations float64 // sinusoid oscillation count over sensor life
}

// Vector returns the parameters in canonical search order.
func (p DistributionParams) Vector() [8]float64 {
	return [8]float64{
		p.A, p.B, p.Mu, p.Sigma,
		p.NoiseCoefficient, p.BiasDriftRangeMin, p.BiasDriftRangeMax, p.BiasDriftOscillations,
	}
}

// ParamsFromVector rebuilds DistributionParams from canonical search order.
func ParamsFromVector(v [8]float64) DistributionParams {
	return DistributionParams{
		A:                     v[0],
		B:                     v[1],
		Mu:                    v[2],
		Sigma:                 v[3],
		NoiseCoefficient:      v[4],
		BiasDriftRangeMin:     v[5],
		BiasDriftRangeMax:     v[6],
		BiasDriftOscillations: v[7],
	}
}

// Valid reports whether the vector satisfies its structural invariants:
// positive scale and an ordered drift range.
func (p DistributionParams) Valid() bool {
	return p.Sigma > 0 && p.B > 0 && p.BiasDriftRangeMin <= p.BiasDriftRangeMax
}

// GridPoint is one evaluated point of the exhaustive search surface.
type GridPoint struct {
	Params DistributionParams // candidate vector at this point
	Loss   float64            // loss evaluated at the candidate
}

// FitResult is the output of a completed fit.
type FitResult struct {
	DatasetName  string             // name of the true-BG dataset fit against
	Params       DistributionParams // best-found parameter vector after refinement
	Loss         float64            // loss at Params
	GridSurface  []GridPoint        // full exhaustive-search surface, row-major order
	DelayMinutes int                // fixed sensor delay the fit assumed
	RandomSeed   uint64             // seed the fit's batch evaluations used
}
