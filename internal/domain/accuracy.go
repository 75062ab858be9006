package domain

// AccuracySpec holds the seven iCGM special-controls pass-rate thresholds
// (criteria A-G). Each value is the minimum fraction of readings that must
// satisfy the corresponding criterion. Used only as loss-function input.
type AccuracySpec struct {
	ThresholdA float64 // true < 70: reading within +/-15 mg/dL
	ThresholdB float64 // true in [70, 180]: reading within +/-15%
	ThresholdC float64 // true > 180: reading within +/-15%
	ThresholdD float64 // true < 70: reading within +/-40 mg/dL
	ThresholdE float64 // true in [70, 180]: reading within +/-40%
	ThresholdF float64 // true > 180: reading within +/-40%
	ThresholdG float64 // all readings: within +/-20% or +/-20 mg/dL
}

// DefaultAccuracySpec returns the published iCGM special-controls thresholds.
func DefaultAccuracySpec() AccuracySpec {
	return AccuracySpec{
		ThresholdA: 0.85,
		ThresholdB: 0.70,
		ThresholdC: 0.80,
		ThresholdD: 0.98,
		ThresholdE: 0.99,
		ThresholdF: 0.99,
		ThresholdG: 0.87,
	}
}

// Thresholds returns the criteria thresholds in A-G order.
func (s AccuracySpec) Thresholds() [7]float64 {
	return [7]float64{
		s.ThresholdA, s.ThresholdB, s.ThresholdC,
		s.ThresholdD, s.ThresholdE, s.ThresholdF,
		s.ThresholdG,
	}
}

// AccuracyRates holds the measured pass rates for criteria A-G over a batch
// of simulated sensors, in the same order as AccuracySpec.Thresholds.
type AccuracyRates struct {
	RateA float64 // measured pass rate for criterion A
	RateB float64 // measured pass rate for criterion B
	RateC float64 // measured pass rate for criterion C
	RateD float64 // measured pass rate for criterion D
	RateE float64 // measured pass rate for criterion E
	RateF float64 // measured pass rate for criterion F
	RateG float64 // measured pass rate for criterion G
}

// Rates returns the measured rates in A-G order.
func (r AccuracyRates) Rates() [7]float64 {
	return [7]float64{r.RateA, r.RateB, r.RateC, r.RateD, r.RateE, r.RateF, r.RateG}
}
