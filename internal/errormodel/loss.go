package errormodel

import (
	"math"

	"icgm-sensor-lab/internal/domain"
)

// Glucose range boundaries for the special-controls criteria (mg/dL).
const (
	lowRangeMax  = 70.0
	highRangeMin = 180.0
)

// Published Dexcom G6 aggregate agreement rates, used for the optional
// reference-accuracy penalty term.
const (
	g6Within15Rate = 0.857
	g6Within20Rate = 0.939
	g6Within40Rate = 0.997
)

// criterionCounter accumulates one pass rate.
type criterionCounter struct {
	passed int
	total  int
}

func (c *criterionCounter) add(pass bool) {
	c.total++
	if pass {
		c.passed++
	}
}

// rate returns the pass fraction; an empty denominator satisfies the
// criterion trivially.
func (c criterionCounter) rate() float64 {
	if c.total == 0 {
		return 1.0
	}
	return float64(c.passed) / float64(c.total)
}

// computeRates measures the special-controls pass rates A-G over paired
// (true, simulated) samples.
func computeRates(trueVals, simVals []float64) domain.AccuracyRates {
	var a, b, c, d, e, f, g criterionCounter

	for i, tv := range trueVals {
		sv := simVals[i]
		absErr := math.Abs(sv - tv)
		relErr := absErr / tv

		switch {
		case tv < lowRangeMax:
			a.add(absErr <= 15)
			d.add(absErr <= 40)
		case tv <= highRangeMin:
			b.add(relErr <= 0.15)
			e.add(relErr <= 0.40)
		default:
			c.add(relErr <= 0.15)
			f.add(relErr <= 0.40)
		}

		g.add(absErr <= 20 || relErr <= 0.20)
	}

	return domain.AccuracyRates{
		RateA: a.rate(),
		RateB: b.rate(),
		RateC: c.rate(),
		RateD: d.rate(),
		RateE: e.rate(),
		RateF: f.rate(),
		RateG: g.rate(),
	}
}

// criterionWeights double-weight the hypoglycemic-range criteria (A, D),
// where under-reading carries the most clinical risk.
var criterionWeights = [7]float64{2, 1, 1, 2, 1, 1, 1}

// thresholdDeficit sums the weighted shortfall of each measured rate below
// its threshold. Zero when every threshold is met.
func thresholdDeficit(rates domain.AccuracyRates, spec domain.AccuracySpec) float64 {
	measured := rates.Rates()
	thresholds := spec.Thresholds()

	loss := 0.0
	for i := range thresholds {
		if deficit := thresholds[i] - measured[i]; deficit > 0 {
			loss += criterionWeights[i] * deficit
		}
	}
	return loss
}

// g6Penalty measures squared deviation of the batch's overall agreement
// rates from the published G6 aggregate rates, pulling the fit toward a
// realistic accuracy profile instead of merely satisfying the controls.
func g6Penalty(trueVals, simVals []float64) float64 {
	var w15, w20, w40 criterionCounter

	for i, tv := range trueVals {
		sv := simVals[i]
		absErr := math.Abs(sv - tv)
		relErr := absErr / tv

		w15.add(absErr <= 15 || relErr <= 0.15)
		w20.add(absErr <= 20 || relErr <= 0.20)
		w40.add(absErr <= 40 || relErr <= 0.40)
	}

	d15 := w15.rate() - g6Within15Rate
	d20 := w20.rate() - g6Within20Rate
	d40 := w40.rate() - g6Within40Rate
	return d15*d15 + d20*d20 + d40*d40
}
