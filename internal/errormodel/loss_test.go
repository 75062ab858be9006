package errormodel

import (
	"math"
	"testing"

	"icgm-sensor-lab/internal/domain"
)

func TestComputeRates_RangeBuckets(t *testing.T) {
	// One sample per range, each exactly on its criterion boundary.
	trueVals := []float64{60, 60, 100, 100, 200, 200}
	simVals := []float64{
		75,  // low range, abs error 15: passes A and D
		101, // low range, abs error 41: fails A and D
		115, // mid range, rel error 15%: passes B and E
		145, // mid range, rel error 45%: fails B and E
		230, // high range, rel error 15%: passes C and F
		290, // high range, rel error 45%: fails C and F
	}

	rates := computeRates(trueVals, simVals)
	want := domain.AccuracyRates{
		RateA: 0.5, RateB: 0.5, RateC: 0.5,
		RateD: 0.5, RateE: 0.5, RateF: 0.5,
		RateG: 0.5,
	}
	got := rates.Rates()
	for i, w := range want.Rates() {
		if math.Abs(got[i]-w) > 1e-12 {
			t.Errorf("criterion %c rate = %v, want %v", 'A'+i, got[i], w)
		}
	}
}

func TestComputeRates_EmptyBucketsPassTrivially(t *testing.T) {
	// Only mid-range samples: A, C, D, F have no denominator.
	rates := computeRates([]float64{100}, []float64{100})
	if rates.RateA != 1.0 || rates.RateC != 1.0 || rates.RateD != 1.0 || rates.RateF != 1.0 {
		t.Errorf("empty buckets should satisfy their criteria: %+v", rates)
	}
}

func TestThresholdDeficit_WeightsHypoglycemicCriteria(t *testing.T) {
	spec := domain.DefaultAccuracySpec()

	perfect := domain.AccuracyRates{RateA: 1, RateB: 1, RateC: 1, RateD: 1, RateE: 1, RateF: 1, RateG: 1}
	if loss := thresholdDeficit(perfect, spec); loss != 0 {
		t.Errorf("perfect rates should carry zero loss, got %v", loss)
	}

	// A 0.10 shortfall on A scores double a 0.10 shortfall on B.
	shortA := perfect
	shortA.RateA = spec.ThresholdA - 0.10
	shortB := perfect
	shortB.RateB = spec.ThresholdB - 0.10

	lossA := thresholdDeficit(shortA, spec)
	lossB := thresholdDeficit(shortB, spec)
	if math.Abs(lossA-0.20) > 1e-12 {
		t.Errorf("criterion A shortfall loss = %v, want 0.20", lossA)
	}
	if math.Abs(lossB-0.10) > 1e-12 {
		t.Errorf("criterion B shortfall loss = %v, want 0.10", lossB)
	}

	// Exceeding a threshold earns no credit against other shortfalls.
	mixed := shortA
	mixed.RateG = 1.0
	if loss := thresholdDeficit(mixed, spec); math.Abs(loss-lossA) > 1e-12 {
		t.Errorf("surplus on G changed the loss: %v vs %v", loss, lossA)
	}
}

func TestG6Penalty_ZeroAtPublishedRates(t *testing.T) {
	// 1000 samples engineered so the agreement rates land exactly on the
	// published G6 aggregates: 857 within 15, 939 within 20, 997 within 40.
	trueVals := make([]float64, 1000)
	simVals := make([]float64, 1000)
	for i := range trueVals {
		trueVals[i] = 100
		switch {
		case i < 857:
			simVals[i] = 100 // within every band
		case i < 939:
			simVals[i] = 118 // outside 15, inside 20
		case i < 997:
			simVals[i] = 130 // outside 20, inside 40
		default:
			simVals[i] = 160 // outside every band
		}
	}

	if penalty := g6Penalty(trueVals, simVals); math.Abs(penalty) > 1e-12 {
		t.Errorf("penalty at published rates = %v, want 0", penalty)
	}

	// Perfect agreement exceeds the published rates and is penalized.
	for i := range simVals {
		simVals[i] = trueVals[i]
	}
	if penalty := g6Penalty(trueVals, simVals); penalty <= 0 {
		t.Errorf("perfect agreement penalty = %v, want > 0", penalty)
	}
}
