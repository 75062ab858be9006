// Package errormodel maps candidate distribution parameters to simulated
// sensor batches and to a scalar loss against the iCGM special controls.
// All functions are pure given (parameters, trace, seed); the transient
// sensors built during evaluation are discarded after scoring.
package errormodel

import (
	"errors"
	"math"

	"icgm-sensor-lab/internal/dist"
	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/sensor"
)

// Input validation errors.
var (
	// ErrEmptyTrace is returned when no true-BG trace is supplied.
	ErrEmptyTrace = errors.New("true bg trace is empty")

	// ErrInvalidScale is returned when the candidate distribution has a
	// non-positive scale or shape-b parameter.
	ErrInvalidScale = errors.New("distribution scale must be positive")
)

// Input is one loss evaluation request.
type Input struct {
	Params        domain.DistributionParams // candidate 8-dim vector
	TrueBG        []float64                 // reference trace, 5-minute sampling
	Spec          domain.AccuracySpec       // special-controls thresholds A-G
	BatchSize     int                       // number of transient sensors per evaluation
	BiasType      domain.BiasType           // bias normalization policy
	BiasDriftType domain.BiasDriftType      // drift model selector
	DelayMinutes  int                       // fixed sensor delay
	RandomSeed    uint64                    // top-level seed; sensor i uses RandomSeed+i
	UseG6Accuracy bool                      // add the G6 reference-accuracy penalty term
}

// validate checks the structural invariants the loss contract requires.
func (in Input) validate() error {
	if len(in.TrueBG) == 0 {
		return ErrEmptyTrace
	}
	if in.Params.Sigma <= 0 || in.Params.B <= 0 {
		return ErrInvalidScale
	}
	return nil
}

// SampleProperties draws the property row for sensor sensorNum under the
// candidate parameters. The draw is sub-seeded from the top-level seed, so
// the row is reproducible independent of call order or parallelism. The
// factory uses the same function at generation time, which keeps fitted
// batches and generated sensors identically distributed.
func SampleProperties(
	params domain.DistributionParams,
	biasType domain.BiasType,
	driftType domain.BiasDriftType,
	delayMinutes int,
	randomSeed uint64,
	sensorNum int,
) (domain.SensorProperties, error) {
	su, err := dist.NewJohnsonSU(params.A, params.B, params.Mu, params.Sigma)
	if err != nil {
		return domain.SensorProperties{}, err
	}

	subSeed := randomSeed + uint64(sensorNum)
	rng := dist.NewRand(subSeed)

	initialBias := su.Rand(rng)
	phi := rng.Float64() * 2 * math.Pi

	return domain.SensorProperties{
		SensorNum:             sensorNum,
		InitialBias:           initialBias,
		PhiDrift:              phi,
		BiasDriftRangeStart:   params.BiasDriftRangeMin,
		BiasDriftRangeEnd:     params.BiasDriftRangeMax,
		BiasDriftOscillations: params.BiasDriftOscillations,
		BiasNormFactor:        domain.NormFactorFor(biasType),
		NoiseCoefficient:      params.NoiseCoefficient,
		DelayMinutes:          delayMinutes,
		RandomSeed:            subSeed,
		BiasDriftType:         driftType,
	}, nil
}

// simulateBatch builds the transient sensor batch and returns the paired
// (true, simulated) samples across all sensors. NaN readings from the delay
// warmup are dropped.
func simulateBatch(in Input) (trueVals, simVals []float64, err error) {
	lifeDays := (len(in.TrueBG) + domain.TicksPerDay - 1) / domain.TicksPerDay
	if lifeDays < domain.DefaultSensorLifeDays {
		lifeDays = domain.DefaultSensorLifeDays
	}

	for i := 0; i < in.BatchSize; i++ {
		props, err := SampleProperties(in.Params, in.BiasType, in.BiasDriftType, in.DelayMinutes, in.RandomSeed, i)
		if err != nil {
			return nil, nil, err
		}

		s, err := sensor.New(props, sensor.Config{SensorLifeDays: lifeDays})
		if err != nil {
			return nil, nil, err
		}

		trace, err := s.GenerateTrace(in.TrueBG, false, 0)
		if err != nil {
			return nil, nil, err
		}

		for j, sim := range trace {
			if math.IsNaN(sim) {
				continue
			}
			trueVals = append(trueVals, in.TrueBG[j])
			simVals = append(simVals, sim)
		}
	}

	return trueVals, simVals, nil
}

// Rates evaluates the special-controls pass rates for the candidate input.
func Rates(in Input) (domain.AccuracyRates, error) {
	if err := in.validate(); err != nil {
		return domain.AccuracyRates{}, err
	}
	trueVals, simVals, err := simulateBatch(in)
	if err != nil {
		return domain.AccuracyRates{}, err
	}
	return computeRates(trueVals, simVals), nil
}

// Loss evaluates the scalar loss for the candidate input. Zero when every
// criterion's measured rate meets its threshold and no penalty term applies.
func Loss(in Input) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	trueVals, simVals, err := simulateBatch(in)
	if err != nil {
		return 0, err
	}

	rates := computeRates(trueVals, simVals)
	loss := thresholdDeficit(rates, in.Spec)

	if in.UseG6Accuracy {
		loss += g6Penalty(trueVals, simVals)
	}

	return loss, nil
}
