// Package factory draws per-sensor property rows from fitted distribution
// parameters and produces the matching diagnostic traces.
package factory

import (
	"errors"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/errormodel"
	"icgm-sensor-lab/internal/observability"
	"icgm-sensor-lab/internal/sensor"
)

// ErrInvalidCount is returned for a non-positive sensor count.
var ErrInvalidCount = errors.New("sensor count must be positive")

// Factory samples sensor property tables from fitted parameters.
type Factory struct {
	biasType       domain.BiasType
	biasDriftType  domain.BiasDriftType
	delayMinutes   int
	randomSeed     uint64
	sensorLifeDays int
}

// Options configures a Factory. Zero values select defaults.
type Options struct {
	BiasType       domain.BiasType      // default BiasPercentageOfValue
	BiasDriftType  domain.BiasDriftType // default DriftRandom
	DelayMinutes   int                  // default DelayDefaultMinutes
	RandomSeed     uint64               // top-level seed deriving per-sensor sub-seeds
	SensorLifeDays int                  // default DefaultSensorLifeDays
}

// New creates a sensor factory.
func New(opts Options) *Factory {
	f := &Factory{
		biasType:       domain.BiasPercentageOfValue,
		biasDriftType:  domain.DriftRandom,
		delayMinutes:   domain.DelayDefaultMinutes,
		randomSeed:     opts.RandomSeed,
		sensorLifeDays: domain.DefaultSensorLifeDays,
	}
	if opts.BiasType != "" {
		f.biasType = opts.BiasType
	}
	if opts.BiasDriftType != "" {
		f.biasDriftType = opts.BiasDriftType
	}
	if opts.DelayMinutes > 0 {
		f.delayMinutes = opts.DelayMinutes
	}
	if opts.SensorLifeDays > 0 {
		f.sensorLifeDays = opts.SensorLifeDays
	}
	return f
}

// SensorLifeDays reports the wear period the factory assumes.
func (f *Factory) SensorLifeDays() int {
	return f.sensorLifeDays
}

// Output is the result of one generation batch.
type Output struct {
	// Properties holds one immutable row per sensor.
	Properties []domain.SensorProperties

	// Traces holds the diagnostic true-to-sensor trace of each sensor,
	// index-aligned with Properties. Nil when no trace was supplied.
	Traces [][]float64
}

// Generate samples n independent property rows and, when a true-BG trace is
// supplied, the matching diagnostic traces. Same seed and parameters always
// yield the same table, independent of execution parallelism; sensor i draws
// from sub-seed seed+i. The factory does not construct the caller's sensor
// instances.
func (f *Factory) Generate(params domain.DistributionParams, trueBG []float64, n int) (*Output, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}

	out := &Output{
		Properties: make([]domain.SensorProperties, 0, n),
	}

	// Diagnostic sensors must live long enough to cover the whole trace.
	lifeDays := f.sensorLifeDays
	if need := (len(trueBG) + domain.TicksPerDay - 1) / domain.TicksPerDay; need > lifeDays {
		lifeDays = need
	}
	if len(trueBG) > 0 {
		out.Traces = make([][]float64, 0, n)
	}

	for i := 0; i < n; i++ {
		props, err := errormodel.SampleProperties(params, f.biasType, f.biasDriftType, f.delayMinutes, f.randomSeed, i)
		if err != nil {
			return nil, err
		}
		out.Properties = append(out.Properties, props)

		if len(trueBG) == 0 {
			continue
		}
		s, err := sensor.New(props, sensor.Config{SensorLifeDays: lifeDays})
		if err != nil {
			return nil, err
		}
		trace, err := s.GenerateTrace(trueBG, false, 0)
		if err != nil {
			return nil, err
		}
		out.Traces = append(out.Traces, trace)
	}

	observability.RecordSensorsGenerated(n)
	return out, nil
}
