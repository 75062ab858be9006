// Package generator composes the fit engine and sensor factory into the
// two-phase API: Fit against a true-BG trace, then GenerateSensors.
package generator

import (
	"context"
	"errors"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/factory"
	"icgm-sensor-lab/internal/fit"
	"icgm-sensor-lab/internal/sensor"
)

// ErrNotFitted is returned when sensors are requested before a fit.
var ErrNotFitted = errors.New("generate_sensors called before fit")

// Generator is the two-phase sensor generator.
type Generator struct {
	engine         *fit.Engine
	biasType       domain.BiasType
	biasDriftType  domain.BiasDriftType
	randomSeed     uint64
	sensorLifeDays int
	datasetName    string

	trueBG    []float64
	fitResult *domain.FitResult
}

// Options configures a Generator. Zero values select defaults.
type Options struct {
	Spec           *domain.AccuracySpec // nil means the published defaults
	SearchRange    *fit.SearchRange     // nil means the default coarse grid
	BatchSize      int                  // transient sensors per loss evaluation
	BiasType       domain.BiasType      // bias normalization policy
	BiasDriftType  domain.BiasDriftType // drift model selector
	UseG6Accuracy  bool                 // stricter loss; selects the 5-minute delay
	RandomSeed     uint64               // top-level seed for fit and generation
	SensorLifeDays int                  // wear period of generated sensors
	DatasetName    string               // name of the true-BG dataset, for reporting
	Workers        int                  // parallel grid workers
	Verbose        bool                 // log fit progress
}

// New creates a sensor generator.
func New(opts Options) *Generator {
	g := &Generator{
		engine: fit.New(fit.Options{
			SearchRange:   opts.SearchRange,
			Spec:          opts.Spec,
			BatchSize:     opts.BatchSize,
			BiasType:      opts.BiasType,
			BiasDriftType: opts.BiasDriftType,
			RandomSeed:    opts.RandomSeed,
			UseG6Accuracy: opts.UseG6Accuracy,
			Workers:       opts.Workers,
			Verbose:       opts.Verbose,
		}),
		biasType:       domain.BiasPercentageOfValue,
		biasDriftType:  domain.DriftRandom,
		randomSeed:     opts.RandomSeed,
		sensorLifeDays: domain.DefaultSensorLifeDays,
		datasetName:    opts.DatasetName,
	}
	if opts.BiasType != "" {
		g.biasType = opts.BiasType
	}
	if opts.BiasDriftType != "" {
		g.biasDriftType = opts.BiasDriftType
	}
	if opts.SensorLifeDays > 0 {
		g.sensorLifeDays = opts.SensorLifeDays
	}
	if g.datasetName == "" {
		g.datasetName = "default"
	}
	return g
}

// Fit searches for the distribution parameters matching the accuracy
// specification against the supplied true-BG trace and stores the result.
func (g *Generator) Fit(ctx context.Context, trueBG []float64) (*domain.FitResult, error) {
	if len(trueBG) == 0 {
		return nil, fit.ErrNoTrace
	}

	result, err := g.engine.Fit(ctx, trueBG, g.datasetName)
	if err != nil {
		return nil, err
	}

	g.trueBG = trueBG
	g.fitResult = result
	return result, nil
}

// FitResult returns the stored fit, nil before Fit has completed.
func (g *Generator) FitResult() *domain.FitResult {
	return g.fitResult
}

// GenerateSensors draws n property rows from the fitted distribution and
// constructs one sensor instance per row. Calling it before Fit is a usage
// error.
func (g *Generator) GenerateSensors(n int) ([]*sensor.ICGMSensor, *factory.Output, error) {
	if g.fitResult == nil {
		return nil, nil, ErrNotFitted
	}

	f := factory.New(factory.Options{
		BiasType:       g.biasType,
		BiasDriftType:  g.biasDriftType,
		DelayMinutes:   g.fitResult.DelayMinutes,
		RandomSeed:     g.randomSeed,
		SensorLifeDays: g.sensorLifeDays,
	})

	out, err := f.Generate(g.fitResult.Params, g.trueBG, n)
	if err != nil {
		return nil, nil, err
	}

	sensors := make([]*sensor.ICGMSensor, 0, n)
	for _, props := range out.Properties {
		s, err := sensor.New(props, sensor.Config{SensorLifeDays: g.sensorLifeDays})
		if err != nil {
			return nil, nil, err
		}
		sensors = append(sensors, s)
	}

	return sensors, out, nil
}
