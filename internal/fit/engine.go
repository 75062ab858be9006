// Package fit finds the distribution parameter vector minimizing the error
// model's loss: an exhaustive search over a bounded grid followed by a local
// derivative-free refinement around the best grid point.
package fit

import (
	"context"
	"errors"
	"log"
	"math"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/optimize"

	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/errormodel"
	"icgm-sensor-lab/internal/observability"
)

// ErrNoTrace is returned when Fit is called without a true-BG trace.
var ErrNoTrace = errors.New("no true bg trace given")

// Searcher produces the grid surface and the index of its best point. The
// default implementation is the exhaustive grid; a coarser stochastic
// sampler can be swapped in without changing the loss contract.
type Searcher interface {
	Search(ctx context.Context, trueBG []float64) (surface []domain.GridPoint, bestIndex int, err error)
}

// Engine fits distribution parameters to a true-BG trace.
type Engine struct {
	searchRange   SearchRange
	spec          domain.AccuracySpec
	batchSize     int
	biasType      domain.BiasType
	biasDriftType domain.BiasDriftType
	delayMinutes  int
	randomSeed    uint64
	useG6Accuracy bool
	workers       int
	verbose       bool
	searcher      Searcher
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	SearchRange   *SearchRange         // nil means DefaultSearchRange
	Spec          *domain.AccuracySpec // nil means DefaultAccuracySpec
	BatchSize     int                  // transient sensors per loss evaluation, default 100
	BiasType      domain.BiasType      // default BiasPercentageOfValue
	BiasDriftType domain.BiasDriftType // default DriftRandom
	RandomSeed    uint64               // seed for batch evaluations
	UseG6Accuracy bool                 // include the G6 penalty; also selects the 5-minute delay
	Workers       int                  // parallel grid workers, default GOMAXPROCS
	Verbose       bool                 // log grid progress
	Searcher      Searcher             // nil means the exhaustive grid search
}

// New creates a fit engine.
func New(opts Options) *Engine {
	e := &Engine{
		searchRange:   DefaultSearchRange(),
		spec:          domain.DefaultAccuracySpec(),
		batchSize:     100,
		biasType:      domain.BiasPercentageOfValue,
		biasDriftType: domain.DriftRandom,
		delayMinutes:  domain.DelayDefaultMinutes,
		randomSeed:    opts.RandomSeed,
		useG6Accuracy: opts.UseG6Accuracy,
		workers:       runtime.GOMAXPROCS(0),
		verbose:       opts.Verbose,
		searcher:      opts.Searcher,
	}

	if opts.SearchRange != nil {
		e.searchRange = *opts.SearchRange
	}
	if opts.Spec != nil {
		e.spec = *opts.Spec
	}
	if opts.BatchSize > 0 {
		e.batchSize = opts.BatchSize
	}
	if opts.BiasType != "" {
		e.biasType = opts.BiasType
	}
	if opts.BiasDriftType != "" {
		e.biasDriftType = opts.BiasDriftType
	}
	if opts.UseG6Accuracy {
		e.delayMinutes = domain.DelayG6Minutes
	}
	if opts.Workers > 0 {
		e.workers = opts.Workers
	}
	if e.searcher == nil {
		e.searcher = &gridSearcher{engine: e}
	}

	return e
}

// DelayMinutes reports the fixed sensor delay the engine's loss assumes.
func (e *Engine) DelayMinutes() int {
	return e.delayMinutes
}

// input builds the loss-evaluation request for one candidate.
func (e *Engine) input(params domain.DistributionParams, trueBG []float64) errormodel.Input {
	return errormodel.Input{
		Params:        params,
		TrueBG:        trueBG,
		Spec:          e.spec,
		BatchSize:     e.batchSize,
		BiasType:      e.biasType,
		BiasDriftType: e.biasDriftType,
		DelayMinutes:  e.delayMinutes,
		RandomSeed:    e.randomSeed,
		UseG6Accuracy: e.useG6Accuracy,
	}
}

// Fit runs the two-stage search against a true-BG trace.
func (e *Engine) Fit(ctx context.Context, trueBG []float64, datasetName string) (*domain.FitResult, error) {
	if len(trueBG) == 0 {
		return nil, ErrNoTrace
	}

	started := time.Now()

	surface, bestIndex, err := e.searcher.Search(ctx, trueBG)
	if err != nil {
		return nil, err
	}

	best := surface[bestIndex]
	if e.verbose {
		log.Printf("grid search: %d points evaluated, best loss %.6f", len(surface), best.Loss)
	}

	refinedParams, refinedLoss := e.LocalRefine(trueBG, best.Params, best.Loss)
	if e.verbose {
		log.Printf("local refine: loss %.6f -> %.6f", best.Loss, refinedLoss)
	}

	observability.RecordFitCompleted(time.Since(started).Seconds())

	return &domain.FitResult{
		DatasetName:  datasetName,
		Params:       refinedParams,
		Loss:         refinedLoss,
		GridSurface:  surface,
		DelayMinutes: e.delayMinutes,
		RandomSeed:   e.randomSeed,
	}, nil
}

// ExhaustiveSearch evaluates the loss at every grid point. Evaluation order
// across workers is irrelevant: each point is pure given (params, trace,
// seed), and the reduce is a minimum with a row-major first-seen tie-break.
func (e *Engine) ExhaustiveSearch(ctx context.Context, trueBG []float64) ([]domain.GridPoint, int, error) {
	points, err := e.searchRange.points()
	if err != nil {
		return nil, 0, err
	}

	surface := make([]domain.GridPoint, len(points))

	indexes := make(chan int)
	var wg sync.WaitGroup
	var evalErr error
	var errOnce sync.Once

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				loss, err := errormodel.Loss(e.input(points[i], trueBG))
				if err != nil {
					errOnce.Do(func() { evalErr = err })
					loss = math.Inf(1)
				}
				surface[i] = domain.GridPoint{Params: points[i], Loss: loss}
				observability.RecordGridEvaluation()
			}
		}()
	}

feed:
	for i := range points {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if evalErr != nil {
		return nil, 0, evalErr
	}

	bestIndex := 0
	for i, p := range surface {
		if p.Loss < surface[bestIndex].Loss {
			bestIndex = i
		}
	}

	return surface, bestIndex, nil
}

// LocalRefine minimizes the loss off-grid starting from the best grid point,
// using Nelder-Mead. The grid result is kept when refinement cannot improve
// on it.
func (e *Engine) LocalRefine(trueBG []float64, start domain.DistributionParams, startLoss float64) (domain.DistributionParams, float64) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			var v [8]float64
			copy(v[:], x)
			params := domain.ParamsFromVector(v)
			if !params.Valid() {
				return math.Inf(1)
			}
			loss, err := errormodel.Loss(e.input(params, trueBG))
			if err != nil {
				return math.Inf(1)
			}
			return loss
		},
	}

	initX := start.Vector()
	result, err := optimize.Minimize(problem, initX[:], nil, &optimize.NelderMead{})
	observability.RecordRefineRun()
	if err != nil || result == nil || result.F >= startLoss {
		return start, startLoss
	}

	var v [8]float64
	copy(v[:], result.X)
	return domain.ParamsFromVector(v), result.F
}

// gridSearcher adapts ExhaustiveSearch to the Searcher contract.
type gridSearcher struct {
	engine *Engine
}

func (g *gridSearcher) Search(ctx context.Context, trueBG []float64) ([]domain.GridPoint, int, error) {
	return g.engine.ExhaustiveSearch(ctx, trueBG)
}
