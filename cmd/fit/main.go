// Package main fits sensor distribution parameters to a true-BG trace and
// prints the result as markdown. Optionally persists the fit to Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"icgm-sensor-lab/internal/dataset"
	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/errormodel"
	"icgm-sensor-lab/internal/generator"
	"icgm-sensor-lab/internal/reporting"
	"icgm-sensor-lab/internal/storage/migrations"
	"icgm-sensor-lab/internal/storage/postgres"
)

func main() {
	datasetName := flag.String("dataset", "default", "Name of the true-BG dataset")
	tracePath := flag.String("trace", "", "Trace file with one mg/dL value per line (default: synthetic sine)")
	tracePoints := flag.Int("trace-points", 2880, "Points in the synthetic trace when no file is given")
	batchSize := flag.Int("batch-size", 100, "Sensors per loss evaluation")
	seed := flag.Uint64("seed", 0, "Random seed")
	useG6 := flag.Bool("g6-accuracy", false, "Include the G6 reference-accuracy term in the loss")
	postgresDSN := flag.String("postgres-dsn", "", "Persist the fit result to this Postgres DSN")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling fit...\n", sig)
		cancel()
	}()

	trueBG, err := loadTrace(*tracePath, *tracePoints)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		os.Exit(1)
	}

	gen := generator.New(generator.Options{
		BatchSize:     *batchSize,
		UseG6Accuracy: *useG6,
		RandomSeed:    *seed,
		DatasetName:   *datasetName,
		Verbose:       *verbose,
	})

	result, err := gen.Fit(ctx, trueBG)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fit error: %v\n", err)
		os.Exit(1)
	}

	rates, err := errormodel.Rates(errormodel.Input{
		Params:        result.Params,
		TrueBG:        trueBG,
		Spec:          domain.DefaultAccuracySpec(),
		BatchSize:     *batchSize,
		BiasType:      domain.BiasPercentageOfValue,
		BiasDriftType: domain.DriftRandom,
		DelayMinutes:  result.DelayMinutes,
		RandomSeed:    *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rate evaluation error: %v\n", err)
		os.Exit(1)
	}

	report := &reporting.Report{
		GeneratedAt: time.Now().UTC(),
		Fit:         result,
		Rates:       &rates,
		Spec:        domain.DefaultAccuracySpec(),
	}
	fmt.Print(reporting.RenderMarkdown(report))

	if *postgresDSN != "" {
		if err := persistFit(ctx, *postgresDSN, result); err != nil {
			fmt.Fprintf(os.Stderr, "Persist error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Fit result stored for dataset %q\n", result.DatasetName)
	}
}

// loadTrace reads the trace file or synthesizes the default sine wave.
func loadTrace(path string, points int) ([]float64, error) {
	if path == "" {
		return dataset.SyntheticSine(points), nil
	}
	return dataset.LoadCSV(path)
}

// persistFit stores the fit result, running migrations first.
func persistFit(ctx context.Context, dsn string, result *domain.FitResult) error {
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	return postgres.NewFitResultStore(pool).Insert(ctx, result)
}
