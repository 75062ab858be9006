// Package main runs the full two-phase pipeline: fit distribution
// parameters to a true-BG trace, generate sensors, and write the property
// table and reports. Optionally persists properties to Postgres and the
// diagnostic readings to ClickHouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"icgm-sensor-lab/internal/dataset"
	"icgm-sensor-lab/internal/domain"
	"icgm-sensor-lab/internal/factory"
	"icgm-sensor-lab/internal/generator"
	"icgm-sensor-lab/internal/reporting"
	chstore "icgm-sensor-lab/internal/storage/clickhouse"
	"icgm-sensor-lab/internal/storage/migrations"
	"icgm-sensor-lab/internal/storage/postgres"
)

func main() {
	datasetName := flag.String("dataset", "default", "Name of the true-BG dataset")
	tracePath := flag.String("trace", "", "Trace file with one mg/dL value per line (default: synthetic sine)")
	tracePoints := flag.Int("trace-points", 2880, "Points in the synthetic trace when no file is given")
	numSensors := flag.Int("sensors", 30, "Number of sensors to generate")
	batchSize := flag.Int("batch-size", 100, "Sensors per loss evaluation")
	seed := flag.Uint64("seed", 0, "Random seed")
	useG6 := flag.Bool("g6-accuracy", false, "Include the G6 reference-accuracy term in the loss")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", "", "Persist fit and properties to this Postgres DSN")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "Persist diagnostic readings to this ClickHouse DSN")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	trueBG, err := loadTrace(*tracePath, *tracePoints)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== iCGM Sensor Generation ===")
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
	fmt.Printf("Fit completed: loss %.6f over %d grid points\n", result.Loss, len(result.GridSurface))

	sensors, out, err := gen.GenerateSensors(*numSensors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d sensors\n", len(sensors))

	if err := writeReports(*outputDir, result, out); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}

	if *postgresDSN != "" {
		if err := persist(ctx, *postgresDSN, result, out); err != nil {
			fmt.Fprintf(os.Stderr, "Persist error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Fit and properties stored to Postgres")
	}

	if *clickhouseDSN != "" {
		if err := persistReadings(ctx, *clickhouseDSN, *datasetName, trueBG, out); err != nil {
			fmt.Fprintf(os.Stderr, "Readings persist error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Diagnostic readings stored to ClickHouse")
	}
}

// loadTrace reads the trace file or synthesizes the default sine wave.
func loadTrace(path string, points int) ([]float64, error) {
	if path == "" {
		return dataset.SyntheticSine(points), nil
	}
	return dataset.LoadCSV(path)
}

// writeReports renders the markdown report, the property CSV and the grid
// surface CSV into the output directory.
func writeReports(dir string, result *domain.FitResult, out *factory.Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	report := &reporting.Report{
		GeneratedAt: time.Now().UTC(),
		Fit:         result,
		Spec:        domain.DefaultAccuracySpec(),
		Properties:  out.Properties,
	}

	files := map[string]string{
		"sensor_report.md":      reporting.RenderMarkdown(report),
		"sensor_properties.csv": reporting.RenderPropertiesCSV(out.Properties),
		"grid_surface.csv":      reporting.RenderGridSurfaceCSV(result.GridSurface),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// persist stores the fit result and the property table, running migrations
// first.
func persist(ctx context.Context, dsn string, result *domain.FitResult, out *factory.Output) error {
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	if err := postgres.NewFitResultStore(pool).Insert(ctx, result); err != nil {
		return err
	}
	return postgres.NewSensorPropertiesStore(pool).InsertBulk(ctx, result.DatasetName, out.Properties)
}

// persistReadings stores the diagnostic true-to-sensor traces.
func persistReadings(ctx context.Context, dsn, datasetName string, trueBG []float64, out *factory.Output) error {
	conn, err := chstore.NewConn(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		return err
	}

	var readings []domain.SensorReading
	for i, trace := range out.Traces {
		for tick, value := range trace {
			readings = append(readings, domain.SensorReading{
				DatasetName: datasetName,
				SensorNum:   out.Properties[i].SensorNum,
				Tick:        tick,
				TrueBG:      trueBG[tick],
				SensorBG:    value,
			})
		}
	}
	return chstore.NewSensorReadingStore(conn).InsertBulk(ctx, readings)
}
