// Package main serves a live simulated sensor: fits against a trace,
// generates one sensor, and streams its readings over websocket at an
// accelerated tick cadence. Also exposes Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"icgm-sensor-lab/internal/dataset"
	"icgm-sensor-lab/internal/generator"
	"icgm-sensor-lab/internal/observability"
	"icgm-sensor-lab/internal/sensor"
	"icgm-sensor-lab/internal/stream"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	datasetName := flag.String("dataset", "default", "Name of the true-BG dataset")
	tracePath := flag.String("trace", "", "Trace file with one mg/dL value per line (default: synthetic sine)")
	tracePoints := flag.Int("trace-points", 2880, "Points in the synthetic trace when no file is given")
	batchSize := flag.Int("batch-size", 30, "Sensors per loss evaluation")
	seed := flag.Uint64("seed", 0, "Random seed")
	tickInterval := flag.Duration("tick-interval", time.Second, "Wall-clock duration of one simulated 5-minute tick")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
		cancel()
	}()

	trueBG, err := loadTrace(*tracePath, *tracePoints)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		os.Exit(1)
	}

	gen := generator.New(generator.Options{
		BatchSize:   *batchSize,
		RandomSeed:  *seed,
		DatasetName: *datasetName,
		Verbose:     *verbose,
	})

	log.Printf("fitting against %d-point trace...", len(trueBG))
	if _, err := gen.Fit(ctx, trueBG); err != nil {
		fmt.Fprintf(os.Stderr, "Fit error: %v\n", err)
		os.Exit(1)
	}

	sensors, _, err := gen.GenerateSensors(1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation error: %v\n", err)
		os.Exit(1)
	}
	live := sensors[0]

	hub := stream.NewHub(nil)
	defer hub.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/ws", hub.Handler())

	server := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	go runSensor(ctx, live, trueBG, *datasetName, hub, *tickInterval)

	log.Printf("serving on %s (ws at /ws, metrics at /metrics)", *addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// loadTrace reads the trace file or synthesizes the default sine wave.
func loadTrace(path string, points int) ([]float64, error) {
	if path == "" {
		return dataset.SyntheticSine(points), nil
	}
	return dataset.LoadCSV(path)
}

// runSensor walks the sensor through the trace one tick per interval,
// broadcasting each committed reading until the trace, the sensor life, or
// the context ends.
func runSensor(ctx context.Context, live *sensor.ICGMSensor, trueBG []float64, datasetName string, hub *stream.Hub, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < len(trueBG); i++ {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := live.GetBG(trueBG[i], nil, true, 0); err != nil {
				log.Printf("sensor stopped: %v", err)
				return
			}
			readings := live.Readings(datasetName)
			if err := hub.Broadcast(readings[len(readings)-1]); err != nil {
				log.Printf("broadcast failed: %v", err)
			}
			if i < len(trueBG)-1 {
				if err := live.Update(now); err != nil {
					log.Printf("sensor expired: %v", err)
					return
				}
			}
		}
	}
}
