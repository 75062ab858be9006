// Package dataset loads and synthesizes true-BG traces for the command-line
// tools and tests. Dataset construction proper is an external concern; this
// package only reads prepared value files and produces the reference
// synthetic wave.
package dataset

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"icgm-sensor-lab/internal/domain"
)

// SyntheticSine returns an n-point sine wave spanning the clinical display
// range at 5-minute sampling, one full cycle per day.
func SyntheticSine(n int) []float64 {
	mid := float64(domain.DisplayRangeMin+domain.DisplayRangeMax) / 2
	amplitude := float64(domain.DisplayRangeMax-domain.DisplayRangeMin) / 2

	out := make([]float64, n)
	for i := range out {
		t := 2 * math.Pi * float64(i) / float64(domain.TicksPerDay)
		out[i] = mid + amplitude*math.Sin(t)
	}
	return out
}

// LoadCSV reads a trace from a file with one glucose value per line.
// Blank lines and lines starting with '#' are skipped.
func LoadCSV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	defer f.Close()

	var out []float64
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("parse trace value at line %d: %w", line, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace file: %w", err)
	}
	return out, nil
}
