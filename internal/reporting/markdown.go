package reporting

import (
	"fmt"
	"strings"
	"time"
)

// Criterion labels in threshold order.
var criterionNames = [7]string{"A", "B", "C", "D", "E", "F", "G"}

// RenderMarkdown renders a report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# iCGM Sensor Generation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	if r.Fit != nil {
		sb.WriteString(fmt.Sprintf("Dataset: %s | Loss: %.6f | Delay: %d min | Seed: %d\n\n",
			r.Fit.DatasetName, r.Fit.Loss, r.Fit.DelayMinutes, r.Fit.RandomSeed))

		// Fitted parameters
		sb.WriteString("## Fitted Parameters\n\n")
		sb.WriteString("| Parameter | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Shape a | %.6f |\n", r.Fit.Params.A))
		sb.WriteString(fmt.Sprintf("| Shape b | %.6f |\n", r.Fit.Params.B))
		sb.WriteString(fmt.Sprintf("| Location | %.6f |\n", r.Fit.Params.Mu))
		sb.WriteString(fmt.Sprintf("| Scale | %.6f |\n", r.Fit.Params.Sigma))
		sb.WriteString(fmt.Sprintf("| Noise Coefficient | %.6f |\n", r.Fit.Params.NoiseCoefficient))
		sb.WriteString(fmt.Sprintf("| Drift Range Min | %.6f |\n", r.Fit.Params.BiasDriftRangeMin))
		sb.WriteString(fmt.Sprintf("| Drift Range Max | %.6f |\n", r.Fit.Params.BiasDriftRangeMax))
		sb.WriteString(fmt.Sprintf("| Drift Oscillations | %.6f |\n", r.Fit.Params.BiasDriftOscillations))
		sb.WriteString(fmt.Sprintf("| Grid Points Evaluated | %d |\n", len(r.Fit.GridSurface)))
		sb.WriteString("\n")
	}

	// Special controls
	if r.Rates != nil {
		sb.WriteString("## Special Controls\n\n")
		sb.WriteString("| Criterion | Threshold | Measured | Status |\n")
		sb.WriteString("|-----------|-----------|----------|--------|\n")
		thresholds := r.Spec.Thresholds()
		measured := r.Rates.Rates()
		for i := range thresholds {
			status := "FAIL"
			if measured[i] >= thresholds[i] {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.4f | %s |\n",
				criterionNames[i], thresholds[i], measured[i], status))
		}
		sb.WriteString("\n")
	}

	// Sensors
	if len(r.Properties) > 0 {
		sb.WriteString(fmt.Sprintf("## Sensors (%d)\n\n", len(r.Properties)))
		sb.WriteString("| # | Initial Bias | Phi | Drift Range | Noise | Delay | Seed |\n")
		sb.WriteString("|---|--------------|-----|-------------|-------|-------|------|\n")
		for _, p := range r.Properties {
			sb.WriteString(fmt.Sprintf("| %d | %.4f | %.4f | [%.3f, %.3f] | %.4f | %d min | %d |\n",
				p.SensorNum, p.InitialBias, p.PhiDrift,
				p.BiasDriftRangeStart, p.BiasDriftRangeEnd,
				p.NoiseCoefficient, p.DelayMinutes, p.RandomSeed))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
