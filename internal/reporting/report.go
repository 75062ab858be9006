// Package reporting renders fit results and sensor property tables for
// human consumption.
package reporting

import (
	"time"

	"icgm-sensor-lab/internal/domain"
)

// Report is the summary of one fit-and-generate run.
type Report struct {
	GeneratedAt time.Time // report creation time

	Fit        *domain.FitResult         // fitted parameters and loss
	Rates      *domain.AccuracyRates     // measured pass rates at the fitted vector, optional
	Spec       domain.AccuracySpec       // thresholds the fit targeted
	Properties []domain.SensorProperties // generated sensor property table
}
