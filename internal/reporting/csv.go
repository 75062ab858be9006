package reporting

import (
	"fmt"
	"strings"

	"icgm-sensor-lab/internal/domain"
)

// RenderPropertiesCSV renders a sensor property table as CSV string.
func RenderPropertiesCSV(rows []domain.SensorProperties) string {
	var sb strings.Builder

	// Header
	sb.WriteString("sensor_num,initial_bias,phi_drift,bias_drift_range_start,bias_drift_range_end,")
	sb.WriteString("bias_drift_oscillations,bias_norm_factor,noise_coefficient,")
	sb.WriteString("delay_minutes,random_seed,bias_drift_type\n")

	// Rows
	for _, p := range rows {
		sb.WriteString(fmt.Sprintf("%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%d,%s\n",
			p.SensorNum,
			p.InitialBias,
			p.PhiDrift,
			p.BiasDriftRangeStart,
			p.BiasDriftRangeEnd,
			p.BiasDriftOscillations,
			p.BiasNormFactor,
			p.NoiseCoefficient,
			p.DelayMinutes,
			p.RandomSeed,
			p.BiasDriftType,
		))
	}

	return sb.String()
}

// RenderGridSurfaceCSV renders the exhaustive-search surface as CSV string,
// in the row-major order it was evaluated.
func RenderGridSurfaceCSV(surface []domain.GridPoint) string {
	var sb strings.Builder

	sb.WriteString("shape_a,shape_b,location,scale,noise_coefficient,")
	sb.WriteString("bias_drift_range_min,bias_drift_range_max,bias_drift_oscillations,loss\n")

	for _, gp := range surface {
		v := gp.Params.Vector()
		sb.WriteString(fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], gp.Loss))
	}

	return sb.String()
}
