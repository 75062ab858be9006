package domain

import "time"

// Sampling and display constants for CGM traces.
const (
	// IntervalMinutes is the fixed sampling interval of a trace.
	IntervalMinutes = 5

	// TicksPerDay is the number of 5-minute samples in one day.
	TicksPerDay = 288

	// DisplayRangeMin is the lower clinical display bound (mg/dL).
	DisplayRangeMin = 40

	// DisplayRangeMax is the upper clinical display bound (mg/dL).
	DisplayRangeMax = 400
)

// TickDuration is the wall-clock duration of one simulation tick.
const TickDuration = IntervalMinutes * time.Minute

// ClampBG clamps a raw sensor value to the clinical display range and
// rounds it to the nearest integer. This is the only transformation applied
// to values leaving the simulation.
func ClampBG(raw float64) int {
	rounded := int(raw + 0.5)
	if raw < 0 {
		rounded = int(raw - 0.5)
	}
	if rounded < DisplayRangeMin {
		return DisplayRangeMin
	}
	if rounded > DisplayRangeMax {
		return DisplayRangeMax
	}
	return rounded
}

// SensorReading is one committed (true, reported) pair of a simulated sensor.
// Corresponds to sensor_readings table in ClickHouse.
type SensorReading struct {
	DatasetName string    // dataset the generating fit was computed against
	SensorNum   int       // sensor index within its generation batch
	Tick        int       // sensor-relative tick (0 = insertion)
	Timestamp   time.Time // wall-clock timestamp, zero when no start time was set
	TrueBG      float64   // true glucose value supplied to the sensor (mg/dL)
	SensorBG    float64   // raw reported value before display clamping (mg/dL)
}
