// Package sensor implements the stateful CGM sensor simulation unit.
package sensor

import (
	"errors"
	"time"
)

// Sensor errors. Temporal violations are terminal for the sensor that raised
// them; retrying the same operation will always fail again.
var (
	// ErrNotStarted is returned when an operation references a tick before
	// the start of the sensor's life.
	ErrNotStarted = errors.New("time index before sensor start")

	// ErrExpired is returned when an operation references a tick past the
	// end of the sensor's life.
	ErrExpired = errors.New("sensor has expired")

	// ErrInvalidSensorLife is returned when a sensor is constructed with a
	// non-positive life in days.
	ErrInvalidSensorLife = errors.New("sensor life days must be a positive integer")

	// ErrInvalidDelay is returned when the reporting delay is negative or
	// not a whole number of ticks. A sub-tick delay has no history index
	// to read from.
	ErrInvalidDelay = errors.New("delay minutes must be a non-negative multiple of the tick interval")

	// ErrLinearDriftUnsupported is returned for the reserved "linear" drift
	// type. Configuration error, never defaulted.
	ErrLinearDriftUnsupported = errors.New("linear bias drift is not implemented")

	// ErrUnknownDriftType is returned for a drift type outside the known set.
	ErrUnknownDriftType = errors.New("unknown bias drift type")
)

// State is a snapshot of a sensor's mutable clock.
type State struct {
	TimeIndex     int // current tick since insertion
	LifetimeTicks int // total ticks in the sensor's life

	// Expired is true at the final tick of the sensor life. The sensor
	// still reports readings there; only advancing the clock fails.
	Expired bool

	SensorTime time.Time // wall-clock time of the current tick, zero if untracked
}

// Sensor is the capability interface of a simulated CGM sensor. ICGMSensor is
// the single concrete variant; alternate hardware profiles implement the same
// interface without touching the simulation engine.
type Sensor interface {
	// GetBG converts one true glucose value into the sensor-reported value.
	// history supplies delayed true values; nil means the sensor's own
	// committed history. offset addresses ticks relative to the current
	// time index without advancing the clock.
	GetBG(trueBG float64, history []float64, persist bool, offset int) (float64, error)

	// GenerateTrace applies GetBG sequentially over a trace, incrementing
	// the offset each step.
	GenerateTrace(trueBGs []float64, persist bool, offset int) ([]float64, error)

	// GetState reports the sensor's clock snapshot.
	GetState() State

	// Update advances the sensor clock by exactly one tick.
	Update(now time.Time) error
}
