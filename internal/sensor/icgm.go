package sensor

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"icgm-sensor-lab/internal/dist"
	"icgm-sensor-lab/internal/domain"
)

// Config holds construction options for an ICGMSensor.
type Config struct {
	// SensorLifeDays is the wear period in days. Zero means the default.
	SensorLifeDays int

	// TimeIndex is the initial tick within the sensor life. Must be in
	// [0, lifetime_ticks-1].
	TimeIndex int

	// StartTime is the wall-clock time of TimeIndex. Zero disables
	// timestamp tracking.
	StartTime time.Time
}

// ICGMSensor simulates one physical iCGM sensor: a noisy, biased, delayed,
// drifting view of the true glucose signal, deterministic in its random seed.
// Not safe for concurrent mutation; each sensor is an independent unit.
type ICGMSensor struct {
	props         domain.SensorProperties
	lifeDays      int
	lifetimeTicks int
	biasFactor    float64

	// Precomputed once at construction, full sensor lifetime.
	noise           []float64
	driftMultiplier []float64

	// Mutable clock and committed history.
	timeIndex  int
	sensorTime time.Time
	trackTime  bool

	trueBGHistory   []float64
	sensorBGHistory []float64
	timeHistory     []time.Time
}

var _ Sensor = (*ICGMSensor)(nil)

// New constructs an ICGMSensor, validating the configuration and
// precomputing the sensor's noise and drift-multiplier series.
func New(props domain.SensorProperties, cfg Config) (*ICGMSensor, error) {
	lifeDays := cfg.SensorLifeDays
	if lifeDays == 0 {
		lifeDays = domain.DefaultSensorLifeDays
	}
	if lifeDays < 0 {
		return nil, ErrInvalidSensorLife
	}
	if props.DelayMinutes < 0 || props.DelayMinutes%domain.IntervalMinutes != 0 {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDelay, props.DelayMinutes)
	}

	s := &ICGMSensor{
		props:         props,
		lifeDays:      lifeDays,
		lifetimeTicks: lifeDays * domain.TicksPerDay,
		biasFactor:    props.BiasFactor(),
		timeIndex:     cfg.TimeIndex,
		sensorTime:    cfg.StartTime,
		trackTime:     !cfg.StartTime.IsZero(),
	}

	if err := s.validateTimeIndex(cfg.TimeIndex); err != nil {
		return nil, err
	}

	s.noise = dist.NoiseSeries(s.lifetimeTicks, props.NoiseCoefficient, rand.NewSource(props.RandomSeed))

	switch props.BiasDriftType {
	case domain.DriftRandom:
		s.driftMultiplier = dist.DriftMultipliers(
			s.lifetimeTicks,
			props.BiasDriftOscillations,
			props.PhiDrift,
			props.BiasDriftRangeStart,
			props.BiasDriftRangeEnd,
		)
	case domain.DriftNone:
		s.driftMultiplier = dist.ConstantMultipliers(s.lifetimeTicks)
	case domain.DriftLinear:
		return nil, ErrLinearDriftUnsupported
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriftType, props.BiasDriftType)
	}

	return s, nil
}

// validateTimeIndex checks a proposed tick against the sensor life.
func (s *ICGMSensor) validateTimeIndex(timeIndex int) error {
	if timeIndex < 0 {
		return fmt.Errorf("%w: time index %d", ErrNotStarted, timeIndex)
	}
	if timeIndex > s.lifetimeTicks-1 {
		return fmt.Errorf("%w: time index %d outside life of %d ticks", ErrExpired, timeIndex, s.lifetimeTicks)
	}
	return nil
}

// Properties returns the sensor's immutable property row.
func (s *ICGMSensor) Properties() domain.SensorProperties {
	return s.props
}

// GetState reports the sensor's clock snapshot. Expired flags the final
// reportable tick, not a dead sensor: GetBG still works there, Update does not.
func (s *ICGMSensor) GetState() State {
	return State{
		TimeIndex:     s.timeIndex,
		LifetimeTicks: s.lifetimeTicks,
		Expired:       s.timeIndex >= s.lifetimeTicks-1,
		SensorTime:    s.sensorTime,
	}
}

// Update advances the sensor clock by one tick. Advancing past the final
// tick of the sensor life fails with ErrExpired.
func (s *ICGMSensor) Update(now time.Time) error {
	next := s.timeIndex + 1
	if err := s.validateTimeIndex(next); err != nil {
		return err
	}
	s.timeIndex = next
	s.sensorTime = now
	s.trackTime = !now.IsZero()
	return nil
}

// GetBG computes the sensor-reported value for one true glucose value.
//
// The fixed delay is applied by indexing delay/5 ticks back into the supplied
// history; when the history is shorter than the delay the reading is NaN
// (not yet available). When persist is set, the (true, reported, timestamp)
// triple is appended to the sensor's committed histories.
func (s *ICGMSensor) GetBG(trueBG float64, history []float64, persist bool, offset int) (float64, error) {
	if history == nil {
		history = s.trueBGHistory
	}

	relativeIndex := s.timeIndex + offset
	if err := s.validateTimeIndex(relativeIndex); err != nil {
		return 0, err
	}

	timestamp := s.sensorTime
	if s.trackTime {
		timestamp = s.sensorTime.Add(time.Duration(offset) * domain.TickDuration)
	}

	delayedTrue := trueBG
	if s.props.DelayMinutes > 0 {
		delayTicks := s.props.DelayMinutes / domain.IntervalMinutes
		if len(history) >= delayTicks {
			delayedTrue = history[len(history)-delayTicks]
		} else {
			delayedTrue = math.NaN()
		}
	}

	value := delayedTrue*s.biasFactor*s.driftMultiplier[relativeIndex] + s.noise[relativeIndex]

	if persist {
		s.trueBGHistory = append(s.trueBGHistory, trueBG)
		s.sensorBGHistory = append(s.sensorBGHistory, value)
		s.timeHistory = append(s.timeHistory, timestamp)
	}

	return value, nil
}

// GenerateTrace applies GetBG over a true-BG trace, feeding each reading a
// growing temporary history so delayed lookback sees the values preceding it
// within the trace. The temporary history is independent of the committed
// one; committed state only changes when persist is set.
func (s *ICGMSensor) GenerateTrace(trueBGs []float64, persist bool, offset int) ([]float64, error) {
	tempHistory := make([]float64, 0, len(trueBGs))
	out := make([]float64, 0, len(trueBGs))

	for _, trueBG := range trueBGs {
		value, err := s.GetBG(trueBG, tempHistory, persist, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
		tempHistory = append(tempHistory, trueBG)
		offset++
	}

	return out, nil
}

// Backfill commits readings for the ticks leading up to and including the
// current time index, computed from the supplied true values. Fails when the
// window would precede tick 0 of the sensor life.
func (s *ICGMSensor) Backfill(trueBGs []float64) error {
	offset := -len(trueBGs) + 1
	if err := s.validateTimeIndex(s.timeIndex + offset); err != nil {
		return fmt.Errorf("backfill window outside sensor life: %w", err)
	}
	if _, err := s.GenerateTrace(trueBGs, true, offset); err != nil {
		return err
	}
	return nil
}

// LoopInputs returns the committed (timestamp, value) pairs with values
// clamped to the clinical display range and rounded to the nearest integer.
// This is the externally stable output contract of the simulation.
func (s *ICGMSensor) LoopInputs() ([]time.Time, []int) {
	timestamps := make([]time.Time, len(s.timeHistory))
	copy(timestamps, s.timeHistory)

	values := make([]int, len(s.sensorBGHistory))
	for i, raw := range s.sensorBGHistory {
		values[i] = domain.ClampBG(raw)
	}
	return timestamps, values
}

// History returns copies of the committed true and sensor BG histories.
func (s *ICGMSensor) History() (trueBGs, sensorBGs []float64) {
	trueBGs = make([]float64, len(s.trueBGHistory))
	copy(trueBGs, s.trueBGHistory)
	sensorBGs = make([]float64, len(s.sensorBGHistory))
	copy(sensorBGs, s.sensorBGHistory)
	return trueBGs, sensorBGs
}

// Noise returns a copy of the sensor's precomputed noise series.
func (s *ICGMSensor) Noise() []float64 {
	out := make([]float64, len(s.noise))
	copy(out, s.noise)
	return out
}

// DriftMultipliers returns a copy of the precomputed drift series.
func (s *ICGMSensor) DriftMultipliers() []float64 {
	out := make([]float64, len(s.driftMultiplier))
	copy(out, s.driftMultiplier)
	return out
}

// Readings converts the committed history into domain reading rows for
// storage and streaming. Ticks are assigned backwards from the current time
// index, matching the order values were committed.
func (s *ICGMSensor) Readings(datasetName string) []domain.SensorReading {
	n := len(s.sensorBGHistory)
	out := make([]domain.SensorReading, 0, n)
	startTick := s.timeIndex - n + 1
	for i := 0; i < n; i++ {
		out = append(out, domain.SensorReading{
			DatasetName: datasetName,
			SensorNum:   s.props.SensorNum,
			Tick:        startTick + i,
			Timestamp:   s.timeHistory[i],
			TrueBG:      s.trueBGHistory[i],
			SensorBG:    s.sensorBGHistory[i],
		})
	}
	return out
}
