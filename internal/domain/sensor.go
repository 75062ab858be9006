package domain

// BiasDriftType selects how a sensor's bias multiplier evolves over its life.
type BiasDriftType string

// Supported bias drift types.
const (
	DriftRandom BiasDriftType = "random" // sinusoidal drift with per-sensor phase
	DriftLinear BiasDriftType = "linear" // reserved, not implemented
	DriftNone   BiasDriftType = "none"   // constant multiplier of 1.0
)

// BiasType selects the normalization policy for the initial bias draw.
type BiasType string

// Supported bias types.
const (
	// BiasPercentageOfValue treats the drawn bias as a percentage-of-value
	// distortion normalized by the published G6 norm factor.
	BiasPercentageOfValue BiasType = "percentage_of_value"

	// BiasAbsolute treats the drawn bias as an additive mg/dL offset.
	BiasAbsolute BiasType = "absolute"
)

// PercentageBiasNormFactor is the normalization constant for
// percentage-of-value bias, from the published Dexcom G6 evaluation.
const PercentageBiasNormFactor = 55.0

// NormFactorFor returns the bias normalization factor for a bias type.
func NormFactorFor(biasType BiasType) float64 {
	if biasType == BiasPercentageOfValue {
		return PercentageBiasNormFactor
	}
	return 1.0
}

// Fixed sensor delays, chosen from published G6 delay data
// (Vettoretti et al., Sensors 2019).
const (
	DelayG6Minutes      = 5  // delay when the G6 accuracy term is in the loss
	DelayDefaultMinutes = 10 // delay otherwise
)

// DefaultSensorLifeDays is the nominal sensor wear period.
const DefaultSensorLifeDays = 10

// SensorProperties is one immutable row of per-sensor derived parameters.
// Produced once by the factory, then owned by exactly one sensor instance.
type SensorProperties struct {
	SensorNum             int           // index of the sensor within its batch
	InitialBias           float64       // bias drawn from the fitted S_U distribution
	PhiDrift              float64       // per-sensor drift phase offset (radians)
	BiasDriftRangeStart   float64       // lower drift multiplier bound
	BiasDriftRangeEnd     float64       // upper drift multiplier bound
	BiasDriftOscillations float64       // sinusoid oscillation count over sensor life
	BiasNormFactor        float64       // normalization factor from the bias-type policy
	NoiseCoefficient      float64       // per-tick noise standard deviation (mg/dL)
	DelayMinutes          int           // fixed reporting delay (minutes)
	RandomSeed            uint64        // seed for the sensor's noise/drift arrays
	BiasDriftType         BiasDriftType // drift model selector
}

// BiasFactor is the multiplicative distortion the sensor applies to every
// delayed true value.
func (p SensorProperties) BiasFactor() float64 {
	norm := p.BiasNormFactor
	if norm < 1 {
		norm = 1
	}
	return (p.BiasNormFactor + p.InitialBias) / norm
}
