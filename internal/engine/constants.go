package engine

import "math"

// Phasor constants
const (
	// CorrectionInterval is the number of rotations between automatic
	// renormalizations of the phasor state.
	CorrectionInterval = 1024

	twoPi = 2 * math.Pi

	// Newton step toward |Z| = 1: k = (3 - |Z|²) / 2
	newtonNumerator = 3.0
	newtonDivisor   = 2.0
)

// Resonator constants
const (
	// AmplitudeFloor is the amplitude at or below which phase is too noisy
	// to track and the tracked frequency reverts to nominal.
	AmplitudeFloor = 0.001

	// Maximum EMA weight for batch-scaled frequency tracking.
	maxLocalAlpha = 1.0
)

// Bank constants
const (
	// DefaultLanes is the default number of worker lanes for concurrent bank updates.
	DefaultLanes = 8

	// Split real/imaginary layout uses two halves per buffer.
	complexParts = 2

	// float64 values held per resonator by the vector bank: nine split
	// complex buffers plus nine per-resonator buffers.
	vectorBuffersPerResonator = 27

	bytesPerFloat64 = 8
)
