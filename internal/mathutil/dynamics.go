package mathutil

import "math"

// TimeConstant returns the time constant in seconds of an exponential
// moving average with gain alpha at sampleRate.
func TimeConstant(alpha, sampleRate float64) float64 {
	return -1 / (sampleRate * math.Log1p(-alpha))
}

// AlphaFromTimeConstant returns the exponential moving average gain with
// time constant tau seconds at sampleRate.
func AlphaFromTimeConstant(tau, sampleRate float64) float64 {
	return -math.Expm1(-1 / (sampleRate * tau))
}

// AlphaHeuristic returns a frequency-dependent gain for a resonator at
// frequency. The time constant grows with log10(1+frequency)/frequency, so
// low resonators get narrower bandwidths in absolute Hz, close to
// constant-Q. k scales the time constant; larger k means narrower bands.
func AlphaHeuristic(frequency, sampleRate, k float64) float64 {
	if k <= 0 {
		k = DefaultHeuristicK
	}
	tau := k * math.Log10(1+frequency) / frequency
	return AlphaFromTimeConstant(tau, sampleRate)
}
