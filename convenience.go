package resonator

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-resonator/internal/engine"
	"github.com/tphakala/go-audio-resonator/internal/mathutil"
	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// Phasor is a unit complex number rotated by a fixed angle every sample.
type Phasor = engine.Phasor[float64]

// Oscillator is a phasor scaled by an amplitude.
type Oscillator = engine.Oscillator[float64]

// Resonator correlates an input signal with a phasor and smooths the result.
type Resonator = engine.Resonator[float64]

// NewPhasor creates a phasor at phase 0.
func NewPhasor(frequency, sampleRate float64) *Phasor {
	return engine.NewPhasor[float64](frequency, sampleRate)
}

// NewOscillator creates a cosine oscillator at phase 0.
func NewOscillator(frequency, sampleRate, amplitude float64) *Oscillator {
	return engine.NewOscillator(frequency, sampleRate, amplitude)
}

// NewResonator creates a single resonator. A beta of 0 selects alpha.
func NewResonator(frequency, sampleRate, alpha, beta float64) *Resonator {
	return engine.NewResonator(frequency, sampleRate, alpha, beta)
}

// DefaultHeuristic is the constant-Q style alpha heuristic used when
// Config.Alphas and Config.Heuristic are both nil.
var DefaultHeuristic AlphaHeuristic = mathutil.AlphaHeuristic

// NewSemitoneBank creates an array bank of count equal-tempered semitones
// starting at lowFrequency, with heuristic alphas.
func NewSemitoneBank(lowFrequency float64, count int, sampleRate float64) (Bank, error) {
	return New(&Config{
		SampleRate:  sampleRate,
		Frequencies: mathutil.SemitoneFrequencies(lowFrequency, count),
	})
}

// NewMelBank creates an array bank tuned to the centers of count Slaney mel
// bands spanning fmin to fmax, with heuristic alphas.
func NewMelBank(count int, fmin, fmax, sampleRate float64) (Bank, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: mel bank needs at least one band", ErrInvalidConfig)
	}
	return New(&Config{
		SampleRate:  sampleRate,
		Frequencies: MelBandCenters(count, fmin, fmax),
	})
}

// MelBandCenters returns the centers of count Slaney mel bands spanning
// fmin to fmax. The band edges themselves are excluded.
func MelBandCenters(count int, fmin, fmax float64) []float64 {
	if count < 1 {
		return nil
	}
	edges := mathutil.MelFrequencies(count+melBankEdges, fmin, fmax, false)
	return edges[1 : count+1]
}

// NewBandwidthSweep creates an array bank of resonators that share one
// frequency and differ in time constant (seconds).
func NewBandwidthSweep(frequency float64, timeConstants []float64, sampleRate float64) (Bank, error) {
	frequencies := make([]float64, len(timeConstants))
	alphas := make([]float64, len(timeConstants))
	for i, tau := range timeConstants {
		frequencies[i] = frequency
		alphas[i] = mathutil.AlphaFromTimeConstant(tau, sampleRate)
	}
	return New(&Config{
		SampleRate:  sampleRate,
		Frequencies: frequencies,
		Alphas:      alphas,
	})
}

// SpectralCentroid returns the power-weighted mean frequency.
// Returns 0 when the total power is zero.
func SpectralCentroid(frequencies, powers []float64) float64 {
	n := min(len(frequencies), len(powers))
	if n == 0 {
		return 0
	}

	ops := simdops.Float64Ops()
	total := ops.Sum(powers[:n])
	if total <= 0 {
		return 0
	}
	return ops.DotProductUnsafe(frequencies[:n], powers[:n]) / total
}

// DominantIndex returns the index of the largest amplitude, or -1 when empty.
func DominantIndex(amplitudes []float64) int {
	if len(amplitudes) == 0 {
		return -1
	}
	return floats.MaxIdx(amplitudes)
}

// SemitoneFrequencies returns count equal-tempered frequencies from low.
func SemitoneFrequencies(low float64, count int) []float64 {
	return mathutil.SemitoneFrequencies(low, count)
}

// MelFrequencies returns count frequencies evenly spaced on the mel scale.
// htk selects the HTK formula instead of Slaney.
func MelFrequencies(count int, fmin, fmax float64, htk bool) []float64 {
	return mathutil.MelFrequencies(count, fmin, fmax, htk)
}

// ClosestFrequency returns the frequency nearest target whose period is a
// whole number of samples.
func ClosestFrequency(target, sampleRate float64) float64 {
	return mathutil.ClosestFrequency(target, sampleRate)
}

// DopplerVelocity returns the source velocity in m/s that shifts reference
// to observed. Positive values mean the source approaches.
func DopplerVelocity(observed, reference float64) float64 {
	return mathutil.DopplerVelocity(observed, reference)
}

// AlphaFromTimeConstant converts a time constant in seconds to a gain.
func AlphaFromTimeConstant(tau, sampleRate float64) float64 {
	return mathutil.AlphaFromTimeConstant(tau, sampleRate)
}

// TimeConstant converts a gain to its time constant in seconds.
func TimeConstant(alpha, sampleRate float64) float64 {
	return mathutil.TimeConstant(alpha, sampleRate)
}
