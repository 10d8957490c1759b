// Package mathutil provides frequency and smoothing-gain helpers that feed
// resonator construction.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ClosestFrequency returns the frequency nearest to target whose period is
// a whole number of samples at sampleRate.
func ClosestFrequency(target, sampleRate float64) float64 {
	samplesPerPeriod := math.Round(sampleRate / target)
	return sampleRate / samplesPerPeriod
}

// DopplerVelocity returns the relative velocity in m/s of a source emitting
// reference Hz that is observed at observed Hz. Positive means approaching.
// A non-positive reference yields 0.
func DopplerVelocity(observed, reference float64) float64 {
	if reference <= 0 {
		return 0
	}
	return speedOfSound * (observed - reference) / reference
}

// MidiToFrequency converts a (possibly fractional) MIDI note number to Hz.
func MidiToFrequency(note float64) float64 {
	return a4Frequency * math.Exp2((note-a4MidiNote)/semitonesPerOctave)
}

// FrequencyToMidi converts Hz to a fractional MIDI note number.
func FrequencyToMidi(frequency float64) float64 {
	return a4MidiNote + semitonesPerOctave*math.Log2(frequency/a4Frequency)
}

// SemitoneFrequencies returns count equal-tempered frequencies starting at low.
func SemitoneFrequencies(low float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = low * math.Exp2(float64(i)/semitonesPerOctave)
	}
	return out
}

// HzToMel converts Hz to mels, on the HTK scale when htk is set and the
// Slaney scale otherwise.
func HzToMel(frequency float64, htk bool) float64 {
	if htk {
		return htkMelFactor * math.Log10(1+frequency/htkBreakHz)
	}
	if frequency < slaneyMinLogHz {
		return frequency / slaneyHzPerMel
	}
	return slaneyMinLogMel + math.Log(frequency/slaneyMinLogHz)/slaneyLogStep()
}

// MelToHz is the inverse of HzToMel.
func MelToHz(mel float64, htk bool) float64 {
	if htk {
		return htkBreakHz * (math.Pow(10, mel/htkMelFactor) - 1)
	}
	if mel < slaneyMinLogMel {
		return mel * slaneyHzPerMel
	}
	return slaneyMinLogHz * math.Exp(slaneyLogStep()*(mel-slaneyMinLogMel))
}

func slaneyLogStep() float64 {
	return math.Log(slaneyLogOctave) / slaneyMelsLog
}

// MelFrequencies returns count frequencies from fmin to fmax inclusive,
// evenly spaced in mels.
func MelFrequencies(count int, fmin, fmax float64, htk bool) []float64 {
	if count <= 0 {
		return []float64{}
	}
	mels := LinearFrequencies(count, HzToMel(fmin, htk), HzToMel(fmax, htk))
	for i, m := range mels {
		mels[i] = MelToHz(m, htk)
	}
	return mels
}

// LinearFrequencies returns count evenly spaced values from fmin to fmax inclusive.
func LinearFrequencies(count int, fmin, fmax float64) []float64 {
	if count <= 0 {
		return []float64{}
	}
	if count == 1 {
		return []float64{fmin}
	}
	return floats.Span(make([]float64, count), fmin, fmax)
}

// LogFrequencies returns count log-uniformly spaced frequencies from fmin to
// fmax inclusive. Both bounds must be positive.
func LogFrequencies(count int, fmin, fmax float64) []float64 {
	if count <= 0 {
		return []float64{}
	}
	if count == 1 {
		return []float64{fmin}
	}
	return floats.LogSpan(make([]float64, count), fmin, fmax)
}
