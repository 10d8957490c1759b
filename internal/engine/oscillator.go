package engine

import (
	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

// Oscillator produces a sinusoid sample by sample from an embedded Phasor.
// Each sample is amplitude·Zc.
type Oscillator[F simdops.Float] struct {
	Phasor[F]

	amplitude F
	ops       *simdops.Ops[F]
}

// NewOscillator creates an oscillator at phase 0.
func NewOscillator[F simdops.Float](frequency, sampleRate float64, amplitude F) *Oscillator[F] {
	o := &Oscillator[F]{
		amplitude: amplitude,
		ops:       simdops.For[F](),
	}
	o.init(frequency, sampleRate)
	return o
}

// Amplitude returns the linear output gain.
func (o *Oscillator[F]) Amplitude() F {
	return o.amplitude
}

// SetAmplitude sets the linear output gain.
func (o *Oscillator[F]) SetAmplitude(amplitude F) {
	o.amplitude = amplitude
}

// Sample returns the current sample without advancing.
func (o *Oscillator[F]) Sample() F {
	return o.amplitude * o.zc
}

// Advance returns the current sample, then advances the phasor by one step.
func (o *Oscillator[F]) Advance() F {
	sample := o.amplitude * o.zc
	o.Step()
	return sample
}

// NextSamples returns the next n samples in a new slice.
func (o *Oscillator[F]) NextSamples(n int) []F {
	if n <= 0 {
		return []F{}
	}
	out := make([]F, n)
	o.FillSamples(out)
	return out
}

// FillSamples fills dst with consecutive samples.
// The amplitude is applied once over the whole batch and the phasor is
// corrected once at the end.
func (o *Oscillator[F]) FillSamples(dst []F) {
	if len(dst) == 0 {
		return
	}
	for i := range dst {
		dst[i] = o.zc
		o.Rotate()
	}
	o.ops.Scale(dst, dst, o.amplitude)
	o.Correct()
}

// FillFrame writes length samples into dst at indices 0, stride, 2·stride, ...
// Other positions are left untouched, so several oscillators can share one
// interleaved buffer.
func (o *Oscillator[F]) FillFrame(dst []F, length, stride int) {
	if length <= 0 {
		return
	}
	for i := range length {
		dst[i*stride] = o.amplitude * o.zc
		o.Rotate()
	}
	o.Correct()
}
