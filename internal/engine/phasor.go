// Package engine implements the phasor, oscillator and resonator recurrences
// and the two resonator bank layouts built on them.
package engine

import (
	"math"

	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

// Phasor is a unit complex number Z advanced once per sample by a fixed
// rotation multiplier W = (cos ω, sin ω), with ω = 2π·frequency/sampleRate.
//
// Trigonometric functions are evaluated only when frequency or sample rate
// change. Rotation accumulates floating-point drift in |Z|, which Correct
// removes with a single Newton step toward |Z| = 1.
//
// Type parameter F controls the precision of the rotation state.
type Phasor[F simdops.Float] struct {
	frequency  float64
	sampleRate float64

	// Rotation state Z
	zc F
	zs F

	// Rotation multiplier W and Wc+Ws for the 3-multiplication product
	wc   F
	ws   F
	wcps F

	rotations int // rotations since last correction
}

// NewPhasor creates a phasor at phase 0, Z = (1, 0).
func NewPhasor[F simdops.Float](frequency, sampleRate float64) *Phasor[F] {
	p := &Phasor[F]{}
	p.init(frequency, sampleRate)
	return p
}

func (p *Phasor[F]) init(frequency, sampleRate float64) {
	p.frequency = frequency
	p.sampleRate = sampleRate
	p.zc = 1
	p.zs = 0
	p.rotations = 0
	p.setMultiplier()
}

// setMultiplier recomputes W from frequency and sample rate. Z is untouched.
func (p *Phasor[F]) setMultiplier() {
	omega := twoPi * p.frequency / p.sampleRate
	p.wc = F(math.Cos(omega))
	p.ws = F(math.Sin(omega))
	p.wcps = p.wc + p.ws
}

// Rotate advances Z by one sample: Z ← Z·W.
func (p *Phasor[F]) Rotate() {
	ac := p.wc * p.zc
	bd := p.ws * p.zs
	abcd := p.wcps * (p.zc + p.zs)
	p.zc = ac - bd
	p.zs = abcd - ac - bd
}

// Correct renormalizes Z toward unit magnitude.
func (p *Phasor[F]) Correct() {
	k := (newtonNumerator - p.zc*p.zc - p.zs*p.zs) / newtonDivisor
	p.zc *= k
	p.zs *= k
	p.rotations = 0
}

// Step rotates once and corrects every CorrectionInterval rotations.
func (p *Phasor[F]) Step() {
	p.Rotate()
	p.rotations++
	if p.rotations >= CorrectionInterval {
		p.Correct()
	}
}

// Frequency returns the rotation frequency in Hz.
func (p *Phasor[F]) Frequency() float64 {
	return p.frequency
}

// SetFrequency changes the rotation frequency, keeping the current phase.
func (p *Phasor[F]) SetFrequency(frequency float64) {
	p.frequency = frequency
	p.setMultiplier()
}

// SampleRate returns the sample rate in Hz.
func (p *Phasor[F]) SampleRate() float64 {
	return p.sampleRate
}

// SetSampleRate changes the sample rate, keeping the current phase.
func (p *Phasor[F]) SetSampleRate(sampleRate float64) {
	p.sampleRate = sampleRate
	p.setMultiplier()
}

// Z returns the current rotation state.
func (p *Phasor[F]) Z() (zc, zs F) {
	return p.zc, p.zs
}

// W returns the per-sample rotation multiplier.
func (p *Phasor[F]) W() (wc, ws F) {
	return p.wc, p.ws
}

// Magnitude returns |Z|.
func (p *Phasor[F]) Magnitude() float64 {
	return math.Hypot(float64(p.zc), float64(p.zs))
}

// Angle returns the current phase of Z in (-π, π].
func (p *Phasor[F]) Angle() float64 {
	return math.Atan2(float64(p.zs), float64(p.zc))
}

// ResetPhase returns Z to (1, 0).
func (p *Phasor[F]) ResetPhase() {
	p.zc = 1
	p.zs = 0
	p.rotations = 0
}
