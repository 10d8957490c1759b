package engine

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// VectorBank runs the resonator recurrence for N resonators as whole-array
// operations over split complex buffers.
//
// Every complex buffer has length 2N: all real parts first, then all
// imaginary parts. Per-resonator gains are stored twice, once for each half,
// so a single vector kernel covers both parts.
type VectorBank struct {
	n          int
	sampleRate float64

	frequencies []float64

	r  []float64 // raw correlation
	rr []float64 // smoothed correlation
	z  []float64 // phasor state
	w  []float64 // phasor multiplier

	alphas   []float64
	omAlphas []float64
	betas    []float64
	omBetas  []float64

	// Scratch
	alphasSample []float64
	wiNeg        []float64
	t1           []float64
	t2           []float64
	rsqrt        []float64

	amplitudes []float64
	powers     []float64

	tracking bool
	phases   []float64
	tracked  []float64

	steps int // samples since last stabilize
}

// NewVectorBank creates a vector bank. betas may be nil, in which case each
// resonator uses its alpha as beta.
func NewVectorBank(frequencies, alphas, betas []float64, sampleRate float64) (*VectorBank, error) {
	n := len(frequencies)
	if len(alphas) != n {
		return nil, fmt.Errorf("%w: %d frequencies, %d alphas", ErrLengthMismatch, n, len(alphas))
	}
	if betas == nil {
		betas = alphas
	}
	if len(betas) != n {
		return nil, fmt.Errorf("%w: %d frequencies, %d betas", ErrLengthMismatch, n, len(betas))
	}

	size := complexParts * n
	b := &VectorBank{
		n:            n,
		sampleRate:   sampleRate,
		frequencies:  append([]float64(nil), frequencies...),
		r:            make([]float64, size),
		rr:           make([]float64, size),
		z:            make([]float64, size),
		w:            make([]float64, size),
		alphas:       make([]float64, size),
		omAlphas:     make([]float64, size),
		betas:        make([]float64, size),
		omBetas:      make([]float64, size),
		alphasSample: make([]float64, size),
		wiNeg:        make([]float64, n),
		t1:           make([]float64, n),
		t2:           make([]float64, n),
		rsqrt:        make([]float64, n),
		amplitudes:   make([]float64, n),
		powers:       make([]float64, n),
		phases:       make([]float64, n),
		tracked:      make([]float64, n),
	}

	for i := range n {
		b.setAlpha(i, alphas[i])
		b.setBeta(i, betas[i])
		b.setMultiplier(i)
	}
	b.resetState()
	return b, nil
}

func (b *VectorBank) setAlpha(i int, alpha float64) {
	b.alphas[i], b.alphas[b.n+i] = alpha, alpha
	b.omAlphas[i], b.omAlphas[b.n+i] = 1-alpha, 1-alpha
}

func (b *VectorBank) setBeta(i int, beta float64) {
	b.betas[i], b.betas[b.n+i] = beta, beta
	b.omBetas[i], b.omBetas[b.n+i] = 1-beta, 1-beta
}

func (b *VectorBank) setMultiplier(i int) {
	omega := twoPi * b.frequencies[i] / b.sampleRate
	b.w[i] = math.Cos(omega)
	b.w[b.n+i] = math.Sin(omega)
	b.wiNeg[i] = -b.w[b.n+i]
}

func (b *VectorBank) resetState() {
	clear(b.r)
	clear(b.rr)
	for i := range b.n {
		b.z[i] = 1
		b.z[b.n+i] = 0
	}
	clear(b.amplitudes)
	clear(b.powers)
	clear(b.phases)
	copy(b.tracked, b.frequencies)
	b.steps = 0
}

// step absorbs one sample into every resonator and rotates every phasor.
func (b *VectorBank) step(sample float64) {
	if b.n == 0 {
		return
	}

	vecmath.ScaleBlock(b.alphasSample, b.alphas, sample)

	// R ← (1-α)·R + α·x·Z
	vecmath.MulBlockInPlace(b.r, b.omAlphas)
	vecmath.MulAddBlock(b.r, b.z, b.alphasSample, b.r)

	// RR ← (1-β)·RR + β·R
	vecmath.MulBlockInPlace(b.rr, b.omBetas)
	vecmath.MulAddBlock(b.rr, b.r, b.betas, b.rr)

	// Z ← Z·W
	zr, zi := b.z[:b.n], b.z[b.n:]
	wr, wi := b.w[:b.n], b.w[b.n:]
	vecmath.MulBlock(b.t1, zi, b.wiNeg)
	vecmath.MulBlock(b.t2, zi, wr)
	vecmath.MulAddBlock(zi, zr, wi, b.t2)
	vecmath.MulAddBlock(zr, zr, wr, b.t1)

	b.steps++
}

// Stabilize rescales every phasor to unit magnitude.
func (b *VectorBank) Stabilize() {
	b.steps = 0
	if b.n == 0 {
		return
	}
	zr, zi := b.z[:b.n], b.z[b.n:]
	vecmath.Magnitude(b.rsqrt, zr, zi)
	for i, m := range b.rsqrt {
		b.rsqrt[i] = 1 / m
	}
	vecmath.MulBlockInPlace(zr, b.rsqrt)
	vecmath.MulBlockInPlace(zi, b.rsqrt)
}

func (b *VectorBank) refresh() {
	if b.n == 0 {
		return
	}
	re, im := b.rr[:b.n], b.rr[b.n:]
	vecmath.Power(b.powers, re, im)
	vecmath.Magnitude(b.amplitudes, re, im)
}

// track applies the resonator frequency-tracking rule to every resonator.
func (b *VectorBank) track(n int) {
	if n <= 0 {
		return
	}
	for i := range b.n {
		newPhase := math.Atan2(b.rr[b.n+i], b.rr[i])
		drift := newPhase - b.phases[i]
		if drift > math.Pi {
			drift -= twoPi
		} else if drift <= -math.Pi {
			drift += twoPi
		}
		b.phases[i] = newPhase

		if b.amplitudes[i] <= AmplitudeFloor {
			b.tracked[i] = b.frequencies[i]
			continue
		}
		instantaneous := b.frequencies[i] - drift*b.sampleRate/(twoPi*float64(n))
		localAlpha := min(b.alphas[i]*float64(n), maxLocalAlpha)
		b.tracked[i] = (1-localAlpha)*b.tracked[i] + localAlpha*instantaneous
	}
}

// Update absorbs one sample. Phasors are stabilized every CorrectionInterval samples.
func (b *VectorBank) Update(sample float64) {
	b.step(sample)
	if b.steps >= CorrectionInterval {
		b.Stabilize()
	}
	b.refresh()
	if b.tracking {
		b.track(1)
	}
}

// UpdateSamples absorbs samples in order.
func (b *VectorBank) UpdateSamples(samples []float64) {
	b.UpdateFrame(samples, len(samples), 1)
}

// UpdateFrame absorbs length samples read at indices 0, stride, 2·stride, ...
// and stabilizes once at the end.
func (b *VectorBank) UpdateFrame(frame []float64, length, stride int) {
	for i := range length {
		b.step(frame[i*stride])
	}
	b.Stabilize()
	b.refresh()
	if b.tracking {
		b.track(length)
	}
}

// Len returns the number of resonators.
func (b *VectorBank) Len() int {
	return b.n
}

// Tracking reports whether frequency tracking is enabled.
func (b *VectorBank) Tracking() bool {
	return b.tracking
}

// SetTracking enables or disables frequency tracking on updates.
func (b *VectorBank) SetTracking(enabled bool) {
	b.tracking = enabled
}

// Amplitudes returns the per-resonator amplitudes. The slice is owned by the bank.
func (b *VectorBank) Amplitudes() []float64 {
	return b.amplitudes
}

// Powers returns the per-resonator powers. The slice is owned by the bank.
func (b *VectorBank) Powers() []float64 {
	return b.powers
}

// TrackedFrequencies returns a copy of the per-resonator frequency estimates.
func (b *VectorBank) TrackedFrequencies() []float64 {
	return append([]float64(nil), b.tracked...)
}

// Frequencies returns a copy of the nominal resonator frequencies.
func (b *VectorBank) Frequencies() []float64 {
	return append([]float64(nil), b.frequencies...)
}

// Alphas returns a copy of the fast-stage gains.
func (b *VectorBank) Alphas() []float64 {
	return append([]float64(nil), b.alphas[:b.n]...)
}

// Betas returns a copy of the smoothing-stage gains.
func (b *VectorBank) Betas() []float64 {
	return append([]float64(nil), b.betas[:b.n]...)
}

// Z returns the phasor state of resonator i.
func (b *VectorBank) Z(i int) (zr, zi float64) {
	return b.z[i], b.z[b.n+i]
}

// SetAllAlphas sets the fast-stage gain of every resonator.
func (b *VectorBank) SetAllAlphas(alpha float64) {
	for i := range b.n {
		b.setAlpha(i, alpha)
	}
}

// Reset clears all correlation and tracking state and returns every phasor to phase 0.
func (b *VectorBank) Reset() {
	b.resetState()
}

// MemoryUsage returns approximate memory usage in bytes.
func (b *VectorBank) MemoryUsage() int64 {
	return int64(b.n) * vectorBuffersPerResonator * bytesPerFloat64
}
