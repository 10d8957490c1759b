package engine

import (
	"math"

	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

// Resonator is an exponentially windowed single-bin correlator tuned to the
// frequency of its embedded Phasor.
//
// Each absorbed sample updates two smoothing stages:
//
//	c  ← (1-α)·c  + α·x·Zc      s  ← (1-α)·s  + α·x·Zs
//	cc ← (1-β)·cc + β·c         ss ← (1-β)·ss + β·s
//
// and then rotates the phasor. Power and amplitude are derived from (cc, ss)
// after each update call. Alpha sets the detection bandwidth, beta the output
// smoothness.
//
// A Resonator is strictly sequential and must not be updated from more than
// one goroutine at a time.
type Resonator[F simdops.Float] struct {
	Phasor[F]

	alpha   F
	omAlpha F
	beta    F
	omBeta  F

	// Raw correlation
	c F
	s F

	// Smoothed correlation
	cc F
	ss F

	power     F
	amplitude F

	phase            float64
	trackedFrequency float64
}

// NewResonator creates a resonator tuned to frequency.
// A beta of 0 selects beta = alpha.
func NewResonator[F simdops.Float](frequency, sampleRate float64, alpha, beta F) *Resonator[F] {
	r := &Resonator[F]{}
	r.init(frequency, sampleRate, alpha, beta)
	return r
}

func (r *Resonator[F]) init(frequency, sampleRate float64, alpha, beta F) {
	r.Phasor.init(frequency, sampleRate)
	if beta == 0 {
		beta = alpha
	}
	r.SetAlpha(alpha)
	r.SetBeta(beta)
	r.trackedFrequency = frequency
}

// Alpha returns the fast-stage gain.
func (r *Resonator[F]) Alpha() F {
	return r.alpha
}

// SetAlpha sets the fast-stage gain. Accumulated state is kept.
func (r *Resonator[F]) SetAlpha(alpha F) {
	r.alpha = alpha
	r.omAlpha = 1 - alpha
}

// Beta returns the smoothing-stage gain.
func (r *Resonator[F]) Beta() F {
	return r.beta
}

// SetBeta sets the smoothing-stage gain. Accumulated state is kept.
func (r *Resonator[F]) SetBeta(beta F) {
	r.beta = beta
	r.omBeta = 1 - beta
}

// TimeConstant returns the time constant in seconds of the fast stage.
func (r *Resonator[F]) TimeConstant() float64 {
	return -1 / (r.sampleRate * math.Log1p(-float64(r.alpha)))
}

// absorb runs one sample through both smoothing stages and rotates.
func (r *Resonator[F]) absorb(sample F) {
	alphaSample := r.alpha * sample
	r.c = r.omAlpha*r.c + alphaSample*r.zc
	r.s = r.omAlpha*r.s + alphaSample*r.zs
	r.cc = r.omBeta*r.cc + r.beta*r.c
	r.ss = r.omBeta*r.ss + r.beta*r.s
	r.Step()
}

func (r *Resonator[F]) refresh() {
	r.power = r.cc*r.cc + r.ss*r.ss
	r.amplitude = F(math.Sqrt(float64(r.power)))
}

// Update absorbs one sample.
func (r *Resonator[F]) Update(sample F) {
	r.absorb(sample)
	r.refresh()
}

// UpdateSamples absorbs samples in order.
func (r *Resonator[F]) UpdateSamples(samples []F) {
	for _, sample := range samples {
		r.absorb(sample)
	}
	r.refresh()
}

// UpdateFrame absorbs length samples read from frame at indices
// 0, stride, 2·stride, ... The caller guarantees the frame is long enough.
func (r *Resonator[F]) UpdateFrame(frame []F, length, stride int) {
	for i := range length {
		r.absorb(frame[i*stride])
	}
	r.refresh()
}

// UpdateAndTrack absorbs one sample and updates the tracked frequency.
func (r *Resonator[F]) UpdateAndTrack(sample F) {
	r.Update(sample)
	r.track(1)
}

// UpdateAndTrackSamples absorbs samples and updates the tracked frequency once.
func (r *Resonator[F]) UpdateAndTrackSamples(samples []F) {
	r.UpdateSamples(samples)
	r.track(len(samples))
}

// UpdateAndTrackFrame is UpdateFrame followed by one tracking step over length samples.
func (r *Resonator[F]) UpdateAndTrackFrame(frame []F, length, stride int) {
	r.UpdateFrame(frame, length, stride)
	r.track(length)
}

// track estimates the instantaneous frequency from the phase drift of the
// smoothed correlation over n samples and blends it into trackedFrequency.
func (r *Resonator[F]) track(n int) {
	if n <= 0 {
		return
	}
	newPhase := math.Atan2(float64(r.ss), float64(r.cc))
	drift := newPhase - r.phase
	if drift > math.Pi {
		drift -= twoPi
	} else if drift <= -math.Pi {
		drift += twoPi
	}
	r.phase = newPhase

	if float64(r.amplitude) <= AmplitudeFloor {
		r.trackedFrequency = r.frequency
		return
	}

	instantaneous := r.frequency - drift*r.sampleRate/(twoPi*float64(n))
	localAlpha := min(float64(r.alpha)*float64(n), maxLocalAlpha)
	r.trackedFrequency = (1-localAlpha)*r.trackedFrequency + localAlpha*instantaneous
}

// Amplitude returns sqrt(cc² + ss²) as of the last update call.
func (r *Resonator[F]) Amplitude() F {
	return r.amplitude
}

// Power returns cc² + ss² as of the last update call.
func (r *Resonator[F]) Power() F {
	return r.power
}

// Phase returns the phase of the smoothed correlation at the last tracking step.
func (r *Resonator[F]) Phase() float64 {
	return r.phase
}

// TrackedFrequency returns the frequency estimate in Hz.
func (r *Resonator[F]) TrackedFrequency() float64 {
	return r.trackedFrequency
}

// Correlation returns the raw correlation (c, s).
func (r *Resonator[F]) Correlation() (c, s F) {
	return r.c, r.s
}

// Smoothed returns the smoothed correlation (cc, ss).
func (r *Resonator[F]) Smoothed() (cc, ss F) {
	return r.cc, r.ss
}

// Reset clears correlation and tracking state and returns the phasor to
// phase 0. Frequency, sample rate and gains are kept.
func (r *Resonator[F]) Reset() {
	r.c, r.s = 0, 0
	r.cc, r.ss = 0, 0
	r.power, r.amplitude = 0, 0
	r.phase = 0
	r.trackedFrequency = r.frequency
	r.ResetPhase()
}
