package engine

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

// ErrLengthMismatch indicates parallel construction slices of different lengths.
var ErrLengthMismatch = errors.New("parallel slices have different lengths")

// AlphaHeuristic maps a resonator frequency to its fast-stage gain.
// k scales the resulting bandwidth.
type AlphaHeuristic func(frequency, sampleRate, k float64) float64

// ArrayBank is an ordered set of independent resonators fed the same input.
// Amplitudes and powers are indexed like the construction frequencies.
type ArrayBank[F simdops.Float] struct {
	resonators []Resonator[F]
	amplitudes []F
	powers     []F

	lanes    int
	tracking bool
}

// NewArrayBank creates one resonator per frequency. betas may be nil, in
// which case each resonator uses its alpha as beta.
func NewArrayBank[F simdops.Float](frequencies []float64, alphas, betas []F, sampleRate float64) (*ArrayBank[F], error) {
	if len(alphas) != len(frequencies) {
		return nil, fmt.Errorf("%w: %d frequencies, %d alphas", ErrLengthMismatch, len(frequencies), len(alphas))
	}
	if betas != nil && len(betas) != len(frequencies) {
		return nil, fmt.Errorf("%w: %d frequencies, %d betas", ErrLengthMismatch, len(frequencies), len(betas))
	}

	b := newArrayBank[F](len(frequencies))
	for i, frequency := range frequencies {
		var beta F
		if betas != nil {
			beta = betas[i]
		}
		b.resonators[i].init(frequency, sampleRate, alphas[i], beta)
	}
	return b, nil
}

// NewArrayBankFromAlphas creates resonators that share one frequency and
// differ only in bandwidth.
func NewArrayBankFromAlphas[F simdops.Float](frequency float64, alphas []F, sampleRate float64) *ArrayBank[F] {
	b := newArrayBank[F](len(alphas))
	for i, alpha := range alphas {
		b.resonators[i].init(frequency, sampleRate, alpha, 0)
	}
	return b
}

// NewArrayBankWithHeuristic derives each resonator's alpha from its frequency.
func NewArrayBankWithHeuristic[F simdops.Float](frequencies []float64, sampleRate, k float64, heuristic AlphaHeuristic) *ArrayBank[F] {
	b := newArrayBank[F](len(frequencies))
	for i, frequency := range frequencies {
		b.resonators[i].init(frequency, sampleRate, F(heuristic(frequency, sampleRate, k)), 0)
	}
	return b
}

func newArrayBank[F simdops.Float](n int) *ArrayBank[F] {
	return &ArrayBank[F]{
		resonators: make([]Resonator[F], n),
		amplitudes: make([]F, n),
		powers:     make([]F, n),
		lanes:      DefaultLanes,
	}
}

// Len returns the number of resonators.
func (b *ArrayBank[F]) Len() int {
	return len(b.resonators)
}

// Lanes returns the number of worker lanes used by UpdateConcurrent.
func (b *ArrayBank[F]) Lanes() int {
	return b.lanes
}

// SetLanes sets the number of worker lanes. Values below 1 select 1.
func (b *ArrayBank[F]) SetLanes(lanes int) {
	b.lanes = max(lanes, 1)
}

// Tracking reports whether frequency tracking is enabled.
func (b *ArrayBank[F]) Tracking() bool {
	return b.tracking
}

// SetTracking enables or disables frequency tracking on updates.
func (b *ArrayBank[F]) SetTracking(enabled bool) {
	b.tracking = enabled
}

// Resonator returns the i-th resonator.
func (b *ArrayBank[F]) Resonator(i int) *Resonator[F] {
	return &b.resonators[i]
}

// Update feeds one sample to every resonator.
func (b *ArrayBank[F]) Update(sample F) {
	for i := range b.resonators {
		r := &b.resonators[i]
		if b.tracking {
			r.UpdateAndTrack(sample)
		} else {
			r.Update(sample)
		}
		b.collect(i)
	}
}

// UpdateSamples feeds samples in order to every resonator.
func (b *ArrayBank[F]) UpdateSamples(samples []F) {
	b.UpdateFrame(samples, len(samples), 1)
}

// UpdateFrame feeds length strided samples to every resonator, one
// resonator at a time.
func (b *ArrayBank[F]) UpdateFrame(frame []F, length, stride int) {
	for i := range b.resonators {
		b.updateOne(i, frame, length, stride)
	}
}

// UpdateConcurrent is UpdateFrame spread over worker lanes. Lane k owns
// resonators k, k+lanes, k+2·lanes, ... and writes only their outputs.
// It returns once every lane has finished.
func (b *ArrayBank[F]) UpdateConcurrent(frame []F, length, stride int) {
	n := len(b.resonators)
	lanes := min(b.lanes, n)
	if lanes <= 1 {
		b.UpdateFrame(frame, length, stride)
		return
	}

	var wg sync.WaitGroup
	for lane := range lanes {
		wg.Go(func() {
			for i := lane; i < n; i += lanes {
				b.updateOne(i, frame, length, stride)
			}
		})
	}
	wg.Wait()
}

func (b *ArrayBank[F]) updateOne(i int, frame []F, length, stride int) {
	r := &b.resonators[i]
	if b.tracking {
		r.UpdateAndTrackFrame(frame, length, stride)
	} else {
		r.UpdateFrame(frame, length, stride)
	}
	b.collect(i)
}

func (b *ArrayBank[F]) collect(i int) {
	b.amplitudes[i] = b.resonators[i].amplitude
	b.powers[i] = b.resonators[i].power
}

// Amplitudes returns the per-resonator amplitudes. The slice is owned by the
// bank and overwritten by the next update.
func (b *ArrayBank[F]) Amplitudes() []F {
	return b.amplitudes
}

// Powers returns the per-resonator powers. The slice is owned by the bank.
func (b *ArrayBank[F]) Powers() []F {
	return b.powers
}

// TrackedFrequencies returns a copy of the per-resonator frequency estimates.
func (b *ArrayBank[F]) TrackedFrequencies() []float64 {
	out := make([]float64, len(b.resonators))
	for i := range b.resonators {
		out[i] = b.resonators[i].trackedFrequency
	}
	return out
}

// Frequencies returns a copy of the nominal resonator frequencies.
func (b *ArrayBank[F]) Frequencies() []float64 {
	out := make([]float64, len(b.resonators))
	for i := range b.resonators {
		out[i] = b.resonators[i].frequency
	}
	return out
}

// Alphas returns a copy of the fast-stage gains.
func (b *ArrayBank[F]) Alphas() []F {
	out := make([]F, len(b.resonators))
	for i := range b.resonators {
		out[i] = b.resonators[i].alpha
	}
	return out
}

// Betas returns a copy of the smoothing-stage gains.
func (b *ArrayBank[F]) Betas() []F {
	out := make([]F, len(b.resonators))
	for i := range b.resonators {
		out[i] = b.resonators[i].beta
	}
	return out
}

// SetAllAlphas sets the fast-stage gain of every resonator.
func (b *ArrayBank[F]) SetAllAlphas(alpha F) {
	for i := range b.resonators {
		b.resonators[i].SetAlpha(alpha)
	}
}

// Reset clears the state of every resonator and the output views.
func (b *ArrayBank[F]) Reset() {
	for i := range b.resonators {
		b.resonators[i].Reset()
	}
	clear(b.amplitudes)
	clear(b.powers)
}

// MemoryUsage returns approximate memory usage in bytes.
func (b *ArrayBank[F]) MemoryUsage() int64 {
	var zero Resonator[F]
	perResonator := int64(unsafe.Sizeof(zero)) + int64(2*simdops.BytesPerSample[F]())
	return int64(len(b.resonators)) * perResonator
}
