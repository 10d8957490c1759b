package resonator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-resonator/internal/testutil"
)

func TestNewSemitoneBank(t *testing.T) {
	b, err := NewSemitoneBank(220, 24, RateCD)
	require.NoError(t, err)
	require.Equal(t, 24, b.Len())

	frequencies := b.Frequencies()
	assert.InDelta(t, 220.0, frequencies[0], 1e-9)
	assert.InDelta(t, 440.0, frequencies[12], 1e-9)
	testutil.AssertRelativeError(t, 830.609375, frequencies[23], 1e-6)

	b.ProcessSamples(testutil.Constant(1024, 0.5))
	testutil.AssertAllPositive(t, b.Amplitudes())
}

func TestNewSemitoneBank_Invalid(t *testing.T) {
	_, err := NewSemitoneBank(220, 0, RateCD)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSemitoneBank(220, 12, 0)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewMelBank(t *testing.T) {
	b, err := NewMelBank(40, 0, 8000, RateSpeech)
	require.NoError(t, err)
	require.Equal(t, 40, b.Len())

	frequencies := b.Frequencies()
	testutil.AssertMonotonic(t, frequencies)
	assert.Positive(t, frequencies[0], "band centers exclude the lower edge")
	assert.Less(t, frequencies[39], 8000.0, "band centers exclude the upper edge")

	edges := MelFrequencies(42, 0, 8000, false)
	testutil.AssertSlicesInDelta(t, edges[1:41], frequencies, 0)
	assert.Equal(t, frequencies, MelBandCenters(40, 0, 8000))
	assert.Nil(t, MelBandCenters(0, 0, 8000))

	_, err = NewMelBank(0, 0, 8000, RateSpeech)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewBandwidthSweep(t *testing.T) {
	taus := []float64{0.5, 0.1, 0.02, 0.005}
	b, err := NewBandwidthSweep(440, taus, RateCD)
	require.NoError(t, err)
	require.Equal(t, len(taus), b.Len())

	for _, f := range b.Frequencies() {
		assert.InDelta(t, 440.0, f, 0)
	}

	// A short burst: faster resonators have risen further.
	b.ProcessSamples(testutil.Cosine(1000, 440, RateCD, 1))
	testutil.AssertMonotonic(t, b.Amplitudes())

	_, err = NewBandwidthSweep(440, nil, RateCD)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSpectralCentroid(t *testing.T) {
	tests := []struct {
		name        string
		frequencies []float64
		powers      []float64
		want        float64
	}{
		{"single peak", []float64{100, 200, 300}, []float64{0, 1, 0}, 200},
		{"balanced", []float64{100, 300}, []float64{1, 1}, 200},
		{"weighted", []float64{100, 200}, []float64{3, 1}, 125},
		{"silence", []float64{100, 200}, []float64{0, 0}, 0},
		{"empty", nil, nil, 0},
		{"mismatched lengths use the shorter", []float64{100, 200, 300}, []float64{1, 1}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SpectralCentroid(tt.frequencies, tt.powers), 1e-9)
		})
	}
}

func TestSpectralCentroid_FromBank(t *testing.T) {
	b, err := NewSemitoneBank(220, 24, RateCD)
	require.NoError(t, err)

	b.ProcessSamples(testutil.Cosine(RateCD/2, 440, RateCD, 1))

	centroid := SpectralCentroid(b.Frequencies(), b.Powers())
	testutil.AssertInRange(t, centroid, 400, 480)
}

func TestDominantIndex(t *testing.T) {
	assert.Equal(t, -1, DominantIndex(nil))
	assert.Equal(t, 0, DominantIndex([]float64{3}))
	assert.Equal(t, 2, DominantIndex([]float64{0.1, 0.5, 0.9, 0.2}))
	assert.Equal(t, 1, DominantIndex([]float64{0.1, 0.9, 0.9}), "first maximum wins")
}

func TestDominantIndex_FindsTone(t *testing.T) {
	b, err := NewSemitoneBank(110, 48, RateCD)
	require.NoError(t, err)

	signal := testutil.Mix(
		testutil.Cosine(16384, 523.251131, RateCD, 0.7),
		testutil.Cosine(16384, 196, RateCD, 0.2),
	)
	b.ProcessSamples(signal)

	idx := DominantIndex(b.Amplitudes())
	assert.InDelta(t, 523.251131, b.Frequencies()[idx], 1e-3)
	assert.InDelta(t, testutil.FFTPeakFrequency(signal, RateCD), b.Frequencies()[idx], 5.0)
}

func TestSingleResonatorHelpers(t *testing.T) {
	p := NewPhasor(441, RateCD)
	for range 100 {
		p.Rotate()
	}
	zc, zs := p.Z()
	assert.InDelta(t, 1.0, zc, 1e-9)
	assert.InDelta(t, 0.0, zs, 1e-9)

	o := NewOscillator(441, RateCD, 0.25)
	assert.InDelta(t, 0.25, o.Advance(), 0)

	r := NewResonator(440, RateCD, AlphaFromTimeConstant(0.05, RateCD), 0)
	r.UpdateSamples(testutil.Cosine(RateCD, 440, RateCD, 1))
	testutil.AssertRelativeError(t, 0.5, r.Amplitude(), testutil.AmplitudeTolerance)
	testutil.AssertRelativeError(t, 0.05, TimeConstant(r.Alpha(), RateCD), 1e-9)
}

func TestFrequencyHelpers(t *testing.T) {
	assert.InDelta(t, 441.0, ClosestFrequency(440, RateCD), 1e-9)
	assert.Positive(t, DopplerVelocity(445, 440))
	assert.Len(t, SemitoneFrequencies(55, 88), 88)
}
