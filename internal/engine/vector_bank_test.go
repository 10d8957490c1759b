package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-resonator/internal/mathutil"
	"github.com/tphakala/go-audio-resonator/internal/testutil"
)

func TestNewVectorBank_LengthMismatch(t *testing.T) {
	_, err := NewVectorBank([]float64{100, 200}, []float64{0.1}, nil, testSampleRate)
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = NewVectorBank([]float64{100, 200}, []float64{0.1, 0.1}, []float64{0.1, 0.1, 0.1}, testSampleRate)
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestNewVectorBank_Layout(t *testing.T) {
	frequencies := []float64{110, 220, 440}
	alphas := []float64{0.1, 0.2, 0.3}
	b, err := NewVectorBank(frequencies, alphas, nil, testSampleRate)
	require.NoError(t, err)

	require.Len(t, b.z, 6)
	require.Len(t, b.alphas, 6)
	assert.Equal(t, []float64{1, 1, 1, 0, 0, 0}, b.z, "real parts first, then imaginary parts")
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.1, 0.2, 0.3}, b.alphas)
	assert.Equal(t, alphas, b.Betas(), "nil betas default to alphas")
	assert.Equal(t, frequencies, b.Frequencies())
	assert.Equal(t, frequencies, b.TrackedFrequencies())

	p := NewPhasor[float64](220, testSampleRate)
	wc, ws := p.W()
	assert.InDelta(t, wc, b.w[1], 0)
	assert.InDelta(t, ws, b.w[4], 0)
	assert.InDelta(t, -ws, b.wiNeg[1], 0)
}

// vectorAndArray builds equivalent vector and array banks.
func vectorAndArray(t *testing.T, count int) (*VectorBank, *ArrayBank[float64]) {
	t.Helper()
	frequencies, alphas := semitoneBank(count)
	betas := make([]float64, count)
	for i, a := range alphas {
		betas[i] = a / 2
	}

	vec, err := NewVectorBank(frequencies, alphas, betas, testSampleRate)
	require.NoError(t, err)
	arr, err := NewArrayBank(frequencies, alphas, betas, testSampleRate)
	require.NoError(t, err)
	return vec, arr
}

func TestVectorBank_MatchesArrayBank(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		frameLength int
	}{
		{"even frames of 1024", 24, 1024},
		{"odd count, short frames", 25, 100},
		{"single resonator", 1, 512},
	}

	signal := testSignal(8192)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, arr := vectorAndArray(t, tt.count)

			for i := 0; i+tt.frameLength <= len(signal); i += tt.frameLength {
				vec.UpdateFrame(signal[i:], tt.frameLength, 1)
				arr.UpdateFrame(signal[i:], tt.frameLength, 1)
			}

			testutil.AssertSlicesInDelta(t, arr.Amplitudes(), vec.Amplitudes(), testutil.BankTolerance)
			testutil.AssertSlicesInDelta(t, arr.Powers(), vec.Powers(), testutil.BankTolerance)
		})
	}
}

func TestVectorBank_TrackingMatchesArrayBank(t *testing.T) {
	vec, arr := vectorAndArray(t, 24)
	vec.SetTracking(true)
	arr.SetTracking(true)

	signal := testutil.Cosine(int(testSampleRate), 443, testSampleRate, 0.8)
	for i := 0; i+512 <= len(signal); i += 512 {
		vec.UpdateFrame(signal[i:], 512, 1)
		arr.UpdateFrame(signal[i:], 512, 1)
	}

	testutil.AssertSlicesInDelta(t, arr.TrackedFrequencies(), vec.TrackedFrequencies(), 1e-6)
}

func TestVectorBank_PerSampleUpdate(t *testing.T) {
	vec, arr := vectorAndArray(t, 12)
	signal := testSignal(3 * CorrectionInterval)

	for _, x := range signal {
		vec.Update(x)
		arr.Update(x)
	}

	testutil.AssertSlicesInDelta(t, arr.Amplitudes(), vec.Amplitudes(), testutil.BankTolerance)
	for i := range vec.Len() {
		zr, zi := vec.Z(i)
		assert.InDelta(t, 1.0, zr*zr+zi*zi, 1e-9, "resonator %d", i)
	}
}

func TestVectorBank_Stabilize(t *testing.T) {
	b, err := NewVectorBank([]float64{100, 1000, 10000}, []float64{0.01, 0.01, 0.01}, nil, testSampleRate)
	require.NoError(t, err)

	for i := range b.Len() {
		b.z[i] *= 1.01
		b.z[b.n+i] += 0.02
	}
	b.Stabilize()

	for i := range b.Len() {
		zr, zi := b.Z(i)
		assert.InDelta(t, 1.0, zr*zr+zi*zi, 1e-12)
	}
}

func TestVectorBank_SemitoneScenario(t *testing.T) {
	frequencies, alphas := semitoneBank(24)
	b, err := NewVectorBank(frequencies, alphas, nil, testSampleRate)
	require.NoError(t, err)

	b.UpdateSamples(testutil.Constant(1024, 0.5))

	testutil.AssertAllPositive(t, b.Amplitudes())
}

func TestVectorBank_DominantMatchesFFT(t *testing.T) {
	frequencies := mathutil.SemitoneFrequencies(110, 48)
	alphas := make([]float64, len(frequencies))
	for i := range alphas {
		alphas[i] = mathutil.AlphaFromTimeConstant(0.1, testSampleRate)
	}
	b, err := NewVectorBank(frequencies, alphas, nil, testSampleRate)
	require.NoError(t, err)

	signal := testutil.Mix(
		testutil.Cosine(16384, 440, testSampleRate, 0.6),
		testutil.Cosine(16384, 220, testSampleRate, 0.2),
	)
	b.UpdateSamples(signal)

	dominant := 0
	for i, a := range b.Amplitudes() {
		if a > b.Amplitudes()[dominant] {
			dominant = i
		}
	}
	peak := testutil.FFTPeakFrequency(signal, testSampleRate)
	assert.InDelta(t, peak, frequencies[dominant], 5.0)
	assert.InDelta(t, 440.0, frequencies[dominant], 1e-9)
}

func TestVectorBank_SetAllAlphasAndReset(t *testing.T) {
	frequencies, alphas := semitoneBank(5)
	b, err := NewVectorBank(frequencies, alphas, nil, testSampleRate)
	require.NoError(t, err)
	b.SetTracking(true)

	b.SetAllAlphas(0.02)
	assert.Equal(t, []float64{0.02, 0.02, 0.02, 0.02, 0.02}, b.Alphas())
	assert.InDelta(t, 0.98, b.omAlphas[b.n+2], 1e-15)

	signal := testSignal(2048)
	b.UpdateSamples(signal)
	first := append([]float64(nil), b.Amplitudes()...)
	tracked := b.TrackedFrequencies()

	b.Reset()
	assert.Equal(t, frequencies, b.TrackedFrequencies())
	for _, a := range b.Amplitudes() {
		assert.Zero(t, a)
	}

	b.UpdateSamples(signal)
	assert.Equal(t, first, b.Amplitudes())
	assert.Equal(t, tracked, b.TrackedFrequencies())
}

func TestVectorBank_Empty(t *testing.T) {
	b, err := NewVectorBank(nil, nil, nil, testSampleRate)
	require.NoError(t, err)

	b.UpdateSamples(testSignal(64))
	b.Update(0.5)
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Amplitudes())
}
