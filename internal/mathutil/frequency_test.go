package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-resonator/internal/testutil"
)

const sampleRate = 44100.0

// Equal-tempered pitches from A3 to G#5.
var semitoneFixture = []float64{
	220, 233.081863, 246.94165, 261.625549, 277.182648, 293.664764, 311.126984, 329.627563,
	349.228241, 369.994415, 391.995422, 415.304688, 440, 466.163788, 493.883301, 523.251099,
	554.365295, 587.329529, 622.253967, 659.255126, 698.456482, 739.98883, 783.990845, 830.609375,
}

func TestClosestFrequency(t *testing.T) {
	tests := []struct {
		name     string
		target   float64
		expected float64
		period   int
	}{
		{"exact", 441, 441, 100},
		{"rounded up", 440, 441, 100},
		{"low", 100, 100, 441},
		{"high", 11000, 11025, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ClosestFrequency(tt.target, sampleRate)
			assert.InDelta(t, tt.expected, f, 1e-6)
			assert.InDelta(t, float64(tt.period), sampleRate/f, 1e-9)
		})
	}
}

func TestDopplerVelocity(t *testing.T) {
	assert.InDelta(t, -0.78458047, DopplerVelocity(440, 441), 1e-6)
	assert.InDelta(t, 0.78636366, DopplerVelocity(441, 440), 1e-6)
	assert.InDelta(t, 0.0, DopplerVelocity(440, 440), 0)
	assert.InDelta(t, 0.0, DopplerVelocity(440, 0), 0)
	assert.InDelta(t, 0.0, DopplerVelocity(440, -1), 0)
}

func TestSemitoneFrequencies(t *testing.T) {
	got := SemitoneFrequencies(220, len(semitoneFixture))
	require.Len(t, got, len(semitoneFixture))

	for i, want := range semitoneFixture {
		testutil.AssertRelativeError(t, want, got[i], 1e-6, "semitone %d", i)
	}
	assert.Empty(t, SemitoneFrequencies(220, 0))
}

func TestMidiConversion(t *testing.T) {
	assert.InDelta(t, 440.0, MidiToFrequency(69), 1e-12)
	assert.InDelta(t, 261.625565, MidiToFrequency(60), 1e-6)
	assert.InDelta(t, 57.0, FrequencyToMidi(220), 1e-12)

	for _, note := range []float64{21, 33.5, 60, 69, 108} {
		assert.InDelta(t, note, FrequencyToMidi(MidiToFrequency(note)), 1e-9)
	}
}

func TestMelFrequencies_Slaney(t *testing.T) {
	mels := MelFrequencies(128, 0, 11025, false)
	require.Len(t, mels, 128)

	spot := map[int]float64{
		0:   0.0,
		1:   26.19978713,
		38:  995.59191089,
		39:  1022.72769586,
		100: 5315.60183352,
		127: 11025.0,
	}
	for i, want := range spot {
		testutil.AssertRelativeError(t, want, mels[i], 1e-6, "mel %d", i)
	}
	testutil.AssertMonotonic(t, mels)
}

func TestMelFrequencies_HTK(t *testing.T) {
	mels := MelFrequencies(128, 0, 11025, true)
	require.Len(t, mels, 128)

	assert.InDelta(t, 0.0, mels[0], 1e-9)
	testutil.AssertRelativeError(t, 15.70813224, mels[1], 1e-6)
	testutil.AssertRelativeError(t, 31.76875793, mels[2], 1e-6)
	testutil.AssertRelativeError(t, 10767.66346548, mels[126], 1e-6)
	testutil.AssertRelativeError(t, 11025.0, mels[127], 1e-9)
}

func TestHzToMel_RoundTrip(t *testing.T) {
	for _, htk := range []bool{false, true} {
		for _, f := range []float64{0, 50, 999, 1000, 1001, 4000, 20000} {
			assert.InDelta(t, f, MelToHz(HzToMel(f, htk), htk), 1e-8, "f=%v htk=%v", f, htk)
		}
	}
	assert.InDelta(t, 15.0, HzToMel(1000, false), 1e-12)
}

func TestLinearAndLogFrequencies(t *testing.T) {
	lin := LinearFrequencies(5, 100, 500)
	assert.Equal(t, []float64{100, 200, 300, 400, 500}, lin)

	logs := LogFrequencies(4, 10, 10000)
	testutil.AssertSlicesInDelta(t, []float64{10, 100, 1000, 10000}, logs, 1e-9)

	assert.Equal(t, []float64{100}, LinearFrequencies(1, 100, 500))
	assert.Equal(t, []float64{10}, LogFrequencies(1, 10, 100))
	assert.Empty(t, LogFrequencies(0, 10, 100))
}
