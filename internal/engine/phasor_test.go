package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-resonator/internal/testutil"
)

const (
	testSampleRate = 44100.0
	testFrequency  = 441.0 // period of exactly 100 samples at testSampleRate
	testPeriod     = 100
)

func TestPhasor_InitialState(t *testing.T) {
	p := NewPhasor[float64](testFrequency, testSampleRate)

	zc, zs := p.Z()
	assert.InDelta(t, 1.0, zc, 0)
	assert.InDelta(t, 0.0, zs, 0)

	omega := 2 * math.Pi * testFrequency / testSampleRate
	wc, ws := p.W()
	assert.InDelta(t, math.Cos(omega), wc, testutil.DefaultTolerance)
	assert.InDelta(t, math.Sin(omega), ws, testutil.DefaultTolerance)
	assert.InDelta(t, testFrequency, p.Frequency(), 0)
	assert.InDelta(t, testSampleRate, p.SampleRate(), 0)
}

func TestPhasor_RotateMatchesAnalytic(t *testing.T) {
	p := NewPhasor[float64](testFrequency, testSampleRate)
	omega := 2 * math.Pi * testFrequency / testSampleRate

	for i := 1; i <= 250; i++ {
		p.Rotate()
		zc, zs := p.Z()
		assert.InDelta(t, math.Cos(omega*float64(i)), zc, 1e-12, "step %d", i)
		assert.InDelta(t, math.Sin(omega*float64(i)), zs, 1e-12, "step %d", i)
	}
}

func TestPhasor_PeriodWithoutCorrection(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		p := NewPhasor[float64](testFrequency, testSampleRate)
		for range testPeriod * 441 {
			p.Rotate()
		}
		zc, zs := p.Z()
		assert.InDelta(t, 1.0, zc, 1e-6)
		assert.InDelta(t, 0.0, zs, 1e-6)
	})

	t.Run("float32", func(t *testing.T) {
		p := NewPhasor[float32](testFrequency, testSampleRate)
		for range testPeriod * 44 {
			p.Rotate()
		}
		zc, zs := p.Z()
		assert.InDelta(t, 1.0, float64(zc), 1e-2)
		assert.InDelta(t, 0.0, float64(zs), 1e-2)
	})
}

func TestPhasor_PeriodWithCorrection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long rotation run in short mode")
	}

	p := NewPhasor[float64](testFrequency, testSampleRate)
	const rotations = 4_410_000

	for i := 1; i <= rotations; i++ {
		p.Rotate()
		if i%CorrectionInterval == 0 {
			p.Correct()
		}
	}

	zc, zs := p.Z()
	assert.InDelta(t, 1.0, zc, testutil.PhasorTolerance)
	assert.InDelta(t, 0.0, zs, testutil.PhasorTolerance)
	assert.InDelta(t, 1.0, p.Magnitude(), testutil.PhasorTolerance)
}

func TestPhasor_StepCorrectsPeriodically(t *testing.T) {
	p := NewPhasor[float64](testFrequency, testSampleRate)

	for range CorrectionInterval - 1 {
		p.Step()
	}
	assert.Equal(t, CorrectionInterval-1, p.rotations)

	p.Step()
	assert.Equal(t, 0, p.rotations, "Step should correct after CorrectionInterval rotations")

	for range testPeriod*CorrectionInterval - CorrectionInterval {
		p.Step()
	}
	zc, zs := p.Z()
	assert.InDelta(t, 1.0, zc, 1e-9)
	assert.InDelta(t, 0.0, zs, 1e-9)
}

func TestPhasor_CorrectPullsTowardUnitMagnitude(t *testing.T) {
	tests := []struct {
		name   string
		zc, zs float64
	}{
		{"too large", 1.01, 0},
		{"too small", 0, 0.99},
		{"diagonal", 0.71, 0.71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPhasor[float64](testFrequency, testSampleRate)
			p.zc, p.zs = tt.zc, tt.zs
			before := math.Abs(p.Magnitude() - 1)

			p.Correct()

			after := math.Abs(p.Magnitude() - 1)
			assert.Less(t, after, before)
			assert.Less(t, after, 1e-3)
		})
	}
}

func TestPhasor_SetFrequencyKeepsPhase(t *testing.T) {
	p := NewPhasor[float64](testFrequency, testSampleRate)
	for range 17 {
		p.Rotate()
	}
	zc, zs := p.Z()

	p.SetFrequency(880)

	zc2, zs2 := p.Z()
	assert.InDelta(t, zc, zc2, 0, "frequency change must not move the phase")
	assert.InDelta(t, zs, zs2, 0)

	wc, ws := p.W()
	omega := 2 * math.Pi * 880 / testSampleRate
	assert.InDelta(t, math.Cos(omega), wc, testutil.DefaultTolerance)
	assert.InDelta(t, math.Sin(omega), ws, testutil.DefaultTolerance)
	assert.InDelta(t, 880.0, p.Frequency(), 0)
}

func TestPhasor_SetSampleRateKeepsPhase(t *testing.T) {
	p := NewPhasor[float64](testFrequency, testSampleRate)
	for range 5 {
		p.Rotate()
	}
	angle := p.Angle()

	p.SetSampleRate(48000)

	assert.InDelta(t, angle, p.Angle(), 0)
	wc, _ := p.W()
	assert.InDelta(t, math.Cos(2*math.Pi*testFrequency/48000), wc, testutil.DefaultTolerance)
}

func TestPhasor_ResetPhase(t *testing.T) {
	p := NewPhasor[float32](testFrequency, testSampleRate)
	for range 33 {
		p.Step()
	}
	p.ResetPhase()

	zc, zs := p.Z()
	assert.Equal(t, float32(1), zc)
	assert.Equal(t, float32(0), zs)
	assert.Equal(t, 0, p.rotations)
}
