package resonator

import (
	"github.com/tphakala/simd/cpu"

	"github.com/tphakala/go-audio-resonator/internal/engine"
)

// arrayBank implements Bank over one resonator struct per frequency.
// Frames are spread over concurrent lanes when parallel processing is enabled.
type arrayBank struct {
	bank     *engine.ArrayBank[float64]
	parallel bool
}

func newArrayBank(config *Config, alphas []float64) (*arrayBank, error) {
	bank, err := engine.NewArrayBank(config.Frequencies, alphas, config.Betas, config.SampleRate)
	if err != nil {
		return nil, err
	}

	if config.Lanes > 0 {
		bank.SetLanes(config.Lanes)
	}
	bank.SetTracking(config.TrackFrequency)

	return &arrayBank{
		bank:     bank,
		parallel: config.EnableParallel,
	}, nil
}

func (b *arrayBank) Process(sample float64) {
	b.bank.Update(sample)
}

func (b *arrayBank) ProcessSamples(samples []float64) {
	b.update(samples, len(samples), 1)
}

func (b *arrayBank) ProcessFrame(frame []float64, length, stride int) error {
	if err := checkFrame(frame, length, stride); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	b.update(frame, length, stride)
	return nil
}

func (b *arrayBank) update(frame []float64, length, stride int) {
	if b.parallel {
		b.bank.UpdateConcurrent(frame, length, stride)
		return
	}
	b.bank.UpdateFrame(frame, length, stride)
}

func (b *arrayBank) Amplitudes() []float64         { return b.bank.Amplitudes() }
func (b *arrayBank) Powers() []float64             { return b.bank.Powers() }
func (b *arrayBank) TrackedFrequencies() []float64 { return b.bank.TrackedFrequencies() }
func (b *arrayBank) Frequencies() []float64        { return b.bank.Frequencies() }
func (b *arrayBank) Len() int                      { return b.bank.Len() }
func (b *arrayBank) Reset()                        { b.bank.Reset() }

func (b *arrayBank) SetAllAlphas(alpha float64) error {
	if err := validateGain(alpha); err != nil {
		return err
	}
	b.bank.SetAllAlphas(alpha)
	return nil
}

// GetInfo returns information about the bank.
func (b *arrayBank) GetInfo() Info {
	lanes := 1
	if b.parallel {
		lanes = min(b.bank.Lanes(), b.bank.Len())
	}
	return Info{
		Layout:      LayoutArray.String(),
		Resonators:  b.bank.Len(),
		Lanes:       lanes,
		Parallel:    b.parallel && lanes > 1,
		Tracking:    b.bank.Tracking(),
		MemoryUsage: b.bank.MemoryUsage(),
		SIMDType:    "none",
	}
}

// vectorBank implements Bank over split real/imaginary buffers.
type vectorBank struct {
	bank *engine.VectorBank
}

func newVectorBank(config *Config, alphas []float64) (*vectorBank, error) {
	bank, err := engine.NewVectorBank(config.Frequencies, alphas, config.Betas, config.SampleRate)
	if err != nil {
		return nil, err
	}
	bank.SetTracking(config.TrackFrequency)
	return &vectorBank{bank: bank}, nil
}

func (b *vectorBank) Process(sample float64) {
	b.bank.Update(sample)
}

func (b *vectorBank) ProcessSamples(samples []float64) {
	b.bank.UpdateSamples(samples)
}

func (b *vectorBank) ProcessFrame(frame []float64, length, stride int) error {
	if err := checkFrame(frame, length, stride); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	b.bank.UpdateFrame(frame, length, stride)
	return nil
}

func (b *vectorBank) Amplitudes() []float64         { return b.bank.Amplitudes() }
func (b *vectorBank) Powers() []float64             { return b.bank.Powers() }
func (b *vectorBank) TrackedFrequencies() []float64 { return b.bank.TrackedFrequencies() }
func (b *vectorBank) Frequencies() []float64        { return b.bank.Frequencies() }
func (b *vectorBank) Len() int                      { return b.bank.Len() }
func (b *vectorBank) Reset()                        { b.bank.Reset() }

func (b *vectorBank) SetAllAlphas(alpha float64) error {
	if err := validateGain(alpha); err != nil {
		return err
	}
	b.bank.SetAllAlphas(alpha)
	return nil
}

// GetInfo returns information about the bank.
func (b *vectorBank) GetInfo() Info {
	return Info{
		Layout:      LayoutVector.String(),
		Resonators:  b.bank.Len(),
		Lanes:       1,
		Tracking:    b.bank.Tracking(),
		MemoryUsage: b.bank.MemoryUsage(),
		SIMDType:    cpu.Info(),
	}
}
