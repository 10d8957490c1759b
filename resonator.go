package resonator

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-resonator/internal/engine"
)

// Bank is the main interface for a bank of resonators.
// Both memory layouts implement it; they differ only in how the per-sample
// recurrences are scheduled, not in their results.
type Bank interface {
	// Process feeds one sample to every resonator.
	Process(sample float64)

	// ProcessSamples feeds a contiguous block of samples.
	ProcessSamples(samples []float64)

	// ProcessFrame feeds length samples read from frame at the given stride.
	// A stride greater than one selects a single channel of interleaved audio.
	ProcessFrame(frame []float64, length, stride int) error

	// Amplitudes returns the smoothed magnitude of every resonator.
	// The slice is owned by the bank and updated in place.
	Amplitudes() []float64

	// Powers returns the squared smoothed magnitude of every resonator.
	Powers() []float64

	// TrackedFrequencies returns the estimated signal frequency near each
	// resonator. Without tracking enabled this equals Frequencies.
	TrackedFrequencies() []float64

	// Frequencies returns the nominal resonator frequencies.
	Frequencies() []float64

	// Len returns the number of resonators.
	Len() int

	// SetAllAlphas sets the same alpha on every resonator.
	SetAllAlphas(alpha float64) error

	// Reset clears all resonator state while keeping tuning and gains.
	Reset()
}

// Layout selects the memory layout of a bank.
type Layout int

const (
	// LayoutArray keeps one resonator struct per frequency. Supports
	// concurrent lane updates.
	LayoutArray Layout = iota

	// LayoutVector keeps split real/imaginary buffers and updates every
	// resonator with vector kernels.
	LayoutVector
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutArray:
		return "array"
	case LayoutVector:
		return "vector"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// AlphaHeuristic derives an alpha for a resonator from its frequency.
type AlphaHeuristic = engine.AlphaHeuristic

// Config holds bank configuration.
type Config struct {
	// SampleRate is the sample rate of the input audio in Hz.
	SampleRate float64

	// Frequencies are the nominal resonator frequencies in Hz.
	Frequencies []float64

	// Alphas are the first-stage smoothing gains, one per frequency.
	// When nil, alphas are derived from Heuristic.
	Alphas []float64

	// Betas are the second-stage smoothing gains, one per frequency.
	// When nil, each resonator uses its alpha.
	Betas []float64

	// Heuristic derives alphas when Alphas is nil.
	// Defaults to the constant-Q style AlphaHeuristic.
	Heuristic AlphaHeuristic

	// HeuristicK is the bandwidth factor passed to Heuristic.
	// Set to 0 to use the default.
	HeuristicK float64

	// Layout selects the array or vector memory layout.
	Layout Layout

	// EnableParallel updates array-layout resonators concurrently in lanes.
	// Results are identical to sequential processing. Has no effect on the
	// vector layout.
	EnableParallel bool

	// Lanes is the number of concurrent lanes. Set to 0 to use the default.
	Lanes int

	// TrackFrequency enables per-frame frequency tracking.
	TrackFrequency bool
}

// Common errors returned by the resonator bank.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid resonator configuration")

	// ErrLengthMismatch indicates per-resonator slices of different lengths.
	ErrLengthMismatch = engine.ErrLengthMismatch

	// ErrInvalidFrame indicates frame bounds that do not fit the frame.
	ErrInvalidFrame = errors.New("invalid frame")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 || math.IsInf(c.SampleRate, 0) || math.IsNaN(c.SampleRate) {
		return fmt.Errorf("%w: sample rate must be positive and finite", ErrInvalidConfig)
	}

	if len(c.Frequencies) == 0 {
		return fmt.Errorf("%w: at least one frequency is required", ErrInvalidConfig)
	}

	for i, f := range c.Frequencies {
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("%w: frequency %d (%v) must be positive and finite", ErrInvalidConfig, i, f)
		}
	}

	if c.Alphas != nil {
		if len(c.Alphas) != len(c.Frequencies) {
			return fmt.Errorf("%w: %w: %d alphas for %d frequencies",
				ErrInvalidConfig, ErrLengthMismatch, len(c.Alphas), len(c.Frequencies))
		}
		if err := validateGains("alpha", c.Alphas); err != nil {
			return err
		}
	}

	if c.Betas != nil {
		if len(c.Betas) != len(c.Frequencies) {
			return fmt.Errorf("%w: %w: %d betas for %d frequencies",
				ErrInvalidConfig, ErrLengthMismatch, len(c.Betas), len(c.Frequencies))
		}
		if err := validateGains("beta", c.Betas); err != nil {
			return err
		}
	}

	if c.HeuristicK < 0 {
		return fmt.Errorf("%w: heuristic k must not be negative", ErrInvalidConfig)
	}

	if c.Lanes < 0 {
		return fmt.Errorf("%w: lanes must not be negative", ErrInvalidConfig)
	}

	if c.Layout != LayoutArray && c.Layout != LayoutVector {
		return fmt.Errorf("%w: unknown layout %v", ErrInvalidConfig, c.Layout)
	}

	return nil
}

func validateGains(name string, gains []float64) error {
	for i, g := range gains {
		if err := validateGain(g); err != nil {
			return fmt.Errorf("%w (%s %d)", err, name, i)
		}
	}
	return nil
}

func validateGain(g float64) error {
	if !(g > 0 && g <= 1) {
		return fmt.Errorf("%w: gain %v must be in (0, 1]", ErrInvalidConfig, g)
	}
	return nil
}

// resolveAlphas returns the configured alphas or derives them from the heuristic.
func (c *Config) resolveAlphas() ([]float64, error) {
	if c.Alphas != nil {
		return append([]float64(nil), c.Alphas...), nil
	}

	heuristic := c.Heuristic
	if heuristic == nil {
		heuristic = DefaultHeuristic
	}
	k := c.HeuristicK
	if k == 0 {
		k = DefaultHeuristicK
	}

	alphas := make([]float64, len(c.Frequencies))
	for i, f := range c.Frequencies {
		alphas[i] = heuristic(f, c.SampleRate, k)
	}
	if err := validateGains("derived alpha", alphas); err != nil {
		return nil, err
	}
	return alphas, nil
}

// New creates a new resonator bank with the specified configuration.
// The layout is chosen by Config.Layout; alphas come from Config.Alphas or
// the configured heuristic.
func New(config *Config) (Bank, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	alphas, err := config.resolveAlphas()
	if err != nil {
		return nil, err
	}

	switch config.Layout {
	case LayoutVector:
		return newVectorBank(config, alphas)
	default:
		return newArrayBank(config, alphas)
	}
}

// checkFrame validates a strided frame against its backing slice.
func checkFrame(frame []float64, length, stride int) error {
	if length < 0 {
		return fmt.Errorf("%w: negative length %d", ErrInvalidFrame, length)
	}
	if stride < 1 {
		return fmt.Errorf("%w: stride %d must be at least 1", ErrInvalidFrame, stride)
	}
	if length > 0 && (len(frame) == 0 || length-1 > (len(frame)-1)/stride) {
		return fmt.Errorf("%w: %d samples at stride %d exceed frame of %d", ErrInvalidFrame, length, stride, len(frame))
	}
	return nil
}

// Info returns information about the bank implementation.
type Info struct {
	// Layout is the memory layout in use.
	Layout string

	// Resonators is the number of resonators in the bank.
	Resonators int

	// Lanes is the number of concurrent update lanes.
	Lanes int

	// Parallel indicates that frames are processed concurrently.
	Parallel bool

	// Tracking indicates that frequency tracking is enabled.
	Tracking bool

	// MemoryUsage is the approximate memory usage in bytes.
	MemoryUsage int64

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// infoProvider is an optional interface for banks that can provide detailed info.
type infoProvider interface {
	GetInfo() Info
}

// GetInfo returns information about a bank.
// If the bank implements the infoProvider interface, it returns actual values.
// Otherwise, it returns basic info based on the bank's public methods.
func GetInfo(b Bank) Info {
	if provider, ok := b.(infoProvider); ok {
		return provider.GetInfo()
	}

	return Info{
		Layout:     "unknown",
		Resonators: b.Len(),
		Lanes:      1,
		SIMDType:   "none",
	}
}
