// Package resonator provides banks of phasor-based resonators for real-time
// spectral analysis of audio in pure Go.
//
// Each resonator correlates the input with a complex phasor at its own
// frequency and smooths the product with two exponential moving averages.
// The smoothed magnitude is a sliding-window estimate of how much energy the
// signal carries near that frequency, available after every sample with no
// block transform.
//
// # Features
//
//   - Phasors advanced by a 3-multiply complex rotation with periodic
//     Newton magnitude correction
//   - Per-resonator smoothing gains, or gains derived from a constant-Q
//     style heuristic
//   - Optional per-frame frequency tracking from the phase drift
//   - Two bank layouts with identical results: an array of resonators that
//     can be updated in concurrent lanes, and split real/imaginary buffers
//     updated with vector kernels
//   - Strided frame input for interleaved multi-channel audio
//   - Optional SIMD acceleration via github.com/tphakala/simd
//
// # Quick Start
//
// A bank of two octaves of semitones from A3:
//
//	bank, err := resonator.NewSemitoneBank(220, 24, resonator.RateCD)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for frame := range frames {
//	    bank.ProcessSamples(frame)
//	    amplitudes := bank.Amplitudes()
//	    peak := resonator.DominantIndex(amplitudes)
//	    fmt.Printf("%.2f Hz\n", bank.Frequencies()[peak])
//	}
//
// For full control, fill a [Config]:
//
//	bank, err := resonator.New(&resonator.Config{
//	    SampleRate:     48000,
//	    Frequencies:    resonator.MelFrequencies(64, 40, 8000, false),
//	    Layout:         resonator.LayoutVector,
//	    TrackFrequency: true,
//	})
//
// # Smoothing Gains
//
// Alpha is the gain of the first moving average and beta of the second.
// A gain g corresponds to a time constant of -1/(sampleRate·ln(1-g))
// seconds; see [AlphaFromTimeConstant] and [TimeConstant]. Smaller gains
// give narrower bands and slower response. When Config.Alphas is nil the
// gains come from [DefaultHeuristic], which narrows low resonators in
// absolute Hz.
//
// # Layouts
//
// [LayoutArray] keeps one resonator per frequency. With
// Config.EnableParallel set, a frame is split over worker lanes where lane
// k owns resonators k, k+lanes, ... Results are bit-identical to the
// sequential path.
//
// [LayoutVector] keeps all phasors and accumulators in split
// [re... | im...] buffers and advances every resonator with one pass of
// vector kernels per sample. Phasors are renormalized exactly at the end of
// each frame.
//
// # Multi-Channel Audio
//
// [Bank.ProcessFrame] reads length samples at a stride, so one channel of
// interleaved audio can be analyzed in place. [Analyzer] keeps one bank
// per channel and can process channels concurrently.
//
// # Thread Safety
//
// A [Bank] is not safe for concurrent use. Separate banks, including the
// per-channel banks of an [Analyzer], may be used from different goroutines.
package resonator
