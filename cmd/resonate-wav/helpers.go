package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	resonator "github.com/tphakala/go-audio-resonator"
	"github.com/tphakala/go-audio-resonator/internal/engine"
	"github.com/tphakala/go-audio-resonator/internal/mathutil"
	"github.com/tphakala/go-audio-resonator/internal/stream"
)

// Float constraint for generic analysis.
type Float interface {
	float32 | float64
}

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	channels     int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	inputRate := format.SampleRate
	channels := format.NumChannels
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", inputRate, channels, bitDepth)
	}

	if inputRate <= 0 || channels <= 0 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported WAV format: %d Hz, %d channels", inputRate, channels)
	}

	// Get total duration for progress reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}
	totalSamples := int64(duration.Seconds() * float64(inputRate))

	return &wavInputInfo{
		file:         inputFile,
		decoder:      decoder,
		rate:         inputRate,
		channels:     channels,
		bitDepth:     bitDepth,
		totalSamples: totalSamples,
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// normalizeInto converts integer PCM samples to floats in [-1, 1].
func normalizeInto[F Float](dst []F, data []int, invMaxVal float64) {
	for i, v := range data {
		dst[i] = F(float64(v) * invMaxVal)
	}
}

// bankFrequencies returns mel band centers when mel > 0, semitones otherwise.
func bankFrequencies(semitones int, low float64, mel int, sampleRate float64) []float64 {
	if mel > 0 {
		return resonator.MelBandCenters(mel, defaultMelMinHz, sampleRate*melMaxFraction)
	}
	return resonator.SemitoneFrequencies(low, semitones)
}

// bankOptions selects and tunes the bank used for analysis.
type bankOptions struct {
	frequencies []float64
	sampleRate  float64
	vector      bool
	parallel    bool
	tracking    bool
}

// config returns the float64 bank configuration for the options.
func (o bankOptions) config() *resonator.Config {
	layout := resonator.LayoutArray
	if o.vector {
		layout = resonator.LayoutVector
	}
	return &resonator.Config{
		SampleRate:     o.sampleRate,
		Frequencies:    o.frequencies,
		Layout:         layout,
		EnableParallel: o.parallel,
		TrackFrequency: o.tracking,
	}
}

// validate checks the options before any bank is built.
func (o bankOptions) validate() error {
	if err := o.config().Validate(); err != nil {
		return fmt.Errorf("failed to create resonator bank: %w", err)
	}
	return nil
}

// channelBank is the part of a resonator bank the analysis loop needs.
type channelBank[F Float] interface {
	processFrame(frame []F, length, stride int) error
	amplitudes() []float64
	trackedFrequencies() []float64
	frequencies() []float64
}

// preciseBank analyzes with a float64 bank of either layout.
type preciseBank struct {
	bank resonator.Bank
}

func newPreciseBank(opts bankOptions) (*preciseBank, error) {
	bank, err := resonator.New(opts.config())
	if err != nil {
		return nil, fmt.Errorf("failed to create resonator bank: %w", err)
	}
	return &preciseBank{bank: bank}, nil
}

func (b *preciseBank) processFrame(frame []float64, length, stride int) error {
	return b.bank.ProcessFrame(frame, length, stride)
}

func (b *preciseBank) amplitudes() []float64         { return b.bank.Amplitudes() }
func (b *preciseBank) trackedFrequencies() []float64 { return b.bank.TrackedFrequencies() }
func (b *preciseBank) frequencies() []float64        { return b.bank.Frequencies() }

// fastBank analyzes with a float32 array bank.
type fastBank struct {
	bank     *engine.ArrayBank[float32]
	parallel bool
	amps     []float64
}

func newFastBank(opts bankOptions) (*fastBank, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	bank := engine.NewArrayBankWithHeuristic[float32](
		opts.frequencies, opts.sampleRate, mathutil.DefaultHeuristicK, mathutil.AlphaHeuristic,
	)
	bank.SetTracking(opts.tracking)

	// Derived gains can leave (0, 1] at extreme frequencies.
	config := opts.config()
	config.Alphas = make([]float64, bank.Len())
	for i, a := range bank.Alphas() {
		config.Alphas[i] = float64(a)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create resonator bank: %w", err)
	}

	return &fastBank{
		bank:     bank,
		parallel: opts.parallel,
		amps:     make([]float64, bank.Len()),
	}, nil
}

func (b *fastBank) processFrame(frame []float32, length, stride int) error {
	if length < 0 || stride < 1 || (length > 0 && (len(frame) == 0 || length-1 > (len(frame)-1)/stride)) {
		return fmt.Errorf("%w: %d samples at stride %d", resonator.ErrInvalidFrame, length, stride)
	}
	if b.parallel {
		b.bank.UpdateConcurrent(frame, length, stride)
	} else {
		b.bank.UpdateFrame(frame, length, stride)
	}
	return nil
}

func (b *fastBank) amplitudes() []float64 {
	for i, a := range b.bank.Amplitudes() {
		b.amps[i] = float64(a)
	}
	return b.amps
}

func (b *fastBank) trackedFrequencies() []float64 { return b.bank.TrackedFrequencies() }
func (b *fastBank) frequencies() []float64        { return b.bank.Frequencies() }

// logBankInfo logs the layout details of a float64 bank.
func logBankInfo(b *preciseBank) {
	info := resonator.GetInfo(b.bank)
	log.Printf("Layout: %s, lanes: %d, parallel: %v, tracking: %v",
		info.Layout, info.Lanes, info.Parallel, info.Tracking)
	log.Printf("Memory usage: %d bytes, SIMD: %s", info.MemoryUsage, info.SIMDType)
}

// analysisStats holds the result of analyzing one channel.
type analysisStats struct {
	samples     int64
	frames      int64
	frequencies []float64
	amplitudes  []float64
	tracked     []float64
}

// analyzeWAV reads the whole input, feeds one channel to the bank frame by
// frame, and writes the dominant resonator of each frame to out.
func analyzeWAV[F Float](
	input *wavInputInfo,
	bank channelBank[F],
	frameLength, channel int,
	out io.Writer,
	verbose bool,
) (*analysisStats, error) {
	channels := input.channels
	framer, err := stream.NewFramer[F](frameLength, channels)
	if err != nil {
		return nil, err
	}

	intBuffer := &audio.IntBuffer{
		Data:   make([]int, bufferSize*channels),
		Format: input.format,
	}
	samples := make([]F, bufferSize*channels)
	invMaxVal := 1.0 / getMaxValue(input.bitDepth)

	reporter := &frameReporter{
		out:         out,
		sampleRate:  float64(input.rate),
		frameLength: frameLength,
		frequencies: bank.frequencies(),
	}
	progress := newProgressTracker(input.totalSamples, verbose)
	stats := &analysisStats{frequencies: reporter.frequencies}

	process := func(frame []F, length int) error {
		if err := bank.processFrame(frame[channel:], length, channels); err != nil {
			return fmt.Errorf("frame %d: %w", stats.frames, err)
		}
		stats.frames++
		return reporter.report(bank.amplitudes(), bank.trackedFrequencies())
	}

	for {
		n, err := input.decoder.PCMBuffer(intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		// n counts interleaved samples; drop a trailing partial frame.
		n -= n % channels
		normalizeInto(samples, intBuffer.Data[:n], invMaxVal)
		framer.Write(samples[:n])
		stats.samples += int64(n / channels)

		for {
			frame, ok := framer.Next()
			if !ok {
				break
			}
			if err := process(frame, frameLength); err != nil {
				return nil, err
			}
		}

		progress.reportIfNeeded(stats.samples)
	}

	if frame, valid, ok := framer.Flush(); ok && valid > 0 {
		if err := process(frame, valid); err != nil {
			return nil, err
		}
	}

	stats.amplitudes = append([]float64(nil), bank.amplitudes()...)
	stats.tracked = bank.trackedFrequencies()
	return stats, nil
}

// frameReporter writes one line per analyzed frame.
type frameReporter struct {
	out         io.Writer
	sampleRate  float64
	frameLength int
	frequencies []float64
	frames      int64
}

func (r *frameReporter) report(amplitudes, tracked []float64) error {
	start := float64(r.frames*int64(r.frameLength)) / r.sampleRate
	r.frames++

	i := resonator.DominantIndex(amplitudes)
	if i < 0 {
		return nil
	}
	_, err := fmt.Fprintf(r.out, "%9.3fs  %10.2f Hz  %10.2f Hz  %.6f\n",
		start, r.frequencies[i], tracked[i], amplitudes[i])
	return err
}

// writeAmplitudeTable writes the final state of every resonator.
func writeAmplitudeTable(out io.Writer, frequencies, amplitudes, tracked []float64, tracking bool) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	if tracking {
		_, _ = fmt.Fprintln(tw, "Frequency (Hz)\tTracked (Hz)\tAmplitude\t")
	} else {
		_, _ = fmt.Fprintln(tw, "Frequency (Hz)\tAmplitude\t")
	}

	for i, f := range frequencies {
		if tracking {
			_, _ = fmt.Fprintf(tw, "%.2f\t%.2f\t%.6f\t\n", f, tracked[i], amplitudes[i])
		} else {
			_, _ = fmt.Fprintf(tw, "%.2f\t%.6f\t\n", f, amplitudes[i])
		}
	}
	_ = tw.Flush()
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalSamples int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalSamples int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalSamples: totalSamples,
		verbose:      verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentSamples int64) {
	if !p.verbose || p.totalSamples == 0 {
		return
	}

	progress := int(float64(currentSamples) / float64(p.totalSamples) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}
