// Command tone-wav writes phasor oscillator output to a PCM WAV file.
//
// Usage:
//
//	tone-wav out.wav                               # 1s of 440 Hz at 44.1kHz
//	tone-wav -freq 1000 -dur 5 -bits 24 out.wav
//	tone-wav -freq 440 -freq2 445 out.wav           # stereo, one tone per channel
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	resonator "github.com/tphakala/go-audio-resonator"
	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

const (
	// Samples per channel generated per chunk
	chunkSize = 8192

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
	maxInt16        = 32767.0
	maxInt24        = 8388607.0
	maxInt32        = 2147483647.0
	wavFormatPCM    = 1

	// CLI defaults
	defaultFrequency = 440.0
	defaultDuration  = 1.0
	defaultAmplitude = 0.5
	minRequiredArgs  = 1

	monoChannels   = 1
	stereoChannels = 2
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// toneConfig describes the tone to generate.
type toneConfig struct {
	frequency  float64
	frequency2 float64 // Right channel frequency; 0 means mono
	duration   float64 // Seconds
	sampleRate int
	amplitude  float64
	bitDepth   int
}

func (c *toneConfig) validate() error {
	switch {
	case c.sampleRate <= 0:
		return errors.New("sample rate must be positive")
	case c.frequency <= 0 || c.frequency2 < 0:
		return errors.New("frequencies must be positive")
	case c.duration <= 0:
		return errors.New("duration must be positive")
	case c.amplitude < 0 || c.amplitude > 1:
		return errors.New("amplitude must be in [0, 1]")
	}
	switch c.bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return nil
	default:
		return fmt.Errorf("unsupported bit depth %d (16, 24 or 32)", c.bitDepth)
	}
}

func (c *toneConfig) channels() int {
	if c.frequency2 > 0 {
		return stereoChannels
	}
	return monoChannels
}

func run() error {
	freq := flag.Float64("freq", defaultFrequency, "Tone frequency in Hz")
	freq2 := flag.Float64("freq2", 0, "Second tone frequency in Hz for the right channel (stereo)")
	dur := flag.Float64("dur", defaultDuration, "Duration in seconds")
	rate := flag.Int("rate", resonator.RateCD, "Sample rate in Hz")
	amp := flag.Float64("amp", defaultAmplitude, "Peak amplitude (0-1)")
	bits := flag.Int("bits", bitsPerSample16, "Bit depth: 16, 24 or 32")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return errors.New("insufficient arguments")
	}

	cfg := toneConfig{
		frequency:  *freq,
		frequency2: *freq2,
		duration:   *dur,
		sampleRate: *rate,
		amplitude:  *amp,
		bitDepth:   *bits,
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	outputPath := args[0]
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	samples, err := writeTone(f, &cfg)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d samples, %d channels, %d Hz, %d-bit\n",
		filepath.Base(outputPath), samples, cfg.channels(), cfg.sampleRate, cfg.bitDepth)
	return nil
}

// writeTone encodes the configured tone as PCM and returns the number of
// samples written per channel.
func writeTone(w io.WriteSeeker, cfg *toneConfig) (int, error) {
	channels := cfg.channels()
	total := int(math.Round(cfg.duration * float64(cfg.sampleRate)))
	maxVal := maxValue(cfg.bitDepth)

	enc := wav.NewEncoder(w, cfg.sampleRate, cfg.bitDepth, channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: cfg.sampleRate},
		Data:           make([]int, chunkSize*channels),
		SourceBitDepth: cfg.bitDepth,
	}

	left := resonator.NewOscillator(cfg.frequency, float64(cfg.sampleRate), cfg.amplitude)
	var right *resonator.Oscillator
	if channels == stereoChannels {
		right = resonator.NewOscillator(cfg.frequency2, float64(cfg.sampleRate), cfg.amplitude)
	}

	ops := simdops.Float64Ops()
	leftBuf := make([]float64, chunkSize)
	rightBuf := make([]float64, chunkSize)
	interleaved := make([]float64, chunkSize*stereoChannels)

	for written := 0; written < total; {
		n := min(chunkSize, total-written)
		left.FillSamples(leftBuf[:n])

		samples := leftBuf[:n]
		if right != nil {
			right.FillSamples(rightBuf[:n])
			ops.Interleave2(interleaved[:n*stereoChannels], leftBuf[:n], rightBuf[:n])
			samples = interleaved[:n*stereoChannels]
		}

		buf.Data = buf.Data[:len(samples)]
		quantizeInto(buf.Data, samples, maxVal)
		if err := enc.Write(buf); err != nil {
			return written, fmt.Errorf("failed to write audio data: %w", err)
		}
		written += n
	}

	if err := enc.Close(); err != nil {
		return total, fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return total, nil
}

// maxValue returns the maximum sample value for the given bit depth.
func maxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// quantizeInto clamps samples to [-1, 1] and scales them to integers.
func quantizeInto(dst []int, samples []float64, maxVal float64) {
	for i, s := range samples {
		s = max(-1, min(1, s))
		dst[i] = int(math.Round(s * maxVal))
	}
}
