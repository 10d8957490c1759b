// Command resonate-wav runs a resonator bank over one channel of a WAV file
// and prints the strongest resonator of every frame.
//
// Usage:
//
//	resonate-wav input.wav
//	resonate-wav -semitones 48 -low 110 -track input.wav
//	resonate-wav -mel 64 -vec input.wav
//	resonate-wav -channel 1 -frame 2048 -fast stereo.wav   # float32 array bank
//
// Parallel lane updates are enabled by default for the array layout and
// produce the same amplitudes as sequential processing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"
)

const (
	// Buffer size for reading (samples per channel per chunk)
	bufferSize = 65536

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	// CLI defaults
	defaultFrameLength = 1024
	defaultSemitones   = 48
	defaultLowHz       = 110.0 // A2
	defaultMelMinHz    = 30.0
	melMaxFraction     = 0.45 // Upper mel edge as a fraction of the sample rate
	minRequiredArgs    = 1
)

var errUsage = errors.New("insufficient arguments")

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	semitones := flag.Int("semitones", defaultSemitones, "Number of semitone resonators")
	low := flag.Float64("low", defaultLowHz, "Lowest semitone frequency in Hz")
	mel := flag.Int("mel", 0, "Use N mel-spaced resonators instead of semitones")
	frameLength := flag.Int("frame", defaultFrameLength, "Frame length in samples per channel")
	channel := flag.Int("channel", 0, "Channel to analyze (0-based)")
	vec := flag.Bool("vec", false, "Use the vector layout")
	parallel := flag.Bool("parallel", true, "Update array-layout resonators in concurrent lanes")
	track := flag.Bool("track", false, "Enable frequency tracking")
	fast := flag.Bool("fast", false, "Use a float32 array bank")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s music.wav                      # 4 octaves of semitones from A2\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -mel 64 -vec speech.wav        # 64 mel bands, vector layout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -track -channel 1 stereo.wav   # right channel with tracking\n", os.Args[0])
		return errUsage
	}

	if *fast && *vec {
		return errors.New("-fast and -vec cannot be combined: the vector layout is float64 only")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	inputPath := args[0]
	input, err := openWAVInput(inputPath, *verbose)
	if err != nil {
		return err
	}
	defer func() { _ = input.Close() }()

	if *channel < 0 || *channel >= input.channels {
		return fmt.Errorf("channel %d out of range for %d-channel input", *channel, input.channels)
	}

	opts := bankOptions{
		frequencies: bankFrequencies(*semitones, *low, *mel, float64(input.rate)),
		sampleRate:  float64(input.rate),
		vector:      *vec,
		parallel:    *parallel,
		tracking:    *track,
	}

	if err := opts.validate(); err != nil {
		return err
	}

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Resonators: %d (%.2f Hz - %.2f Hz)",
			len(opts.frequencies), opts.frequencies[0], opts.frequencies[len(opts.frequencies)-1])
		log.Printf("Frame: %d samples, channel %d of %d", *frameLength, *channel, input.channels)
		if *fast {
			log.Printf("Precision: float32 (fast mode)")
		} else {
			log.Printf("Precision: float64 (high precision)")
		}
	}

	start := time.Now()
	var stats *analysisStats
	if *fast {
		bank, err := newFastBank(opts)
		if err != nil {
			return err
		}
		stats, err = analyzeWAV[float32](input, bank, *frameLength, *channel, os.Stdout, *verbose)
		if err != nil {
			return err
		}
	} else {
		bank, err := newPreciseBank(opts)
		if err != nil {
			return err
		}
		if *verbose {
			logBankInfo(bank)
		}
		stats, err = analyzeWAV[float64](input, bank, *frameLength, *channel, os.Stdout, *verbose)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("\nAnalyzed %s\n", filepath.Base(inputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit\n", input.rate, input.channels, input.bitDepth)
	fmt.Printf("  %d samples in %d frames\n", stats.samples, stats.frames)
	if elapsed > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(),
			float64(stats.samples)/float64(input.rate)/elapsed.Seconds())
	}
	fmt.Println()
	writeAmplitudeTable(os.Stdout, stats.frequencies, stats.amplitudes, stats.tracked, *track)

	return nil
}
