package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"gonum.org/v1/gonum/floats"

	resonator "github.com/tphakala/go-audio-resonator"
	"github.com/tphakala/go-audio-resonator/internal/mathutil"
)

func main() {
	// Command-line flags
	var (
		sampleRate = flag.Float64("rate", defaultSampleRate, "Sample rate in Hz")
		low        = flag.Float64("low", defaultLowHz, "Lowest semitone frequency in Hz")
		count      = flag.Int("count", defaultCount, "Number of semitone resonators")
		layout     = flag.String("layout", "array", "Bank layout: array, vector")
		parallel   = flag.Bool("parallel", false, "Update array-layout resonators in concurrent lanes")
		demo       = flag.Bool("demo", false, "Run a demonstration")
	)
	flag.Parse()

	if *demo {
		runDemo()
		return
	}

	config := resonator.Config{
		SampleRate:     *sampleRate,
		Frequencies:    resonator.SemitoneFrequencies(*low, *count),
		Layout:         parseLayout(*layout),
		EnableParallel: *parallel,
	}

	bank, err := resonator.New(&config)
	if err != nil {
		log.Fatalf("Failed to create bank: %v", err)
	}

	info := resonator.GetInfo(bank)
	fmt.Printf("Resonator bank created:\n")
	fmt.Printf("  Layout: %s\n", info.Layout)
	fmt.Printf("  Resonators: %d (%.2f Hz - %.2f Hz)\n",
		info.Resonators, config.Frequencies[0], config.Frequencies[len(config.Frequencies)-1])
	fmt.Printf("  Lanes: %d (parallel: %v)\n", info.Lanes, info.Parallel)
	fmt.Printf("  Memory usage: %.2f KB\n", float64(info.MemoryUsage)/bytesPerKilobyte)
	fmt.Printf("  SIMD: %s\n", info.SIMDType)

	fmt.Println("\nProcessing test signal...")
	signal := tone(testSignalSamples, testSignalFrequency, *sampleRate, testSignalAmplitude)
	bank.ProcessSamples(signal)

	peak := resonator.DominantIndex(bank.Amplitudes())
	fmt.Printf("Input: %d samples of %.0f Hz\n", len(signal), testSignalFrequency)
	fmt.Printf("Strongest resonator: %.2f Hz, amplitude %.4f\n",
		bank.Frequencies()[peak], bank.Amplitudes()[peak])
	fmt.Printf("Spectral centroid: %.2f Hz\n", resonator.SpectralCentroid(bank.Frequencies(), bank.Powers()))
}

func parseLayout(s string) resonator.Layout {
	switch strings.ToLower(s) {
	case "vector", "vec":
		return resonator.LayoutVector
	default:
		return resonator.LayoutArray
	}
}

// tone returns n samples of a cosine oscillator.
func tone(n int, frequency, sampleRate, amplitude float64) []float64 {
	return resonator.NewOscillator(frequency, sampleRate, amplitude).NextSamples(n)
}

// mix adds b into a and returns a.
func mix(a, b []float64) []float64 {
	floats.Add(a, b)
	return a
}

func runDemo() {
	fmt.Println("=== Go Audio Resonator Demo ===")

	// Demo 1: Layouts
	fmt.Println("\n1. Comparing Layouts")
	fmt.Println("--------------------")

	signal := mix(
		tone(testSignalSamples, testSignalFrequency, defaultSampleRate, 0.5),
		tone(testSignalSamples, 2*testSignalFrequency, defaultSampleRate, 0.25),
	)

	layouts := []struct {
		name     string
		layout   resonator.Layout
		parallel bool
	}{
		{"Array", resonator.LayoutArray, false},
		{"Array (parallel)", resonator.LayoutArray, true},
		{"Vector", resonator.LayoutVector, false},
	}

	for _, l := range layouts {
		bank, err := resonator.New(&resonator.Config{
			SampleRate:     defaultSampleRate,
			Frequencies:    resonator.SemitoneFrequencies(defaultLowHz, defaultCount+12),
			Layout:         l.layout,
			EnableParallel: l.parallel,
		})
		if err != nil {
			fmt.Printf("  %s: Error - %v\n", l.name, err)
			continue
		}
		bank.ProcessSamples(signal)

		info := resonator.GetInfo(bank)
		peak := resonator.DominantIndex(bank.Amplitudes())
		fmt.Printf("  %s: peak %.2f Hz (%.4f), %d lanes, %.1f KB memory\n",
			l.name, bank.Frequencies()[peak], bank.Amplitudes()[peak],
			info.Lanes, float64(info.MemoryUsage)/bytesPerKilobyte)
	}

	// Demo 2: Bandwidth
	fmt.Println("\n2. Bandwidth Sweep")
	fmt.Println("------------------")

	taus := mathutil.LogFrequencies(demoSweepSteps, demoNarrowTau, demoWideTau)
	sweep, err := resonator.NewBandwidthSweep(testSignalFrequency, taus, defaultSampleRate)
	if err != nil {
		fmt.Printf("  Error - %v\n", err)
	} else {
		burst := tone(demoFrameLength, testSignalFrequency, defaultSampleRate, 1)
		sweep.ProcessSamples(burst)
		for i, a := range sweep.Amplitudes() {
			fmt.Printf("  tau %6.1f ms: amplitude %.4f after %d samples\n", taus[i]*1000, a, demoFrameLength)
		}
	}

	// Demo 3: Frequency tracking
	fmt.Println("\n3. Frequency Tracking")
	fmt.Println("---------------------")

	observed := demoSirenHz * demoSirenShift
	tracker, err := resonator.New(&resonator.Config{
		SampleRate:     defaultSampleRate,
		Frequencies:    []float64{demoSirenHz},
		Alphas:         []float64{resonator.AlphaFromTimeConstant(0.05, defaultSampleRate)},
		TrackFrequency: true,
	})
	if err != nil {
		fmt.Printf("  Error - %v\n", err)
	} else {
		siren := tone(int(defaultSampleRate), observed, defaultSampleRate, 1)
		for i := 0; i+demoFrameLength <= len(siren); i += demoFrameLength {
			_ = tracker.ProcessFrame(siren[i:], demoFrameLength, 1)
		}
		tracked := tracker.TrackedFrequencies()[0]
		fmt.Printf("  Emitted %.1f Hz, observed %.1f Hz, tracked %.2f Hz\n", demoSirenHz, observed, tracked)
		fmt.Printf("  Source velocity: %.2f m/s\n", resonator.DopplerVelocity(tracked, demoSirenHz))
	}

	// Demo 4: Mel bank
	fmt.Println("\n4. Mel Bank")
	fmt.Println("-----------")

	melBank, err := resonator.NewMelBank(demoMelBands, demoMelMinHz, demoMelMaxHz, resonator.RateVoIP)
	if err != nil {
		fmt.Printf("  Error - %v\n", err)
	} else {
		speechLike := mix(
			tone(resonator.RateVoIP, 300, resonator.RateVoIP, 0.5),
			tone(resonator.RateVoIP, 2400, resonator.RateVoIP, 0.2),
		)
		melBank.ProcessSamples(speechLike)
		peak := resonator.DominantIndex(melBank.Amplitudes())
		fmt.Printf("  %d bands from %.1f Hz to %.1f Hz\n",
			melBank.Len(), melBank.Frequencies()[0], melBank.Frequencies()[melBank.Len()-1])
		fmt.Printf("  Strongest band: %.1f Hz\n", melBank.Frequencies()[peak])
		fmt.Printf("  Spectral centroid: %.1f Hz\n",
			resonator.SpectralCentroid(melBank.Frequencies(), melBank.Powers()))
	}

	fmt.Println("\n=== Demo Complete ===")
}
