package main

// Default command-line flag values
const (
	defaultSampleRate = 44100.0 // CD quality sample rate
	defaultLowHz      = 220.0   // A3
	defaultCount      = 24      // Two octaves of semitones
)

// Test signal parameters
const (
	testSignalFrequency = 440.0 // A4
	testSignalSamples   = 8192  // Default test signal length
	testSignalAmplitude = 0.8
)

// Demo parameters
const (
	demoFrameLength = 1024
	demoMelBands    = 40
	demoMelMinHz    = 30.0
	demoMelMaxHz    = 8000.0
	demoSirenHz     = 1000.0 // Emitted frequency of the approaching source
	demoSirenShift  = 1.012  // Observed/emitted ratio
	demoWideTau     = 0.002  // Seconds
	demoNarrowTau   = 0.2    // Seconds
	demoSweepSteps  = 5
)

// Memory conversion
const (
	bytesPerKilobyte = 1024
)
