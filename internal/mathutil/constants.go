package mathutil

// Physical constants
const (
	speedOfSound = 346.0 // m/s at room temperature
)

// Equal temperament
const (
	semitonesPerOctave = 12.0
	a4Frequency        = 440.0 // Hz
	a4MidiNote         = 69.0
)

// Slaney mel scale: linear below 1 kHz, logarithmic above
const (
	slaneyMinLogHz  = 1000.0
	slaneyHzPerMel  = 200.0 / 3
	slaneyMinLogMel = slaneyMinLogHz / slaneyHzPerMel // 15
	slaneyLogOctave = 6.4                             // frequency ratio spanned by slaneyMelsLog mels
	slaneyMelsLog   = 27.0
)

// HTK mel scale: 2595·log10(1 + f/700)
const (
	htkMelFactor = 2595.0
	htkBreakHz   = 700.0
)

// Alpha heuristic
const (
	// DefaultHeuristicK is the bandwidth scale used when none is given.
	DefaultHeuristicK = 1.0
)
