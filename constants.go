package resonator

import "github.com/tphakala/go-audio-resonator/internal/mathutil"

// DefaultHeuristicK is the bandwidth factor used when Config.HeuristicK is 0.
const DefaultHeuristicK = mathutil.DefaultHeuristicK

// Channel constants
const (
	maxChannels = 256 // Maximum supported channel count
)

// Mel bank constants
const (
	melBankEdges = 2 // Band edges dropped from a mel scale to leave band centers
)
