package stream

const (
	bufferGrowthFactor = 2 // Factor for buffer growth
	ringFrames         = 4 // Initial ring capacity in frames
)
