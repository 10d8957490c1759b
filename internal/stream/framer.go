package stream

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

// ErrInvalidFrameSize indicates a non-positive frame length or channel count.
var ErrInvalidFrameSize = errors.New("invalid frame size")

// Framer cuts an interleaved sample stream into frames of frameLength
// samples per channel.
type Framer[F simdops.Float] struct {
	ring        *RingBuffer[F]
	frameLength int
	channels    int
	frame       []F
	frames      int64
}

// NewFramer creates a framer for frames of frameLength samples per channel.
func NewFramer[F simdops.Float](frameLength, channels int) (*Framer[F], error) {
	if frameLength < 1 || channels < 1 {
		return nil, fmt.Errorf("%w: frame length %d, channels %d", ErrInvalidFrameSize, frameLength, channels)
	}
	size := frameLength * channels
	return &Framer[F]{
		ring:        NewRingBuffer[F](size * ringFrames),
		frameLength: frameLength,
		channels:    channels,
		frame:       make([]F, size),
	}, nil
}

// Write queues interleaved samples.
func (f *Framer[F]) Write(samples []F) {
	f.ring.Write(samples)
}

// Next returns the next complete interleaved frame, or false when fewer than
// a frame's worth of samples are queued. The returned slice is reused by the
// next call.
func (f *Framer[F]) Next() ([]F, bool) {
	if f.ring.Available() < len(f.frame) {
		return nil, false
	}
	f.ring.ReadInto(f.frame)
	f.frames++
	return f.frame, true
}

// Flush returns the queued partial frame, zero-padded to full length, or
// false when nothing is queued. The second result is the number of valid
// samples per channel.
func (f *Framer[F]) Flush() ([]F, int, bool) {
	available := f.ring.Available()
	if available == 0 {
		return nil, 0, false
	}
	n := f.ring.ReadInto(f.frame)
	clear(f.frame[n:])
	f.frames++
	return f.frame, n / f.channels, true
}

// FrameLength returns the number of samples per channel in a frame.
func (f *Framer[F]) FrameLength() int {
	return f.frameLength
}

// Channels returns the interleaved channel count, which is also the frame stride.
func (f *Framer[F]) Channels() int {
	return f.channels
}

// Frames returns the number of frames emitted so far.
func (f *Framer[F]) Frames() int64 {
	return f.frames
}

// Reset drops queued samples and the frame count.
func (f *Framer[F]) Reset() {
	f.ring.Clear()
	f.frames = 0
}
