package resonator

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Analyzer runs one bank per channel of multi-channel audio.
// All banks share the same tuning and gains.
type Analyzer struct {
	banks    []Bank
	parallel bool
}

// NewAnalyzer creates an analyzer with one bank per channel.
// When config.EnableParallel is set, channels are processed concurrently and
// each bank runs sequentially inside its goroutine.
func NewAnalyzer(config *Config, channels int) (*Analyzer, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("%w: channels must be 1-%d", ErrInvalidConfig, maxChannels)
	}

	perChannel := *config
	perChannel.EnableParallel = false

	a := &Analyzer{
		banks:    make([]Bank, channels),
		parallel: config.EnableParallel && channels > 1,
	}
	for ch := range channels {
		bank, err := New(&perChannel)
		if err != nil {
			return nil, err
		}
		a.banks[ch] = bank
	}
	return a, nil
}

// Channels returns the number of channels.
func (a *Analyzer) Channels() int {
	return len(a.banks)
}

// Bank returns the bank analyzing channel ch.
func (a *Analyzer) Bank(ch int) Bank {
	return a.banks[ch]
}

// ProcessInterleaved feeds frames samples per channel from interleaved audio.
func (a *Analyzer) ProcessInterleaved(frame []float64, frames int) error {
	channels := len(a.banks)
	if frames < 0 || frames > len(frame)/channels {
		return fmt.Errorf("%w: %d frames of %d channels exceed %d samples", ErrInvalidFrame, frames, channels, len(frame))
	}
	if frames == 0 {
		return nil
	}

	return a.each(func(ch int) error {
		return a.banks[ch].ProcessFrame(frame[ch:], frames, channels)
	})
}

// ProcessMulti feeds one slice per channel.
func (a *Analyzer) ProcessMulti(input [][]float64) error {
	if len(input) != len(a.banks) {
		return fmt.Errorf("%w: expected %d channels, got %d", ErrInvalidFrame, len(a.banks), len(input))
	}

	return a.each(func(ch int) error {
		a.banks[ch].ProcessSamples(input[ch])
		return nil
	})
}

// each runs fn for every channel, concurrently when parallel processing is enabled.
func (a *Analyzer) each(fn func(ch int) error) error {
	if !a.parallel {
		for ch := range a.banks {
			if err := fn(ch); err != nil {
				return fmt.Errorf("channel %d: %w", ch, err)
			}
		}
		return nil
	}

	var g errgroup.Group
	for ch := range a.banks {
		g.Go(func() error {
			if err := fn(ch); err != nil {
				return fmt.Errorf("channel %d: %w", ch, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Reset clears the state of every channel bank.
func (a *Analyzer) Reset() {
	for _, b := range a.banks {
		b.Reset()
	}
}
