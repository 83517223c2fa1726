package resampler

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-stream-resampler/internal/engine"
	"github.com/tphakala/go-stream-resampler/internal/simdops"
)

// Float is the sample type constraint: float32 or float64.
type Float = simdops.Float

// Source supplies interleaved input samples one at a time.
// Next returns ok == false when no sample is available right now; the
// resampler keeps its progress and resumes on the next call.
type Source[F Float] = engine.Source[F]

// SourceFunc adapts an infinite sample producer to [Source].
type SourceFunc[F Float] = engine.SourceFunc[F]

// SliceSource is a [Source] reading sequentially from a slice.
type SliceSource[F Float] = engine.SliceSource[F]

// NewSliceSource returns a [SliceSource] over samples.
func NewSliceSource[F Float](samples []F) *SliceSource[F] {
	return engine.NewSliceSource(samples)
}

// Common errors returned by the resampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrInvalidRate indicates a non-positive sample rate.
	ErrInvalidRate = engine.ErrInvalidRate

	// ErrInvalidRatio indicates a ratio outside the 256x up/down range.
	ErrInvalidRatio = engine.ErrInvalidRatio
)

// Config holds resampler construction parameters.
type Config struct {
	// MaxChannels is the channel capacity, fixed for the resampler's lifetime.
	// Storage for every channel is allocated up front.
	MaxChannels int

	// Channels is the initial number of active channels.
	// Zero means MaxChannels.
	Channels int

	// InputRate is the sample rate of input audio in Hz.
	InputRate int

	// OutputRate is the desired output sample rate in Hz.
	OutputRate int
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxChannels < 1 || c.MaxChannels > maxChannels {
		return fmt.Errorf("%w: max channels must be 1-%d, got %d", ErrInvalidConfig, maxChannels, c.MaxChannels)
	}

	if c.Channels < 0 || c.Channels > c.MaxChannels {
		return fmt.Errorf("%w: channels must be 0-%d, got %d", ErrInvalidConfig, c.MaxChannels, c.Channels)
	}

	if c.InputRate <= 0 || c.OutputRate <= 0 {
		return fmt.Errorf("%w: %w: %d Hz -> %d Hz", ErrInvalidConfig, ErrInvalidRate, c.InputRate, c.OutputRate)
	}

	ratio := float64(c.InputRate) / float64(c.OutputRate)
	if ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: resampling ratio out of range (%v to %v)", ErrInvalidConfig, minRatioFactor, maxRatioFactor)
	}

	return nil
}

// activeChannels resolves the Channels default.
func (c *Config) activeChannels() int {
	if c.Channels == 0 {
		return c.MaxChannels
	}
	return c.Channels
}

// configure applies a validated config to a fresh engine.
func configure[F Float](e *engine.Engine[F], c *Config) error {
	e.SetChannels(c.activeChannels())
	return e.SetRate(c.InputRate, c.OutputRate)
}
