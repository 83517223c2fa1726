package resampler

import "github.com/tphakala/go-stream-resampler/internal/engine"

// Channel constants
const (
	monoChannels   = 1
	stereoChannels = 2                  // Stereo channel count (used by interleave functions)
	maxChannels    = engine.MaxChannels // Maximum supported channel count
)

// Resampling ratio limits accepted by Config.
const (
	minRatioFactor = engine.MinRatio // Minimum input/output ratio (256x upsampling)
	maxRatioFactor = engine.MaxRatio // Maximum input/output ratio (256x downsampling)
)

// Common sample rates in Hz.
const (
	RateTelephone = 8000
	RateWideband  = 16000
	RateCD        = 44100
	RateDAT       = 48000
	RateHiResCD   = 88200
	RateHiRes     = 96000
)
