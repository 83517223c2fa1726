package resampler

import (
	"math"

	"github.com/tphakala/go-stream-resampler/internal/simdops"
)

// NewMonoStream creates a single channel stream converting inputRate to
// outputRate.
func NewMonoStream[F Float](inputRate, outputRate int) (*Stream[F], error) {
	return NewStreamFromConfig[F](&Config{
		MaxChannels: monoChannels,
		InputRate:   inputRate,
		OutputRate:  outputRate,
	})
}

// NewStereoStream creates a two channel stream converting inputRate to
// outputRate.
func NewStereoStream[F Float](inputRate, outputRate int) (*Stream[F], error) {
	return NewStreamFromConfig[F](&Config{
		MaxChannels: stereoChannels,
		InputRate:   inputRate,
		OutputRate:  outputRate,
	})
}

// NewCDtoDAT creates a stereo stream for 44.1kHz to 48kHz conversion.
func NewCDtoDAT[F Float]() *Stream[F] {
	s, _ := NewStereoStream[F](RateCD, RateDAT)
	return s
}

// NewDATtoCD creates a stereo stream for 48kHz to 44.1kHz conversion.
func NewDATtoCD[F Float]() *Stream[F] {
	s, _ := NewStereoStream[F](RateDAT, RateCD)
	return s
}

// ResampleMono converts a complete mono signal in one call.
// The final one or two input samples are only used as look-ahead, so the
// output ends slightly before the input does.
func ResampleMono[F Float](input []F, inputRate, outputRate int) ([]F, error) {
	b, err := NewBlockFromConfig[F](&Config{
		MaxChannels: monoChannels,
		InputRate:   inputRate,
		OutputRate:  outputRate,
	})
	if err != nil {
		return nil, err
	}

	out := make([]F, outputLength(len(input), inputRate, outputRate))
	n := b.Process(0, input, out)
	return out[:n], nil
}

// ResampleStereo converts a complete planar stereo signal in one call.
// Both channels are truncated to the shorter input.
func ResampleStereo[F Float](left, right []F, inputRate, outputRate int) (leftOut, rightOut []F, err error) {
	cfg := Config{MaxChannels: stereoChannels, InputRate: inputRate, OutputRate: outputRate}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	frames := min(len(left), len(right))
	upsample := int(math.Ceil(float64(outputRate) / float64(inputRate)))
	ib := NewInterleavedBuffer[F](stereoChannels, frames+1, upsample)
	if err := ib.SetRate(inputRate, outputRate); err != nil {
		return nil, nil, err
	}

	leftOut, rightOut = DeinterleaveFromStereo(ib.ProcessBlock(stereoChannels, InterleaveToStereo(left, right)))
	return leftOut, rightOut, nil
}

// outputLength bounds the number of frames produced from n input frames.
func outputLength(n, inputRate, outputRate int) int {
	return int(math.Ceil(float64(n)*float64(outputRate)/float64(inputRate))) + 1
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo[F Float](left, right []F) []F {
	minLen := min(len(left), len(right))
	result := make([]F, minLen*stereoChannels)
	simdops.For[F]().Interleave2(result, left[:minLen], right[:minLen])
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo[F Float](interleaved []F) (left, right []F) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]F, numSamples)
	right = make([]F, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}
