package engine

import "github.com/tphakala/go-stream-resampler/internal/simdops"

// Source supplies raw input samples one at a time.
// Multi-channel input is interleaved: channel 0, channel 1, ..., channel 0, ...
// Next returns ok == false when no sample is available right now.
//
// Next is called from the audio path and must not block.
type Source[F simdops.Float] interface {
	Next() (v F, ok bool)
}

// SourceFunc adapts an infinite sample producer to Source.
type SourceFunc[F simdops.Float] func() F

// Next calls f and always reports ok.
func (f SourceFunc[F]) Next() (F, bool) {
	return f(), true
}

// SliceSource reads samples sequentially from a slice.
// The zero value is an empty source.
type SliceSource[F simdops.Float] struct {
	Samples []F
	pos     int
}

// NewSliceSource returns a source over samples.
func NewSliceSource[F simdops.Float](samples []F) *SliceSource[F] {
	return &SliceSource[F]{Samples: samples}
}

// Next returns the next sample, or false once the slice is exhausted.
func (s *SliceSource[F]) Next() (F, bool) {
	if s.pos >= len(s.Samples) {
		var zero F
		return zero, false
	}
	v := s.Samples[s.pos]
	s.pos++
	return v, true
}

// Consumed returns how many samples have been read.
func (s *SliceSource[F]) Consumed() int {
	return s.pos
}

// Remaining returns how many samples are left.
func (s *SliceSource[F]) Remaining() int {
	return len(s.Samples) - s.pos
}
