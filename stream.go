package resampler

import "github.com/tphakala/go-stream-resampler/internal/engine"

// Stream is a pull-mode resampler: every call produces exactly one output
// frame and draws as many interleaved input samples as that frame needs.
//
// Use it inside an audio device callback where output timing is fixed and
// input is read on demand. Processing never allocates.
//
// SetRate, SetRatio and Flush may be called from any goroutine. All other
// methods belong to the goroutine that drives the stream.
type Stream[F Float] struct {
	eng   *engine.Engine[F]
	frame []F
}

// NewStream creates a stream with room for maxChannels channels, clamped to
// [1, 16]. All channels start active at ratio 1 (pass-through).
func NewStream[F Float](maxChannels int) *Stream[F] {
	e := engine.NewEngine[F](maxChannels)
	return &Stream[F]{
		eng:   e,
		frame: make([]F, e.MaxChannels()),
	}
}

// NewStreamFromConfig creates a stream from a validated config.
func NewStreamFromConfig[F Float](cfg *Config) (*Stream[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := NewStream[F](cfg.MaxChannels)
	if err := configure(s.eng, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Process writes one frame to out, one sample per active channel.
// next must return interleaved samples and is called exactly as many times
// as this frame requires. out must hold at least Channels() samples;
// a shorter out is left untouched and nothing is read.
func (s *Stream[F]) Process(next func() F, out []F) {
	s.eng.NextFrame(engine.SourceFunc[F](next), out)
}

// ProcessFrom is like Process but reads from a source that may run dry.
// It reports whether a frame was written. On false, partial progress is
// kept and the next call continues from it.
func (s *Stream[F]) ProcessFrom(src Source[F], out []F) bool {
	return s.eng.NextFrame(src, out)
}

// ProcessMono returns one output sample.
// It returns 0 and reads nothing unless exactly one channel is active.
func (s *Stream[F]) ProcessMono(next func() F) F {
	if s.eng.Channels() != monoChannels {
		return 0
	}

	out := s.frame[:monoChannels]
	s.eng.NextFrame(engine.SourceFunc[F](next), out)
	return out[0]
}

// ProcessStereo returns one stereo output frame. A mono stream is duplicated
// to both sides. With more than two channels active nothing is read and
// zeros are returned.
func (s *Stream[F]) ProcessStereo(next func() F) (left, right F) {
	switch s.eng.Channels() {
	case monoChannels:
		out := s.frame[:monoChannels]
		s.eng.NextFrame(engine.SourceFunc[F](next), out)
		return out[0], out[0]
	case stereoChannels:
		out := s.frame[:stereoChannels]
		s.eng.NextFrame(engine.SourceFunc[F](next), out)
		return out[0], out[1]
	default:
		return 0, 0
	}
}

// SetChannels sets the number of active channels, clamped to
// [1, MaxChannels()]. Channels that remain active keep their history.
func (s *Stream[F]) SetChannels(n int) {
	s.eng.SetChannels(n)
}

// Channels returns the number of active channels.
func (s *Stream[F]) Channels() int {
	return s.eng.Channels()
}

// MaxChannels returns the channel capacity.
func (s *Stream[F]) MaxChannels() int {
	return s.eng.MaxChannels()
}

// SetRate sets the ratio to inputRate/outputRate.
// A changed ratio flushes the stream before the next frame.
func (s *Stream[F]) SetRate(inputRate, outputRate int) error {
	return s.eng.SetRate(inputRate, outputRate)
}

// SetRatio sets the input/output ratio directly.
func (s *Stream[F]) SetRatio(ratio float64) error {
	return s.eng.SetRatio(ratio)
}

// Ratio returns the last accepted input/output ratio.
func (s *Stream[F]) Ratio() float64 {
	return s.eng.Ratio()
}

// Flush discards history. The next frame reads three fresh input frames
// first. Call it after a seek or a change of material.
func (s *Stream[F]) Flush() {
	s.eng.Flush()
}
