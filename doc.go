// Package resampler provides real-time cubic sample rate conversion in pure Go.
//
// Samples are interpolated with a four-point cubic Hermite (Catmull-Rom)
// polynomial. There is no anti-aliasing filter: the resampler trades
// stopband rejection for constant, tiny per-sample cost and zero latency
// beyond its two-sample look-ahead. Use it where audio crosses a clock
// domain on the real-time path, such as a file player feeding a device that
// runs at a different rate.
//
// # Features
//
//   - Arbitrary ratios, set from integer rates or directly as a float
//   - Pull mode ([Stream]): one output frame per call, input read on demand
//   - Push mode ([Block], [InterleavedBuffer]): strided interleaved buffers
//   - Up to 16 channels sharing one time base
//   - float32 and float64 sample types through generics
//   - No heap allocation after construction
//   - Lock-free rate changes and flushes from a control goroutine
//
// # Pull Mode
//
// A device callback asks for a fixed number of output frames. [Stream]
// produces them one at a time and calls back for input as needed:
//
//	s, err := resampler.NewStereoStream[float32](44100, 48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	frame := make([]float32, 2)
//	for i := 0; i < frameCount; i++ {
//	    s.Process(nextSample, frame)
//	    out[2*i], out[2*i+1] = frame[0], frame[1]
//	}
//
// When the input may run dry, implement [Source] and use
// [Stream.ProcessFrom]. A dry source stops the frame without losing the
// samples already read.
//
// # Push Mode
//
// [Block] consumes a whole input buffer per channel and writes as many
// output samples as fit:
//
//	b := resampler.NewBlock[float32](2)
//	_ = b.SetRate(48000, 44100)
//	nl := b.Process(0, in, out)
//	nr := b.Process(1, in, out)
//
// [InterleavedBuffer] wraps this for the common case of interleaved input
// and returns a view of its own output storage.
//
// # Flushing
//
// A flush discards channel history. The next output is computed from three
// freshly read input frames, with the sample before them treated as zero.
// Changing the ratio flushes implicitly. Call Flush after seeking.
//
// # Aliasing
//
// Downsampling by large ratios aliases. At ratios of three and above, the
// output can alias backwards through the input waveform. Band-limit the
// input first if that matters.
//
// # Thread Safety
//
// SetRate, SetRatio and Flush are safe to call from any goroutine; the
// change takes effect at the next processing call. Every other method must
// be called from the goroutine that drives processing.
package resampler
