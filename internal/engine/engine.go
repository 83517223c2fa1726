package engine

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/tphakala/go-stream-resampler/internal/simdops"
)

// Common errors returned by the engine.
var (
	// ErrInvalidRate indicates a non-positive input or output sample rate.
	ErrInvalidRate = errors.New("invalid sample rate")

	// ErrInvalidRatio indicates a ratio outside [MinRatio, MaxRatio].
	ErrInvalidRatio = errors.New("invalid resampling ratio")
)

// Engine is a multi-channel cubic resampler. All channels share one time
// base: a single ratio and, in frame mode, a single fractional phase.
//
// Two drivers are provided:
//   - NextFrame pulls interleaved samples from a Source and produces one frame.
//   - ProcessChannel consumes one channel of a strided buffer and writes as
//     many samples as fit in a strided output buffer.
//
// An engine should be driven in one mode only. Neither driver allocates.
//
// SetRate, SetRatio and Flush publish through atomics and may be called from
// any goroutine; the change is applied at the start of the next driver call.
// Every other method requires exclusive ownership by the audio goroutine.
type Engine[F simdops.Float] struct {
	chans    []ChannelState[F] // fixed capacity, len == max channels
	staged   []F               // samples of a partially read frame
	numChans int

	// Applied state, owned by the audio goroutine.
	ratio      float64
	frac       float64
	needsFlush bool
	primeLeft  int // frames still needed to prime (frame mode)
	chanPos    int // next channel to fill within a partially read frame

	inStride  int
	outStride int

	// Published state, written by any goroutine.
	pendingRatio   atomic.Uint64
	flushRequested atomic.Bool
}

// NewEngine creates an engine with room for maxChannels channels.
// The capacity is clamped to [1, MaxChannels] and fixed for the lifetime of
// the engine. All channels start active, ratio 1, pending a flush.
func NewEngine[F simdops.Float](maxChannels int) *Engine[F] {
	maxChannels = clampChannels(maxChannels, MaxChannels)

	e := &Engine[F]{
		chans:      make([]ChannelState[F], maxChannels),
		staged:     make([]F, maxChannels),
		numChans:   maxChannels,
		ratio:      passThroughRatio,
		needsFlush: true,
		inStride:   maxChannels,
		outStride:  maxChannels,
	}
	e.pendingRatio.Store(math.Float64bits(passThroughRatio))
	e.restart()

	return e
}

func clampChannels(n, limit int) int {
	return max(minChannels, min(n, limit))
}

// SetChannels sets the number of active channels, clamped to
// [1, MaxChannels()]. Channels that stay active keep their history; newly
// activated channels start from silence. Both strides are reset to n.
//
// A frame left incomplete by an exhausted source is discarded when n does
// not cover the channels already read for it.
func (e *Engine[F]) SetChannels(n int) {
	n = clampChannels(n, len(e.chans))

	for ch := e.numChans; ch < n; ch++ {
		e.chans[ch].reset()
	}

	e.numChans = n
	e.inStride = n
	e.outStride = n

	if e.chanPos >= n {
		e.chanPos = 0
	}
}

// Channels returns the number of active channels.
func (e *Engine[F]) Channels() int {
	return e.numChans
}

// MaxChannels returns the channel capacity fixed at construction.
func (e *Engine[F]) MaxChannels() int {
	return len(e.chans)
}

// SetRate sets the ratio to inputRate/outputRate.
// Non-positive rates are rejected and the previous ratio is kept.
func (e *Engine[F]) SetRate(inputRate, outputRate int) error {
	if inputRate <= 0 || outputRate <= 0 {
		return fmt.Errorf("%w: %d Hz -> %d Hz", ErrInvalidRate, inputRate, outputRate)
	}

	return e.SetRatio(float64(inputRate) / float64(outputRate))
}

// SetRatio sets the ratio of input rate to output rate directly.
// Values above 1 downsample, values below 1 upsample. Ratios outside
// [MinRatio, MaxRatio] are rejected and the previous ratio is kept.
// A ratio that differs from the current one forces a flush, since
// interpolating across two time bases produces audible artifacts.
func (e *Engine[F]) SetRatio(ratio float64) error {
	if !(ratio >= MinRatio && ratio <= MaxRatio) {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidRatio, ratio, MinRatio, MaxRatio)
	}

	e.pendingRatio.Store(math.Float64bits(ratio))
	return nil
}

// Ratio returns the last accepted ratio.
func (e *Engine[F]) Ratio() float64 {
	return math.Float64frombits(e.pendingRatio.Load())
}

// Flush requests a reset on the next driver call. History is discarded and
// three fresh input frames are read before the next output.
// Use it after a seek or when loading new material.
func (e *Engine[F]) Flush() {
	e.flushRequested.Store(true)
}

// SetInputStride sets the distance between consecutive samples of the same
// channel in channel-mode input buffers.
func (e *Engine[F]) SetInputStride(stride int) {
	e.inStride = max(1, stride)
}

// SetOutputStride sets the distance between consecutive samples of the same
// channel in channel-mode output buffers.
func (e *Engine[F]) SetOutputStride(stride int) {
	e.outStride = max(1, stride)
}

// Strides returns the input and output strides.
func (e *Engine[F]) Strides() (in, out int) {
	return e.inStride, e.outStride
}

// Phase returns the frame-mode fractional position.
func (e *Engine[F]) Phase() float64 {
	return e.frac
}

// ChannelPhase returns the channel-mode fractional position of ch,
// or 0 if ch is not active.
func (e *Engine[F]) ChannelPhase(ch int) float64 {
	if ch < 0 || ch >= e.numChans {
		return 0
	}
	return e.chans[ch].frac
}

// Window returns the interpolation history of ch as
// [x(-1), x(0), x(1), x(2)], or zeros if ch is not active.
func (e *Engine[F]) Window(ch int) [cubicInterpolationPoints]F {
	if ch < 0 || ch >= e.numChans {
		return [cubicInterpolationPoints]F{}
	}
	return e.chans[ch].Window()
}

// sync applies state published by SetRatio and Flush.
func (e *Engine[F]) sync() {
	if r := math.Float64frombits(e.pendingRatio.Load()); r != e.ratio {
		e.ratio = r
		e.needsFlush = true
	}

	if e.flushRequested.Swap(false) {
		e.needsFlush = true
	}

	if e.needsFlush {
		e.restart()
	}
}

// restart zeroes every channel and rewinds the phase.
func (e *Engine[F]) restart() {
	e.frac = 0
	e.primeLeft = primeFrames
	e.chanPos = 0
	for ch := range e.chans {
		e.chans[ch].reset()
	}
	e.needsFlush = false
}

// NextFrame produces one output frame, one sample per active channel, into
// out. src is called exactly as many times as needed and never more.
//
// It returns false without writing out if len(out) is smaller than the
// channel count, or if src runs dry. In the latter case all progress is kept
// and the next call resumes where this one stopped.
func (e *Engine[F]) NextFrame(src Source[F], out []F) bool {
	if len(out) < e.numChans {
		return false
	}

	e.sync()

	if e.ratio == passThroughRatio {
		if !e.readFrame(src) {
			return false
		}
		for ch := range e.numChans {
			out[ch] = e.chans[ch].X2
		}
		return true
	}

	for e.primeLeft > 0 {
		if !e.readFrame(src) {
			return false
		}
		e.primeLeft--
	}

	for e.frac >= phaseUnit {
		if !e.readFrame(src) {
			return false
		}
		e.frac -= phaseUnit
	}

	t := F(e.frac)
	for ch := range e.numChans {
		out[ch] = e.chans[ch].interpolate(t)
	}
	e.frac += e.ratio

	return true
}

// readFrame shifts one interleaved input frame into the channel windows.
// Samples are staged until the frame is complete, so a source running dry
// mid-frame leaves every window untouched.
func (e *Engine[F]) readFrame(src Source[F]) bool {
	for ; e.chanPos < e.numChans; e.chanPos++ {
		v, ok := src.Next()
		if !ok {
			return false
		}
		e.staged[e.chanPos] = v
	}

	for ch := range e.numChans {
		e.chans[ch].push(e.staged[ch])
	}
	e.chanPos = 0
	return true
}

// ProcessChannel resamples channel ch from in to out. Samples of ch are read
// from in[ch], in[ch+inStride], ... and written to out[ch], out[ch+outStride].
//
// It returns the number of samples written for ch. Production stops when in
// is exhausted or out is full, whichever comes first; callers must use the
// count rather than assume out was filled. Input left over because out
// filled up is dropped. An inactive ch is a no-op returning 0.
//
// Pending rate changes and flushes are applied when channel 0 is processed,
// so all channels of one block run at the same ratio. Process channel 0 first.
func (e *Engine[F]) ProcessChannel(ch int, in, out []F) int {
	if ch < 0 || ch >= e.numChans {
		return 0
	}

	if ch == 0 {
		e.sync()
	}

	inPos, outPos, written := ch, ch, 0

	if e.ratio == passThroughRatio {
		for inPos < len(in) && outPos < len(out) {
			out[outPos] = in[inPos]
			inPos += e.inStride
			outPos += e.outStride
			written++
		}
		return written
	}

	c := &e.chans[ch]

	for c.primeLeft > 0 {
		if inPos >= len(in) {
			return 0
		}
		c.push(in[inPos])
		inPos += e.inStride
		c.primeLeft--
	}

	for {
		for c.frac >= phaseUnit {
			if inPos >= len(in) {
				return written
			}
			c.push(in[inPos])
			inPos += e.inStride
			c.frac -= phaseUnit
		}

		if outPos >= len(out) {
			return written
		}

		out[outPos] = c.interpolate(F(c.frac))
		outPos += e.outStride
		written++
		c.frac += e.ratio
	}
}
