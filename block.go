package resampler

import "github.com/tphakala/go-stream-resampler/internal/engine"

// Block is a push-mode resampler for strided, interleaved buffers.
// Each channel is processed by its own call and keeps its own phase, so an
// input buffer is handed to Process once per channel.
//
// Process channel 0 first in every block: pending rate changes and flushes
// are applied there.
type Block[F Float] struct {
	eng *engine.Engine[F]
}

// NewBlock creates a block resampler with room for maxChannels channels,
// clamped to [1, 16]. Strides default to the channel count.
func NewBlock[F Float](maxChannels int) *Block[F] {
	return &Block[F]{eng: engine.NewEngine[F](maxChannels)}
}

// NewBlockFromConfig creates a block resampler from a validated config.
func NewBlockFromConfig[F Float](cfg *Config) (*Block[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := NewBlock[F](cfg.MaxChannels)
	if err := configure(b.eng, cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// Process resamples one channel. Samples are read from in[channel],
// in[channel+inStride], ... and written to out[channel],
// out[channel+outStride], ...
//
// It returns the number of samples written for the channel, which may be
// less than out can hold. Input left over once out is full is dropped, so
// size out with headroom for the ratio in use. An inactive channel returns 0.
func (b *Block[F]) Process(channel int, in, out []F) int {
	return b.eng.ProcessChannel(channel, in, out)
}

// SetInputStride sets the sample distance between frames in input buffers.
func (b *Block[F]) SetInputStride(stride int) {
	b.eng.SetInputStride(stride)
}

// SetOutputStride sets the sample distance between frames in output buffers.
func (b *Block[F]) SetOutputStride(stride int) {
	b.eng.SetOutputStride(stride)
}

// SetChannels sets the number of active channels and resets both strides
// to it.
func (b *Block[F]) SetChannels(n int) {
	b.eng.SetChannels(n)
}

// Channels returns the number of active channels.
func (b *Block[F]) Channels() int {
	return b.eng.Channels()
}

// SetRate sets the ratio to inputRate/outputRate.
func (b *Block[F]) SetRate(inputRate, outputRate int) error {
	return b.eng.SetRate(inputRate, outputRate)
}

// SetRatio sets the input/output ratio directly.
func (b *Block[F]) SetRatio(ratio float64) error {
	return b.eng.SetRatio(ratio)
}

// Ratio returns the last accepted input/output ratio.
func (b *Block[F]) Ratio() float64 {
	return b.eng.Ratio()
}

// Flush discards the history of every channel.
func (b *Block[F]) Flush() {
	b.eng.Flush()
}

// InterleavedBuffer resamples whole interleaved blocks into storage it owns.
// The output buffer is sized once at construction.
type InterleavedBuffer[F Float] struct {
	block *Block[F]
	out   []F
}

// NewInterleavedBuffer allocates output room for
// maxChannels*maxBlockSize*maxUpsampleRatio samples. maxBlockSize is in
// frames. Arguments below 1 are raised to 1.
func NewInterleavedBuffer[F Float](maxChannels, maxBlockSize, maxUpsampleRatio int) *InterleavedBuffer[F] {
	b := NewBlock[F](maxChannels)
	maxChannels = b.eng.MaxChannels()
	maxBlockSize = max(1, maxBlockSize)
	maxUpsampleRatio = max(1, maxUpsampleRatio)

	return &InterleavedBuffer[F]{
		block: b,
		out:   make([]F, maxChannels*maxBlockSize*maxUpsampleRatio),
	}
}

// ProcessBlock resamples numChans interleaved channels from in and returns
// the interleaved result. A trailing partial frame in in is ignored, and
// output is limited to the whole frames that fit in the buffer, so every
// channel reads and writes the same number of frames and stays in step.
//
// The returned slice aliases internal storage and is valid until the next
// call.
func (ib *InterleavedBuffer[F]) ProcessBlock(numChans int, in []F) []F {
	ib.block.SetChannels(numChans)
	numChans = ib.block.Channels()

	in = in[:len(in)/numChans*numChans]
	out := ib.out[:len(ib.out)/numChans*numChans]

	frames := len(out) / numChans
	for ch := range numChans {
		frames = min(frames, ib.block.Process(ch, in, out))
	}

	return out[:frames*numChans]
}

// Capacity returns the output buffer size in samples.
func (ib *InterleavedBuffer[F]) Capacity() int {
	return len(ib.out)
}

// SetRate sets the ratio to inputRate/outputRate.
func (ib *InterleavedBuffer[F]) SetRate(inputRate, outputRate int) error {
	return ib.block.SetRate(inputRate, outputRate)
}

// SetRatio sets the input/output ratio directly.
func (ib *InterleavedBuffer[F]) SetRatio(ratio float64) error {
	return ib.block.SetRatio(ratio)
}

// Ratio returns the last accepted input/output ratio.
func (ib *InterleavedBuffer[F]) Ratio() float64 {
	return ib.block.Ratio()
}

// Flush discards the history of every channel.
func (ib *InterleavedBuffer[F]) Flush() {
	ib.block.Flush()
}
