// Package wavstream streams a WAV file to the audio goroutine through a
// lock-free pre-buffer.
//
// Two goroutines cooperate. A loader goroutine decodes the file with
// ReadFramesFromFile (or Run) and services seeks. The audio goroutine pulls
// interleaved float32 samples with Next or PopSample and never touches the
// disk.
package wavstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/tphakala/go-stream-resampler/internal/fifo"
	"github.com/tphakala/go-stream-resampler/internal/simdops"
)

// Errors returned by the loader side.
var (
	ErrNotLoaded         = errors.New("no wav file loaded")
	ErrInvalidFile       = errors.New("invalid wav file")
	ErrUnsupportedFormat = errors.New("unsupported wav format")
	ErrRead              = errors.New("wav read failed")
)

// Stream is a WAV file source with a pre-buffer.
//
// Load, Unload and Resize must not run while the audio goroutine is
// reading. Methods are otherwise split by goroutine as documented.
type Stream struct {
	buf *fifo.Fifo[float32]
	log *logrus.Entry

	// Loader side.
	path      string
	file      *os.File
	dec       *wav.Decoder
	intBuf    *audio.IntBuffer
	floatBuf  []float32
	scale     float32
	offset    int
	nextFrame int
	seekAck   uint64

	// File info, published by Load before loaded is set.
	channels    int
	sampleRate  int
	bitDepth    int
	totalFrames int

	loaded    atomic.Bool
	eof       atomic.Bool
	fileError atomic.Bool

	// Audio side.
	playSample atomic.Uint64
	waitGen    uint64 // last seek requested
	settledGen uint64 // last seek whose fresh samples are reached

	// Seek handshake: audio side publishes target then gen; loader seeks,
	// records where fresh samples start, then acknowledges.
	seekTarget atomic.Int64
	seekGen    atomic.Uint64
	seekMark   atomic.Uint64
	seekDone   atomic.Uint64
}

// New creates a stream whose pre-buffer holds at least maxSamples samples,
// rounded up to a power of two. DefaultBufferSamples is a good start.
func New(maxSamples int) *Stream {
	return &Stream{
		buf: fifo.New[float32](maxSamples),
		log: logrus.WithField("component", "wavstream"),
	}
}

// SetLogger replaces the loader side logger.
func (s *Stream) SetLogger(l *logrus.Entry) {
	s.log = l
}

// Resize changes the pre-buffer size. It reports true if the buffer was
// replaced, which discards buffered samples and rewinds the loader to the
// current playback frame.
func (s *Stream) Resize(maxSamples int) bool {
	next := fifo.New[float32](maxSamples)
	if next.Cap() == s.buf.Cap() {
		return false
	}

	s.buf = next
	if s.loaded.Load() {
		frame := s.CurrentPlaybackFrame()
		if err := s.SeekFrameInFile(frame); err != nil {
			s.log.WithFields(logrus.Fields{
				"frame": frame,
				"error": err,
			}).Warn("Failed to restore position after resize")
		}
	}
	return true
}

// MaxSize returns the pre-buffer capacity in samples.
func (s *Stream) MaxSize() int {
	return s.buf.Cap()
}

// BufferSize returns the number of buffered samples.
func (s *Stream) BufferSize() int {
	return s.buf.Len()
}

// Load opens path and prepares it for streaming from frame 0.
// Any previously loaded file is unloaded first.
func (s *Stream) Load(path string) error {
	s.Unload()

	f, dec, err := openDecoder(path)
	if err != nil {
		return err
	}

	channels, bitDepth := int(dec.NumChans), int(dec.BitDepth)
	scale, offset, ok := pcmScale(bitDepth)
	if dec.WavAudioFormat != wavFormatPCM || channels < 1 || !ok {
		_ = f.Close()
		return fmt.Errorf("%w: format %d, %d channels, %d-bit",
			ErrUnsupportedFormat, dec.WavAudioFormat, channels, bitDepth)
	}

	s.path = path
	s.file = f
	s.dec = dec
	s.channels = channels
	s.bitDepth = bitDepth
	s.sampleRate = int(dec.SampleRate)
	s.totalFrames = int(dec.PCMLen()) / (channels * bitDepth / bitsPerByte)
	s.scale = scale
	s.offset = offset

	frames := readBlockBytes / (channels * bitDepth / bitsPerByte)
	s.intBuf = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: s.sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: bitDepth,
	}
	s.floatBuf = make([]float32, frames*channels)

	s.buf = fifo.New[float32](s.buf.Cap())
	s.nextFrame = 0
	s.playSample.Store(0)
	s.waitGen = s.seekGen.Load()
	s.settledGen = s.waitGen
	s.seekAck = s.waitGen
	s.seekDone.Store(s.waitGen)
	s.eof.Store(s.totalFrames == 0)
	s.fileError.Store(false)
	s.loaded.Store(true)

	s.log.WithFields(logrus.Fields{
		"path":        path,
		"channels":    channels,
		"sample_rate": s.sampleRate,
		"bit_depth":   bitDepth,
		"frames":      s.totalFrames,
	}).Debug("Loaded wav file")

	return nil
}

// openDecoder opens path and positions a decoder at the start of the PCM
// data.
func openDecoder(path string) (*os.File, *wav.Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}
	if err := dec.FwdToPCM(); err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, path, err)
	}

	return f, dec, nil
}

// Unload releases the file. Buffered samples are discarded.
func (s *Stream) Unload() {
	if !s.loaded.Swap(false) {
		return
	}
	if err := s.file.Close(); err != nil {
		s.log.WithField("error", err).Warn("Failed to close wav file")
	}
	s.file, s.dec = nil, nil
	s.eof.Store(true)
}

// IsLoaded reports whether a file is loaded.
func (s *Stream) IsLoaded() bool {
	return s.loaded.Load()
}

// ReadFramesFromFile decodes up to numFrames frames into the pre-buffer and
// returns the number decoded. numFrames <= 0 reads one efficiently sized
// block. Pending seeks are serviced first. Loader side only: this blocks
// on disk access.
func (s *Stream) ReadFramesFromFile(numFrames int) (int, error) {
	if !s.loaded.Load() {
		return 0, ErrNotLoaded
	}

	if err := s.serviceSeek(); err != nil {
		return 0, err
	}

	if s.eof.Load() {
		return 0, nil
	}

	maxFrames := len(s.intBuf.Data) / s.channels
	if numFrames <= 0 || numFrames > maxFrames {
		numFrames = maxFrames
	}
	numFrames = min(numFrames, s.buf.Space()/s.channels)
	if numFrames == 0 {
		return 0, nil
	}

	n, err := s.decode(numFrames)
	if err != nil {
		return 0, err
	}

	frames := n / s.channels
	s.buf.Write(s.floatBuf[:frames*s.channels])
	s.nextFrame += frames

	if frames == 0 || s.nextFrame >= s.totalFrames {
		s.eof.Store(true)
		s.log.WithField("frames", s.nextFrame).Debug("Reached end of wav file")
	}

	return frames, nil
}

// decode reads numFrames frames and converts them to float32 in floatBuf.
// It returns the number of samples read.
func (s *Stream) decode(numFrames int) (int, error) {
	s.intBuf.Data = s.intBuf.Data[:numFrames*s.channels]
	n, err := s.dec.PCMBuffer(s.intBuf)
	s.intBuf.Data = s.intBuf.Data[:cap(s.intBuf.Data)]
	if err != nil && !errors.Is(err, io.EOF) {
		s.fileError.Store(true)
		s.log.WithFields(logrus.Fields{
			"frame": s.nextFrame,
			"error": err,
		}).Error("Failed to decode wav data")
		return 0, fmt.Errorf("%w: %w", ErrRead, err)
	}

	out := s.floatBuf[:n]
	for i, v := range s.intBuf.Data[:n] {
		out[i] = float32(v - s.offset)
	}
	simdops.For[float32]().Scale(out, out, s.scale)

	return n, nil
}

// SeekFrameInFile moves the file read head to frame. Buffered samples are
// not touched. Loader side only; the audio side uses ResetPlaybackToFrame.
func (s *Stream) SeekFrameInFile(frame int) error {
	if !s.loaded.Load() {
		return ErrNotLoaded
	}

	frame = max(0, min(frame, s.totalFrames))
	if frame == s.nextFrame {
		return nil
	}

	if frame < s.nextFrame {
		// Reopen rather than rewind: the decoder only reads forward.
		f, dec, err := openDecoder(s.path)
		if err != nil {
			s.fileError.Store(true)
			return fmt.Errorf("%w: reopen: %w", ErrRead, err)
		}
		_ = s.file.Close()
		s.file, s.dec = f, dec
		s.nextFrame = 0
	}

	// Decode and drop up to the target; wav.Decoder has no sample seek.
	maxFrames := len(s.intBuf.Data) / s.channels
	for s.nextFrame < frame {
		n, err := s.decode(min(maxFrames, frame-s.nextFrame))
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		s.nextFrame += n / s.channels
	}

	s.eof.Store(s.nextFrame >= s.totalFrames)
	s.log.WithField("frame", s.nextFrame).Debug("Seeked wav file")
	return nil
}

// serviceSeek performs a seek requested by the audio side, if any.
func (s *Stream) serviceSeek() error {
	gen := s.seekGen.Load()
	if gen == s.seekAck {
		return nil
	}

	if err := s.SeekFrameInFile(int(s.seekTarget.Load())); err != nil {
		return err
	}

	s.seekMark.Store(s.buf.WritePos())
	s.seekAck = gen
	s.seekDone.Store(gen)
	return nil
}

// Run keeps the pre-buffer topped up until ctx is done, polling every
// interval. It returns ctx.Err() on cancellation or the first read error.
func (s *Stream) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for s.loaded.Load() {
			n, err := s.ReadFramesFromFile(0)
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Next returns the next interleaved sample. It reports false when nothing
// is buffered or a seek is still being serviced. Audio side only.
func (s *Stream) Next() (float32, bool) {
	if s.settledGen != s.waitGen {
		if s.seekDone.Load() != s.waitGen {
			return 0, false
		}
		// Drop samples decoded before the loader moved.
		s.buf.SkipTo(s.seekMark.Load())
		s.settledGen = s.waitGen
	}

	v, ok := s.buf.Pop()
	if ok {
		s.playSample.Add(1)
	}
	return v, ok
}

// PopSample returns the next interleaved sample, or 0 if none is ready.
// For stereo files call it twice per frame. Audio side only.
func (s *Stream) PopSample() float32 {
	v, _ := s.Next()
	return v
}

// ResetPlaybackToFrame moves playback to frame. Targets already in the
// pre-buffer are reached by skipping; anything else asks the loader to seek,
// and Next reports no data until it has. Audio side only.
func (s *Stream) ResetPlaybackToFrame(frame int) {
	if !s.loaded.Load() {
		return
	}

	frame = max(0, min(frame, s.totalFrames))
	target := uint64(frame * s.channels)
	cur := s.playSample.Load()

	if s.settledGen == s.waitGen && target >= cur && target-cur <= uint64(s.buf.Len()) {
		s.buf.Discard(int(target - cur))
		s.playSample.Store(target)
		return
	}

	s.buf.Clear()
	s.playSample.Store(target)
	s.seekTarget.Store(int64(frame))
	s.waitGen = s.seekGen.Add(1)
}

// Seeking reports whether a seek requested by ResetPlaybackToFrame is still
// waiting for the loader. Audio side only.
func (s *Stream) Seeking() bool {
	return s.settledGen != s.waitGen
}

// SamplesAvailable returns the number of buffered samples.
func (s *Stream) SamplesAvailable() int {
	return s.buf.Len()
}

// FramesAvailable returns the number of buffered whole frames.
func (s *Stream) FramesAvailable() int {
	if !s.loaded.Load() {
		return 0
	}
	return s.buf.Len() / s.channels
}

// IsEOF reports whether the loader has read to the end of the file.
// Buffered samples may still be waiting to play.
func (s *Stream) IsEOF() bool {
	return s.eof.Load()
}

// IsFileError reports whether decoding failed.
func (s *Stream) IsFileError() bool {
	return s.fileError.Load()
}

// CurrentPlaybackFrame returns the index of the frame the next Next call
// will return. It equals TotalFrames once everything has played.
func (s *Stream) CurrentPlaybackFrame() int {
	if !s.loaded.Load() {
		return 0
	}
	return int(s.playSample.Load()) / s.channels
}

// IsStereo reports whether the file has two channels.
func (s *Stream) IsStereo() bool {
	return s.loaded.Load() && s.channels == stereoChannels
}

// NumChannels returns the file's channel count, or 0 if nothing is loaded.
func (s *Stream) NumChannels() int {
	if !s.loaded.Load() {
		return 0
	}
	return s.channels
}

// TotalFrames returns the number of frames in the file.
func (s *Stream) TotalFrames() int {
	if !s.loaded.Load() {
		return 0
	}
	return s.totalFrames
}

// SampleRate returns the file's sample rate, or false if nothing is loaded.
func (s *Stream) SampleRate() (int, bool) {
	if !s.loaded.Load() {
		return 0, false
	}
	return s.sampleRate, true
}

// Duration returns the playing time of the whole file.
func (s *Stream) Duration() time.Duration {
	if !s.loaded.Load() || s.sampleRate == 0 {
		return 0
	}
	return time.Duration(s.totalFrames) * time.Second / time.Duration(s.sampleRate)
}
