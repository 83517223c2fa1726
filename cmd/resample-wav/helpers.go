package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	resampler "github.com/tphakala/go-stream-resampler"
	"github.com/tphakala/go-stream-resampler/internal/simdops"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if decoder.WavAudioFormat != wavFormatPCM || getMaxValue(bitDepth) == 0 || format.NumChannels < 1 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported WAV format: format %d, %d-bit", decoder.WavAudioFormat, bitDepth)
	}

	if err := decoder.FwdToPCM(); err != nil {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s: %w", path, err)
	}
	frameBytes := int64(format.NumChannels * bitDepth / bitsPerByte)

	logrus.WithFields(logrus.Fields{
		"sample_rate": format.SampleRate,
		"channels":    format.NumChannels,
		"bit_depth":   bitDepth,
	}).Debug("Input format")

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: decoder.PCMLen() / frameBytes,
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     audio.IntBuffer
}

// createWAVOutput creates output file and writer.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	if len(samples) == 0 {
		return nil
	}
	w.buf.Data = samples
	return w.encoder.Write(&w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return w.file.Close()
}

// resampleBuffers holds all preallocated buffers for resampling.
type resampleBuffers[F resampler.Float] struct {
	intBuffer    *audio.IntBuffer
	floatIn      []F
	outputIntBuf []int
	invMaxVal    F
	maxVal       F
}

// newResampleBuffers preallocates the input chunk buffers and an integer
// output buffer matching the resampler's capacity.
func newResampleBuffers[F resampler.Float](channels, bitDepth, outputCapacity int, format *audio.Format) *resampleBuffers[F] {
	maxVal := getMaxValue(bitDepth)

	return &resampleBuffers[F]{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, bufferSize*channels),
			Format: format,
		},
		floatIn:      make([]F, bufferSize*channels),
		outputIntBuf: make([]int, outputCapacity),
		invMaxVal:    F(1 / maxVal),
		maxVal:       F(maxVal),
	}
}

// getMaxValue returns the maximum sample value for the given bit depth, or
// 0 for unsupported depths.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return 0
	}
}

// intsToFloats converts integer PCM to normalized floats in dst.
func intsToFloats[F resampler.Float](dst []F, src []int, invMaxVal F) {
	for i, v := range src {
		dst[i] = F(v)
	}
	simdops.For[F]().Scale(dst[:len(src)], dst[:len(src)], invMaxVal)
}

// floatsToInts converts normalized floats back to integer PCM, clamping to
// [-1, 1]. It returns the number of samples written.
func floatsToInts[F resampler.Float](dst []int, src []F, maxVal F) int {
	n := min(len(dst), len(src))
	for i, v := range src[:n] {
		dst[i] = int(max(-1, min(1, v)) * maxVal)
	}
	return n
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		logrus.WithField("percent", progress).Debug("Progress")
		p.lastProgress = progress
	}
}
