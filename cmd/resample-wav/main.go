// Command resample-wav resamples WAV audio files to a target sample rate.
//
// Usage:
//
//	resample-wav -rate 48 input.wav output.wav
//	resample-wav -rate 16 speech.wav speech_16k.wav
//	resample-wav -rate 48 -fast input.wav output.wav   # float32 precision
//
// The file is pushed through the block resampler one chunk at a time; all
// channels share one interleaved buffer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	resampler "github.com/tphakala/go-stream-resampler"
)

const (
	// Frames per chunk read from the input file
	bufferSize = 65536

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
	wavFormatPCM    = 1
	bitsPerByte     = 8

	// Conversion constants
	kHzToHz          = 1000
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Log progress every N%

	// CLI defaults
	defaultRateKHz  = 48.0
	minRequiredArgs = 2
	percentScale    = 100

	// Extra output frames per chunk beyond the rate ratio
	upsampleHeadroom = 1
)

var errSameRate = errors.New("input already at target rate")

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("Resampling failed")
	}
}

func run() error {
	// Parse command line flags
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 32, 44.1, 48, 96)")
	fast := flag.Bool("fast", false, "Use float32 precision (sufficient for 16-bit audio)")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Validate arguments before setting up profiling
	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48 input.wav output.wav      # Resample to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 16 speech.wav speech_16k.wav # Downsample for speech\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 96 music.wav music_hires.wav # Upsample to hi-res\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	// Start CPU profiling if requested (for PGO)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	inputPath := args[0]
	outputPath := args[1]
	targetRate := int(math.Round(*rateKHz * kHzToHz))

	logrus.WithFields(logrus.Fields{
		"input":       inputPath,
		"output":      outputPath,
		"target_rate": targetRate,
		"float32":     *fast,
	}).Debug("Starting")

	// Process the file
	start := time.Now()
	var stats *resampleStats
	var err error
	if *fast {
		stats, err = resampleWAV[float32](inputPath, outputPath, targetRate)
	} else {
		stats, err = resampleWAV[float64](inputPath, outputPath, targetRate)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Print summary
	fmt.Printf("Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputFrames)/float64(stats.inputRate)/elapsed.Seconds())

	return nil
}

type resampleStats struct {
	inputRate    int
	outputRate   int
	channels     int
	bitDepth     int
	inputFrames  int64
	outputFrames int64
}

func resampleWAV[F resampler.Float](inputPath, outputPath string, targetRate int) (stats *resampleStats, err error) {
	// 1. Open and validate input
	input, err := openWAVInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if input.rate == targetRate {
		return nil, fmt.Errorf("%w: %d Hz", errSameRate, targetRate)
	}

	// 2. Create the block resampler
	cfg := resampler.Config{
		MaxChannels: input.channels,
		InputRate:   input.rate,
		OutputRate:  targetRate,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	upsample := (targetRate+input.rate-1)/input.rate + upsampleHeadroom
	ib := resampler.NewInterleavedBuffer[F](input.channels, bufferSize, upsample)
	if err := ib.SetRate(input.rate, targetRate); err != nil {
		return nil, err
	}

	// 3. Create output writer
	output, err := createWAVOutput(outputPath, targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	// 4. Initialize processing buffers
	buffers := newResampleBuffers[F](input.channels, input.bitDepth, ib.Capacity(), input.format)

	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalFrames, logrus.IsLevelEnabled(logrus.DebugLevel))

	// 5. Main processing loop
	for {
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}
		samples := frames * input.channels
		stats.inputFrames += int64(frames)

		intsToFloats(buffers.floatIn[:samples], buffers.intBuffer.Data[:samples], buffers.invMaxVal)

		out := ib.ProcessBlock(input.channels, buffers.floatIn[:samples])
		outputLen := floatsToInts(buffers.outputIntBuf, out, buffers.maxVal)
		stats.outputFrames += int64(outputLen / input.channels)

		if err := output.WriteSamples(buffers.outputIntBuf[:outputLen]); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}

		progress.reportIfNeeded(stats.inputFrames)
	}

	return stats, nil
}
