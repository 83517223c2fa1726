package main

import (
	"flag"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	resampler "github.com/tphakala/go-stream-resampler"
	"github.com/tphakala/go-stream-resampler/internal/simdops"
)

func main() {
	// Command-line flags
	var (
		inputRate  = flag.Int("input-rate", defaultInputRate, "Input sample rate in Hz")
		outputRate = flag.Int("output-rate", defaultOutputRate, "Output sample rate in Hz")
		channels   = flag.Int("channels", defaultChannels, "Number of audio channels")
		frames     = flag.Int("frames", defaultFrames, "Number of output frames to print")
		signal     = flag.String("signal", defaultSignal, "Test signal: sawtooth, ramp, sine")
		demo       = flag.Bool("demo", false, "Run a demonstration")
		verbose    = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *demo {
		runDemo()
		return
	}

	cfg := resampler.Config{
		MaxChannels: *channels,
		InputRate:   *inputRate,
		OutputRate:  *outputRate,
	}
	stream, err := resampler.NewStreamFromConfig[float64](&cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create resampler")
	}

	gen, err := newGenerator(*signal, *channels, float64(*inputRate))
	if err != nil {
		logrus.WithError(err).Fatal("Invalid test signal")
	}

	logrus.WithFields(logrus.Fields{
		"ratio": stream.Ratio(),
		"simd":  simdops.Info(),
	}).Debug("Resampler created")

	fmt.Printf("Resampler created:\n")
	fmt.Printf("  Ratio: %.6f (%d Hz -> %d Hz)\n", stream.Ratio(), *inputRate, *outputRate)
	fmt.Printf("  Channels: %d\n", stream.Channels())
	fmt.Printf("  Mode: %s\n", modeName(stream.Ratio()))
	fmt.Printf("  SIMD: %s\n", simdops.Info())

	fmt.Printf("\nFirst %d frames of %s:\n", *frames, *signal)
	out := make([]float64, stream.Channels())
	for i := range *frames {
		stream.Process(gen.next, out)
		fmt.Printf("  %4d: %s\n", i, formatFrame(out))
	}
	fmt.Printf("\nInput samples consumed: %d\n", gen.count)
}

// generator produces an interleaved test signal, counting samples read.
type generator struct {
	channels int
	fn       func(frame int) float64
	count    int
}

func newGenerator(kind string, channels int, rate float64) (*generator, error) {
	g := &generator{channels: max(channels, 1)}
	switch kind {
	case "sawtooth":
		g.fn = func(n int) float64 { return float64(n % sawtoothPeriod) }
	case "ramp":
		g.fn = func(n int) float64 { return float64(n) * rampStep }
	case "sine":
		omega := 2 * math.Pi * testSignalFrequency / rate
		g.fn = func(n int) float64 { return math.Sin(omega * float64(n)) }
	default:
		return nil, fmt.Errorf("unknown signal %q", kind)
	}
	return g, nil
}

func (g *generator) next() float64 {
	v := g.fn(g.count / g.channels)
	g.count++
	return v
}

func modeName(ratio float64) string {
	switch {
	case ratio == 1:
		return "pass-through"
	case ratio < 1:
		return "upsampling"
	default:
		return "downsampling"
	}
}

func formatFrame(frame []float64) string {
	parts := make([]string, len(frame))
	for i, v := range frame {
		parts[i] = fmt.Sprintf("%10.6f", v)
	}
	return strings.Join(parts, " ")
}

func runDemo() {
	fmt.Println("=== Go Stream Resampler Demo ===")
	fmt.Printf("SIMD: %s\n\n", simdops.Info())

	// Demo 1: Common conversions
	fmt.Println("1. Common Conversions (sawtooth input)")
	fmt.Println("--------------------------------------")

	testRatios := []struct {
		from, to int
		name     string
	}{
		{sampleRateCD, sampleRateDAT, "CD to DAT"},
		{sampleRateDAT, sampleRateCD, "DAT to CD"},
		{sampleRateCD, sampleRate2xCD, "CD to 2x"},
		{sampleRateHiRes, sampleRateCD, "Hi-res to CD"},
		{sampleRateDAT, sampleRateVoice, "DAT to voice"},
	}

	for _, r := range testRatios {
		s, err := resampler.NewMonoStream[float64](r.from, r.to)
		if err != nil {
			logrus.WithError(err).WithField("conversion", r.name).Error("Failed to create resampler")
			continue
		}
		gen, _ := newGenerator("sawtooth", monoChannels, float64(r.from))

		values := make([]float64, demoFrames)
		for i := range values {
			values[i] = s.ProcessMono(gen.next)
		}
		fmt.Printf("\n%s (%d Hz -> %d Hz, ratio %.4f, %s):\n", r.name, r.from, r.to, s.Ratio(), modeName(s.Ratio()))
		fmt.Printf("  %s\n", formatFrame(values))
		mean := simdops.For[float64]().Sum(values) / demoFrames
		fmt.Printf("  %d frames from %d input samples, mean %.4f\n", demoFrames, gen.count, mean)
	}

	// Demo 2: Performance characteristics
	fmt.Println("\n2. Performance Characteristics")
	fmt.Println("------------------------------")
	fmt.Println("Pulling one second of stereo audio (44.1kHz -> 48kHz):")

	for _, name := range []string{"float32", "float64"} {
		elapsed, n := timeStereo(name == "float32")
		fmt.Printf("  %s: %d frames in %v (%.0fx real time)\n",
			name, n, elapsed, benchmarkSecond/max(elapsed.Seconds(), minElapsed))
	}

	// Demo 3: Multi-channel processing
	fmt.Println("\n3. Multi-channel Processing")
	fmt.Println("---------------------------")

	for _, ch := range []int{monoChannels, stereoChannels, surround5_1, surround7_1} {
		ib := resampler.NewInterleavedBuffer[float32](ch, sampleRateDAT/100, 1)
		if err := ib.SetRate(sampleRateDAT, sampleRateCD); err != nil {
			logrus.WithError(err).Error("Failed to set rate")
			continue
		}
		in := make([]float32, ch*sampleRateDAT/100)
		out := ib.ProcessBlock(ch, in)
		fmt.Printf("  %d channels: %d input frames -> %d output frames (capacity %d samples)\n",
			ch, len(in)/ch, len(out)/ch, ib.Capacity())
	}

	fmt.Println("\n=== Demo Complete ===")
}

func timeStereo(single bool) (time.Duration, int) {
	frames := sampleRateDAT * benchmarkSecond
	gen, _ := newGenerator("sine", stereoChannels, sampleRateCD)

	start := time.Now()
	if single {
		s := resampler.NewCDtoDAT[float32]()
		next := func() float32 { return float32(gen.next()) }
		for range frames {
			s.ProcessStereo(next)
		}
	} else {
		s := resampler.NewCDtoDAT[float64]()
		for range frames {
			s.ProcessStereo(gen.next)
		}
	}
	return time.Since(start), frames
}
