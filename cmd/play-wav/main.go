// Command play-wav plays a WAV file on the default output device, resampled
// on the fly to the device rate.
//
// Usage:
//
//	play-wav music.wav
//	play-wav -rate 44100 -speed 1.5 -loop speech.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"

	"github.com/tphakala/go-stream-resampler/internal/wavstream"
)

const (
	defaultDeviceRate = 48000
	defaultBufferMs   = 20
	loaderInterval    = 5 * time.Millisecond
	statusInterval    = time.Second
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("Playback failed")
	}
}

func run() error {
	deviceRate := flag.Int("rate", defaultDeviceRate, "Device sample rate in Hz")
	bufferMs := flag.Uint("buffer-ms", defaultBufferMs, "Device period in milliseconds")
	speed := flag.Float64("speed", 1, "Playback speed; changes pitch")
	loop := flag.Bool("loop", false, "Loop the file")
	preload := flag.Int("buffer-samples", wavstream.DefaultBufferSamples, "Pre-buffer size in samples")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file.wav\n\n", os.Args[0])
		flag.PrintDefaults()
		return errors.New("expected one input file")
	}

	wav := wavstream.New(*preload)
	if err := wav.Load(flag.Arg(0)); err != nil {
		return err
	}
	defer wav.Unload()

	p, err := newPlayer(wav, *deviceRate, *speed, *loop)
	if err != nil {
		return err
	}

	// Fill the pre-buffer before the device starts pulling.
	if _, err := wav.ReadFramesFromFile(0); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaderErr := make(chan error, 1)
	go func() { loaderErr <- wav.Run(ctx, loaderInterval) }()

	device, mctx, err := startDevice(p, uint32(*deviceRate), uint32(*bufferMs))
	if err != nil {
		return err
	}
	defer func() {
		device.Uninit()
		_ = mctx.Uninit()
		mctx.Free()
	}()

	fileRate, _ := wav.SampleRate()
	logrus.WithFields(logrus.Fields{
		"file":        flag.Arg(0),
		"channels":    wav.NumChannels(),
		"file_rate":   fileRate,
		"device_rate": *deviceRate,
		"duration":    wav.Duration().Round(time.Millisecond),
		"speed":       *speed,
	}).Info("Playing")

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-loaderErr:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-ticker.C:
			if p.done.Load() {
				logrus.Info("Finished")
				return nil
			}
			logrus.WithFields(logrus.Fields{
				"frame":     wav.CurrentPlaybackFrame(),
				"buffered":  wav.FramesAvailable(),
				"underruns": p.underruns.Load(),
			}).Debug("Status")
		}
	}
}

// startDevice opens the default playback device and starts pulling from p.
func startDevice(p *player, rate, bufferMs uint32) (*malgo.Device, *malgo.AllocatedContext, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(len(p.frame))
	cfg.SampleRate = rate
	cfg.PeriodSizeInMilliseconds = bufferMs

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			p.render(out, int(frameCount))
		},
	}

	device, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		_ = mctx.Uninit()
		mctx.Free()
		return nil, nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = mctx.Uninit()
		mctx.Free()
		return nil, nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	return device, mctx, nil
}
