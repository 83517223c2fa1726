package main

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	resampler "github.com/tphakala/go-stream-resampler"
	"github.com/tphakala/go-stream-resampler/internal/wavstream"
)

const bytesPerFloat32 = 4

// player renders a wav stream at the device rate. render runs on the audio
// callback and never blocks or allocates.
type player struct {
	wav   *wavstream.Stream
	rs    *resampler.Stream[float32]
	frame []float32
	loop  bool

	done      atomic.Bool
	underruns atomic.Uint64
}

// newPlayer resamples a loaded stream from its file rate to deviceRate,
// scaled by speed.
func newPlayer(wav *wavstream.Stream, deviceRate int, speed float64, loop bool) (*player, error) {
	fileRate, ok := wav.SampleRate()
	if !ok {
		return nil, wavstream.ErrNotLoaded
	}

	rs, err := resampler.NewStreamFromConfig[float32](&resampler.Config{
		MaxChannels: wav.NumChannels(),
		InputRate:   fileRate,
		OutputRate:  deviceRate,
	})
	if err != nil {
		return nil, err
	}
	if speed != 1 {
		if err := rs.SetRatio(rs.Ratio() * speed); err != nil {
			return nil, err
		}
	}

	return &player{
		wav:   wav,
		rs:    rs,
		frame: make([]float32, wav.NumChannels()),
		loop:  loop,
	}, nil
}

// render fills out with frameCount interleaved little-endian float32 frames.
// Frames the stream cannot supply are silent.
func (p *player) render(out []byte, frameCount int) {
	channels := len(p.frame)
	for i := range frameCount {
		if !p.rs.ProcessFrom(p.wav, p.frame) {
			p.starved()
			clear(p.frame)
		}
		for ch, v := range p.frame {
			binary.LittleEndian.PutUint32(out[(i*channels+ch)*bytesPerFloat32:], math.Float32bits(v))
		}
	}
}

// starved handles a frame the stream could not produce: the end of the file
// or a loader that has fallen behind.
func (p *player) starved() {
	if p.wav.Seeking() {
		return
	}
	if !p.wav.IsEOF() || p.wav.SamplesAvailable() > 0 {
		p.underruns.Add(1)
		return
	}

	if !p.loop {
		p.done.Store(true)
		return
	}

	p.wav.ResetPlaybackToFrame(0)
	p.rs.Flush()
}
