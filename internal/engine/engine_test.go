package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-stream-resampler/internal/testutil"
)

// pullMono runs n frames through a mono engine fed by the looping sawtooth.
func pullMono(t *testing.T, e *Engine[float64], n int) []float64 {
	t.Helper()
	next, _ := testutil.LoopSource[float64](testutil.Sawtooth8)
	src := SourceFunc[float64](next)
	out := make([]float64, 0, n)
	frame := make([]float64, 1)
	for range n {
		require.True(t, e.NextFrame(src, frame))
		out = append(out, frame[0])
	}
	return out
}

// =============================================================================
// Regression fixtures - 8 sample sawtooth, one output per call
// =============================================================================

func TestEngine_MonoSawtoothFixtures(t *testing.T) {
	testCases := []struct {
		name       string
		inputRate  int
		outputRate int
		expected   []float64
	}{
		{
			name:      "passthrough",
			inputRate: 48000, outputRate: 48000,
			expected: []float64{0, 1, 2, 3, 4, 5, 6, 7, 0},
		},
		{
			name:      "upsample_by_2",
			inputRate: 24000, outputRate: 48000,
			expected: []float64{
				0, 0.4375, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0, 4.5, 5.0,
				5.5, 6.0, 7.0, 7.0, 3.5, 0.0, 0.0, 1.0, 1.5, 2.0,
			},
		},
		{
			name:      "upsample_by_1.33",
			inputRate: 36000, outputRate: 48000,
			expected: []float64{
				0.0, 0.726562, 1.5, 2.25, 3.00, 3.75, 4.50, 5.25,
				6.00, 7.3125, 3.50, -0.31250, 1.00, 1.75, 2.50, 3.25,
			},
		},
		{
			name:      "downsample_by_2",
			inputRate: 48000, outputRate: 24000,
			expected: []float64{0, 2, 4, 6, 0, 2, 4, 6, 0, 2, 4, 6},
		},
		{
			name:      "downsample_by_1.33",
			inputRate: 48000, outputRate: 36000,
			expected: []float64{
				0, 1.33333, 2.66666, 4.0, 5.33333, 7.25926,
				0, 1.33333, 2.66666, 4.0, 5.33333, 7.25926,
			},
		},
		{
			// Aliases backwards every other sample; kept as observed behavior.
			name:      "downsample_by_6",
			inputRate: 48000, outputRate: 8000,
			expected: []float64{0, 6, 4, 2, 0, 6, 4, 2},
		},
		{
			name:      "downsample_by_3.33",
			inputRate: 48000, outputRate: 14400,
			expected: []float64{
				0, 3.333333, 7.25926, 2.000000, 5.333333, 0.370369,
				4.000000, 4.962965, 2.66667, 6.000000, 1.333333, 4.66667,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine[float64](1)
			require.NoError(t, e.SetRate(tc.inputRate, tc.outputRate))

			got := pullMono(t, e, len(tc.expected))
			testutil.AssertSamplesInDelta(t, tc.expected, got, testutil.FixtureTolerance)
		})
	}
}

func TestEngine_MonoSawtoothFloat32(t *testing.T) {
	e := NewEngine[float32](1)
	require.NoError(t, e.SetRate(24000, 48000))

	next, _ := testutil.LoopSource[float32](testutil.Sawtooth8)
	src := SourceFunc[float32](next)
	frame := make([]float32, 1)

	expected := []float32{0, 0.4375, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0}
	for i, want := range expected {
		require.True(t, e.NextFrame(src, frame))
		assert.InDelta(t, want, frame[0], testutil.Float32Tolerance, "frame %d", i)
	}
}

func TestEngine_StereoSawtoothFixtures(t *testing.T) {
	left := testutil.Sawtooth8
	right := []float64{16, 15.5, 15, 14.5, 14, 13.5, 13, 12.5}

	t.Run("passthrough", func(t *testing.T) {
		e := NewEngine[float64](2)
		next, _ := testutil.LoopSource[float64](testutil.Interleave(left, right))
		src := SourceFunc[float64](next)
		out := make([]float64, 2)

		for i := range 16 {
			require.True(t, e.NextFrame(src, out))
			assert.Equal(t, left[i%8], out[0])
			assert.Equal(t, right[i%8], out[1])
		}
	})

	t.Run("upsample_by_2", func(t *testing.T) {
		e := NewEngine[float64](2)
		require.NoError(t, e.SetRate(24000, 48000))
		next, _ := testutil.LoopSource[float64](testutil.Interleave(left, right))
		src := SourceFunc[float64](next)
		out := make([]float64, 2)

		expected := [][2]float64{
			{0.0, 16.0}, {0.4375, 16.78125}, {1.0, 15.5}, {1.5, 15.25},
			{2.0, 15.0}, {2.5, 14.75}, {3.0, 14.5}, {3.5, 14.25},
			{4.0, 14.0}, {4.5, 13.75}, {5.0, 13.5}, {5.5, 13.25},
			{6.0, 13.0}, {7.0, 12.5}, {7.0, 12.5}, {3.5, 14.25},
			{0.0, 16.0},
		}
		for i, want := range expected {
			require.True(t, e.NextFrame(src, out))
			assert.InDelta(t, want[0], out[0], testutil.FixtureTolerance, "left frame %d", i)
			assert.InDelta(t, want[1], out[1], testutil.FixtureTolerance, "right frame %d", i)
		}
	})
}

// =============================================================================
// Properties
// =============================================================================

func TestEngine_PassThroughIsExact(t *testing.T) {
	input := testutil.Sine(1000, 997, 48000)
	e := NewEngine[float64](1)
	src := NewSliceSource(input)
	out := make([]float64, 1)

	for i := range input {
		require.True(t, e.NextFrame(src, out))
		require.Equal(t, input[i], out[0], "sample %d", i)
	}
	assert.False(t, e.NextFrame(src, out), "source is exhausted")
}

func TestEngine_FrameConsumptionBounds(t *testing.T) {
	const frames = 257

	// Bounds floor(K*R) <= consumed <= ceil(K*R)+3 hold for ratios up to 3.
	for _, ratio := range []float64{1, 0.25, 0.5, 0.75, 1.0 / 3.0, 4.0 / 3.0, 2, 2.5, 3} {
		e := NewEngine[float64](1)
		require.NoError(t, e.SetRatio(ratio))
		next, count := testutil.LoopSource[float64](testutil.Sawtooth8)
		src := SourceFunc[float64](next)
		out := make([]float64, 1)

		for range frames {
			require.True(t, e.NextFrame(src, out))
		}

		kr := float64(frames) * ratio
		testutil.AssertInRange(t, float64(count()), math.Floor(kr), math.Ceil(kr)+primeFrames,
			"ratio %v", ratio)
	}
}

func TestEngine_FrameConsumptionExact(t *testing.T) {
	const frames = 100

	// Non pass-through: three priming frames plus floor((K-1)*R) shifts.
	for _, ratio := range []float64{0.5, 0.75, 4.0 / 3.0, 2, 10.0 / 3.0, 6} {
		e := NewEngine[float64](1)
		require.NoError(t, e.SetRatio(ratio))
		next, count := testutil.LoopSource[float64](testutil.Sawtooth8)
		src := SourceFunc[float64](next)
		out := make([]float64, 1)

		for range frames {
			require.True(t, e.NextFrame(src, out))
		}

		want := primeFrames + math.Floor(float64(frames-1)*ratio)
		assert.InDelta(t, want, float64(count()), 1, "ratio %v", ratio)
	}
}

func TestEngine_FlushDoesNotLeakHistory(t *testing.T) {
	fresh := testutil.Ramp(64, 100, -1.5)

	// Engine that has seen unrelated material before the flush.
	used := NewEngine[float64](2)
	require.NoError(t, used.SetRatio(0.75))
	noise := NewSliceSource(testutil.Sine(200, 3000, 48000))
	out := make([]float64, 2)
	for range 40 {
		require.True(t, used.NextFrame(noise, out))
	}
	used.Flush()

	clean := NewEngine[float64](2)
	require.NoError(t, clean.SetRatio(0.75))

	srcUsed := NewSliceSource(fresh)
	srcClean := NewSliceSource(fresh)
	a := make([]float64, 2)
	b := make([]float64, 2)
	for i := 0; ; i++ {
		okA := used.NextFrame(srcUsed, a)
		okB := clean.NextFrame(srcClean, b)
		require.Equal(t, okB, okA, "frame %d", i)
		if !okA {
			break
		}
		assert.Equal(t, b, a, "frame %d", i)
	}
	assert.Zero(t, used.Phase()-clean.Phase())
}

func TestEngine_FlushPrimesFromThreeFrames(t *testing.T) {
	e := NewEngine[float64](1)
	require.NoError(t, e.SetRatio(0.5))
	_ = pullMono(t, e, 11)

	e.Flush()
	src := NewSliceSource([]float64{10, 20, 30, 40})
	out := make([]float64, 1)
	require.True(t, e.NextFrame(src, out))

	assert.Equal(t, 10.0, out[0])
	assert.Equal(t, 3, src.Consumed(), "first frame after flush reads exactly three frames")
	assert.Equal(t, [4]float64{0, 10, 20, 30}, e.Window(0))
}

// The look-behind sample is zeroed on flush instead of continuing the
// previous tail. This produces a small transient on the first interpolated
// frames and is an accepted artifact.
func TestEngine_FlushZeroesLookBehindArtifact(t *testing.T) {
	e := NewEngine[float64](1)
	require.NoError(t, e.SetRatio(0.5))

	src := NewSliceSource([]float64{0, 1, 2, 3, 4, 5})
	out := make([]float64, 1)
	require.True(t, e.NextFrame(src, out))
	require.True(t, e.NextFrame(src, out))

	// A continuous ramp would give 0.5 here.
	assert.InDelta(t, 0.4375, out[0], testutil.DefaultTolerance)
}

func TestEngine_RateChangeForcesFlush(t *testing.T) {
	e := NewEngine[float64](1)
	require.NoError(t, e.SetRate(24000, 48000))
	_ = pullMono(t, e, 6)

	// Same ratio expressed with other rates: no flush.
	require.NoError(t, e.SetRate(22050, 44100))
	before := e.Window(0)
	src := NewSliceSource([]float64{100, 100, 100, 100})
	out := make([]float64, 1)
	require.True(t, e.NextFrame(src, out))
	assert.NotEqual(t, [4]float64{0, 100, 100, 100}, e.Window(0))
	assert.Equal(t, before[1], e.Window(0)[0], "window continued, not restarted")

	// New ratio: restart and prime from fresh input.
	require.NoError(t, e.SetRate(48000, 24000))
	src = NewSliceSource([]float64{100, 101, 102})
	require.True(t, e.NextFrame(src, out))
	assert.Equal(t, 100.0, out[0])
	assert.Equal(t, [4]float64{0, 100, 101, 102}, e.Window(0))
	assert.InDelta(t, 2.0, e.Ratio(), 1e-15)
}

func TestEngine_InvalidRateKeepsPreviousRatio(t *testing.T) {
	e := NewEngine[float64](1)
	require.NoError(t, e.SetRate(44100, 48000))
	want := e.Ratio()

	assert.ErrorIs(t, e.SetRate(0, 48000), ErrInvalidRate)
	assert.ErrorIs(t, e.SetRate(44100, -1), ErrInvalidRate)
	assert.ErrorIs(t, e.SetRatio(0), ErrInvalidRatio)
	assert.ErrorIs(t, e.SetRatio(-2), ErrInvalidRatio)
	assert.ErrorIs(t, e.SetRatio(math.NaN()), ErrInvalidRatio)
	assert.ErrorIs(t, e.SetRatio(math.Inf(1)), ErrInvalidRatio)
	assert.ErrorIs(t, e.SetRatio(1e15), ErrInvalidRatio)
	assert.ErrorIs(t, e.SetRatio(MaxRatio*2), ErrInvalidRatio)
	assert.ErrorIs(t, e.SetRatio(MinRatio/2), ErrInvalidRatio)
	assert.ErrorIs(t, e.SetRate(1000, 1), ErrInvalidRatio)

	assert.Equal(t, want, e.Ratio())

	out := pullMono(t, e, 64)
	testutil.AssertNoNaNOrInf(t, out)
}

func TestEngine_RatioLimitsBoundInputPerFrame(t *testing.T) {
	e := NewEngine[float64](1)
	require.NoError(t, e.SetRatio(MinRatio))
	require.NoError(t, e.SetRatio(MaxRatio))

	src := NewSliceSource(testutil.Ramp(1024, 0, 1))
	out := make([]float64, 1)
	require.True(t, e.NextFrame(src, out))
	assert.Equal(t, 3, src.Consumed())
	require.True(t, e.NextFrame(src, out))
	assert.Equal(t, 3+int(MaxRatio), src.Consumed())
}

func TestEngine_ChannelLockstep(t *testing.T) {
	e := NewEngine[float64](2)
	require.NoError(t, e.SetRatio(0.7))

	left := testutil.Ramp(200, 0, 1)
	right := testutil.Ramp(200, 50, -0.25)
	src := NewSliceSource(testutil.Interleave(left, right))
	out := make([]float64, 2)

	for i := range 150 {
		// Reproduce the phase the engine will evaluate at.
		tPos := e.Phase()
		for tPos >= 1 {
			tPos--
		}

		require.True(t, e.NextFrame(src, out))

		for ch := range 2 {
			w := e.Window(ch)
			assert.Equal(t, Interpolate(w[0], w[1], w[2], w[3], tPos), out[ch],
				"frame %d channel %d", i, ch)
		}

		// Once primed past the zeroed look-behind both ramps are exact.
		if i > 4 {
			pos := float64(i) * 0.7
			assert.InDelta(t, pos, out[0], 1e-9, "frame %d left", i)
			assert.InDelta(t, 50-0.25*pos, out[1], 1e-9, "frame %d right", i)
		}
	}
}

// gatedSource releases samples only up to limit.
type gatedSource struct {
	samples []float64
	pos     int
	limit   int
}

func (g *gatedSource) Next() (float64, bool) {
	if g.pos >= g.limit || g.pos >= len(g.samples) {
		return 0, false
	}
	v := g.samples[g.pos]
	g.pos++
	return v, true
}

func TestEngine_ExhaustedSourceResumes(t *testing.T) {
	input := testutil.Interleave(testutil.Sine(300, 440, 8000), testutil.Ramp(300, 0, 0.1))

	for _, ratio := range []float64{0.6, 1, 1.7, 3.4} {
		ref := NewEngine[float64](2)
		require.NoError(t, ref.SetRatio(ratio))
		refSrc := NewSliceSource(input)
		var want []float64
		out := make([]float64, 2)
		for ref.NextFrame(refSrc, out) {
			want = append(want, out...)
		}

		e := NewEngine[float64](2)
		require.NoError(t, e.SetRatio(ratio))
		src := &gatedSource{samples: input}
		var got []float64
		// Odd steps split frames across calls.
		for src.limit < len(input)+3 {
			src.limit += 3
			for e.NextFrame(src, out) {
				got = append(got, out...)
			}
		}

		testutil.AssertSamplesInDelta(t, want, got, 0, "ratio %v", ratio)
	}
}

func TestEngine_SetChannelsDropsPartialFrame(t *testing.T) {
	e := NewEngine[float64](2)
	require.NoError(t, e.SetRatio(0.5))

	src := &gatedSource{samples: testutil.Interleave(testutil.Ramp(8, 1, 1), testutil.Ramp(8, -1, -1)), limit: 7}
	out := make([]float64, 2)
	require.True(t, e.NextFrame(src, out))
	require.True(t, e.NextFrame(src, out))
	require.False(t, e.NextFrame(src, out), "dry after the left sample of frame four")
	assert.Equal(t, [4]float64{0, 1, 2, 3}, e.Window(0), "partial frame is not shifted in")

	e.SetChannels(1)
	mono := NewSliceSource([]float64{10, 11, 12})
	require.True(t, e.NextFrame(mono, out))
	assert.Equal(t, [4]float64{1, 2, 3, 10}, e.Window(0))
	assert.Equal(t, 2.0, out[0])
	assert.Equal(t, 1, mono.Consumed())
}

func TestEngine_SetChannelsKeepsPartialFrameWhenGrowing(t *testing.T) {
	e := NewEngine[float64](3)
	e.SetChannels(2)

	src := &gatedSource{samples: []float64{1, 2, 3, 4, 5}, limit: 1}
	out := make([]float64, 3)
	require.False(t, e.NextFrame(src, out))

	e.SetChannels(3)
	src.limit = 3
	require.True(t, e.NextFrame(src, out))
	assert.Equal(t, []float64{1, 2, 3}, out, "pass-through copies the completed frame")
}

func TestEngine_ShortOutputIsNoOp(t *testing.T) {
	e := NewEngine[float64](4)
	src := NewSliceSource(testutil.Ramp(16, 0, 1))

	assert.False(t, e.NextFrame(src, make([]float64, 3)))
	assert.Zero(t, src.Consumed())
}

func TestEngine_SetChannelsClampsAndKeepsHistory(t *testing.T) {
	e := NewEngine[float64](4)
	assert.Equal(t, 4, e.MaxChannels())

	e.SetChannels(0)
	assert.Equal(t, 1, e.Channels())
	e.SetChannels(99)
	assert.Equal(t, 4, e.Channels())

	require.NoError(t, e.SetRatio(0.5))
	e.SetChannels(2)
	src := NewSliceSource(testutil.Ramp(40, 1, 1))
	out := make([]float64, 2)
	for range 6 {
		require.True(t, e.NextFrame(src, out))
	}
	kept := e.Window(0)

	e.SetChannels(1)
	assert.Equal(t, kept, e.Window(0))
	assert.Equal(t, [4]float64{}, e.Window(1), "inactive channel reads as zero")

	e.SetChannels(3)
	assert.Equal(t, kept, e.Window(0))
	assert.Equal(t, [4]float64{}, e.Window(2), "newly active channel starts silent")

	in, outStride := e.Strides()
	assert.Equal(t, 3, in)
	assert.Equal(t, 3, outStride)
}

func TestNewEngine_ClampsCapacity(t *testing.T) {
	assert.Equal(t, 1, NewEngine[float32](0).MaxChannels())
	assert.Equal(t, MaxChannels, NewEngine[float32](1000).MaxChannels())
	assert.Equal(t, 1.0, NewEngine[float32](2).Ratio())
}

// =============================================================================
// Channel (block) mode
// =============================================================================

func TestEngine_ChannelModeMatchesFrameMode(t *testing.T) {
	left := make([]float64, 0, 64)
	right := make([]float64, 0, 64)
	for range 8 {
		left = append(left, testutil.Sawtooth8...)
		right = append(right, 16, 15.5, 15, 14.5, 14, 13.5, 13, 12.5)
	}
	input := testutil.Interleave(left, right)

	for _, ratio := range []float64{0.5, 0.75, 4.0 / 3.0, 2, 6} {
		for _, blockFrames := range []int{1, 2, 5, 16, 64} {
			ref := NewEngine[float64](2)
			require.NoError(t, ref.SetRatio(ratio))
			src := NewSliceSource(input)
			var want [2][]float64
			frame := make([]float64, 2)
			for ref.NextFrame(src, frame) {
				want[0] = append(want[0], frame[0])
				want[1] = append(want[1], frame[1])
			}

			e := NewEngine[float64](2)
			require.NoError(t, e.SetRatio(ratio))
			var got [2][]float64
			out := make([]float64, blockFrames*2*4)
			for start := 0; start < len(input); start += blockFrames * 2 {
				block := input[start:min(start+blockFrames*2, len(input))]
				n0 := e.ProcessChannel(0, block, out)
				for i := range n0 {
					got[0] = append(got[0], out[i*2])
				}
				n1 := e.ProcessChannel(1, block, out)
				for i := range n1 {
					got[1] = append(got[1], out[i*2+1])
				}
				require.Equal(t, n0, n1, "channels in lockstep")
			}

			testutil.AssertSamplesInDelta(t, want[0], got[0], 1e-12, "ratio %v block %d left", ratio, blockFrames)
			testutil.AssertSamplesInDelta(t, want[1], got[1], 1e-12, "ratio %v block %d right", ratio, blockFrames)
			assert.Equal(t, e.ChannelPhase(0), e.ChannelPhase(1))
		}
	}
}

func TestEngine_ChannelModePassThroughStrided(t *testing.T) {
	e := NewEngine[float64](2)
	e.SetOutputStride(3)

	in := []float64{0, 10, 1, 11, 2, 12, 3, 13}
	out := make([]float64, 12)
	for i := range out {
		out[i] = -1
	}

	assert.Equal(t, 4, e.ProcessChannel(0, in, out))
	assert.Equal(t, 4, e.ProcessChannel(1, in, out))
	assert.Equal(t, []float64{0, 10, -1, 1, 11, -1, 2, 12, -1, 3, 13, -1}, out)
}

func TestEngine_ChannelModeOutputLimit(t *testing.T) {
	e := NewEngine[float64](1)
	require.NoError(t, e.SetRatio(0.25))

	in := testutil.Ramp(32, 0, 1)
	out := make([]float64, 10)
	n := e.ProcessChannel(0, in, out)
	assert.Equal(t, len(out), n, "under-production reported by count, never overflow")

	n = e.ProcessChannel(0, in[:2], out)
	assert.LessOrEqual(t, n, len(out))
}

func TestEngine_ChannelModeUnderProduction(t *testing.T) {
	e := NewEngine[float64](1)
	require.NoError(t, e.SetRatio(2))

	out := make([]float64, 64)
	assert.Zero(t, e.ProcessChannel(0, []float64{1, 2}, out), "priming needs three samples")
	assert.Equal(t, 1, e.ProcessChannel(0, []float64{3}, out), "priming resumes across blocks")
	assert.Equal(t, 1.0, out[0])

	n := e.ProcessChannel(0, testutil.Ramp(10, 4, 1), out)
	assert.Equal(t, 5, n)
}

func TestEngine_ChannelModeRateChangeWaitsForChannelZero(t *testing.T) {
	e := NewEngine[float64](2)
	require.NoError(t, e.SetRatio(0.5))

	in := testutil.Interleave(testutil.Ramp(16, 0, 1), testutil.Ramp(16, 0, 1))
	out := make([]float64, 128)

	n0 := e.ProcessChannel(0, in, out)
	require.NoError(t, e.SetRatio(2))
	n1 := e.ProcessChannel(1, in, out)
	assert.Equal(t, n0, n1, "channel 1 finishes the block at the old ratio")

	n0 = e.ProcessChannel(0, in, out)
	n1 = e.ProcessChannel(1, in, out)
	assert.Equal(t, n0, n1)
	assert.Equal(t, 7, n0, "restarted at ratio 2: three priming samples then one output per two")
}

func TestEngine_ChannelModeInvalidIndex(t *testing.T) {
	e := NewEngine[float64](2)
	out := make([]float64, 8)

	assert.Zero(t, e.ProcessChannel(-1, []float64{1, 2, 3, 4}, out))
	assert.Zero(t, e.ProcessChannel(2, []float64{1, 2, 3, 4}, out))
	assert.Zero(t, e.ChannelPhase(7))
	assert.Equal(t, make([]float64, 8), out)
}

// =============================================================================
// Resources and concurrency
// =============================================================================

func TestEngine_NoAllocations(t *testing.T) {
	e := NewEngine[float32](2)
	require.NoError(t, e.SetRatio(0.75))

	next, _ := testutil.LoopSource[float32](testutil.Interleave(testutil.Sawtooth8, testutil.Sawtooth8))
	src := SourceFunc[float32](next)
	frame := make([]float32, 2)

	testutil.AssertNoAllocs(t, func() { e.NextFrame(src, frame) }, "NextFrame")

	block := make([]float32, 256)
	for i := range block {
		block[i] = float32(i % 8)
	}
	out := make([]float32, 1024)
	b := NewEngine[float32](2)
	require.NoError(t, b.SetRatio(1.5))
	testutil.AssertNoAllocs(t, func() {
		b.ProcessChannel(0, block, out)
		b.ProcessChannel(1, block, out)
	}, "ProcessChannel")
}

func TestEngine_ConcurrentRateChanges(t *testing.T) {
	e := NewEngine[float64](2)
	next, _ := testutil.LoopSource[float64](testutil.Interleave(testutil.Sawtooth8, testutil.Sawtooth8))
	src := SourceFunc[float64](next)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ratios := []float64{0.5, 0.75, 1, 2, 6}
		for i := range 2000 {
			_ = e.SetRatio(ratios[i%len(ratios)])
			if i%7 == 0 {
				e.Flush()
			}
		}
	}()

	out := make([]float64, 2)
	for range 5000 {
		require.True(t, e.NextFrame(src, out))
		require.False(t, math.IsNaN(out[0]) || math.IsNaN(out[1]))
		testutil.AssertInRange(t, out[0], -2, 9)
	}
	wg.Wait()
}
