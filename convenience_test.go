package resampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-stream-resampler/internal/testutil"
)

// TestInterleaveDeinterleave verifies interleave/deinterleave roundtrip.
func TestInterleaveDeinterleave(t *testing.T) {
	left := []float32{1, 2, 3, 4, 5}
	right := []float32{-1, -2, -3, -4}

	interleaved := InterleaveToStereo(left, right)
	assert.Equal(t, []float32{1, -1, 2, -2, 3, -3, 4, -4}, interleaved)

	l, r := DeinterleaveFromStereo(interleaved)
	assert.Equal(t, left[:4], l)
	assert.Equal(t, right, r)

	l64, r64 := DeinterleaveFromStereo(InterleaveToStereo([]float64{0.5}, []float64{0.25}))
	assert.Equal(t, []float64{0.5}, l64)
	assert.Equal(t, []float64{0.25}, r64)
}

func TestResampleMono(t *testing.T) {
	input := testutil.Ramp(100, 0, 1)

	out, err := ResampleMono(input, 24000, 48000)
	require.NoError(t, err)

	// 97 shifts after priming, two outputs per input sample.
	require.Len(t, out, 196)
	assert.InDelta(t, 0.4375, out[1], testutil.DefaultTolerance, "zeroed look-behind transient")
	for i := 2; i < len(out); i++ {
		assert.InDelta(t, float64(i)/2, out[i], 1e-9, "sample %d", i)
	}
}

func TestResampleMono_InvalidRates(t *testing.T) {
	_, err := ResampleMono([]float32{1, 2, 3}, 0, 48000)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestResampleStereo_MatchesMono(t *testing.T) {
	left := testutil.Sine(441, 1000, 44100)
	right := testutil.Sine(441, 3000, 44100)

	for _, rates := range [][2]int{{44100, 48000}, {44100, 22050}, {44100, 96000}} {
		lOut, rOut, err := ResampleStereo(left, right, rates[0], rates[1])
		require.NoError(t, err)

		lWant, err := ResampleMono(left, rates[0], rates[1])
		require.NoError(t, err)
		rWant, err := ResampleMono(right, rates[0], rates[1])
		require.NoError(t, err)

		testutil.AssertSamplesInDelta(t, lWant, lOut, 1e-12, "left %v", rates)
		testutil.AssertSamplesInDelta(t, rWant, rOut, 1e-12, "right %v", rates)
	}

	_, _, err := ResampleStereo(left, right, 44100, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPresetStreams(t *testing.T) {
	cd := NewCDtoDAT[float32]()
	assert.Equal(t, 2, cd.Channels())
	assert.InDelta(t, 44100.0/48000.0, cd.Ratio(), 1e-15)

	dat := NewDATtoCD[float64]()
	assert.InDelta(t, 48000.0/44100.0, dat.Ratio(), 1e-15)
}
