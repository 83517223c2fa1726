// Package testutil provides reusable test helper functions for resampler tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-4
	FixtureTolerance = 1e-5
)

// Sawtooth8 is the eight-sample ramp used by the regression fixtures.
var Sawtooth8 = []float64{0, 1, 2, 3, 4, 5, 6, 7}

// LoopSource returns a producer cycling through samples forever, and a
// counter reporting how many samples have been produced.
func LoopSource[F ~float32 | ~float64](samples []float64) (next func() F, count func() int) {
	pos, n := 0, 0
	next = func() F {
		v := samples[pos]
		pos++
		if pos >= len(samples) {
			pos = 0
		}
		n++
		return F(v)
	}
	count = func() int { return n }
	return next, count
}

// Interleave merges per-channel slices into one interleaved slice.
// All channels are truncated to the shortest.
func Interleave(channels ...[]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}
	out := make([]float64, 0, frames*len(channels))
	for i := range frames {
		for _, ch := range channels {
			out = append(out, ch[i])
		}
	}
	return out
}

// Ramp returns n samples start, start+step, ...
func Ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Sine returns n samples of a unit sine at freq Hz sampled at rate Hz.
func Sine(n int, freq, rate float64) []float64 {
	out := make([]float64, n)
	omega := 2 * math.Pi * freq / rate
	for i := range out {
		out[i] = math.Sin(omega * float64(i))
	}
	return out
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertSamplesInDelta verifies element-wise closeness of two sample slices.
func AssertSamplesInDelta(t *testing.T, expected, actual []float64, delta float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, expected[i], actual[i], delta,
			"sample %d: expected %f, got %f", i, expected[i], actual[i]) {
			return false
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertNoAllocs verifies that fn does not allocate.
func AssertNoAllocs(t *testing.T, fn func(), msgAndArgs ...any) bool {
	t.Helper()
	allocs := testing.AllocsPerRun(100, fn)
	return assert.Zero(t, allocs, msgAndArgs...)
}
