// Package engine implements the cubic resampling core shared by the pull
// (frame) and push (channel) front ends.
package engine

import "github.com/tphakala/go-stream-resampler/internal/simdops"

// Interpolate evaluates the four-point cubic Hermite (Catmull-Rom) polynomial
// between x0 and x1 at local position t in [0, 1).
// Inputs are not range checked.
func Interpolate[F simdops.Float](xm1, x0, x1, x2, t F) F {
	a := (hermiteScale3*(x0-x1) - xm1 + x2) / hermiteHalf
	b := 2*x1 + xm1 - (hermiteScale5*x0+x2)/hermiteHalf
	c := (x1 - xm1) / hermiteHalf

	return ((a*t+b)*t+c)*t + x0
}

// ChannelState holds the interpolation window of one channel plus the
// consumption state used when the channel is driven on its own (channel mode).
type ChannelState[F simdops.Float] struct {
	Xm1 F // x(-1), look-behind
	X0  F // x(0), left of the output position
	X1  F // x(1), right of the output position
	X2  F // x(2), look-ahead

	frac      float64
	primeLeft int
}

// push shifts the window forward by one input sample.
func (c *ChannelState[F]) push(v F) {
	c.Xm1 = c.X0
	c.X0 = c.X1
	c.X1 = c.X2
	c.X2 = v
}

// reset zeroes the window and marks the channel as needing priming.
// Zeroing x(-1) instead of keeping the previous tail is intentional and
// produces a small transient on the first frames after a flush.
func (c *ChannelState[F]) reset() {
	*c = ChannelState[F]{primeLeft: primeFrames}
}

// interpolate evaluates the window at t.
func (c *ChannelState[F]) interpolate(t F) F {
	return Interpolate(c.Xm1, c.X0, c.X1, c.X2, t)
}

// Window returns the history as [x(-1), x(0), x(1), x(2)].
func (c *ChannelState[F]) Window() [cubicInterpolationPoints]F {
	return [cubicInterpolationPoints]F{c.Xm1, c.X0, c.X1, c.X2}
}
