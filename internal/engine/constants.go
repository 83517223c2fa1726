package engine

// Channel limits
const (
	// MaxChannels is the hard ceiling on channel capacity for one engine.
	MaxChannels = 16

	// minChannels is the smallest live channel count.
	minChannels = 1
)

// Cubic (Hermite) interpolation constants
const (
	// Cubic interpolation uses a 4-point window: x(-1), x(0), x(1), x(2)
	cubicInterpolationPoints = 4

	// primeFrames is the number of input frames read after a flush.
	// x(-1) is zeroed rather than read, so priming costs three frames.
	primeFrames = cubicInterpolationPoints - 1

	// Coefficients of the four-point polynomial:
	//   a = (3*(x0-x1) - xm1 + x2) / 2
	//   b = 2*x1 + xm1 - (5*x0 + x2) / 2
	//   c = (x1 - xm1) / 2
	hermiteScale3 = 3
	hermiteScale5 = 5
	hermiteHalf   = 2
)

// Ratio constants
const (
	// passThroughRatio selects the exact-copy path.
	passThroughRatio = 1.0

	// phaseUnit is one input sample in the phase accumulator domain.
	phaseUnit = 1.0

	// MinRatio and MaxRatio bound the input/output ratio, so one output
	// frame never reads more than MaxRatio+3 input frames.
	MinRatio = 1.0 / 256.0 // 256x upsampling
	MaxRatio = 256.0       // 256x downsampling
)
