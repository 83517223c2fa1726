package analysis

const (
	// minLength is the shortest signal worth transforming.
	minLength = 16

	// dcBins are skipped when looking for tones and noise.
	dcBins = 1

	// ToneHalfWidth covers the Hann main lobe of an on-bin tone plus
	// one bin of leakage on each side.
	ToneHalfWidth = 3
)
