package wavstream

// DefaultBufferSamples is a reasonable pre-buffer size: about 11 seconds of
// 48kHz stereo.
const DefaultBufferSamples = 1 << 20

// File reading
const (
	// readBlockBytes is the amount of PCM data decoded per read.
	readBlockBytes = 16 * 1024

	wavFormatPCM   = 1
	bitsPerByte    = 8
	stereoChannels = 2
)

// PCM normalization
const (
	maxInt8  = 127.0
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// 8-bit WAV samples are unsigned.
	uint8Midpoint = 128
)

// pcmScale returns the factor and offset that map decoded integers of the
// given bit depth to [-1, 1].
func pcmScale(bitDepth int) (scale float32, offset int, ok bool) {
	switch bitDepth {
	case 8:
		return 1 / maxInt8, uint8Midpoint, true
	case 16:
		return 1 / maxInt16, 0, true
	case 24:
		return 1 / maxInt24, 0, true
	case 32:
		return 1 / maxInt32, 0, true
	default:
		return 0, 0, false
	}
}
