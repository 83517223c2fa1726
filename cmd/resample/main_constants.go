package main

// Default command-line flag values
const (
	defaultInputRate  = 44100 // CD quality sample rate
	defaultOutputRate = 48000 // DAT/DVD sample rate
	defaultChannels   = 1
	defaultFrames     = 16
	defaultSignal     = "sawtooth"
)

// Test signal parameters
const (
	testSignalFrequency = 1000.0 // 1 kHz test tone
	sawtoothPeriod      = 8
	rampStep            = 1.0
)

// Demo sample rates
const (
	sampleRateCD    = 44100
	sampleRateDAT   = 48000
	sampleRate2xCD  = 88200
	sampleRateHiRes = 96000
	sampleRateVoice = 16000
)

// Demo channel configurations
const (
	monoChannels   = 1
	stereoChannels = 2
	surround5_1    = 6
	surround7_1    = 8
)

// Demo sizes
const (
	demoFrames      = 12
	benchmarkSecond = 1    // seconds of audio per timing run
	minElapsed      = 1e-9 // guards the real-time factor against a zero timer
)
