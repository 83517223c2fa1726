// Package analysis measures the quality of resampled test tones.
//
// It is used offline by tests and the analyze-cubic tool, never on the audio
// path.
package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is the one-sided power spectrum of a Hann windowed signal.
type Spectrum struct {
	rate  float64
	n     int
	power []float64
}

// NewSpectrum analyzes x sampled at rate. The mean is removed before
// windowing. Signals shorter than minLength samples give an empty spectrum.
func NewSpectrum(x []float64, rate float64) *Spectrum {
	n := len(x)
	if n < minLength {
		return &Spectrum{rate: rate, n: n}
	}

	// Periodic Hann: the symmetric window of length n+1 without its last point.
	w := make([]float64, n+1)
	for i := range w {
		w[i] = 1
	}
	w = window.Hann(w)[:n]

	seq := make([]float64, n)
	copy(seq, x)
	floats.AddConst(-stat.Mean(x, nil), seq)
	floats.Mul(seq, w)

	coeffs := fourier.NewFFT(n).Coefficients(nil, seq)
	power := make([]float64, len(coeffs))
	for i, c := range coeffs {
		m := cmplx.Abs(c)
		power[i] = m * m
	}

	return &Spectrum{rate: rate, n: n, power: power}
}

// Bins returns the number of frequency bins.
func (s *Spectrum) Bins() int {
	return len(s.power)
}

// BinFrequency returns the center frequency of bin in Hz.
func (s *Spectrum) BinFrequency(bin int) float64 {
	return float64(bin) * s.rate / float64(s.n)
}

// Power returns the power in bin.
func (s *Spectrum) Power(bin int) float64 {
	return s.power[bin]
}

// Peak returns the strongest bin above DC, or -1 for an empty spectrum.
func (s *Spectrum) Peak() int {
	if len(s.power) <= dcBins {
		return -1
	}
	return dcBins + floats.MaxIdx(s.power[dcBins:])
}

// PeakFrequency returns the frequency of the strongest bin in Hz.
func (s *Spectrum) PeakFrequency() float64 {
	bin := s.Peak()
	if bin < 0 {
		return 0
	}
	return s.BinFrequency(bin)
}

// SNR returns the ratio in dB between the power within halfWidth bins of
// bin and the power of all other bins above DC. A noiseless tone gives +Inf.
func (s *Spectrum) SNR(bin, halfWidth int) float64 {
	signal, noise := s.split(bin, halfWidth)
	return powerDB(signal, noise)
}

// SpuriousDB returns the level in dB of the strongest bin outside the tone,
// relative to the tone's peak bin. Alias images of a resampled tone show up
// here. The result is -Inf when nothing but the tone is present.
func (s *Spectrum) SpuriousDB(bin, halfWidth int) float64 {
	if bin < 0 || bin >= len(s.power) {
		return math.Inf(-1)
	}

	var worst float64
	for i := dcBins; i < len(s.power); i++ {
		if abs(i-bin) <= halfWidth {
			continue
		}
		worst = max(worst, s.power[i])
	}
	return powerDB(worst, s.power[bin])
}

func (s *Spectrum) split(bin, halfWidth int) (signal, noise float64) {
	for i := dcBins; i < len(s.power); i++ {
		if abs(i-bin) <= halfWidth {
			signal += s.power[i]
		} else {
			noise += s.power[i]
		}
	}
	return signal, noise
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(x, x) / float64(len(x)))
}

// PeakError returns the largest absolute difference between want and got
// over their common length.
func PeakError(want, got []float64) float64 {
	n := min(len(want), len(got))
	if n == 0 {
		return 0
	}
	return floats.Distance(want[:n], got[:n], math.Inf(1))
}

// DBFS converts a linear amplitude to decibels relative to full scale.
func DBFS(amplitude float64) float64 {
	return 20 * math.Log10(amplitude)
}

func powerDB(num, den float64) float64 {
	switch {
	case den == 0 && num == 0:
		return math.NaN()
	case den == 0:
		return math.Inf(1)
	case num == 0:
		return math.Inf(-1)
	}
	return 10 * math.Log10(num/den)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
