package testutil

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Cosine returns n samples of amplitude·cos(2π·frequency·t).
func Cosine(n int, frequency, sampleRate, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Cos(2*math.Pi*frequency*float64(i)/sampleRate)
	}
	return out
}

// Sine returns n samples of amplitude·sin(2π·frequency·t).
func Sine(n int, frequency, sampleRate, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*frequency*float64(i)/sampleRate)
	}
	return out
}

// Constant returns n copies of value.
func Constant(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Mix adds signals of equal length element-wise.
func Mix(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}
	out := make([]float64, len(signals[0]))
	for _, s := range signals {
		floats.Add(out, s)
	}
	return out
}

// Interleave builds an interleaved multi-channel buffer from equal-length channels.
func Interleave(channels ...[]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	n := len(channels[0])
	out := make([]float64, n*len(channels))
	for ch, data := range channels {
		for i, v := range data {
			out[i*len(channels)+ch] = v
		}
	}
	return out
}

// FFTPeakFrequency returns the frequency of the largest non-DC FFT bin.
func FFTPeakFrequency(signal []float64, sampleRate float64) float64 {
	fft := fourier.NewFFT(len(signal))
	coeffs := fft.Coefficients(nil, signal)
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = cmplx.Abs(c)
	}
	mags[0] = 0
	return fft.Freq(floats.MaxIdx(mags)) * sampleRate
}

// FFTAmplitudeAt returns the single-sided amplitude of the FFT bin nearest frequency.
func FFTAmplitudeAt(signal []float64, sampleRate, frequency float64) float64 {
	n := len(signal)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, signal)
	bin := int(math.Round(frequency * float64(n) / sampleRate))
	bin = min(max(bin, 0), len(coeffs)-1)
	return 2 * cmplx.Abs(coeffs[bin]) / float64(n)
}
