package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform of samples. Bin k corresponds to k/(n*dt) Hz.
func PowerSpectrum(samples []float64) []float64 {
	if len(samples) < 2 {
		return nil
	}
	centered := make([]float64, len(samples))
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples taken every dt seconds. It returns 0 when there is
// no usable signal.
func DominantFrequency(samples []float64, dt float64) float64 {
	if dt <= 0 || math.IsNaN(dt) {
		return 0
	}
	ps := PowerSpectrum(samples)
	if len(ps) < 2 {
		return 0
	}
	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 || peak < 1e-12 {
		return 0
	}
	return float64(best) / (float64(len(samples)) * dt)
}
