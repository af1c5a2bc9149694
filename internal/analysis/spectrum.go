package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrTooFewSamples indicates a series too short for spectral analysis.
var ErrTooFewSamples = errors.New("analysis: too few samples for spectrum")

// DominantFrequency estimates the strongest frequency component, in hertz, of
// a uniformly sampled series with spacing dt. The series is zero-padded to a
// power of two and the peak bin refined by parabolic interpolation. For an
// underdamped oscillator this approximates omega_d / 2pi.
func DominantFrequency(xs []float64, dt float64) (float64, error) {
	if len(xs) < 8 {
		return 0, ErrTooFewSamples
	}
	if dt <= 0 {
		return 0, fmt.Errorf("analysis: sample spacing must be positive, got %g", dt)
	}

	n := 1
	for n < len(xs) {
		n *= 2
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	in := make([]complex128, n)
	out := make([]complex128, n)
	for i, x := range xs {
		in[i] = complex(x-mean, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return 0, fmt.Errorf("analysis: fft plan: %w", err)
	}
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("analysis: fft: %w", err)
	}

	best, bestMag := 1, 0.0
	for k := 1; k <= n/2; k++ {
		if mag := cmplx.Abs(out[k]); mag > bestMag {
			best, bestMag = k, mag
		}
	}
	if bestMag == 0 {
		return 0, nil
	}

	// Parabolic refinement around the peak bin.
	offset := 0.0
	if best > 1 && best < n/2 {
		m0 := cmplx.Abs(out[best-1])
		m1 := bestMag
		m2 := cmplx.Abs(out[best+1])
		denom := m0 - 2*m1 + m2
		if denom != 0 {
			offset = 0.5 * (m0 - m2) / denom
			offset = math.Max(-0.5, math.Min(0.5, offset))
		}
	}

	return (float64(best) + offset) / (float64(n) * dt), nil
}

// PowerSpectrum returns FFT magnitudes for the first half of the padded
// series, for terminal spectrum plots.
func PowerSpectrum(xs []float64, dt float64) ([]float64, error) {
	if len(xs) < 8 {
		return nil, ErrTooFewSamples
	}

	n := 1
	for n < len(xs) {
		n *= 2
	}

	in := make([]complex128, n)
	out := make([]complex128, n)
	for i, x := range xs {
		in[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("analysis: fft plan: %w", err)
	}
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("analysis: fft: %w", err)
	}

	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(out[i])
	}
	return ps, nil
}
