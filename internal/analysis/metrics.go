// Package analysis derives summary metrics from sampled displacement curves.
package analysis

import "math"

// SettlingBand is the fraction of the peak amplitude used for settling time.
const SettlingBand = 0.02

// Response summarizes the shape of a displacement curve.
type Response struct {
	Peak          float64 // largest |x|
	PeakTime      float64
	Overshoot     float64 // largest excursion past equilibrium opposite the start, relative to |x(0)|
	SettlingTime  float64 // first time after which |x| stays inside the band; -1 if never
	ZeroCrossings int
	LogDecrement  float64 // ln ratio of successive positive peaks; 0 when fewer than two
	DecayRate     float64 // estimated exponential decay constant from the log decrement
}

// Measure computes response metrics for a uniformly or non-uniformly sampled
// curve. times and xs must have equal length.
func Measure(times, xs []float64) Response {
	var r Response
	if len(xs) == 0 || len(times) != len(xs) {
		return r
	}

	for i, x := range xs {
		if a := math.Abs(x); a > r.Peak {
			r.Peak = a
			r.PeakTime = times[i]
		}
	}

	for i := 1; i < len(xs); i++ {
		if xs[i-1]*xs[i] < 0 {
			r.ZeroCrossings++
		}
	}

	r.Overshoot = overshoot(xs)
	r.SettlingTime = settlingTime(times, xs, SettlingBand*r.Peak)

	peaks, peakTimes := positivePeaks(times, xs)
	if len(peaks) >= 2 && peaks[1] > 0 {
		r.LogDecrement = math.Log(peaks[0] / peaks[1])
		if dt := peakTimes[1] - peakTimes[0]; dt > 0 {
			r.DecayRate = r.LogDecrement / dt
		}
	}

	return r
}

// overshoot is the largest swing through zero against the initial sign,
// as a fraction of the starting displacement. Zero when x(0) = 0 or the
// curve never changes sign.
func overshoot(xs []float64) float64 {
	x0 := xs[0]
	if x0 == 0 {
		return 0
	}
	worst := 0.0
	for _, x := range xs {
		if v := -x / x0; v > worst {
			worst = v
		}
	}
	return worst
}

func settlingTime(times, xs []float64, band float64) float64 {
	if band <= 0 {
		return -1
	}
	last := -1.0
	inside := false
	for i, x := range xs {
		if math.Abs(x) <= band {
			if !inside {
				last = times[i]
				inside = true
			}
		} else {
			inside = false
		}
	}
	if !inside {
		return -1
	}
	return last
}

// positivePeaks returns local maxima with positive displacement, in time order.
func positivePeaks(times, xs []float64) ([]float64, []float64) {
	var peaks, peakTimes []float64
	for i := 1; i < len(xs)-1; i++ {
		if xs[i] > 0 && xs[i] >= xs[i-1] && xs[i] > xs[i+1] {
			peaks = append(peaks, xs[i])
			peakTimes = append(peakTimes, times[i])
		}
	}
	return peaks, peakTimes
}
