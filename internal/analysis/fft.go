package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/solarsim/internal/orbit"
)

// PowerSpectrum returns |X[k]| for k in [0, n/2) of the mean-removed signal.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spec := fft.FFTReal(centred)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod finds the strongest non-DC bin of data sampled every dt and
// refines it by parabolic interpolation. The result is in the units of dt.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("%w: %d", ErrTooFewSamples, len(data))
	}
	ps := PowerSpectrum(data)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, fmt.Errorf("%w: signal is constant", ErrTooFewSamples)
	}

	k := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			k += 0.5 * (a - c) / d
		}
	}
	return float64(len(data)) * dt / k, nil
}

// EstimatePeriod recovers a body's orbital period from n samples of its X
// offset relative to its parent. The window n*dt should span several orbits.
func EstimatePeriod(sys *orbit.System, id orbit.BodyID, t0, dt float64, n int) (float64, error) {
	ps, err := Sample(sys, id, t0, dt, n, true)
	if err != nil {
		return 0, err
	}
	p, err := DominantPeriod(xs(ps), dt)
	if err != nil {
		return 0, err
	}
	if math.IsInf(p, 0) || math.IsNaN(p) {
		return 0, fmt.Errorf("analysis: no period found")
	}
	return p, nil
}
