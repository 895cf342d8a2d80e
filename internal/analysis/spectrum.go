package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/san-kum/planetsim/internal/experiment"
	"gonum.org/v1/gonum/dsp/fourier"
)

var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns the magnitude of the non-negative frequency terms of
// series with its mean removed. Index i corresponds to i/len(series) cycles
// per sample.
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centred := make([]float64, len(series))
	for i, v := range series {
		centred[i] = v - mean
	}

	coeff := fourier.NewFFT(len(centred)).Coefficients(nil, centred)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-constant frequency
// in series, sampled every sampleDt.
func DominantPeriod(series []float64, sampleDt float64) (float64, error) {
	if len(series) < 4 {
		return 0, fmt.Errorf("%w: %d samples", ErrTooShort, len(series))
	}
	if sampleDt <= 0 {
		return 0, fmt.Errorf("analysis: sample interval must be positive, got %v", sampleDt)
	}

	ps := PowerSpectrum(series)
	peak := 0
	for i := 1; i < len(ps); i++ {
		if peak == 0 || ps[i] > ps[peak] {
			peak = i
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: series is constant")
	}

	freq := float64(peak) / float64(len(series))
	return sampleDt / freq, nil
}

// RelativeCoordinate extracts coordinate axis (0, 1 or 2) of body relative to
// primary from every frame, together with the mean frame spacing.
func RelativeCoordinate(frames []experiment.Frame, primary, body, axis int) ([]float64, float64, error) {
	if axis < 0 || axis > 2 {
		return nil, 0, fmt.Errorf("analysis: axis %d out of range", axis)
	}
	if len(frames) < 2 {
		return nil, 0, fmt.Errorf("%w: %d frames", ErrTooShort, len(frames))
	}

	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if primary >= len(f.Bodies) || body >= len(f.Bodies) || primary < 0 || body < 0 {
			return nil, 0, fmt.Errorf("analysis: body index out of range for %d bodies", len(f.Bodies))
		}
		p, b := f.Bodies[primary].Position, f.Bodies[body].Position
		switch axis {
		case 0:
			out = append(out, b.X-p.X)
		case 1:
			out = append(out, b.Y-p.Y)
		default:
			out = append(out, b.Z-p.Z)
		}
	}

	spacing := (frames[len(frames)-1].Time - frames[0].Time) / float64(len(frames)-1)
	return out, spacing, nil
}
