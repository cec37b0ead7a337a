package tiec

import (
	"math"
	"sort"
)

// Peak is a local maximum of a function sampled on a grid.
type Peak struct {
	X, Y float64
}

// LocalMaxima finds local maxima of y sampled at the equally spaced points x.
// The half-window is w = floor(delta/step/2) grid points with step = x[1]-x[0].
// An interior index i (w <= i < len(x)-w) is a maximum when y[i] is strictly
// greater than every other value in y[i-w..i+w]. Peaks are returned sorted by
// Y descending. delta must span at least two grid steps so that w >= 1.
//
// This is an initialization heuristic; it does not promise to find every mode.
func LocalMaxima(x, y []float64, delta float64) ([]Peak, error) {
	const op = "LocalMaxima"
	if len(x) != len(y) {
		return nil, domainErrorf(op, "x has %d points but y has %d", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, domainErrorf(op, "need at least 2 grid points, got %d", len(x))
	}
	if !(delta > 0) {
		return nil, domainErrorf(op, "delta must be > 0, got %g", delta)
	}
	step := x[1] - x[0]
	if !(step > 0) {
		return nil, domainErrorf(op, "grid must be increasing, step = %g", step)
	}

	// The 1e-9 absorbs representation error, e.g. 0.2/0.01/2 = 9.999999999999998.
	w := int(math.Floor(delta/step/2 + 1e-9))
	if w < 1 {
		return nil, domainErrorf(op, "delta %g is narrower than two grid steps (%g)", delta, step)
	}

	var peaks []Peak
	for i := w; i < len(y)-w; i++ {
		if isStrictWindowMax(y, i, w) {
			peaks = append(peaks, Peak{X: x[i], Y: y[i]})
		}
	}

	sort.SliceStable(peaks, func(a, b int) bool {
		return peaks[a].Y > peaks[b].Y
	})
	return peaks, nil
}

func isStrictWindowMax(y []float64, i, w int) bool {
	for j := i - w; j <= i+w; j++ {
		if j != i && y[j] >= y[i] {
			return false
		}
	}
	return true
}
