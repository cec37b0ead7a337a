package tiec

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is the fixed-step set of evaluation points used for every numeric
// integral: min(sample)-pad, min(sample)-pad+step, ... up to max(sample)+pad.
type Grid struct {
	points []float64
	step   float64
}

// NewGrid builds the integration grid spanning the sample range padded by pad
// on each side.
func NewGrid(data []float64, step, pad float64) (Grid, error) {
	if len(data) == 0 {
		return Grid{}, domainErrorf("NewGrid", "sample is empty")
	}
	if !(step > 0) {
		return Grid{}, domainErrorf("NewGrid", "step must be > 0, got %g", step)
	}
	if !allFinite(data) {
		return Grid{}, domainErrorf("NewGrid", "sample contains non-finite values")
	}

	lo := floats.Min(data) - pad
	hi := floats.Max(data) + pad
	count := int(math.Floor((hi-lo)/step+1e-10)) + 1

	points := make([]float64, count)
	for k := range points {
		points[k] = lo + float64(k)*step
	}
	return Grid{points: points, step: step}, nil
}

// Points returns a copy of the grid points.
func (g Grid) Points() []float64 {
	out := make([]float64, len(g.points))
	copy(out, g.points)
	return out
}

// Len returns the number of grid points.
func (g Grid) Len() int { return len(g.points) }

// Step returns the grid spacing dx.
func (g Grid) Step() float64 { return g.step }

// Integrate returns the Riemann sum Σ values[k]·dx. values must be evaluated
// on this grid.
func (g Grid) Integrate(values []float64) float64 {
	mustSameLen("Grid.Integrate", len(values), len(g.points))
	return floats.Sum(values) * g.step
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// mustSameLen panics on a length mismatch between slices that are combined
// elementwise. Callers inside the package always pass matching slices.
func mustSameLen(op string, a, b int) {
	if a != b {
		panic("tiec: " + op + ": length mismatch")
	}
}
