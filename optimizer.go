package tiec

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// box holds per-coordinate bounds lower[i] <= x[i] <= upper[i].
type box struct {
	lower, upper []float64
}

// logitEdge keeps the start point strictly inside the box so its
// unconstrained image is finite.
const logitEdge = 1e-9

// toBox maps an unconstrained u onto the box through a logistic transform.
func (b box) toBox(dst, u []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(u))
	}
	for i, ui := range u {
		lo, hi := b.lower[i], b.upper[i]
		if hi <= lo {
			dst[i] = lo
			continue
		}
		dst[i] = lo + (hi-lo)/(1+math.Exp(-ui))
	}
	return dst
}

// fromBox is the inverse of toBox, clamping x into the open box first.
func (b box) fromBox(x []float64) []float64 {
	u := make([]float64, len(x))
	for i, xi := range x {
		lo, hi := b.lower[i], b.upper[i]
		if hi <= lo {
			continue
		}
		p := (xi - lo) / (hi - lo)
		p = min(max(p, logitEdge), 1-logitEdge)
		u[i] = math.Log(p / (1 - p))
	}
	return u
}

func (b box) clamp(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, xi := range x {
		out[i] = min(max(xi, b.lower[i]), b.upper[i])
	}
	return out
}

// boxResult is the outcome of one bounded minimization.
type boxResult struct {
	X []float64
	F float64
	// Warning is non-empty when the optimizer stopped on a limit or failed;
	// X is then the best point seen, never worse than the start.
	Warning string
}

// boxMinimize minimizes f over the box starting at x0, using a gonum local
// optimizer on the logistic reparameterization of the box.
func boxMinimize(f func(x []float64) float64, x0 []float64, b box, method Method, maxIter int) boxResult {
	start := b.clamp(x0)
	startF := f(start)

	objective := func(u []float64) float64 {
		return f(b.toBox(nil, u))
	}

	problem := optimize.Problem{Func: objective}
	var m optimize.Method
	switch method {
	case MethodLBFGS:
		problem.Grad = func(grad, u []float64) {
			fd.Gradient(grad, objective, u, &fd.Settings{Formula: fd.Central})
		}
		m = &optimize.LBFGS{}
	default:
		m = &optimize.NelderMead{SimplexSize: 0.5}
	}

	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 20,
		},
	}

	res, err := optimize.Minimize(problem, b.fromBox(start), settings, m)
	if res == nil {
		return boxResult{X: start, F: startF, Warning: "optimizer failed: " + errString(err)}
	}

	out := boxResult{X: b.toBox(nil, res.X), F: res.F}
	switch {
	case err != nil:
		out.Warning = "optimizer stopped early: " + err.Error()
	case res.Status == optimize.IterationLimit:
		out.Warning = "optimizer hit its iteration cap"
	case res.Status == optimize.FunctionEvaluationLimit, res.Status == optimize.RuntimeLimit:
		out.Warning = "optimizer hit its evaluation limit"
	}
	if !(out.F <= startF) || math.IsNaN(out.F) {
		out.X, out.F = start, startF
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return "no result"
	}
	return err.Error()
}
