package tiec

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// HellingerAffinity returns the discretized affinity of component i of resp
// with candidate parameters (theta, sigma) against the reference density g:
//
//	H_i(θ, σ) = Σ_{x ∈ grid} sqrt(a_i(x)·N(x; θ, σ)·g(x))·dx
//
// where a_i are the responsibilities of resp. g must be evaluated on grid.
func HellingerAffinity(resp Mixture, i int, theta, sigma float64, g []float64, grid Grid) (float64, error) {
	const op = "HellingerAffinity"
	if i < 0 || i >= resp.Order() {
		return 0, domainErrorf(op, "component %d out of range for order %d", i, resp.Order())
	}
	if len(g) != grid.Len() {
		return 0, domainErrorf(op, "reference density has %d values for %d grid points", len(g), grid.Len())
	}
	if !(sigma > 0) {
		return 0, domainErrorf(op, "sigma must be > 0, got %g", sigma)
	}
	roots := affinityRoots(resp, g, grid.points, 1)
	return affinity(roots[i], grid.points, grid.step, theta, sigma), nil
}

// affinityRoots precomputes sqrt(a_i(x)·g(x)) on the grid for every component
// i, so that each affinity evaluation during optimization only needs the
// candidate normal density. Indexed [component][grid point].
func affinityRoots(resp Mixture, g, points []float64, workers int) [][]float64 {
	mustSameLen("affinityRoots", len(g), len(points))
	order := resp.Order()
	roots := make([][]float64, order)
	for i := range roots {
		roots[i] = make([]float64, len(points))
	}

	parallelRanges(len(points), workers, func(start, end int) {
		a := make([]float64, order)
		for k := start; k < end; k++ {
			a = resp.responsibilitiesInto(a, points[k])
			gk := max(g[k], 0)
			for i := 0; i < order; i++ {
				roots[i][k] = math.Sqrt(a[i] * gk)
			}
		}
	})
	return roots
}

// affinity evaluates Σ roots[k]·sqrt(N(x_k; θ, σ))·dx.
func affinity(roots, points []float64, step, theta, sigma float64) float64 {
	mustSameLen("affinity", len(roots), len(points))
	n := distuv.Normal{Mu: theta, Sigma: sigma}
	var sum float64
	for k, x := range points {
		if roots[k] == 0 {
			continue
		}
		sum += roots[k] * math.Sqrt(n.Prob(x))
	}
	return sum * step
}

// HellingerDistance returns the discretized squared Hellinger deviation
//
//	D(f) = Σ (sqrt(g(x)) - sqrt(f(x)))²·dx
//
// between two densities evaluated on the same grid of spacing step.
func HellingerDistance(g, f []float64, step float64) float64 {
	mustSameLen("HellingerDistance", len(g), len(f))
	var sum float64
	for k := range g {
		d := math.Sqrt(max(g[k], 0)) - math.Sqrt(max(f[k], 0))
		sum += d * d
	}
	return sum * step
}
