package tiec

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// minComponentWeight keeps every fitted weight strictly inside (0, 1) when a
// component's affinity collapses.
const minComponentWeight = 1e-10

// Fit is the outcome of fitting a mixture of fixed order.
type Fit struct {
	Mixture Mixture

	// Hdis is the last convergence statistic sqrt(Σ π_i·H_i). It is computed
	// from the parameters that entered the final iteration, so it lags
	// Mixture by one update.
	Hdis float64

	// HdisTrace holds the statistic of every iteration in order.
	HdisTrace []float64

	Iterations int
	Converged  bool
	Warnings   []NumericalWarning
}

// fitter holds everything derived once from a sample: the integration grid,
// the standard KDE used for initialization, and the optimization boxes.
type fitter struct {
	data   []float64
	sorted []float64
	grid   Grid
	cfg    Config
	sd     float64

	kde   []float64 // standard KDE on the grid
	peaks []Peak

	selfBounds box // θ ∈ [min-1, max+1]
	refBounds  box // θ ∈ [min-0.5, max+0.5]

	// refit is fitReference; tests replace it.
	refit func(order int, g []float64, fixed Mixture) (*Fit, error)
}

func newFitter(op string, data []float64, cfg Config) (*fitter, error) {
	if err := checkSample(op, data); err != nil {
		return nil, err
	}
	variance := stat.Variance(data, nil)
	if !(variance > 0) {
		return nil, domainErrorf(op, "sample has zero variance")
	}

	grid, err := NewGrid(data, cfg.GridStep, cfg.GridPad)
	if err != nil {
		return nil, err
	}
	kde, err := KernelDensity(data, grid.points, cfg.Workers)
	if err != nil {
		return nil, err
	}
	peaks, err := LocalMaxima(grid.points, kde, cfg.PeakDelta)
	if err != nil {
		return nil, err
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	sigmaLo, sigmaHi := 1e-3*variance, (hi-lo)*(hi-lo)

	f := &fitter{
		data:   data,
		sorted: sorted,
		grid:   grid,
		cfg:    cfg,
		sd:     math.Sqrt(variance),
		kde:    kde,
		peaks:  peaks,
		selfBounds: box{
			lower: []float64{lo - 1, sigmaLo},
			upper: []float64{hi + 1, sigmaHi},
		},
		refBounds: box{
			lower: []float64{lo - 0.5, sigmaLo},
			upper: []float64{hi + 0.5, sigmaHi},
		},
	}
	f.refit = f.fitReference
	return f, nil
}

// initial builds the heuristic starting mixture of the given order: the
// highest local maxima of the standard KDE supply means and weights, empirical
// quantiles fill in when there are too few maxima, and every component starts
// with σ = sd(data)/order.
func (f *fitter) initial(order int) (Mixture, error) {
	peaks := f.peaks
	if len(peaks) > order {
		peaks = peaks[:order]
	}

	means := make([]float64, 0, order)
	heights := make([]float64, 0, order)
	for _, p := range peaks {
		means = append(means, p.X)
		heights = append(heights, p.Y)
	}

	if missing := order - len(peaks); missing > 0 {
		quantiles := make([]float64, missing)
		for j := 1; j <= missing; j++ {
			quantiles[j-1] = stat.Quantile(float64(j)/float64(missing+1), stat.LinInterp, f.sorted, nil)
		}
		qHeights, err := KernelDensity(f.data, quantiles, 1)
		if err != nil {
			return Mixture{}, err
		}
		means = append(means, quantiles...)
		heights = append(heights, qHeights...)
	}

	weights := normalizeWeights(heights)
	sigma := f.sd / float64(order)
	comps := make([]Component, order)
	for i := range comps {
		comps[i] = Component{Weight: weights[i], Mean: means[i], StdDev: sigma}
	}
	return NewMixture(comps)
}

// fitSelf runs the self-consistent fitter: the reference density is the
// adaptive KDE of the current iterate, recomputed every iteration.
func (f *fitter) fitSelf(init Mixture) (*Fit, error) {
	ref := func(cur Mixture) ([]float64, error) {
		return AdaptiveDensity(f.data, cur, f.grid.points, f.cfg.Workers)
	}
	return f.run(init, f.selfBounds, ref)
}

// fitReference fits a mixture of the given order against the frozen reference
// density g. When order matches fixed, fixed is the warm start; otherwise the
// heuristic initialization is used.
func (f *fitter) fitReference(order int, g []float64, fixed Mixture) (*Fit, error) {
	init := fixed
	if order != fixed.Order() {
		var err error
		init, err = f.initial(order)
		if err != nil {
			return nil, err
		}
	}
	ref := func(Mixture) ([]float64, error) { return g, nil }
	return f.run(init, f.refBounds, ref)
}

// run iterates step until consecutive lagged statistics differ by at most
// Tol or MaxIter iterations have run. The latest iterate is returned either
// way; hitting MaxIter is not an error.
func (f *fitter) run(init Mixture, bounds box, ref func(Mixture) ([]float64, error)) (*Fit, error) {
	fit := &Fit{Mixture: init}
	cur := init

	for iter := 1; iter <= f.cfg.MaxIter; iter++ {
		g, err := ref(cur)
		if err != nil {
			return nil, err
		}
		next, hdis, warnings, err := f.step(cur, g, bounds)
		if err != nil {
			return nil, err
		}

		fit.Warnings = append(fit.Warnings, warnings...)
		fit.HdisTrace = append(fit.HdisTrace, hdis)
		fit.Iterations = iter
		fit.Hdis = hdis
		fit.Mixture = next
		cur = next

		if iter > 1 && math.Abs(hdis-fit.HdisTrace[iter-2]) <= f.cfg.Tol {
			fit.Converged = true
			break
		}
	}
	return fit, nil
}

// step performs one fitter iteration from the snapshot cur against g:
// each component maximizes its affinity independently, weights become
// proportional to the squared maximized affinities, and the returned
// statistic is computed from cur's own parameters and weights.
func (f *fitter) step(cur Mixture, g []float64, bounds box) (Mixture, float64, []NumericalWarning, error) {
	points, dx := f.grid.points, f.grid.step
	roots := affinityRoots(cur, g, points, f.cfg.Workers)

	order := cur.Order()
	oldH := make([]float64, order)
	newH := make([]float64, order)
	comps := make([]Component, order)
	slots := make([]*NumericalWarning, order)

	parallelEach(order, f.cfg.Workers, func(i int) {
		c := cur.components[i]
		oldH[i] = affinity(roots[i], points, dx, c.Mean, c.StdDev)

		objective := func(p []float64) float64 {
			return -affinity(roots[i], points, dx, p[0], p[1])
		}
		res := boxMinimize(objective, []float64{c.Mean, c.StdDev}, bounds, f.cfg.Method, f.cfg.OptimizerIterations)
		comps[i] = Component{Mean: res.X[0], StdDev: res.X[1]}
		newH[i] = -res.F
		if res.Warning != "" {
			slots[i] = &NumericalWarning{Op: "fit", Component: i, Reason: res.Warning}
		}
	})

	var warnings []NumericalWarning
	for _, w := range slots {
		if w != nil {
			warnings = append(warnings, *w)
		}
	}

	var hdis float64
	for i, c := range cur.components {
		hdis += c.Weight * oldH[i]
	}
	hdis = math.Sqrt(hdis)

	squared := make([]float64, order)
	for i, h := range newH {
		squared[i] = h * h
	}
	if !(floats.Sum(squared) > 0) {
		return Mixture{}, 0, warnings, domainErrorf("fit", "every component affinity vanished")
	}
	weights := normalizeWeights(squared)
	for i := range comps {
		comps[i].Weight = weights[i]
	}

	next, err := NewMixture(comps)
	if err != nil {
		return Mixture{}, 0, warnings, err
	}
	return next, hdis, warnings, nil
}

// normalizeWeights scales w to sum to 1, floors every entry at
// minComponentWeight and renormalizes. A non-positive total yields equal
// weights.
func normalizeWeights(w []float64) []float64 {
	out := make([]float64, len(w))
	total := floats.Sum(w)
	if !(total > 0) || math.IsInf(total, 1) {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, v := range w {
		out[i] = max(v/total, minComponentWeight)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// FitMixture fits a mixture of fixed order to data in self-consistent mode,
// starting from the heuristic initialization.
func FitMixture(data []float64, order int, cfg Config) (*Fit, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if order < 1 {
		return nil, configErrorf("order", "must be >= 1, got %d", order)
	}

	f, err := newFitter("FitMixture", data, cfg)
	if err != nil {
		return nil, err
	}
	init, err := f.initial(order)
	if err != nil {
		return nil, err
	}
	fit, err := f.fitSelf(init)
	if err != nil {
		return nil, err
	}
	return fit, nil
}
