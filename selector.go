package tiec

// Step records one m versus m+1 comparison of the order search.
type Step struct {
	// Order is the current order m at the start of the step.
	Order int
	// D0 and D1 are the squared Hellinger deviations of the refitted order-m
	// and order-(m+1) mixtures from the adaptive reference density.
	D0, D1 float64
	// Threshold is alpha_n = 3/n.
	Threshold float64
	// Adopted reports whether the order-(m+1) fit replaced the current one.
	Adopted bool
}

// Result contains the output of mixture-order selection.
type Result struct {
	// Mixture is the selected fit; Mixture.Order() is the selected order.
	Mixture Mixture

	// Labels assigns each observation to its arg-max posterior component
	// (1..Order).
	Labels []int

	// Steps traces the sequential test in order.
	Steps []Step

	// Warnings collects non-fatal optimizer conditions from every fit, plus a
	// Component -1 entry when a failed refit ended the search.
	Warnings []NumericalWarning
}

// Select determines the number of Gaussian components and fits them.
//
// It starts from a self-consistent one-component fit. With current order m it
// builds the adaptive reference density keyed on the current fit, refits
// orders m and m+1 against that same reference, and compares their squared
// Hellinger deviations D0 and D1 from it. With alpha_n = 3/n the search stops
// at the order-m refit when D0 <= D1 + alpha_n; otherwise the order-(m+1) fit
// is adopted, and the search also stops right away when D1 <= alpha_n.
// Reaching cfg.MaxOrder ends the search with the last adopted fit.
//
// A failed step stops the search and is recorded in Result.Warnings with
// Component -1. If only the order-(m+1) refit fails, the order-m refit against
// the current reference is kept; any earlier failure keeps the current fit.
func Select(data []float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	f, err := newFitter("Select", data, cfg)
	if err != nil {
		return nil, err
	}
	init, err := f.initial(1)
	if err != nil {
		return nil, err
	}
	first, err := f.fitSelf(init)
	if err != nil {
		return nil, err
	}
	return f.selectOrder(first), nil
}

// selectOrder runs the sequential m versus m+1 search from the
// self-consistent fit first.
func (f *fitter) selectOrder(first *Fit) *Result {
	res := &Result{Warnings: first.Warnings}
	current := first.Mixture
	alpha := 3 / float64(len(f.data))
	points, dx := f.grid.points, f.grid.step

	stopped := func(err error) {
		res.Warnings = append(res.Warnings, NumericalWarning{Op: "Select", Component: -1, Reason: err.Error()})
	}

	for m := 1; m < f.cfg.MaxOrder; m++ {
		g, err := AdaptiveDensity(f.data, current, points, f.cfg.Workers)
		if err != nil {
			stopped(err)
			break
		}

		h0, err := f.refit(m, g, current)
		if err != nil {
			stopped(err)
			break
		}
		res.Warnings = append(res.Warnings, h0.Warnings...)

		h1, err := f.refit(m+1, g, current)
		if err != nil {
			stopped(err)
			current = h0.Mixture
			break
		}
		res.Warnings = append(res.Warnings, h1.Warnings...)

		step := Step{
			Order:     m,
			D0:        HellingerDistance(g, h0.Mixture.Density(points), dx),
			D1:        HellingerDistance(g, h1.Mixture.Density(points), dx),
			Threshold: alpha,
		}

		if step.D0 <= step.D1+alpha {
			res.Steps = append(res.Steps, step)
			current = h0.Mixture
			break
		}

		step.Adopted = true
		res.Steps = append(res.Steps, step)
		current = h1.Mixture
		if step.D1 <= alpha {
			break
		}
	}

	res.Mixture = current
	res.Labels = AssignClusters(f.data, current)
	return res
}

// FitMixtureOrder runs Select with the given order cap, tolerance and
// iteration cap and the remaining defaults, and returns the selected mixture.
func FitMixtureOrder(data []float64, maxOrder int, tol float64, maxIter int) (Mixture, error) {
	if maxOrder < 1 {
		return Mixture{}, configErrorf("maxOrder", "must be >= 1, got %d", maxOrder)
	}
	if !(tol > 0) {
		return Mixture{}, configErrorf("tol", "must be > 0, got %g", tol)
	}
	if maxIter < 1 {
		return Mixture{}, configErrorf("maxIter", "must be >= 1, got %d", maxIter)
	}

	cfg := DefaultConfig()
	cfg.MaxOrder = maxOrder
	cfg.Tol = tol
	cfg.MaxIter = maxIter

	res, err := Select(data, cfg)
	if err != nil {
		return Mixture{}, err
	}
	return res.Mixture, nil
}
