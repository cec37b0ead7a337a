package tiec

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func twoClusterData() []float64 {
	return append(normalSample(200, 0, 0.3, 11), normalSample(200, 3, 0.3, 12)...)
}

func testFitter(t *testing.T, data []float64, cfg Config) *fitter {
	t.Helper()
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("invalid config: %v", err)
	}
	f, err := newFitter("test", data, cfg)
	if err != nil {
		t.Fatalf("newFitter: %v", err)
	}
	return f
}

func sortedMeans(m Mixture) []Component {
	comps := m.Components()
	sort.Slice(comps, func(i, j int) bool { return comps[i].Mean < comps[j].Mean })
	return comps
}

func checkSimplex(t *testing.T, m Mixture) {
	t.Helper()
	var sum float64
	for i, c := range m.Components() {
		if !(c.Weight > 0 && c.Weight <= 1) {
			t.Errorf("component %d weight %g outside (0, 1]", i, c.Weight)
		}
		if !(c.StdDev > 0) {
			t.Errorf("component %d stddev %g not positive", i, c.StdDev)
		}
		sum += c.Weight
	}
	assertFloat(t, "Σπ", sum, 1, 1e-9)
}

func TestFitterInitial_UsesKDEPeaks(t *testing.T) {
	data := twoClusterData()
	f := testFitter(t, data, DefaultConfig())

	m, err := f.initial(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	comps := sortedMeans(m)
	assertFloat(t, "mean 0", comps[0].Mean, 0, 0.3)
	assertFloat(t, "mean 1", comps[1].Mean, 3, 0.3)
	for _, c := range comps {
		assertFloat(t, "sigma", c.StdDev, f.sd/2, 1e-12)
	}
	checkSimplex(t, m)
}

func TestFitterInitial_QuantileFill(t *testing.T) {
	data := twoClusterData()
	f := testFitter(t, data, DefaultConfig())
	if len(f.peaks) >= 5 {
		t.Skipf("KDE has %d peaks, quantile fill not exercised", len(f.peaks))
	}

	m, err := f.initial(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Order() != 5 {
		t.Fatalf("expected order 5, got %d", m.Order())
	}
	checkSimplex(t, m)
	lo, hi := f.sorted[0], f.sorted[len(f.sorted)-1]
	for _, c := range m.Components() {
		if c.Mean < lo || c.Mean > hi {
			t.Errorf("initial mean %g outside data range [%g, %g]", c.Mean, lo, hi)
		}
	}
}

func TestFitMixture_TwoClusters(t *testing.T) {
	fit, err := FitMixture(twoClusterData(), 2, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkSimplex(t, fit.Mixture)

	comps := sortedMeans(fit.Mixture)
	assertFloat(t, "mean 0", comps[0].Mean, 0, 0.15)
	assertFloat(t, "mean 1", comps[1].Mean, 3, 0.15)
	assertFloat(t, "sd 0", comps[0].StdDev, 0.3, 0.1)
	assertFloat(t, "sd 1", comps[1].StdDev, 0.3, 0.1)
	assertFloat(t, "weight 0", comps[0].Weight, 0.5, 0.1)

	if len(fit.HdisTrace) != fit.Iterations {
		t.Errorf("HdisTrace has %d entries for %d iterations", len(fit.HdisTrace), fit.Iterations)
	}
	if fit.Converged {
		n := len(fit.HdisTrace)
		if n < 2 || math.Abs(fit.HdisTrace[n-1]-fit.HdisTrace[n-2]) > DefaultConfig().Tol {
			t.Errorf("Converged but trace %v does not meet tolerance", fit.HdisTrace)
		}
	}
}

func TestFitMixture_MaxIterOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIter = 1
	fit, err := FitMixture(twoClusterData(), 2, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fit.Iterations != 1 {
		t.Errorf("Iterations: got %d, want 1", fit.Iterations)
	}
	if fit.Converged {
		t.Error("a single iteration cannot satisfy the convergence test")
	}
	checkSimplex(t, fit.Mixture)
}

func TestFitMixture_WorkersDoNotChangeResult(t *testing.T) {
	data := twoClusterData()
	cfg := DefaultConfig()
	cfg.Workers = 1
	seq, err := FitMixture(data, 2, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Workers = 4
	par, err := FitMixture(data, 2, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if seq.Mixture.Component(i) != par.Mixture.Component(i) {
			t.Errorf("component %d: sequential %+v, parallel %+v", i, seq.Mixture.Component(i), par.Mixture.Component(i))
		}
	}
}

func TestFitReference_LaggedStatisticUsesWarmStart(t *testing.T) {
	// With one iteration, Hdis is computed from the warm start's own
	// parameters and weights, not from the updated ones.
	data := twoClusterData()
	cfg := DefaultConfig()
	cfg.MaxIter = 1
	f := testFitter(t, data, cfg)

	fixed := mustMixture(t, []Component{
		{Weight: 0.4, Mean: 0.1, StdDev: 0.4},
		{Weight: 0.6, Mean: 2.8, StdDev: 0.35},
	})
	g, err := AdaptiveDensity(data, fixed, f.grid.Points(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fit, err := f.fitReference(2, g, fixed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var want float64
	for i, c := range fixed.Components() {
		h, err := HellingerAffinity(fixed, i, c.Mean, c.StdDev, g, f.grid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want += c.Weight * h
	}
	want = math.Sqrt(want)
	assertFloat(t, "Hdis", fit.Hdis, want, 1e-12)

	if fit.Mixture.Component(0) == fixed.Component(0) {
		t.Error("expected the returned mixture to be one update ahead of the warm start")
	}
}

func TestFitReference_StaysInTightBox(t *testing.T) {
	data := twoClusterData()
	f := testFitter(t, data, DefaultConfig())
	start, err := f.initial(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, err := AdaptiveDensity(data, start, f.grid.Points(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fit, err := f.fitReference(3, g, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := f.sorted[0]-0.5, f.sorted[len(f.sorted)-1]+0.5
	for i, c := range fit.Mixture.Components() {
		if c.Mean < lo || c.Mean > hi {
			t.Errorf("component %d mean %g outside [%g, %g]", i, c.Mean, lo, hi)
		}
	}
	checkSimplex(t, fit.Mixture)
}

func TestFitMixture_Errors(t *testing.T) {
	var ce *ConfigurationError
	if _, err := FitMixture(twoClusterData(), 0, DefaultConfig()); !errors.As(err, &ce) {
		t.Errorf("order 0: expected *ConfigurationError, got %v", err)
	}

	var de *DomainError
	if _, err := FitMixture([]float64{1, 1, 1, 1}, 1, DefaultConfig()); !errors.As(err, &de) {
		t.Errorf("zero variance: expected *DomainError, got %v", err)
	}
	if _, err := FitMixture([]float64{1}, 1, DefaultConfig()); !errors.As(err, &de) {
		t.Errorf("single point: expected *DomainError, got %v", err)
	}
}

func TestNormalizeWeights(t *testing.T) {
	w := normalizeWeights([]float64{1, 3, 0})
	assertFloat(t, "w0", w[0], 0.25, 1e-9)
	assertFloat(t, "w1", w[1], 0.75, 1e-9)
	if !(w[2] > 0) {
		t.Errorf("zero entry should be floored above 0, got %g", w[2])
	}
	assertFloat(t, "Σw", w[0]+w[1]+w[2], 1, 1e-15)

	eq := normalizeWeights([]float64{0, 0})
	assertFloat(t, "equal", eq[0], 0.5, 0)
}
