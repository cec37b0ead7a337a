package tiec

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Bandwidth constants of the rule cn = 2.283·n^(-0.287)·scale.
const (
	bandwidthFactor   = 2.283
	bandwidthExponent = -0.287
)

// Bandwidth returns 2.283·n^(-0.287)·scale, the kernel bandwidth for a sample
// of size n whose spread is scale (a standard deviation).
func Bandwidth(n int, scale float64) float64 {
	return bandwidthFactor * math.Pow(float64(n), bandwidthExponent) * scale
}

// KernelDensity evaluates the standard Epanechnikov kernel density estimate
//
//	ĝ(x) = (1/n) Σ_j (1/cn) K((x - X_j)/cn),  cn = Bandwidth(n, sd(data))
//
// at every point. data must have at least 2 observations and positive
// sample variance.
func KernelDensity(data, points []float64, workers int) ([]float64, error) {
	const op = "KernelDensity"
	if err := checkSample(op, data); err != nil {
		return nil, err
	}
	sd := stat.StdDev(data, nil)
	if !(sd > 0) {
		return nil, domainErrorf(op, "sample has zero variance")
	}
	cn := Bandwidth(len(data), sd)

	out := make([]float64, len(points))
	parallelEach(len(points), workers, func(k int) {
		out[k] = kernelSum(data, points[k], cn) / float64(len(data))
	})
	return out, nil
}

func kernelSum(data []float64, x, cn float64) float64 {
	var sum float64
	for _, xj := range data {
		sum += Epanechnikov((x-xj)/cn) / cn
	}
	return sum
}

// AdaptiveDensity evaluates the responsibility-weighted kernel density
// estimate keyed on mix:
//
//	g̃(x) = (1/n) Σ_j Σ_i [a_i(X_j)/cn_i] K((x - X_j)/cn_i),  cn_i = Bandwidth(n, σ_i)
//
// The responsibilities are evaluated at the data points, so each observation
// contributes a kernel bump per component, scaled by how likely it is to
// belong to that component and sized by that component's spread.
func AdaptiveDensity(data []float64, mix Mixture, points []float64, workers int) ([]float64, error) {
	const op = "AdaptiveDensity"
	if err := checkSample(op, data); err != nil {
		return nil, err
	}
	if mix.Order() == 0 {
		return nil, domainErrorf(op, "mixture has no components")
	}
	terms := adaptiveTerms(data, mix)

	out := make([]float64, len(points))
	parallelEach(len(points), workers, func(k int) {
		out[k] = foldAdaptive(terms, points[k]) / float64(len(data))
	})
	return out, nil
}

// adaptiveTerm is one (data point, component) pair of the adaptive estimate.
type adaptiveTerm struct {
	center    float64
	weight    float64 // a_i(X_j)
	bandwidth float64 // cn_i
}

// adaptiveTerms lists the (X_j, i) pairs in data-major order.
func adaptiveTerms(data []float64, mix Mixture) []adaptiveTerm {
	order := mix.Order()
	bandwidths := make([]float64, order)
	for i, c := range mix.components {
		bandwidths[i] = Bandwidth(len(data), c.StdDev)
	}

	terms := make([]adaptiveTerm, 0, len(data)*order)
	resp := make([]float64, order)
	for _, xj := range data {
		resp = mix.responsibilitiesInto(resp, xj)
		for i := 0; i < order; i++ {
			terms = append(terms, adaptiveTerm{center: xj, weight: resp[i], bandwidth: bandwidths[i]})
		}
	}
	return terms
}

func foldAdaptive(terms []adaptiveTerm, x float64) float64 {
	var sum float64
	for _, t := range terms {
		sum += t.weight / t.bandwidth * Epanechnikov((x-t.center)/t.bandwidth)
	}
	return sum
}

// checkSample enforces the common preconditions on a one-dimensional sample.
func checkSample(op string, data []float64) error {
	if len(data) < 2 {
		return domainErrorf(op, "sample needs at least 2 observations, got %d", len(data))
	}
	if !allFinite(data) {
		return domainErrorf(op, "sample contains non-finite values")
	}
	return nil
}
