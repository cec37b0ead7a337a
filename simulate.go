package tiec

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// FrechetSample draws n i.i.d. unit-scale Fréchet variates with the given
// shape ν, P(X <= x) = exp(-x^(-ν)) for x > 0, by inverting the CDF.
// The tail index of the distribution is 1/ν.
func FrechetSample(n int, shape float64, src rand.Source) ([]float64, error) {
	if n < 0 {
		return nil, domainErrorf("FrechetSample", "n must be >= 0, got %d", n)
	}
	if !(shape > 0) {
		return nil, domainErrorf("FrechetSample", "shape must be > 0, got %g", shape)
	}
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}
	out := make([]float64, n)
	for i := range out {
		p := u.Rand()
		for p == 0 {
			p = u.Rand()
		}
		out[i] = math.Pow(-math.Log(p), -1/shape)
	}
	return out, nil
}

// MovingMaxima generates n observations of the moving-maximum process
//
//	Y_t = max_{l=0..L-1} a_l·Z_{t-l}
//
// with i.i.d. Fréchet(shape) innovations Z and non-negative coefficients a
// (not all zero). The marginal tail index of Y is 1/shape.
func MovingMaxima(n int, coefficients []float64, shape float64, src rand.Source) ([]float64, error) {
	const op = "MovingMaxima"
	if len(coefficients) == 0 {
		return nil, domainErrorf(op, "need at least one coefficient")
	}
	for l, a := range coefficients {
		if a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, domainErrorf(op, "coefficient %d is %g, want finite and >= 0", l, a)
		}
	}
	if !(floats.Max(coefficients) > 0) {
		return nil, domainErrorf(op, "coefficients are all zero")
	}
	if n < 0 {
		return nil, domainErrorf(op, "n must be >= 0, got %d", n)
	}

	lags := len(coefficients)
	z, err := FrechetSample(n+lags-1, shape, src)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for t := range out {
		// z[t+lags-1] is Z_t; z[t+lags-1-l] is Z_{t-l}.
		best := 0.0
		for l, a := range coefficients {
			best = max(best, a*z[t+lags-1-l])
		}
		out[t] = best
	}
	return out, nil
}

// GaussianMixtureSample draws n observations from mix together with the
// 1-based label of the component that generated each one.
func GaussianMixtureSample(n int, mix Mixture, src rand.Source) ([]float64, []int, error) {
	if n < 0 {
		return nil, nil, domainErrorf("GaussianMixtureSample", "n must be >= 0, got %d", n)
	}
	if mix.Order() == 0 {
		return nil, nil, domainErrorf("GaussianMixtureSample", "mixture has no components")
	}

	pick := distuv.NewCategorical(mix.Weights(), src)
	normals := make([]distuv.Normal, mix.Order())
	for i, c := range mix.components {
		normals[i] = distuv.Normal{Mu: c.Mean, Sigma: c.StdDev, Src: src}
	}

	values := make([]float64, n)
	labels := make([]int, n)
	for j := range values {
		i := int(pick.Rand())
		values[j] = normals[i].Rand()
		labels[j] = i + 1
	}
	return values, labels, nil
}
