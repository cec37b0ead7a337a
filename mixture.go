package tiec

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// responsibilityFloor guards the responsibility denominator where every
// component density underflows (far tails).
const responsibilityFloor = 1e-12

// Component is one Gaussian term of a Mixture.
type Component struct {
	Weight float64 `json:"weight"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

func (c Component) normal() distuv.Normal {
	return distuv.Normal{Mu: c.Mean, Sigma: c.StdDev}
}

// Mixture is an immutable finite Gaussian mixture. Weights sum to 1 and every
// StdDev is positive; NewMixture enforces this and nothing else constructs a
// Mixture with components.
type Mixture struct {
	components []Component
}

// NewMixture validates components and returns the corresponding Mixture.
// The slice is copied.
func NewMixture(components []Component) (Mixture, error) {
	const op = "NewMixture"
	if len(components) == 0 {
		return Mixture{}, domainErrorf(op, "mixture needs at least one component")
	}
	var total float64
	for i, c := range components {
		if !allFinite([]float64{c.Weight, c.Mean, c.StdDev}) {
			return Mixture{}, domainErrorf(op, "component %d has non-finite parameters", i)
		}
		if !(c.Weight > 0 && c.Weight <= 1) {
			return Mixture{}, domainErrorf(op, "component %d weight %g outside (0, 1]", i, c.Weight)
		}
		if !(c.StdDev > 0) {
			return Mixture{}, domainErrorf(op, "component %d has non-positive standard deviation %g", i, c.StdDev)
		}
		total += c.Weight
	}
	if math.Abs(total-1) > 1e-9 {
		return Mixture{}, domainErrorf(op, "weights sum to %g, want 1", total)
	}

	cp := make([]Component, len(components))
	copy(cp, components)
	return Mixture{components: cp}, nil
}

// Order returns the number of components.
func (m Mixture) Order() int { return len(m.components) }

// Component returns the i-th component.
func (m Mixture) Component(i int) Component { return m.components[i] }

// Components returns a copy of the components.
func (m Mixture) Components() []Component {
	out := make([]Component, len(m.components))
	copy(out, m.components)
	return out
}

// Weights returns the component weights in order.
func (m Mixture) Weights() []float64 {
	out := make([]float64, len(m.components))
	for i, c := range m.components {
		out[i] = c.Weight
	}
	return out
}

func (m Mixture) String() string {
	var b strings.Builder
	b.WriteString("Mixture{")
	for i, c := range m.components {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%.4g, %.4g, %.4g)", c.Weight, c.Mean, c.StdDev)
	}
	b.WriteString("}")
	return b.String()
}

// weightedDensities writes π_i·N(x; θ_i, σ_i) into dst, one entry per component.
func (m Mixture) weightedDensities(dst []float64, x float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(m.components))
	}
	for i, c := range m.components {
		dst[i] = c.Weight * c.normal().Prob(x)
	}
	return dst
}

// DensityAt returns the mixture density Σ π_i N(x; θ_i, σ_i).
func (m Mixture) DensityAt(x float64) float64 {
	var sum float64
	for _, c := range m.components {
		sum += c.Weight * c.normal().Prob(x)
	}
	return sum
}

// Density evaluates the mixture density at every point.
func (m Mixture) Density(points []float64) []float64 {
	out := make([]float64, len(points))
	for k, x := range points {
		out[k] = m.DensityAt(x)
	}
	return out
}

// Responsibilities returns the adaptive weights
//
//	a_i(x) = π_i N(x; θ_i, σ_i) / (Σ_s π_s N(x; θ_s, σ_s) + 1e-12)
//
// They sum to 1 wherever at least one component has non-negligible density.
func (m Mixture) Responsibilities(x float64) []float64 {
	return m.responsibilitiesInto(nil, x)
}

func (m Mixture) responsibilitiesInto(dst []float64, x float64) []float64 {
	dst = m.weightedDensities(dst, x)
	denom := floats.Sum(dst) + responsibilityFloor
	floats.Scale(1/denom, dst)
	return dst
}

// Posterior returns the index of the component with the largest weighted
// density at x. Ties go to the lower index. A mixture without components
// yields -1.
func (m Mixture) Posterior(x float64) int {
	best := -1
	bestVal := math.Inf(-1)
	for i, c := range m.components {
		if v := c.Weight * c.normal().Prob(x); v > bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

// AssignClusters labels each observation with the arg-max posterior component,
// using labels 1..m. A mixture without components yields nil.
func AssignClusters(data []float64, mix Mixture) []int {
	if mix.Order() == 0 {
		return nil
	}
	labels := make([]int, len(data))
	for j, x := range data {
		labels[j] = mix.Posterior(x) + 1
	}
	return labels
}
