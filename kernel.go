package tiec

// Epanechnikov is the kernel K(u) = 0.75(1-u²) on [-1, 1] and 0 elsewhere.
// It is symmetric and integrates to 1.
func Epanechnikov(u float64) float64 {
	if u < -1 || u > 1 {
		return 0
	}
	return 0.75 * (1 - u*u)
}
