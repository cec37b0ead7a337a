package tiec

import (
	"math"
	"sort"
)

// EstimateTailIndex computes Hill's estimator from the k = floor(n·alphan)
// largest observations:
//
//	H = (1/k) Σ_{j=1..k} [log X_(j) - log X_(k+1)]
//
// where X_(1) >= X_(2) >= ... are the descending order statistics. The caller
// is responsible for passing positive values (e.g. magnitudes); the top k+1
// order statistics must all be > 0.
func EstimateTailIndex(sample []float64, alphan float64) (float64, error) {
	const op = "EstimateTailIndex"
	if !(alphan > 0 && alphan < 1) {
		return 0, domainErrorf(op, "tail fraction must be in (0, 1), got %g", alphan)
	}
	n := len(sample)
	k := int(math.Floor(float64(n) * alphan))
	if k < 1 {
		return 0, domainErrorf(op, "floor(n*alphan) = floor(%d*%g) < 1", n, alphan)
	}
	if k+1 > n {
		return 0, domainErrorf(op, "need k+1 = %d order statistics, sample has %d", k+1, n)
	}
	if !allFinite(sample) {
		return 0, domainErrorf(op, "sample contains non-finite values")
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	threshold := sorted[k]
	if threshold <= 0 {
		return 0, domainErrorf(op, "order statistic X_(k+1) = %g is not positive", threshold)
	}
	logThreshold := math.Log(threshold)

	var sum float64
	for j := 0; j < k; j++ {
		sum += math.Log(sorted[j]) - logThreshold
	}
	return sum / float64(k), nil
}

// EstimateTailIndices applies EstimateTailIndex to each series independently,
// e.g. one series of absolute returns per entity. The first error is returned
// together with the index of the offending series.
func EstimateTailIndices(series [][]float64, alphan float64, workers int) ([]float64, error) {
	out := make([]float64, len(series))
	errs := make([]error, len(series))

	parallelEach(len(series), workers, func(i int) {
		out[i], errs[i] = EstimateTailIndex(series[i], alphan)
	})

	for i, err := range errs {
		if err != nil {
			return nil, domainErrorf("EstimateTailIndices", "series %d: %v", i, err)
		}
	}
	return out, nil
}
