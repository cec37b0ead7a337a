package tiec

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SolveAssignment solves the square linear assignment problem on cost with the
// Hungarian (Kuhn–Munkres) method using row and column potentials. It returns
// assign, where assign[r] is the column given to row r, minimizing
// Σ cost[r][assign[r]]. The result is a bijection and is deterministic: rows
// are inserted in order and the lowest-index column wins ties.
func SolveAssignment(cost mat.Matrix) ([]int, error) {
	rows, cols := cost.Dims()
	if rows != cols {
		return nil, domainErrorf("SolveAssignment", "cost matrix is %dx%d, want square", rows, cols)
	}
	n := rows
	if n == 0 {
		return []int{}, nil
	}

	// 1-indexed; column 0 is a virtual column used to insert each row.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	owner := make([]int, n+1) // owner[j] is the row assigned to column j
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		owner[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := owner[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				reduced := cost.At(i0-1, j-1) - u[i0] - v[j]
				if reduced < minv[j] {
					minv[j] = reduced
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[owner[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if owner[j0] == 0 {
				break
			}
		}

		// Augment along the alternating path.
		for j0 != 0 {
			j1 := way[j0]
			owner[j0] = owner[j1]
			j0 = j1
		}
	}

	assign := make([]int, n)
	for j := 1; j <= n; j++ {
		assign[owner[j]-1] = j - 1
	}
	return assign, nil
}
