package tiec

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ContingencyTable cross-tabulates two partitions of the same items. It is
// square over the sorted union of categories of both partitions; a category
// missing from one partition gets an all-zero row or column.
type ContingencyTable struct {
	// Categories lists the labels, in row and column order.
	Categories []int
	// Counts[r][c] is the number of items with label Categories[r] in the
	// first partition and Categories[c] in the second.
	Counts *mat.Dense

	index map[int]int
}

// NewContingencyTable builds the table for partitions a (rows) and b
// (columns), which must have the same length.
func NewContingencyTable(a, b []int) (*ContingencyTable, error) {
	if len(a) != len(b) {
		return nil, domainErrorf("NewContingencyTable", "partitions have lengths %d and %d", len(a), len(b))
	}
	if len(a) == 0 {
		return nil, domainErrorf("NewContingencyTable", "partitions are empty")
	}

	index := make(map[int]int)
	for _, labels := range [][]int{a, b} {
		for _, l := range labels {
			index[l] = 0
		}
	}
	cats := make([]int, 0, len(index))
	for l := range index {
		cats = append(cats, l)
	}
	sort.Ints(cats)
	for i, l := range cats {
		index[l] = i
	}

	k := len(cats)
	counts := mat.NewDense(k, k, nil)
	for j := range a {
		r, c := index[a[j]], index[b[j]]
		counts.Set(r, c, counts.At(r, c)+1)
	}
	return &ContingencyTable{Categories: cats, Counts: counts, index: index}, nil
}

// At returns the count for row label rowCat and column label colCat, or 0 if
// either label is not a category of the table.
func (t *ContingencyTable) At(rowCat, colCat int) float64 {
	r, ok := t.index[rowCat]
	if !ok {
		return 0
	}
	c, ok := t.index[colCat]
	if !ok {
		return 0
	}
	return t.Counts.At(r, c)
}

// Size returns the number of categories.
func (t *ContingencyTable) Size() int { return len(t.Categories) }

// Total returns the number of items tabulated.
func (t *ContingencyTable) Total() float64 { return mat.Sum(t.Counts) }

// RandIndex returns the Rand-type agreement index
//
//	1 + (Σ n_ij² - (Σ n_i.² + Σ n_.j²)/2) / C(n, 2)
//
// which is 1 for identical partitions. It needs at least 2 items.
func (t *ContingencyTable) RandIndex() (float64, error) {
	n := t.Total()
	if n < 2 {
		return 0, domainErrorf("RandIndex", "need at least 2 items, got %g", n)
	}

	k := t.Size()
	var cells, rows, cols float64
	for r := 0; r < k; r++ {
		rowSum := mat.Sum(t.Counts.RowView(r))
		colSum := mat.Sum(t.Counts.ColView(r))
		rows += rowSum * rowSum
		cols += colSum * colSum
		for c := 0; c < k; c++ {
			v := t.Counts.At(r, c)
			cells += v * v
		}
	}
	pairs := n * (n - 1) / 2
	return 1 + (cells-(rows+cols)/2)/pairs, nil
}
