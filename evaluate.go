package tiec

import "gonum.org/v1/gonum/mat"

// Evaluation scores a predicted partition against a ground truth.
type Evaluation struct {
	// Index is the Rand-type agreement index; 1 means identical partitions.
	Index float64
	// Loss is the fraction of items whose relabeled truth differs from the
	// prediction.
	Loss float64
	// Permutation maps each truth label to the predicted label it was aligned
	// with. It is a bijection over the table's categories.
	Permutation map[int]int
}

// EvaluateClustering aligns truth labels to predicted labels with the
// assignment that maximizes agreement (cost (max+1) - count on the
// contingency table), then reports the Rand-type index and misclassification
// loss of the relabeled truth against predicted. Label names are arbitrary:
// renaming the labels of either input does not change Index or Loss.
func EvaluateClustering(truth, predicted []int) (Evaluation, error) {
	const op = "EvaluateClustering"
	if len(truth) != len(predicted) {
		return Evaluation{}, domainErrorf(op, "truth has %d labels but predicted has %d", len(truth), len(predicted))
	}
	if len(truth) < 2 {
		return Evaluation{}, domainErrorf(op, "need at least 2 items, got %d", len(truth))
	}

	table, err := NewContingencyTable(truth, predicted)
	if err != nil {
		return Evaluation{}, err
	}

	k := table.Size()
	ceiling := mat.Max(table.Counts) + 1
	cost := mat.NewDense(k, k, nil)
	cost.Apply(func(_, _ int, v float64) float64 { return ceiling - v }, table.Counts)

	assign, err := SolveAssignment(cost)
	if err != nil {
		return Evaluation{}, err
	}
	perm := make(map[int]int, k)
	for r, c := range assign {
		perm[table.Categories[r]] = table.Categories[c]
	}

	relabeled := make([]int, len(truth))
	mismatches := 0
	for j, l := range truth {
		relabeled[j] = perm[l]
		if relabeled[j] != predicted[j] {
			mismatches++
		}
	}

	aligned, err := NewContingencyTable(relabeled, predicted)
	if err != nil {
		return Evaluation{}, err
	}
	index, err := aligned.RandIndex()
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Index:       index,
		Loss:        float64(mismatches) / float64(len(truth)),
		Permutation: perm,
	}, nil
}
