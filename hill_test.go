package tiec

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestEstimateTailIndex_HandComputed(t *testing.T) {
	// Values e^1..e^10, alphan=0.2 → k=2.
	// Descending: e^10, e^9, e^8, ...; threshold X_(3) = e^8.
	// H = ((10-8) + (9-8)) / 2 = 1.5
	sample := make([]float64, 10)
	for i := range sample {
		sample[i] = math.Exp(float64(10 - i))
	}
	// Shuffle order should not matter.
	sample[0], sample[7] = sample[7], sample[0]

	h, err := EstimateTailIndex(sample, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFloat(t, "H", h, 1.5, 1e-12)
}

func TestEstimateTailIndex_DoesNotMutateInput(t *testing.T) {
	sample := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	orig := append([]float64(nil), sample...)
	if _, err := EstimateTailIndex(sample, 0.3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range sample {
		if sample[i] != orig[i] {
			t.Fatalf("input modified at %d: %v", i, sample)
		}
	}
}

func TestEstimateTailIndex_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		sample []float64
		alphan float64
	}{
		{"k below one", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.05},
		{"alphan zero", []float64{1, 2, 3}, 0},
		{"alphan one", []float64{1, 2, 3}, 1},
		{"empty", nil, 0.5},
		{"non-positive threshold", []float64{5, 4, -1, -2}, 0.5},
		{"NaN", []float64{5, math.NaN(), 3, 2}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EstimateTailIndex(tt.sample, tt.alphan)
			var de *DomainError
			if !errors.As(err, &de) {
				t.Errorf("expected *DomainError, got %v", err)
			}
		})
	}
}

func TestEstimateTailIndex_Frechet(t *testing.T) {
	for _, shape := range []float64{1, 2, 4} {
		src := rand.NewPCG(42, uint64(shape*10))
		sample, err := FrechetSample(5000, shape, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h, err := EstimateTailIndex(sample, 0.05)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := 1 / shape
		if rel := math.Abs(h-want) / want; rel > 0.2 {
			t.Errorf("shape=%g: H = %g, want %g within 20%% (rel err %.3f)", shape, h, want, rel)
		}
	}
}

func TestEstimateTailIndex_MovingMaxima(t *testing.T) {
	src := rand.NewPCG(42, 7)
	series, err := MovingMaxima(5000, []float64{1, 0.6, 0.3}, 2, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, err := EstimateTailIndex(series, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel := math.Abs(h-0.5) / 0.5; rel > 0.25 {
		t.Errorf("H = %g, want 0.5 within 25%% (rel err %.3f)", h, rel)
	}
}

func TestEstimateTailIndices_MatchesSingleSeries(t *testing.T) {
	src := rand.NewPCG(42, 1)
	series := make([][]float64, 6)
	for i := range series {
		s, err := FrechetSample(400, 1+float64(i)/2, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		series[i] = s
	}

	got, err := EstimateTailIndices(series, 0.1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(series) {
		t.Fatalf("expected %d estimates, got %d", len(series), len(got))
	}
	for i, s := range series {
		want, err := EstimateTailIndex(s, 0.1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[i] != want {
			t.Errorf("series %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestEstimateTailIndices_ReportsFailingSeries(t *testing.T) {
	series := [][]float64{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{1, 2},
	}
	_, err := EstimateTailIndices(series, 0.2, 1)
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DomainError, got %v", err)
	}
}
