package tiec

import (
	"errors"
	"testing"
)

func TestNewGrid_SpansPaddedRange(t *testing.T) {
	data := []float64{1.0, 2.0, 1.5}
	g, err := NewGrid(data, 0.01, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pts := g.Points()

	// [0.5, 2.5] with step 0.01 has 201 points.
	if len(pts) != 201 {
		t.Fatalf("expected 201 points, got %d", len(pts))
	}
	assertFloat(t, "first", pts[0], 0.5, 1e-12)
	assertFloat(t, "last", pts[len(pts)-1], 2.5, 1e-9)
	if g.Step() != 0.01 {
		t.Errorf("Step: got %g, want 0.01", g.Step())
	}
	for k := 1; k < len(pts); k++ {
		assertFloat(t, "spacing", pts[k]-pts[k-1], 0.01, 1e-12)
	}
}

func TestNewGrid_PointsIsCopy(t *testing.T) {
	g, err := NewGrid([]float64{0, 1}, 0.5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pts := g.Points()
	pts[0] = 99
	if g.Points()[0] != 0 {
		t.Error("mutating Points() changed the grid")
	}
}

func TestNewGrid_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		step float64
	}{
		{"empty", nil, 0.01},
		{"zero step", []float64{1, 2}, 0},
		{"negative step", []float64{1, 2}, -0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.data, tt.step, 0.5)
			var de *DomainError
			if !errors.As(err, &de) {
				t.Errorf("expected *DomainError, got %v", err)
			}
		})
	}
}

func TestGrid_Integrate(t *testing.T) {
	g, err := NewGrid([]float64{0, 1}, 0.25, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ones := make([]float64, g.Len())
	for i := range ones {
		ones[i] = 1
	}
	// 5 points × 0.25
	assertFloat(t, "integral", g.Integrate(ones), 1.25, 1e-12)
}
