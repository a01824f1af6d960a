package grid

import (
	"math"
	"testing"

	"github.com/holemap/holemap/internal/model"
)

func TestAssignIndices_RegularGrid(t *testing.T) {
	holes := model.GridPattern(4, 6, 25, 4)
	// Discard the generator's own indices to prove inference works.
	for i := range holes {
		holes[i].Row = -1
		holes[i].Column = -1
	}

	stats := AssignIndices(holes, 2)

	if stats.Rows != 4 || stats.Columns != 6 {
		t.Fatalf("expected 4x6 grid, got %dx%d", stats.Rows, stats.Columns)
	}
	if math.Abs(stats.RowPitch-25) > 0.01 {
		t.Errorf("expected row pitch 25, got %.3f", stats.RowPitch)
	}
	if math.Abs(stats.ColumnPitch-25) > 0.01 {
		t.Errorf("expected column pitch 25, got %.3f", stats.ColumnPitch)
	}
	if stats.PitchStdDev > 0.01 {
		t.Errorf("expected near-zero pitch deviation, got %.3f", stats.PitchStdDev)
	}

	for _, h := range holes {
		if h.Row < 0 || h.Row >= 4 || h.Column < 0 || h.Column >= 6 {
			t.Errorf("hole %s got out-of-range indices (%d,%d)", h.ID, h.Row, h.Column)
		}
	}
}

func TestAssignIndices_RowNumberingFromSmallestY(t *testing.T) {
	holes := []model.Hole{
		model.NewHole("top", 0, 100, 3),
		model.NewHole("bottom", 0, 0, 3),
	}
	AssignIndices(holes, 2)
	if holes[1].Row != 0 {
		t.Errorf("hole with smallest Y should be row 0, got %d", holes[1].Row)
	}
	if holes[0].Row != 1 {
		t.Errorf("hole with largest Y should be row 1, got %d", holes[0].Row)
	}
}

func TestAssignIndices_JitterWithinTolerance(t *testing.T) {
	// Holes nominally on a 30mm pitch with 0.5mm of jitter.
	holes := []model.Hole{
		model.NewHole("A", 0, 0.3, 3),
		model.NewHole("B", 30.2, -0.4, 3),
		model.NewHole("C", 59.8, 0.1, 3),
		model.NewHole("D", 0.4, 30.1, 3),
		model.NewHole("E", 29.7, 29.9, 3),
		model.NewHole("F", 60.1, 30.4, 3),
	}
	stats := AssignIndices(holes, 2)
	if stats.Rows != 2 || stats.Columns != 3 {
		t.Fatalf("expected 2x3 grid despite jitter, got %dx%d", stats.Rows, stats.Columns)
	}
}

func TestAssignIndices_Empty(t *testing.T) {
	stats := AssignIndices(nil, 1)
	if stats.Rows != 0 || stats.Columns != 0 {
		t.Errorf("expected zero stats for empty input, got %+v", stats)
	}
}

func TestAssignIndices_DefaultTolerance(t *testing.T) {
	holes := model.GridPattern(3, 3, 20, 4)
	stats := AssignIndices(holes, 0) // derive tolerance from radii
	if stats.Rows != 3 || stats.Columns != 3 {
		t.Fatalf("expected 3x3 grid with derived tolerance, got %dx%d", stats.Rows, stats.Columns)
	}
}
