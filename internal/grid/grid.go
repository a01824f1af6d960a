// Package grid infers row/column indices for holes laid out on a regular
// tube-sheet grid and reports pitch statistics for the layout.
package grid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/holemap/holemap/internal/model"
)

// Stats summarizes the spacing of the inferred grid.
type Stats struct {
	Rows        int
	Columns     int
	RowPitch    float64 // Mean spacing between adjacent row lines (mm)
	ColumnPitch float64 // Mean spacing between adjacent column lines (mm)
	PitchStdDev float64 // Std deviation across all adjacent spacings (mm)
}

// AssignIndices fills in Row and Column for every hole by clustering the Y
// and then the X coordinates. Coordinates within tolerance of an existing
// cluster line join it; otherwise they start a new line. Rows are numbered
// from the smallest Y, columns from the smallest X. The hole slice is
// modified in place and the grid statistics are returned.
//
// Holes that do not sit on a regular grid still get indices; the indices
// are then just the rank of their coordinate cluster, which is what the
// detail view needs for keyboard navigation.
func AssignIndices(holes []model.Hole, tolerance float64) Stats {
	if len(holes) == 0 {
		return Stats{}
	}
	if tolerance <= 0 {
		tolerance = defaultTolerance(holes)
	}

	ys := make([]float64, len(holes))
	xs := make([]float64, len(holes))
	for i, h := range holes {
		ys[i] = h.Center.Y
		xs[i] = h.Center.X
	}

	rowLines := clusterLines(ys, tolerance)
	colLines := clusterLines(xs, tolerance)

	for i := range holes {
		holes[i].Row = nearestLine(rowLines, holes[i].Center.Y)
		holes[i].Column = nearestLine(colLines, holes[i].Center.X)
	}

	return Stats{
		Rows:        len(rowLines),
		Columns:     len(colLines),
		RowPitch:    meanSpacing(rowLines),
		ColumnPitch: meanSpacing(colLines),
		PitchStdDev: spacingStdDev(rowLines, colLines),
	}
}

// defaultTolerance derives a clustering tolerance from the median hole
// radius, falling back to 1mm for radius-less data.
func defaultTolerance(holes []model.Hole) float64 {
	radii := make([]float64, 0, len(holes))
	for _, h := range holes {
		if h.Radius > 0 {
			radii = append(radii, h.Radius)
		}
	}
	if len(radii) == 0 {
		return 1.0
	}
	sort.Float64s(radii)
	return stat.Quantile(0.5, stat.Empirical, radii, nil)
}

// clusterLines groups sorted coordinates into lines: a coordinate within
// tolerance of the running cluster mean joins it, anything further starts
// a new line. Returns the cluster means in ascending order.
func clusterLines(coords []float64, tolerance float64) []float64 {
	sorted := make([]float64, len(coords))
	copy(sorted, coords)
	sort.Float64s(sorted)

	var lines []float64
	var cluster []float64
	flush := func() {
		if len(cluster) > 0 {
			lines = append(lines, stat.Mean(cluster, nil))
			cluster = cluster[:0]
		}
	}
	for _, c := range sorted {
		if len(cluster) > 0 && c-stat.Mean(cluster, nil) > tolerance {
			flush()
		}
		cluster = append(cluster, c)
	}
	flush()
	return lines
}

// nearestLine returns the index of the line closest to v.
func nearestLine(lines []float64, v float64) int {
	best := 0
	bestDist := math.Abs(lines[0] - v)
	for i, l := range lines[1:] {
		if d := math.Abs(l - v); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

func adjacentSpacings(lines []float64) []float64 {
	if len(lines) < 2 {
		return nil
	}
	out := make([]float64, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		out = append(out, lines[i]-lines[i-1])
	}
	return out
}

func meanSpacing(lines []float64) float64 {
	spacings := adjacentSpacings(lines)
	if len(spacings) == 0 {
		return 0
	}
	return stat.Mean(spacings, nil)
}

func spacingStdDev(rowLines, colLines []float64) float64 {
	all := append(adjacentSpacings(rowLines), adjacentSpacings(colLines)...)
	if len(all) < 2 {
		return 0
	}
	return stat.StdDev(all, nil)
}
