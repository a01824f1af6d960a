package model

import (
	"fmt"
	"math"
)

// GridPattern generates a rows x cols rectangular hole pattern centered on
// the origin with the given pitch and hole radius. Used by demo mode and by
// tests that need a known layout.
func GridPattern(rows, cols int, pitch, radius float64) []Hole {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	holes := make([]Hole, 0, rows*cols)
	offsetX := float64(cols-1) * pitch / 2
	offsetY := float64(rows-1) * pitch / 2
	n := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			n++
			h := NewHole(fmt.Sprintf("H%05d", n),
				float64(c)*pitch-offsetX,
				float64(r)*pitch-offsetY,
				radius)
			h.Row = r
			h.Column = c
			holes = append(holes, h)
		}
	}
	return holes
}

// AnnularPattern generates concentric rings of holes around the origin,
// the layout used by circular tube sheets. Ring i has 6*i holes at radius
// i*ringPitch, plus one hole at the center.
func AnnularPattern(rings int, ringPitch, radius float64) []Hole {
	if rings <= 0 {
		return nil
	}
	holes := []Hole{NewHole("H00001", 0, 0, radius)}
	n := 1
	for ring := 1; ring < rings; ring++ {
		count := 6 * ring
		r := float64(ring) * ringPitch
		for i := 0; i < count; i++ {
			n++
			angle := 2 * math.Pi * float64(i) / float64(count)
			holes = append(holes, NewHole(fmt.Sprintf("H%05d", n),
				r*math.Cos(angle), r*math.Sin(angle), radius))
		}
	}
	return holes
}
