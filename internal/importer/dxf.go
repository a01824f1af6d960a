package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/holemap/holemap/internal/model"
)

// arcGroup accumulates ARC entities that share a center and radius, so a
// hole drawn as two half-arcs (the common CAD habit for tube sheets) can
// be recombined into one full circle.
type arcGroup struct {
	cx, cy, r float64
	sweepDeg  float64
}

// Matching tolerances for the arc-pairing pass, in mm and degrees.
const (
	arcCenterTol = 0.05
	arcRadiusTol = 0.05
	fullSweepTol = 5.0 // combined sweep this close to 360° counts as closed
)

// ImportDXF reads a tube-sheet drawing and extracts one Hole per closed
// circle. CIRCLE entities map directly; ARC entities are grouped by center
// and radius and accepted once their combined sweep closes the circle.
// Holes are numbered H00001.. in reading order (bottom-left first), which
// keeps IDs stable across repeated imports of the same drawing.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	type circle struct {
		cx, cy, r float64
	}
	var circles []circle
	var groups []*arcGroup

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Circle:
			circles = append(circles, circle{cx: e.Center[0], cy: e.Center[1], r: e.Radius})

		case *entity.Arc:
			cx, cy := e.Circle.Center[0], e.Circle.Center[1]
			r := e.Circle.Radius
			sweep := arcSweepDegrees(e.Angle[0], e.Angle[1])
			g := findArcGroup(groups, cx, cy, r)
			if g == nil {
				g = &arcGroup{cx: cx, cy: cy, r: r}
				groups = append(groups, g)
			}
			g.sweepDeg += sweep

		default:
			// Construction lines, text, and dimensions are not holes.
		}
	}

	for _, g := range groups {
		if math.Abs(g.sweepDeg-360) <= fullSweepTol {
			circles = append(circles, circle{cx: g.cx, cy: g.cy, r: g.r})
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped open arc group at (%.1f, %.1f): %.0f° of sweep", g.cx, g.cy, g.sweepDeg))
		}
	}

	if len(circles) == 0 {
		result.Errors = append(result.Errors, "No hole circles found in DXF file")
		return result
	}

	// Drop duplicate circles (overdrawn geometry is common in scans).
	sort.Slice(circles, func(i, j int) bool {
		if circles[i].cy != circles[j].cy {
			return circles[i].cy < circles[j].cy
		}
		return circles[i].cx < circles[j].cx
	})
	deduped := circles[:0]
	for _, c := range circles {
		if len(deduped) > 0 {
			prev := deduped[len(deduped)-1]
			if math.Abs(prev.cx-c.cx) <= arcCenterTol && math.Abs(prev.cy-c.cy) <= arcCenterTol {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Skipped duplicate circle at (%.1f, %.1f)", c.cx, c.cy))
				continue
			}
		}
		deduped = append(deduped, c)
	}

	for i, c := range deduped {
		if c.r < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate circle at (%.1f, %.1f)", c.cx, c.cy))
			continue
		}
		result.Holes = append(result.Holes,
			model.NewHole(fmt.Sprintf("H%05d", i+1), c.cx, c.cy, c.r))
	}

	return result
}

// findArcGroup returns the existing group matching the arc's center and
// radius within tolerance, or nil.
func findArcGroup(groups []*arcGroup, cx, cy, r float64) *arcGroup {
	for _, g := range groups {
		if math.Abs(g.cx-cx) <= arcCenterTol &&
			math.Abs(g.cy-cy) <= arcCenterTol &&
			math.Abs(g.r-r) <= arcRadiusTol {
			return g
		}
	}
	return nil
}

// arcSweepDegrees returns the counter-clockwise sweep of an arc given its
// DXF start and end angles in degrees.
func arcSweepDegrees(startDeg, endDeg float64) float64 {
	sweep := endDeg - startDeg
	for sweep <= 0 {
		sweep += 360
	}
	for sweep > 360 {
		sweep -= 360
	}
	return sweep
}
