// Package sector implements the sector-based spatial partitioning and
// progress-aggregation engine: holes are bucketed into 4 angular quadrants
// around the sheet center, and per-quadrant progress counts are kept
// incrementally consistent with individual hole status changes.
package sector

import (
	"math"

	"github.com/holemap/holemap/internal/model"
)

// ComputeCenter returns the reference point for quadrant assignment: the
// center of the bounding box of all hole centers. An empty collection
// yields the origin, which makes downstream partitioning a no-op rather
// than an error.
func ComputeCenter(holes []model.Hole) model.Point2D {
	if len(holes) == 0 {
		return model.Point2D{}
	}
	min, max := model.BoundingBox(holes)
	return model.Point2D{
		X: (min.X + max.X) / 2,
		Y: (min.Y + max.Y) / 2,
	}
}

// AssignQuadrant maps a point to one of the 4 quadrants around center.
//
// The angle from center to the point is taken counter-clockwise from the
// positive X axis and normalized to [0°, 360°). Quadrant ranges are
// half-open, so a boundary angle always belongs to the quadrant whose
// range starts at that angle: exactly 90° is QuadrantII, 180° QuadrantIII,
// 270° QuadrantIV, and 0° (and the 360° wrap) QuadrantI. A point equal to
// the center has angle 0 and lands in QuadrantI.
func AssignQuadrant(p, center model.Point2D) model.Quadrant {
	deg := angleDegrees(p, center)
	switch {
	case deg < 90:
		return model.QuadrantI
	case deg < 180:
		return model.QuadrantII
	case deg < 270:
		return model.QuadrantIII
	default:
		return model.QuadrantIV
	}
}

// angleDegrees returns the counter-clockwise angle from center to p in
// degrees, normalized to [0, 360).
func angleDegrees(p, center model.Point2D) float64 {
	rad := math.Atan2(p.Y-center.Y, p.X-center.X)
	deg := rad * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	// atan2 can yield exactly -0 or values that round to 360 after the
	// shift; fold the wrap-around back onto 0 so the ranges stay total.
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
