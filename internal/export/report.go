// Package export writes inspection results to CSV, Excel, and PDF files,
// and generates QR-coded defect tag labels.
package export

import (
	"github.com/holemap/holemap/internal/model"
	"github.com/holemap/holemap/internal/sector"
)

// Report bundles everything the exporters need: the hole collection, the
// live sector aggregates, and the report settings. The aggregates are
// snapshots; exporting never touches the engine.
type Report struct {
	Holes    []model.Hole
	Sectors  []model.SectorAggregate
	Overall  model.OverallAggregate
	Center   model.Point2D
	Settings model.ReportSettings
}

// BuildReport snapshots the aggregator state for the given holes.
func BuildReport(holes []model.Hole, agg *sector.Aggregator, settings model.ReportSettings) Report {
	sectors := make([]model.SectorAggregate, 0, model.QuadrantCount)
	for _, q := range model.Quadrants() {
		sectors = append(sectors, agg.SectorProgress(q))
	}
	return Report{
		Holes:    holes,
		Sectors:  sectors,
		Overall:  agg.OverallProgress(),
		Center:   agg.Center(),
		Settings: settings,
	}
}

// quadrantOf returns the hole's quadrant relative to the report center.
func (r Report) quadrantOf(h model.Hole) model.Quadrant {
	return sector.AssignQuadrant(h.Center, r.Center)
}

// Defects returns the defective holes in slice order.
func (r Report) Defects() []model.Hole {
	var out []model.Hole
	for _, h := range r.Holes {
		if h.Status == model.StatusDefective {
			out = append(out, h)
		}
	}
	return out
}
