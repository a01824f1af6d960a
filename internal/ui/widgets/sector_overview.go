package widgets

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/holemap/holemap/internal/model"
)

// SectorOverview shows live per-sector progress: one progress bar and
// count line per quadrant, plus an overall bar. It implements
// sector.ProgressListener so it can be subscribed directly to the hub.
//
// All listener callbacks must arrive on the UI thread; the app wraps
// background status updates in fyne.Do before they reach the aggregator.
type SectorOverview struct {
	widget.BaseWidget

	sectorBars   [model.QuadrantCount]*widget.ProgressBar
	sectorLabels [model.QuadrantCount]*widget.Label
	overallBar   *widget.ProgressBar
	overallLabel *widget.Label

	content fyne.CanvasObject
}

func NewSectorOverview() *SectorOverview {
	so := &SectorOverview{}

	var rows []fyne.CanvasObject
	for _, q := range model.Quadrants() {
		bar := widget.NewProgressBar()
		label := widget.NewLabel("0 / 0")
		so.sectorBars[q] = bar
		so.sectorLabels[q] = label

		name := widget.NewLabelWithStyle(q.String(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		rows = append(rows, container.NewBorder(nil, nil, name, label, bar))
	}

	so.overallBar = widget.NewProgressBar()
	so.overallLabel = widget.NewLabel("0 / 0")
	overallName := widget.NewLabelWithStyle("Overall", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	rows = append(rows,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, overallName, so.overallLabel, so.overallBar),
	)

	so.content = container.NewVBox(rows...)
	so.ExtendBaseWidget(so)
	return so
}

func (so *SectorOverview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(so.content)
}

// OnSectorProgress implements sector.ProgressListener.
func (so *SectorOverview) OnSectorProgress(q model.Quadrant, agg model.SectorAggregate) {
	if q >= model.QuadrantCount {
		return
	}
	so.sectorBars[q].SetValue(agg.CompletionPercent() / 100)
	so.sectorLabels[q].SetText(formatCounts(agg.Completed, agg.Total, agg.Defective, agg.Errors))
}

// OnOverallProgress implements sector.ProgressListener.
func (so *SectorOverview) OnOverallProgress(overall model.OverallAggregate) {
	fraction := 0.0
	if overall.Total > 0 {
		fraction = float64(overall.Completed) / float64(overall.Total)
	}
	so.overallBar.SetValue(fraction)
	so.overallLabel.SetText(formatCounts(overall.Completed, overall.Total, overall.Defective, overall.Errors))
}

func formatCounts(completed, total, defective, errors int) string {
	s := fmt.Sprintf("%d / %d", completed, total)
	if defective > 0 {
		s += fmt.Sprintf("  NG:%d", defective)
	}
	if errors > 0 {
		s += fmt.Sprintf("  ERR:%d", errors)
	}
	return s
}
