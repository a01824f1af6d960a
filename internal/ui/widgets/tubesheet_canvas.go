package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/holemap/holemap/internal/model"
	"github.com/holemap/holemap/internal/sector"
)

const (
	// Minimum on-screen hole radius so dense sheets stay visible.
	minHoleRadius = 1.5
	canvasMargin  = 12
)

// TubeSheetCanvas renders a top-down view of a tube sheet: every hole as
// a circle colored by its detection status, plus the sector divider
// lines through the inspection center.
type TubeSheetCanvas struct {
	widget.BaseWidget
	holes     []model.Hole
	center    model.Point2D
	maxWidth  float32
	maxHeight float32
}

func NewTubeSheetCanvas(maxW, maxH float32) *TubeSheetCanvas {
	tc := &TubeSheetCanvas{
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	tc.ExtendBaseWidget(tc)
	return tc
}

// SetHoles replaces the rendered hole set and divider center, then
// refreshes the canvas. Must be called on the UI thread.
func (tc *TubeSheetCanvas) SetHoles(holes []model.Hole, center model.Point2D) {
	tc.holes = holes
	tc.center = center
	tc.Refresh()
}

// UpdateHoleStatus changes a single hole's status in place and
// refreshes. Must be called on the UI thread.
func (tc *TubeSheetCanvas) UpdateHoleStatus(id string, status model.HoleStatus) {
	for i := range tc.holes {
		if tc.holes[i].ID == id {
			tc.holes[i].Status = status
			tc.Refresh()
			return
		}
	}
}

func (tc *TubeSheetCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newTubeSheetRenderer(tc)
}

type tubeSheetRenderer struct {
	tc      *TubeSheetCanvas
	objects []fyne.CanvasObject
}

func newTubeSheetRenderer(tc *TubeSheetCanvas) *tubeSheetRenderer {
	r := &tubeSheetRenderer{tc: tc}
	r.rebuild()
	return r
}

// transform computes the world-to-screen mapping. Y is flipped: drawing
// coordinates grow upward, screen coordinates grow downward.
func (r *tubeSheetRenderer) transform() (scale float32, min, max model.Point2D) {
	min, max = model.BoundingBox(r.tc.holes)
	worldW := float32(max.X - min.X)
	worldH := float32(max.Y - min.Y)
	if worldW <= 0 {
		worldW = 1
	}
	if worldH <= 0 {
		worldH = 1
	}
	scaleX := (r.tc.maxWidth - 2*canvasMargin) / worldW
	scaleY := (r.tc.maxHeight - 2*canvasMargin) / worldH
	scale = scaleX
	if scaleY < scale {
		scale = scaleY
	}
	return scale, min, max
}

func (r *tubeSheetRenderer) toScreen(p model.Point2D, scale float32, min, max model.Point2D) fyne.Position {
	x := canvasMargin + float32(p.X-min.X)*scale
	y := canvasMargin + float32(max.Y-p.Y)*scale
	return fyne.NewPos(x, y)
}

func (r *tubeSheetRenderer) rebuild() {
	r.objects = nil

	if len(r.tc.holes) == 0 {
		empty := canvas.NewText("No holes loaded", color.NRGBA{R: 150, G: 150, B: 150, A: 255})
		empty.TextSize = 14
		empty.Move(fyne.NewPos(canvasMargin, canvasMargin))
		r.objects = append(r.objects, empty)
		return
	}

	scale, min, max := r.transform()

	// Background
	bg := canvas.NewRectangle(color.NRGBA{R: 40, G: 44, B: 52, A: 255})
	bg.Resize(fyne.NewSize(r.tc.maxWidth, r.tc.maxHeight))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	r.drawDividers(scale, min, max)

	for _, h := range r.tc.holes {
		col := model.StatusColor(h.Status)
		radius := float32(h.Radius) * scale
		if radius < minHoleRadius {
			radius = minHoleRadius
		}
		pos := r.toScreen(h.Center, scale, min, max)

		circle := canvas.NewCircle(col)
		circle.Resize(fyne.NewSize(radius*2, radius*2))
		circle.Move(fyne.NewPos(pos.X-radius, pos.Y-radius))
		r.objects = append(r.objects, circle)
	}

	r.drawCenterMark(scale, min, max)
}

// drawDividers draws the horizontal and vertical sector boundary lines
// through the inspection center.
func (r *tubeSheetRenderer) drawDividers(scale float32, min, max model.Point2D) {
	dividerColor := color.NRGBA{R: 255, G: 255, B: 255, A: 90}
	c := r.toScreen(r.tc.center, scale, min, max)

	hLine := canvas.NewLine(dividerColor)
	hLine.StrokeWidth = 1
	hLine.Position1 = fyne.NewPos(0, c.Y)
	hLine.Position2 = fyne.NewPos(r.tc.maxWidth, c.Y)
	r.objects = append(r.objects, hLine)

	vLine := canvas.NewLine(dividerColor)
	vLine.StrokeWidth = 1
	vLine.Position1 = fyne.NewPos(c.X, 0)
	vLine.Position2 = fyne.NewPos(c.X, r.tc.maxHeight)
	r.objects = append(r.objects, vLine)

	// Quadrant labels near the corners of each sector.
	labels := []struct {
		q  model.Quadrant
		dx float32
		dy float32
	}{
		{model.QuadrantI, 8, -20},
		{model.QuadrantII, -28, -20},
		{model.QuadrantIII, -28, 8},
		{model.QuadrantIV, 8, 8},
	}
	for _, l := range labels {
		text := canvas.NewText(l.q.String(), dividerColor)
		text.TextSize = 11
		text.Move(fyne.NewPos(c.X+l.dx, c.Y+l.dy))
		r.objects = append(r.objects, text)
	}
}

// drawCenterMark draws a small crosshair at the inspection center.
func (r *tubeSheetRenderer) drawCenterMark(scale float32, min, max model.Point2D) {
	markColor := color.NRGBA{R: 255, G: 235, B: 59, A: 255}
	c := r.toScreen(r.tc.center, scale, min, max)
	const arm = 6

	h := canvas.NewLine(markColor)
	h.StrokeWidth = 2
	h.Position1 = fyne.NewPos(c.X-arm, c.Y)
	h.Position2 = fyne.NewPos(c.X+arm, c.Y)
	r.objects = append(r.objects, h)

	v := canvas.NewLine(markColor)
	v.StrokeWidth = 2
	v.Position1 = fyne.NewPos(c.X, c.Y-arm)
	v.Position2 = fyne.NewPos(c.X, c.Y+arm)
	r.objects = append(r.objects, v)
}

func (r *tubeSheetRenderer) Layout(size fyne.Size)        {}
func (r *tubeSheetRenderer) Refresh()                     { r.rebuild(); canvas.Refresh(r.tc) }
func (r *tubeSheetRenderer) Destroy()                     {}
func (r *tubeSheetRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *tubeSheetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.tc.maxWidth, r.tc.maxHeight)
}

// RenderStatusLegend builds a horizontal legend of status colors for
// display beneath the tube sheet view.
func RenderStatusLegend() fyne.CanvasObject {
	statuses := []model.HoleStatus{
		model.StatusPending,
		model.StatusDetecting,
		model.StatusQualified,
		model.StatusDefective,
		model.StatusBlind,
		model.StatusTieRod,
		model.StatusError,
	}

	var items []fyne.CanvasObject
	for _, s := range statuses {
		swatch := canvas.NewRectangle(model.StatusColor(s))
		swatch.SetMinSize(fyne.NewSize(12, 12))
		items = append(items, container.NewHBox(swatch, widget.NewLabel(s.String())))
	}
	return container.NewHBox(items...)
}

// FormatHoleTooltip returns a single-line summary of a hole for status
// bars and list rows.
func FormatHoleTooltip(h model.Hole, center model.Point2D) string {
	q := sector.AssignQuadrant(h.Center, center)
	return fmt.Sprintf("%s  (%.2f, %.2f)  r=%.2f  %s  %s",
		h.ID, h.Center.X, h.Center.Y, h.Radius, q, h.Status)
}
