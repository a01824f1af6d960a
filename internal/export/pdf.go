package export

import (
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/holemap/holemap/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	tableRowH    = 7.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates the inspection report: a tube-sheet map page with
// every hole colored by status and the sector dividers drawn in, followed
// by a sector statistics page.
func ExportPDF(path string, report Report) error {
	if len(report.Holes) == 0 {
		return fmt.Errorf("no holes to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	if report.Settings.IncludeMap {
		pdf.AddPage()
		renderMapPage(pdf, report)
	}

	pdf.AddPage()
	renderStatsPage(pdf, report)

	return pdf.OutputFileAndClose(path)
}

// renderMapPage draws the tube-sheet diagram on the current page.
func renderMapPage(pdf *fpdf.Fpdf, report Report) {
	renderTitle(pdf, report, "Tube Sheet Map")

	min, max := model.BoundingBox(report.Holes)
	sheetW := max.X - min.X
	sheetH := max.Y - min.Y
	if sheetW < 1 {
		sheetW = 1
	}
	if sheetH < 1 {
		sheetH = 1
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/sheetW, drawHeight/sheetH)

	// Center the drawing on the page; PDF Y grows downward, drawing Y up.
	offsetX := marginLeft + (drawWidth-sheetW*scale)/2
	offsetY := drawAreaTop + (drawHeight-sheetH*scale)/2
	toPage := func(p model.Point2D) (float64, float64) {
		return offsetX + (p.X-min.X)*scale, offsetY + (max.Y-p.Y)*scale
	}

	// Sector divider cross through the center.
	cx, cy := toPage(report.Center)
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.3)
	pdf.Line(offsetX, cy, offsetX+sheetW*scale, cy)
	pdf.Line(cx, offsetY, cx, offsetY+sheetH*scale)

	for _, h := range report.Holes {
		col := model.StatusColor(h.Status)
		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.SetDrawColor(60, 60, 60)
		x, y := toPage(h.Center)
		r := h.Radius * scale
		if r < 0.4 {
			r = 0.4
		}
		pdf.Circle(x, y, r, "FD")
	}

	renderLegend(pdf)
}

// renderStatsPage draws the per-sector statistics table and totals.
func renderStatsPage(pdf *fpdf.Fpdf, report Report) {
	renderTitle(pdf, report, "Sector Statistics")

	headers := []string{"Sector", "Total", "Completed", "Qualified", "Defective", "Blind", "TieRod", "Errors", "Percent"}
	colW := (pageWidth - marginLeft - marginRight) / float64(len(headers))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, drawAreaTop)
	for _, h := range headers {
		pdf.CellFormat(colW, tableRowH, h, "1", 0, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	y := drawAreaTop + tableRowH
	writeRow := func(name string, total, completed, qualified, defective, blind, tieRod, errors int, percent float64) {
		pdf.SetXY(marginLeft, y)
		cells := []string{
			name,
			fmt.Sprintf("%d", total),
			fmt.Sprintf("%d", completed),
			fmt.Sprintf("%d", qualified),
			fmt.Sprintf("%d", defective),
			fmt.Sprintf("%d", blind),
			fmt.Sprintf("%d", tieRod),
			fmt.Sprintf("%d", errors),
			fmt.Sprintf("%.1f%%", percent),
		}
		for _, c := range cells {
			pdf.CellFormat(colW, tableRowH, c, "1", 0, "C", false, 0, "")
		}
		y += tableRowH
	}

	for _, s := range report.Sectors {
		writeRow(s.Quadrant.String(), s.Total, s.Completed, s.Qualified,
			s.Defective, s.Blind, s.TieRod, s.Errors, s.CompletionPercent())
	}
	o := report.Overall
	pdf.SetFont("Helvetica", "B", 10)
	writeRow("Overall", o.Total, o.Completed, o.Qualified,
		o.Defective, o.Blind, o.TieRod, o.Errors, o.CompletionPercent())

	if len(report.Defects()) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginLeft, y+8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Defective holes: %d", len(report.Defects())), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		line := ""
		for i, d := range report.Defects() {
			if i > 0 {
				line += ", "
			}
			line += d.ID
			if i == 29 && len(report.Defects()) > 30 {
				line += fmt.Sprintf(" and %d more", len(report.Defects())-30)
				break
			}
		}
		pdf.SetXY(marginLeft, y+15)
		pdf.MultiCell(pageWidth-marginLeft-marginRight, 5, line, "", "L", false)
	}
}

// renderTitle draws the shared page header: report title, workpiece and
// operator line, and the generation timestamp.
func renderTitle(pdf *fpdf.Fpdf, report Report, pageName string) {
	title := report.Settings.Title
	if title == "" {
		title = "Tube Sheet Inspection Report"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight,
		fmt.Sprintf("%s — %s", title, pageName), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight-3)
	meta := fmt.Sprintf("Workpiece: %s | Operator: %s | Generated: %s",
		orDash(report.Settings.Workpiece), orDash(report.Settings.Operator),
		time.Now().Format("2006-01-02 15:04"))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, meta, "", 0, "L", false, 0, "")
}

// renderLegend draws the status color legend along the bottom margin.
func renderLegend(pdf *fpdf.Fpdf) {
	statuses := []model.HoleStatus{
		model.StatusPending, model.StatusDetecting, model.StatusQualified,
		model.StatusDefective, model.StatusBlind, model.StatusTieRod, model.StatusError,
	}
	x := marginLeft
	yPos := pageHeight - marginBottom + 3
	pdf.SetFont("Helvetica", "", 8)
	for _, s := range statuses {
		col := model.StatusColor(s)
		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.Rect(x, yPos, 4, 4, "F")
		pdf.SetXY(x+5, yPos-0.5)
		pdf.CellFormat(22, 5, s.String(), "", 0, "L", false, 0, "")
		x += 30
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
