package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// TagInfo holds the data encoded into each defect tag's QR code, scanned
// on the shop floor to pull up the hole for repair or re-inspection.
type TagInfo struct {
	HoleID    string  `json:"hole_id"`
	X         float64 `json:"x_mm"`
	Y         float64 `json:"y_mm"`
	Radius    float64 `json:"radius_mm"`
	Quadrant  string  `json:"quadrant"`
	Workpiece string  `json:"workpiece,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns,
// 10 rows per page) on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportDefectLabels generates a PDF of QR-coded tag labels, one per
// defective hole. Each label carries the hole id, its position, and a QR
// code encoding the tag metadata as JSON.
func ExportDefectLabels(path string, report Report) error {
	defects := report.Defects()
	if len(defects) == 0 {
		return fmt.Errorf("no defective holes to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, h := range defects {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		info := TagInfo{
			HoleID:    h.ID,
			X:         h.Center.X,
			Y:         h.Center.Y,
			Radius:    h.Radius,
			Quadrant:  report.quadrantOf(h).String(),
			Workpiece: report.Settings.Workpiece,
		}
		if err := renderTag(pdf, x, y, info); err != nil {
			return fmt.Errorf("failed to render tag for %q: %w", h.ID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderTag draws a single defect tag at the given position.
func renderTag(pdf *fpdf.Fpdf, x, y float64, info TagInfo) error {
	// Light border as a cutting guide.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal tag info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s", info.HoleID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label.
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text block on the left.
	textX := x + labelPadding
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(textX, y+labelPadding+1)
	pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 5, info.HoleID, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+7)
	pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4,
		fmt.Sprintf("X %.1f  Y %.1f", info.X, info.Y), "", 0, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+11)
	pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4,
		fmt.Sprintf("Sector %s  R %.2f", info.Quadrant, info.Radius), "", 0, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+15)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(200, 0, 0)
	pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4, "DEFECTIVE", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return nil
}
