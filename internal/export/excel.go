package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes the report as a workbook with a "Holes" detail sheet
// and a "Sectors" summary sheet.
func ExportExcel(path string, report Report) error {
	if len(report.Holes) == 0 {
		return fmt.Errorf("no holes to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const holesSheet = "Holes"
	if err := f.SetSheetName(f.GetSheetName(0), holesSheet); err != nil {
		return err
	}

	header := []interface{}{"ID", "X", "Y", "Radius", "Row", "Column", "Quadrant", "Status"}
	if err := setRow(f, holesSheet, 1, header); err != nil {
		return err
	}
	for i, h := range report.Holes {
		row := []interface{}{
			h.ID, h.Center.X, h.Center.Y, h.Radius, h.Row, h.Column,
			report.quadrantOf(h).String(), h.Status.String(),
		}
		if err := setRow(f, holesSheet, i+2, row); err != nil {
			return err
		}
	}

	const sectorsSheet = "Sectors"
	if _, err := f.NewSheet(sectorsSheet); err != nil {
		return err
	}
	summaryHeader := []interface{}{"Sector", "Total", "Completed", "Qualified", "Defective", "Blind", "TieRod", "Errors", "Percent"}
	if err := setRow(f, sectorsSheet, 1, summaryHeader); err != nil {
		return err
	}
	for i, s := range report.Sectors {
		row := []interface{}{
			s.Quadrant.String(), s.Total, s.Completed, s.Qualified,
			s.Defective, s.Blind, s.TieRod, s.Errors, s.CompletionPercent(),
		}
		if err := setRow(f, sectorsSheet, i+2, row); err != nil {
			return err
		}
	}
	o := report.Overall
	overallRow := []interface{}{
		"Overall", o.Total, o.Completed, o.Qualified,
		o.Defective, o.Blind, o.TieRod, o.Errors, o.CompletionPercent(),
	}
	if err := setRow(f, sectorsSheet, len(report.Sectors)+2, overallRow); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
