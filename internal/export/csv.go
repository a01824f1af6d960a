package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ExportCSV writes one row per hole followed by a per-sector summary
// block. The per-hole section round-trips through the importer's status
// column, so an exported file can be re-imported to resume a session.
func ExportCSV(path string, report Report) error {
	if len(report.Holes) == 0 {
		return fmt.Errorf("no holes to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"ID", "X", "Y", "Radius", "Row", "Column", "Quadrant", "Status"}); err != nil {
		return err
	}
	for _, h := range report.Holes {
		record := []string{
			h.ID,
			strconv.FormatFloat(h.Center.X, 'f', 3, 64),
			strconv.FormatFloat(h.Center.Y, 'f', 3, 64),
			strconv.FormatFloat(h.Radius, 'f', 3, 64),
			strconv.Itoa(h.Row),
			strconv.Itoa(h.Column),
			report.quadrantOf(h).String(),
			h.Status.String(),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	// Summary block below the hole rows. The rows are written as CSV
	// comments so re-importing the report only picks up the holes.
	if err := w.Write([]string{"# Sector", "Total", "Completed", "Qualified", "Defective", "Blind", "TieRod", "Errors", "Percent"}); err != nil {
		return err
	}
	for _, s := range report.Sectors {
		if err := w.Write(sectorRecord("# "+s.Quadrant.String(), s.Total, s.Completed,
			s.Qualified, s.Defective, s.Blind, s.TieRod, s.Errors, s.CompletionPercent())); err != nil {
			return err
		}
	}
	o := report.Overall
	if err := w.Write(sectorRecord("# Overall", o.Total, o.Completed,
		o.Qualified, o.Defective, o.Blind, o.TieRod, o.Errors, o.CompletionPercent())); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func sectorRecord(name string, total, completed, qualified, defective, blind, tieRod, errors int, percent float64) []string {
	return []string{
		name,
		strconv.Itoa(total),
		strconv.Itoa(completed),
		strconv.Itoa(qualified),
		strconv.Itoa(defective),
		strconv.Itoa(blind),
		strconv.Itoa(tieRod),
		strconv.Itoa(errors),
		strconv.FormatFloat(percent, 'f', 1, 64),
	}
}
