package export

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/holemap/holemap/internal/importer"
	"github.com/holemap/holemap/internal/model"
	"github.com/holemap/holemap/internal/sector"
)

// buildTestReport creates a realistic four-sector report with mixed
// detection results.
func buildTestReport() Report {
	holes := []model.Hole{
		model.NewHole("NE", 50, 50, 4),
		model.NewHole("NW", -50, 50, 4),
		model.NewHole("SW", -50, -50, 4),
		model.NewHole("SE", 50, -50, 4),
	}
	holes[0].Status = model.StatusQualified
	holes[1].Status = model.StatusDefective
	holes[2].Status = model.StatusBlind
	holes[0].Row, holes[0].Column = 1, 1

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := sector.NewAggregator(nil, logger)
	agg.Load(holes)

	settings := model.DefaultReportSettings()
	settings.Workpiece = "TS-1234"
	settings.Operator = "QA"
	return BuildReport(holes, agg, settings)
}

func TestBuildReport_SnapshotsAggregates(t *testing.T) {
	report := buildTestReport()
	if len(report.Sectors) != model.QuadrantCount {
		t.Fatalf("expected %d sector snapshots, got %d", model.QuadrantCount, len(report.Sectors))
	}
	if report.Overall.Total != 4 {
		t.Errorf("expected overall total 4, got %d", report.Overall.Total)
	}
	if report.Overall.Completed != 3 {
		t.Errorf("expected overall completed 3, got %d", report.Overall.Completed)
	}
	if len(report.Defects()) != 1 || report.Defects()[0].ID != "NW" {
		t.Errorf("expected NW as the only defect, got %v", report.Defects())
	}
}

func TestExportCSV_RoundTripStructure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	if err := ExportCSV(path, buildTestReport()); err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// Header + 4 holes + summary header + 4 sectors + overall.
	if len(records) != 11 {
		t.Fatalf("expected 11 records, got %d", len(records))
	}
	if records[0][0] != "ID" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][7] != "Qualified" {
		t.Errorf("expected first hole status Qualified, got %q", records[1][7])
	}
	if records[10][0] != "# Overall" {
		t.Errorf("expected last record to be the overall summary, got %v", records[10])
	}
}

// The summary block is written as CSV comments, so re-importing a report
// yields exactly the hole rows.
func TestExportCSV_ReimportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	report := buildTestReport()
	if err := ExportCSV(path, report); err != nil {
		t.Fatal(err)
	}

	imported := importer.ImportCSV(path)
	if len(imported.Errors) != 0 {
		t.Fatalf("re-import errors: %v", imported.Errors)
	}
	if len(imported.Holes) != len(report.Holes) {
		t.Fatalf("expected %d holes after re-import, got %d", len(report.Holes), len(imported.Holes))
	}
	if imported.Holes[0].Status != model.StatusQualified {
		t.Errorf("status column should survive the round trip, got %v", imported.Holes[0].Status)
	}
	if imported.Holes[0].Row != 1 || imported.Holes[0].Column != 1 {
		t.Errorf("grid indices should survive the round trip, got (%d,%d)",
			imported.Holes[0].Row, imported.Holes[0].Column)
	}
}

func TestExportCSV_NoHoles(t *testing.T) {
	err := ExportCSV(filepath.Join(t.TempDir(), "x.csv"), Report{})
	if err == nil {
		t.Error("expected an error for an empty report")
	}
}

func TestExportExcel_CreatesWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")

	if err := ExportExcel(path, buildTestReport()); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Holes" || sheets[1] != "Sectors" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	rows, err := f.GetRows("Sectors")
	if err != nil {
		t.Fatal(err)
	}
	// Header + 4 sectors + overall.
	if len(rows) != 6 {
		t.Fatalf("expected 6 summary rows, got %d", len(rows))
	}
	if rows[5][0] != "Overall" {
		t.Errorf("expected overall row last, got %v", rows[5])
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")

	if err := ExportPDF(path, buildTestReport()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected PDF file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PDF file is empty")
	}
}

func TestExportPDF_LargeLayout(t *testing.T) {
	holes := model.GridPattern(20, 30, 25, 4)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := sector.NewAggregator(nil, logger)
	agg.Load(holes)
	report := BuildReport(holes, agg, model.DefaultReportSettings())

	path := filepath.Join(t.TempDir(), "large.pdf")
	if err := ExportPDF(path, report); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportDefectLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.pdf")

	if err := ExportDefectLabels(path, buildTestReport()); err != nil {
		t.Fatalf("ExportDefectLabels returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected labels file to exist: %v", err)
	}
}

func TestExportDefectLabels_NoDefects(t *testing.T) {
	report := buildTestReport()
	for i := range report.Holes {
		report.Holes[i].Status = model.StatusQualified
	}
	err := ExportDefectLabels(filepath.Join(t.TempDir(), "tags.pdf"), report)
	if err == nil {
		t.Error("expected an error when there are no defects")
	}
}
