package model

// SimSettings holds detection-simulation configuration.
type SimSettings struct {
	TickMillis int   `json:"tick_millis"` // Interval between simulated probe steps
	Seed       int64 `json:"seed"`        // RNG seed; 0 means time-based

	// Outcome probabilities in percent. The remainder up to 100 becomes
	// Qualified, so only the failure modes are configured explicitly.
	DefectivePct float64 `json:"defective_pct"`
	BlindPct     float64 `json:"blind_pct"`
	TieRodPct    float64 `json:"tie_rod_pct"`
	ErrorPct     float64 `json:"error_pct"`
}

func DefaultSimSettings() SimSettings {
	return SimSettings{
		TickMillis:   100,
		Seed:         0,
		DefectivePct: 3.0,
		BlindPct:     1.5,
		TieRodPct:    0.5,
		ErrorPct:     0.5,
	}
}

// ReportSettings configures the exported reports.
type ReportSettings struct {
	Title       string `json:"title"`        // Report title line
	Operator    string `json:"operator"`     // Operator name printed on reports
	Workpiece   string `json:"workpiece"`    // Workpiece/drawing identifier
	IncludeMap  bool   `json:"include_map"`  // Draw the tube-sheet diagram in the PDF
	DefectTags  bool   `json:"defect_tags"`  // Also generate QR defect tag labels
	LabelsPerQR int    `json:"labels_perqr"` // Reserved; one label per defect for now
}

func DefaultReportSettings() ReportSettings {
	return ReportSettings{
		Title:      "Tube Sheet Inspection Report",
		IncludeMap: true,
		DefectTags: true,
	}
}
