package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/holemap/holemap/internal/export"
	"github.com/holemap/holemap/internal/grid"
	"github.com/holemap/holemap/internal/importer"
	"github.com/holemap/holemap/internal/model"
	"github.com/holemap/holemap/internal/project"
	"github.com/holemap/holemap/internal/sector"
	"github.com/holemap/holemap/internal/simulator"
	"github.com/holemap/holemap/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	log     *slog.Logger
	session model.InspectionSession
	config  project.AppConfig
	hub     *sector.Hub
	agg     *sector.Aggregator
	sim     *simulator.Simulator
	history *History
	tabs    *container.AppTabs

	// UI references for dynamic updates
	sheetCanvas      *widgets.TubeSheetCanvas
	overview         *widgets.SectorOverview
	defectsContainer *fyne.Container
	sessionLabel     *widget.Label
	estimateLabel    *widget.Label
}

func NewApp(window fyne.Window, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	hub := sector.NewHub()
	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		log.Warn("failed to load app config, using defaults", "error", err)
		config = project.DefaultAppConfig()
	}

	a := &App{
		window:  window,
		log:     log,
		session: model.NewInspectionSession(),
		config:  config,
		hub:     hub,
		agg:     sector.NewAggregator(hub, log),
		history: NewHistory(),
	}
	a.session.Settings = config.SimDefaults
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Session", func() {
			a.newSession()
		}),
		fyne.NewMenuItem("Open Session...", func() {
			a.openSession()
		}),
		fyne.NewMenuItem("Save Session...", func() {
			a.saveSession()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Holes from DXF...", func() {
			a.importFile("dxf")
		}),
		fyne.NewMenuItem("Import Holes from CSV...", func() {
			a.importFile("csv")
		}),
		fyne.NewMenuItem("Import Holes from Excel...", func() {
			a.importFile("xlsx")
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Report as CSV...", func() {
			a.exportReport("csv")
		}),
		fyne.NewMenuItem("Export Report as Excel...", func() {
			a.exportReport("xlsx")
		}),
		fyne.NewMenuItem("Export Report as PDF...", func() {
			a.exportReport("pdf")
		}),
		fyne.NewMenuItem("Export Defect Labels...", func() {
			a.exportReport("labels")
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export All Data...", func() {
			a.showImportExportDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo Correction", func() {
			a.undoCorrection()
		}),
		fyne.NewMenuItem("Redo Correction", func() {
			a.redoCorrection()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset All Statuses", func() {
			a.resetStatuses()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Start Simulation", func() {
			a.startSimulation()
		}),
		fyne.NewMenuItem("Stop Simulation", func() {
			a.stopSimulation()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Simulation Settings...", func() {
			a.showSimSettingsDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Sample Pattern (10x10 Grid)", func() {
			a.loadHoles(model.GridPattern(10, 10, 25, 4), "sample grid")
		}),
		fyne.NewMenuItem("Load Sample Pattern (Annular)", func() {
			a.loadHoles(model.AnnularPattern(12, 30, 4), "sample annular")
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About HoleMap",
		"HoleMap — Tube Sheet Hole Inspection\n\n"+
			"A cross-platform desktop application for tracking the\n"+
			"detection status of tube sheet holes across four sectors.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	overviewTab := container.NewTabItem("Overview", a.buildOverviewPanel())
	sheetTab := container.NewTabItem("Tube Sheet", a.buildSheetPanel())
	resultsTab := container.NewTabItem("Results", a.buildResultsPanel())

	a.tabs = container.NewAppTabs(overviewTab, sheetTab, resultsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	return a.tabs
}

// ─── Overview Panel ────────────────────────────────────────

func (a *App) buildOverviewPanel() fyne.CanvasObject {
	a.overview = widgets.NewSectorOverview()
	a.hub.Subscribe(a.overview)

	a.sessionLabel = widget.NewLabel("No holes loaded")
	a.estimateLabel = widget.NewLabel("")

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Sector Progress", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			a.sessionLabel,
		),
		a.estimateLabel,
		nil, nil,
		container.NewVScroll(a.overview),
	)
}

// refreshEstimate projects the remaining inspection time from the
// simulated detection rate (one hole per two ticks).
func (a *App) refreshEstimate() {
	overall := a.agg.OverallProgress()
	if overall.Total == 0 || overall.Completed+overall.Errors >= overall.Total {
		a.estimateLabel.SetText("")
		return
	}
	rate := 0.0
	if a.session.Settings.TickMillis > 0 {
		rate = 60000.0 / float64(2*a.session.Settings.TickMillis)
	}
	est := model.EstimateRemaining(overall, rate)
	if est.TimeLeft <= 0 {
		a.estimateLabel.SetText(fmt.Sprintf("%d holes remaining", est.Remaining))
		return
	}
	a.estimateLabel.SetText(fmt.Sprintf("%d holes remaining, ~%s at %.0f holes/min",
		est.Remaining, est.TimeLeft.Round(time.Second), rate))
}

func (a *App) refreshSessionLabel() {
	if len(a.session.Holes) == 0 {
		a.sessionLabel.SetText("No holes loaded")
		return
	}
	a.sessionLabel.SetText(fmt.Sprintf("%s — %d holes (%s)",
		a.session.Name, len(a.session.Holes), a.session.Source))
}

// ─── Tube Sheet Panel ──────────────────────────────────────

func (a *App) buildSheetPanel() fyne.CanvasObject {
	a.sheetCanvas = widgets.NewTubeSheetCanvas(900, 560)

	return container.NewBorder(
		nil,
		widgets.RenderStatusLegend(),
		nil, nil,
		container.NewScroll(a.sheetCanvas),
	)
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.defectsContainer = container.NewVBox()
	a.refreshDefectsList()

	return container.NewBorder(
		widget.NewLabelWithStyle("Defects and Errors", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(a.defectsContainer),
	)
}

func (a *App) refreshDefectsList() {
	a.defectsContainer.RemoveAll()

	var flagged []model.Hole
	for _, h := range a.session.Holes {
		if h.Status == model.StatusDefective || h.Status == model.StatusError {
			flagged = append(flagged, h)
		}
	}

	if len(flagged) == 0 {
		a.defectsContainer.Add(widget.NewLabel("No defective or errored holes."))
		return
	}

	center := a.agg.Center()
	for _, h := range flagged {
		hole := h // capture
		row := container.NewBorder(nil, nil,
			nil,
			widget.NewButtonWithIcon("Mark Qualified", theme.ConfirmIcon(), func() {
				a.applyCorrection(hole.ID, model.StatusQualified)
			}),
			widget.NewLabel(widgets.FormatHoleTooltip(hole, center)),
		)
		a.defectsContainer.Add(row)
	}
}

// ─── Hole loading and status flow ──────────────────────────

// loadHoles replaces the active hole set: grid indices are inferred for
// holes that did not bring their own, the aggregator reloads (publishing
// fresh snapshots to all views), and the canvases redraw. Any running
// simulation is stopped first.
func (a *App) loadHoles(holes []model.Hole, source string) {
	a.stopSimulation()
	a.history.Clear()

	var stats grid.Stats
	if missingIndices(holes) {
		stats = grid.AssignIndices(holes, 0)
	}
	a.session.Holes = holes
	a.session.Source = source
	a.session.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	a.agg.Load(holes)
	a.sheetCanvas.SetHoles(holes, a.agg.Center())
	a.refreshSessionLabel()
	a.refreshDefectsList()
	a.refreshEstimate()

	a.log.Info("holes loaded",
		"source", source,
		"count", len(holes),
		"rows", stats.Rows,
		"columns", stats.Columns)
}

// missingIndices reports whether any hole still lacks a grid position
// (imported result lists carry their own row/column columns).
func missingIndices(holes []model.Hole) bool {
	for _, h := range holes {
		if h.Row < 0 || h.Column < 0 {
			return true
		}
	}
	return false
}

// setStatus routes one status change through the aggregator and the
// views. Must run on the UI thread.
func (a *App) setStatus(holeID string, status model.HoleStatus) {
	for i := range a.session.Holes {
		if a.session.Holes[i].ID == holeID {
			a.session.Holes[i].Status = status
			break
		}
	}
	a.agg.UpdateHoleStatus(holeID, status)
	a.sheetCanvas.UpdateHoleStatus(holeID, status)
	if status.IsTerminal() {
		a.refreshDefectsList()
		a.refreshEstimate()
	}
}

func (a *App) currentStatus(holeID string) (model.HoleStatus, bool) {
	for i := range a.session.Holes {
		if a.session.Holes[i].ID == holeID {
			return a.session.Holes[i].Status, true
		}
	}
	return model.StatusPending, false
}

// applyCorrection records a manual status change in the undo history
// and applies it.
func (a *App) applyCorrection(holeID string, next model.HoleStatus) {
	prev, ok := a.currentStatus(holeID)
	if !ok || prev == next {
		return
	}
	a.history.Push(Correction{HoleID: holeID, Prev: prev, Next: next})
	a.setStatus(holeID, next)
	a.log.Info("manual correction", "hole", holeID, "from", prev, "to", next)
}

func (a *App) undoCorrection() {
	c, ok := a.history.Undo()
	if !ok {
		return
	}
	a.setStatus(c.HoleID, c.Prev)
}

func (a *App) redoCorrection() {
	c, ok := a.history.Redo()
	if !ok {
		return
	}
	a.setStatus(c.HoleID, c.Next)
}

func (a *App) resetStatuses() {
	if len(a.session.Holes) == 0 {
		return
	}
	dialog.ShowConfirm("Reset All Statuses",
		"Set every hole back to Pending? This clears all detection results.",
		func(ok bool) {
			if !ok {
				return
			}
			a.stopSimulation()
			for i := range a.session.Holes {
				a.session.Holes[i].Status = model.StatusPending
			}
			a.history.Clear()
			a.agg.Load(a.session.Holes)
			a.sheetCanvas.SetHoles(a.session.Holes, a.agg.Center())
			a.refreshDefectsList()
			a.refreshEstimate()
		},
		a.window,
	)
}

// ─── Simulation ────────────────────────────────────────────

func (a *App) startSimulation() {
	if len(a.session.Holes) == 0 {
		dialog.ShowInformation("No holes", "Import a DXF, CSV, or Excel file first.", a.window)
		return
	}
	if a.sim != nil && a.sim.Running() {
		dialog.ShowInformation("Simulation running", "A simulation is already in progress.", a.window)
		return
	}

	// Status changes arrive on the simulator goroutine; marshal them
	// onto the UI thread before touching widgets.
	a.sim = simulator.New(a.session.Settings, func(holeID string, status model.HoleStatus) {
		fyne.Do(func() {
			a.setStatus(holeID, status)
		})
	})
	a.sim.Start(a.session.Holes)
	a.log.Info("simulation started", "holes", len(a.session.Holes), "tick_ms", a.session.Settings.TickMillis)
}

func (a *App) stopSimulation() {
	if a.sim == nil {
		return
	}
	a.sim.Stop()
	a.sim = nil
}

func (a *App) showSimSettingsDialog() {
	s := a.session.Settings

	tickEntry := widget.NewEntry()
	tickEntry.SetText(fmt.Sprintf("%d", s.TickMillis))
	defectiveEntry := widget.NewEntry()
	defectiveEntry.SetText(fmt.Sprintf("%.1f", s.DefectivePct))
	blindEntry := widget.NewEntry()
	blindEntry.SetText(fmt.Sprintf("%.1f", s.BlindPct))
	tieRodEntry := widget.NewEntry()
	tieRodEntry.SetText(fmt.Sprintf("%.1f", s.TieRodPct))
	errorEntry := widget.NewEntry()
	errorEntry.SetText(fmt.Sprintf("%.1f", s.ErrorPct))

	form := dialog.NewForm("Simulation Settings", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Tick (ms)", tickEntry),
			widget.NewFormItem("Defective %", defectiveEntry),
			widget.NewFormItem("Blind %", blindEntry),
			widget.NewFormItem("Tie Rod %", tieRodEntry),
			widget.NewFormItem("Error %", errorEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			var tick int
			var defective, blind, tieRod, errPct float64
			if _, err := fmt.Sscanf(tickEntry.Text, "%d", &tick); err != nil || tick <= 0 {
				dialog.ShowError(fmt.Errorf("tick must be a positive integer"), a.window)
				return
			}
			fmt.Sscanf(defectiveEntry.Text, "%f", &defective)
			fmt.Sscanf(blindEntry.Text, "%f", &blind)
			fmt.Sscanf(tieRodEntry.Text, "%f", &tieRod)
			fmt.Sscanf(errorEntry.Text, "%f", &errPct)
			if defective+blind+tieRod+errPct > 100 {
				dialog.ShowError(fmt.Errorf("failure percentages must not exceed 100"), a.window)
				return
			}

			a.session.Settings.TickMillis = tick
			a.session.Settings.DefectivePct = defective
			a.session.Settings.BlindPct = blind
			a.session.Settings.TieRodPct = tieRod
			a.session.Settings.ErrorPct = errPct
			a.config.SimDefaults = a.session.Settings
			a.saveConfig()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(380, 320))
	form.Show()
}

// ─── Import ────────────────────────────────────────────────

func (a *App) importFile(kind string) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		var result importer.ImportResult
		switch kind {
		case "dxf":
			result = importer.ImportDXF(path)
		case "xlsx":
			result = importer.ImportExcel(path)
		default:
			result = importer.ImportCSV(path)
		}
		a.handleImportResult(result, path)
	}, a.window)
}

func (a *App) handleImportResult(result importer.ImportResult, path string) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	if len(result.Warnings) > 0 {
		a.log.Warn("import warnings", "path", path, "count", len(result.Warnings))
	}
	if len(result.Holes) == 0 {
		dialog.ShowInformation("Nothing imported", "No holes were found in the file.", a.window)
		return
	}

	a.loadHoles(result.Holes, path)

	msg := fmt.Sprintf("Imported %d holes.", len(result.Holes))
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\n\n%d warnings:\n%s",
			len(result.Warnings), strings.Join(result.Warnings, "\n"))
	}
	dialog.ShowInformation("Import complete", msg, a.window)
}

// ─── Sessions ──────────────────────────────────────────────

func (a *App) newSession() {
	a.stopSimulation()
	a.history.Clear()
	a.session = model.NewInspectionSession()
	a.session.Settings = a.config.SimDefaults
	a.agg.Load(nil)
	a.sheetCanvas.SetHoles(nil, model.Point2D{})
	a.refreshSessionLabel()
	a.refreshDefectsList()
	a.refreshEstimate()
}

func (a *App) saveSession() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.SaveSession(path, &a.session); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config.AddRecentSession(path)
		a.saveConfig()
	}, a.window)
	d.SetFileName(a.session.Name + ".json")
	d.Show()
}

func (a *App) openSession() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		session, err := project.LoadSession(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.stopSimulation()
		a.history.Clear()
		a.session = session
		a.agg.Load(session.Holes)
		a.sheetCanvas.SetHoles(session.Holes, a.agg.Center())
		a.refreshSessionLabel()
		a.refreshDefectsList()
		a.config.AddRecentSession(path)
		a.saveConfig()
	}, a.window)
	d.Show()
}

func (a *App) saveConfig() {
	if err := project.SaveAppConfig(project.DefaultConfigPath(), a.config); err != nil {
		a.log.Warn("failed to save app config", "error", err)
	}
}

// showImportExportDialog displays the full-data backup dialog: the app
// config plus every saved session in one JSON file.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		sessions, err := project.LoadAllSessions(project.DefaultSessionsDir())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, sessions); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("holemap-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current application settings.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					a.saveConfig()
					if err := project.RestoreSessions(project.DefaultSessionsDir(), backup.Sessions); err != nil {
						dialog.ShowError(fmt.Errorf("failed to restore sessions: %w", err), a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Restored %d sessions from backup created at %s.",
							len(backup.Sessions), backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (settings and saved sessions) to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(460, 260))
	d.Show()
}

// ─── Export ────────────────────────────────────────────────

func (a *App) exportReport(kind string) {
	if len(a.session.Holes) == 0 {
		dialog.ShowInformation("No holes", "Import holes before exporting a report.", a.window)
		return
	}

	settings := a.config.ReportDefaults
	settings.Workpiece = a.session.Name
	report := export.BuildReport(a.session.Holes, a.agg, settings)

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()

		var exportErr error
		switch kind {
		case "csv":
			exportErr = export.ExportCSV(path, report)
		case "xlsx":
			exportErr = export.ExportExcel(path, report)
		case "labels":
			exportErr = export.ExportDefectLabels(path, report)
		default:
			exportErr = export.ExportPDF(path, report)
		}
		if exportErr != nil {
			dialog.ShowError(exportErr, a.window)
			return
		}
		a.log.Info("report exported", "kind", kind, "path", path)
		dialog.ShowInformation("Export complete", "Saved to "+path, a.window)
	}, a.window)

	ext := kind
	if kind == "labels" {
		ext = "pdf"
	}
	d.SetFileName(fmt.Sprintf("%s-report.%s", a.session.Name, ext))
	d.Show()
}
