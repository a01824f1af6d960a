// HoleMap — Tube Sheet Hole Inspection
//
// A cross-platform desktop application for visualizing tube sheet
// drawings and tracking the detection status of every hole across
// four angular sectors.
//
// Build:
//   go build -o holemap ./cmd/holemap
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o holemap.exe ./cmd/holemap
//   GOOS=darwin  GOARCH=amd64 go build -o holemap-darwin ./cmd/holemap
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/holemap/holemap/internal/ui"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	application := app.NewWithID("com.holemap.holemap")
	application.Settings().SetTheme(ui.NewHoleMapTheme())
	window := application.NewWindow("HoleMap — Tube Sheet Hole Inspection")

	appUI := ui.NewApp(window, log)
	appUI.SetupMenus() // Setup the native menu bar
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1100, 720))
	window.CenterOnScreen()
	window.ShowAndRun()
}
