package model

import (
	"image/color"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HoleStatus represents the detection state of a single hole.
type HoleStatus int

const (
	StatusPending   HoleStatus = iota // Not yet inspected
	StatusDetecting                   // Probe currently in the hole
	StatusQualified                   // Inspected, within tolerance
	StatusDefective                   // Inspected, out of tolerance
	StatusBlind                       // Blind hole, skipped by the probe
	StatusTieRod                      // Tie-rod hole, structurally excluded
	StatusError                       // Inspection aborted, needs re-run
)

func (s HoleStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusDetecting:
		return "Detecting"
	case StatusQualified:
		return "Qualified"
	case StatusDefective:
		return "Defective"
	case StatusBlind:
		return "Blind"
	case StatusTieRod:
		return "TieRod"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the status ends the automatic detection
// sequence for a hole. Terminal holes only change again through an
// explicit manual correction.
func (s HoleStatus) IsTerminal() bool {
	switch s {
	case StatusQualified, StatusDefective, StatusBlind, StatusTieRod, StatusError:
		return true
	}
	return false
}

// IsCompleted reports whether the status counts toward completion
// progress. Error is terminal but not completed: an errored hole still
// needs a re-run, so it must not advance the progress percentage.
func (s HoleStatus) IsCompleted() bool {
	switch s {
	case StatusQualified, StatusDefective, StatusBlind, StatusTieRod:
		return true
	}
	return false
}

// ParseStatus converts a status string (as found in CSV hole lists and
// saved sessions) to a HoleStatus. Returns the status and true if recognized.
// An empty string maps to Pending.
func ParseStatus(s string) (HoleStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending", "p":
		return StatusPending, true
	case "detecting":
		return StatusDetecting, true
	case "qualified", "ok", "pass":
		return StatusQualified, true
	case "defective", "ng", "fail":
		return StatusDefective, true
	case "blind":
		return StatusBlind, true
	case "tierod", "tie-rod", "tie rod":
		return StatusTieRod, true
	case "error", "err":
		return StatusError, true
	default:
		return StatusPending, false
	}
}

// StatusColor returns the display color for a hole status, shared by the
// tube-sheet canvas and the PDF report renderer.
func StatusColor(s HoleStatus) color.NRGBA {
	switch s {
	case StatusDetecting:
		return color.NRGBA{R: 33, G: 150, B: 243, A: 255} // blue
	case StatusQualified:
		return color.NRGBA{R: 76, G: 175, B: 80, A: 255} // green
	case StatusDefective:
		return color.NRGBA{R: 244, G: 67, B: 54, A: 255} // red
	case StatusBlind:
		return color.NRGBA{R: 255, G: 152, B: 0, A: 255} // orange
	case StatusTieRod:
		return color.NRGBA{R: 156, G: 39, B: 176, A: 255} // purple
	case StatusError:
		return color.NRGBA{R: 121, G: 85, B: 72, A: 255} // brown
	default:
		return color.NRGBA{R: 158, G: 158, B: 158, A: 255} // gray
	}
}

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Hole represents one inspection point on the tube sheet.
type Hole struct {
	ID     string     `json:"id"`
	Center Point2D    `json:"center"`
	Radius float64    `json:"radius"` // mm
	Status HoleStatus `json:"status"`

	// Grid indices inferred from the layout; -1 when unknown.
	Row    int `json:"row"`
	Column int `json:"column"`
}

// NewHole creates a pending hole with no grid position.
func NewHole(id string, x, y, radius float64) Hole {
	return Hole{
		ID:     id,
		Center: Point2D{X: x, Y: y},
		Radius: radius,
		Status: StatusPending,
		Row:    -1,
		Column: -1,
	}
}

// BoundingBox returns the min and max corners of the hole centers.
// Radii are ignored; the box is only used to locate the sheet center.
func BoundingBox(holes []Hole) (min, max Point2D) {
	if len(holes) == 0 {
		return Point2D{}, Point2D{}
	}
	min = holes[0].Center
	max = holes[0].Center
	for _, h := range holes[1:] {
		if h.Center.X < min.X {
			min.X = h.Center.X
		}
		if h.Center.Y < min.Y {
			min.Y = h.Center.Y
		}
		if h.Center.X > max.X {
			max.X = h.Center.X
		}
		if h.Center.Y > max.Y {
			max.Y = h.Center.Y
		}
	}
	return min, max
}

// Quadrant identifies one of the 4 fixed 90° angular sectors around the
// tube-sheet center. Angles follow the mathematical counter-clockwise
// convention; each range is half-open so a boundary angle belongs to the
// quadrant whose range starts there.
type Quadrant int

const (
	QuadrantI   Quadrant = iota // [0°, 90°)
	QuadrantII                  // [90°, 180°)
	QuadrantIII                 // [180°, 270°)
	QuadrantIV                  // [270°, 360°)

	QuadrantCount = 4
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantI:
		return "Q1"
	case QuadrantII:
		return "Q2"
	case QuadrantIII:
		return "Q3"
	case QuadrantIV:
		return "Q4"
	default:
		return "Unknown"
	}
}

// Quadrants lists all quadrants in display order.
func Quadrants() []Quadrant {
	return []Quadrant{QuadrantI, QuadrantII, QuadrantIII, QuadrantIV}
}

// SectorAggregate holds the live progress counts for one quadrant.
// Completed is always maintained as Qualified+Defective+Blind+TieRod;
// Errors is tracked separately and does not advance completion.
type SectorAggregate struct {
	Quadrant  Quadrant `json:"quadrant"`
	Total     int      `json:"total"`
	Completed int      `json:"completed"`
	Qualified int      `json:"qualified"`
	Defective int      `json:"defective"`
	Blind     int      `json:"blind"`
	TieRod    int      `json:"tie_rod"`
	Errors    int      `json:"errors"`
}

// CompletionPercent returns the completion percentage, derived from the
// counts on every call so it can never drift from them.
func (a SectorAggregate) CompletionPercent() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Completed) / float64(a.Total) * 100.0
}

// DisplayColor returns the representative color for the sector: red if any
// defect was found, green when fully inspected, blue while in progress,
// gray when untouched.
func (a SectorAggregate) DisplayColor() color.NRGBA {
	switch {
	case a.Defective > 0:
		return StatusColor(StatusDefective)
	case a.Total > 0 && a.Completed == a.Total:
		return StatusColor(StatusQualified)
	case a.Completed > 0 || a.Errors > 0:
		return StatusColor(StatusDetecting)
	default:
		return StatusColor(StatusPending)
	}
}

// OverallAggregate is the sum of the four sector aggregates. It is always
// derived on demand, never stored, so it cannot diverge from the sectors.
type OverallAggregate struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Qualified int `json:"qualified"`
	Defective int `json:"defective"`
	Blind     int `json:"blind"`
	TieRod    int `json:"tie_rod"`
	Errors    int `json:"errors"`
}

// CompletionPercent returns the overall completion percentage.
func (o OverallAggregate) CompletionPercent() float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Completed) / float64(o.Total) * 100.0
}

// Add accumulates a sector aggregate into the overall totals.
func (o *OverallAggregate) Add(a SectorAggregate) {
	o.Total += a.Total
	o.Completed += a.Completed
	o.Qualified += a.Qualified
	o.Defective += a.Defective
	o.Blind += a.Blind
	o.TieRod += a.TieRod
	o.Errors += a.Errors
}

// InspectionSession ties a loaded hole set and its settings together for
// save/load.
type InspectionSession struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Source    string      `json:"source"` // Path of the imported drawing or list
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
	Holes     []Hole      `json:"holes"`
	Settings  SimSettings `json:"settings"`
}

// NewInspectionSession creates an empty unsaved session.
func NewInspectionSession() InspectionSession {
	now := time.Now().UTC().Format(time.RFC3339)
	return InspectionSession{
		ID:        uuid.New().String()[:8],
		Name:      "Untitled",
		CreatedAt: now,
		UpdatedAt: now,
		Settings:  DefaultSimSettings(),
	}
}

// Touch updates the session's modification timestamp.
func (s *InspectionSession) Touch() {
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
