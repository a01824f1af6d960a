package model

import (
	"math"
	"testing"
	"time"
)

func TestHoleStatusString(t *testing.T) {
	cases := map[HoleStatus]string{
		StatusPending:   "Pending",
		StatusDetecting: "Detecting",
		StatusQualified: "Qualified",
		StatusDefective: "Defective",
		StatusBlind:     "Blind",
		StatusTieRod:    "TieRod",
		StatusError:     "Error",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestHoleStatusTerminalAndCompleted(t *testing.T) {
	if StatusPending.IsTerminal() || StatusDetecting.IsTerminal() {
		t.Error("pending and detecting are not terminal")
	}
	for _, s := range []HoleStatus{StatusQualified, StatusDefective, StatusBlind, StatusTieRod, StatusError} {
		if !s.IsTerminal() {
			t.Errorf("%v should be terminal", s)
		}
	}
	if StatusError.IsCompleted() {
		t.Error("error is terminal but must not count as completed")
	}
	for _, s := range []HoleStatus{StatusQualified, StatusDefective, StatusBlind, StatusTieRod} {
		if !s.IsCompleted() {
			t.Errorf("%v should count as completed", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want HoleStatus
		ok   bool
	}{
		{"qualified", StatusQualified, true},
		{"OK", StatusQualified, true},
		{"NG", StatusDefective, true},
		{"tie-rod", StatusTieRod, true},
		{"Tie Rod", StatusTieRod, true},
		{"", StatusPending, true},
		{"bogus", StatusPending, false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseStatus(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewHole(t *testing.T) {
	h := NewHole("H00001", 12.5, -3.25, 4.0)
	if h.ID != "H00001" || h.Center.X != 12.5 || h.Center.Y != -3.25 {
		t.Errorf("unexpected hole: %+v", h)
	}
	if h.Status != StatusPending {
		t.Errorf("new holes start pending, got %v", h.Status)
	}
	if h.Row != -1 || h.Column != -1 {
		t.Errorf("new holes have no grid position, got (%d,%d)", h.Row, h.Column)
	}
}

func TestBoundingBox(t *testing.T) {
	holes := []Hole{
		NewHole("A", -10, 5, 1),
		NewHole("B", 30, -20, 1),
		NewHole("C", 0, 40, 1),
	}
	min, max := BoundingBox(holes)
	if min.X != -10 || min.Y != -20 || max.X != 30 || max.Y != 40 {
		t.Errorf("unexpected box: min=%+v max=%+v", min, max)
	}

	min, max = BoundingBox(nil)
	if min != (Point2D{}) || max != (Point2D{}) {
		t.Error("empty collection should yield zero box")
	}
}

func TestSectorAggregateCompletionPercent(t *testing.T) {
	agg := SectorAggregate{Total: 200, Completed: 50}
	if got := agg.CompletionPercent(); math.Abs(got-25.0) > 1e-9 {
		t.Errorf("expected 25%%, got %g", got)
	}

	empty := SectorAggregate{}
	if empty.CompletionPercent() != 0 {
		t.Error("zero-total sector should report 0%")
	}
}

func TestSectorAggregateDisplayColor(t *testing.T) {
	if (SectorAggregate{Total: 10, Completed: 3, Defective: 1}).DisplayColor() != StatusColor(StatusDefective) {
		t.Error("any defect should color the sector red")
	}
	if (SectorAggregate{Total: 10, Completed: 10, Qualified: 10}).DisplayColor() != StatusColor(StatusQualified) {
		t.Error("a fully qualified sector should be green")
	}
	if (SectorAggregate{Total: 10, Completed: 2, Qualified: 2}).DisplayColor() != StatusColor(StatusDetecting) {
		t.Error("an in-progress sector should be blue")
	}
	if (SectorAggregate{Total: 10}).DisplayColor() != StatusColor(StatusPending) {
		t.Error("an untouched sector should be gray")
	}
}

func TestOverallAggregateAdd(t *testing.T) {
	var o OverallAggregate
	o.Add(SectorAggregate{Total: 10, Completed: 4, Qualified: 3, Defective: 1})
	o.Add(SectorAggregate{Total: 5, Completed: 2, Blind: 1, TieRod: 1, Errors: 1})
	if o.Total != 15 || o.Completed != 6 || o.Qualified != 3 || o.Defective != 1 {
		t.Errorf("unexpected overall: %+v", o)
	}
	if o.Blind != 1 || o.TieRod != 1 || o.Errors != 1 {
		t.Errorf("unexpected overall buckets: %+v", o)
	}
}

func TestGridPattern(t *testing.T) {
	holes := GridPattern(3, 4, 25, 4)
	if len(holes) != 12 {
		t.Fatalf("expected 12 holes, got %d", len(holes))
	}
	// Pattern is centered on the origin.
	min, max := BoundingBox(holes)
	if min.X != -max.X || min.Y != -max.Y {
		t.Errorf("pattern should be origin-centered: min=%+v max=%+v", min, max)
	}
	// IDs are sequential and unique.
	if holes[0].ID != "H00001" || holes[11].ID != "H00012" {
		t.Errorf("unexpected ids: %s .. %s", holes[0].ID, holes[11].ID)
	}
	if GridPattern(0, 5, 25, 4) != nil {
		t.Error("degenerate dimensions should yield nil")
	}
}

func TestAnnularPattern(t *testing.T) {
	holes := AnnularPattern(3, 30, 4)
	// 1 center + 6 + 12.
	if len(holes) != 19 {
		t.Fatalf("expected 19 holes, got %d", len(holes))
	}
	if holes[0].Center != (Point2D{}) {
		t.Error("first hole should sit at the center")
	}
	// Outer ring holes sit at radius 60.
	last := holes[len(holes)-1]
	r := math.Hypot(last.Center.X, last.Center.Y)
	if math.Abs(r-60) > 1e-9 {
		t.Errorf("expected outer ring radius 60, got %g", r)
	}
}

func TestEstimateRemaining(t *testing.T) {
	overall := OverallAggregate{Total: 100, Completed: 40, Errors: 10}
	est := EstimateRemaining(overall, 25)
	if est.Remaining != 50 {
		t.Errorf("expected 50 remaining, got %d", est.Remaining)
	}
	if est.TimeLeft != 2*time.Minute {
		t.Errorf("expected 2m left at 25/min, got %v", est.TimeLeft)
	}

	if EstimateRemaining(overall, 0).TimeLeft != 0 {
		t.Error("unknown rate should yield zero time estimate")
	}
	done := OverallAggregate{Total: 10, Completed: 10}
	if EstimateRemaining(done, 5).Remaining != 0 {
		t.Error("finished inspection should have nothing remaining")
	}
}

func TestNewInspectionSession(t *testing.T) {
	s := NewInspectionSession()
	if s.ID == "" || len(s.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", s.ID)
	}
	if s.Name != "Untitled" {
		t.Errorf("expected Untitled, got %q", s.Name)
	}
	if s.Settings.TickMillis != DefaultSimSettings().TickMillis {
		t.Error("session should carry default sim settings")
	}
}
