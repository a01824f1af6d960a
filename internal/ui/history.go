package ui

import "github.com/holemap/holemap/internal/model"

const defaultMaxDepth = 50

// Correction records a single manual status change so it can be undone.
type Correction struct {
	HoleID string
	Prev   model.HoleStatus
	Next   model.HoleStatus
}

// History manages undo/redo stacks of manual status corrections.
type History struct {
	undoStack []Correction
	redoStack []Correction
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push records a correction onto the undo stack and clears the redo
// stack. Call after the correction has been applied.
func (h *History) Push(c Correction) {
	h.undoStack = append(h.undoStack, c)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent correction from the undo stack and pushes
// it onto the redo stack. Returns the correction to revert and true, or
// a zero correction and false if nothing to undo.
func (h *History) Undo() (Correction, bool) {
	if len(h.undoStack) == 0 {
		return Correction{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, last)
	return last, true
}

// Redo pops the most recent correction from the redo stack and pushes
// it back onto the undo stack. Returns the correction to re-apply and
// true, or a zero correction and false if nothing to redo.
func (h *History) Redo() (Correction, bool) {
	if len(h.redoStack) == 0 {
		return Correction{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, last)
	return last, true
}

// CanUndo returns true if there is at least one correction to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one correction to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}
