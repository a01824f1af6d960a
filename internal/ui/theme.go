// Package ui provides the HoleMap application UI components.
//
// This file defines a custom compact Fyne theme for a dense inspection layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// HoleMapTheme wraps the default Fyne theme with compact sizing
// overrides so large tube sheets and their progress panels fit on one
// screen.
type HoleMapTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewHoleMapTheme creates a new HoleMapTheme with the system default variant.
func NewHoleMapTheme() *HoleMapTheme {
	return &HoleMapTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// NewHoleMapThemeWithVariant creates a HoleMapTheme with a specific light/dark variant.
func NewHoleMapThemeWithVariant(variant fyne.ThemeVariant) *HoleMapTheme {
	return &HoleMapTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *HoleMapTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// Color delegates to the base theme with the stored variant.
func (t *HoleMapTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *HoleMapTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *HoleMapTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense layout.
func (t *HoleMapTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
