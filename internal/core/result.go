// Package core implements the theme synchronization agent: the
// reconciliation engine and its lifecycle.
package core

import "github.com/darkawower/themeshift/internal/theme"

// Status is a point-in-time view of the synchronized settings.
type Status struct {
	// Platform is the name of the settings backend in use.
	Platform string

	// Supported indicates if the backend talks to a real desktop.
	Supported bool

	// AutomaticMode indicates if the ambient signal drives the color scheme.
	AutomaticMode bool

	// ColorScheme is the raw color-scheme value.
	ColorScheme string

	// Mode is the mode ColorScheme denotes.
	Mode theme.Mode

	// Wallpapers are the live wallpaper URIs.
	Wallpapers ModeMemory

	// Light and Dark are the stored snapshots.
	Light Snapshot
	Dark  Snapshot
}

// Snapshot returns the stored snapshot of mode.
func (s *Status) Snapshot(mode theme.Mode) Snapshot {
	if mode == theme.Dark {
		return s.Dark
	}
	return s.Light
}

// Color represents a color extracted from an image.
type Color struct {
	R, G, B uint8
}

// Hex returns the hex representation of the color.
func (c Color) Hex() string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func hexByte(b uint8) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0x0f]})
}

// AccentResult is an accent color suggested for a wallpaper.
type AccentResult struct {
	// Mode is the mode whose wallpaper was analyzed.
	Mode theme.Mode

	// Wallpaper is the analyzed file path.
	Wallpaper string

	// Dominant lists the dominant colors, most frequent first.
	Dominant []Color

	// Accent is the suggested accent-color value.
	Accent string

	// Current is the live accent-color value.
	Current string
}
