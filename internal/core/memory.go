package core

import "github.com/darkawower/themeshift/internal/theme"

// ModeMemory holds the last accepted wallpaper per mode. An empty string
// means nothing has been memorized.
type ModeMemory struct {
	Light string
	Dark  string
}

// Get returns the memorized wallpaper of mode.
func (m ModeMemory) Get(mode theme.Mode) string {
	if mode == theme.Dark {
		return m.Dark
	}
	return m.Light
}

// Set memorizes uri for mode.
func (m *ModeMemory) Set(mode theme.Mode, uri string) {
	if mode == theme.Dark {
		m.Dark = uri
		return
	}
	m.Light = uri
}
