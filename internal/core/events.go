package core

import (
	"github.com/darkawower/themeshift/internal/platform"
	"github.com/darkawower/themeshift/internal/theme"
)

// Event is a notification routed to the engine by the agent loop.
type Event interface {
	isEvent()
}

// WallpaperChanged reports a write to the wallpaper key of Slot.
type WallpaperChanged struct {
	Slot theme.Mode
}

// StyleChanged reports a write to the color-scheme key.
type StyleChanged struct{}

// AmbientChanged reports a new ambient activation state.
type AmbientChanged struct {
	Active bool
}

// AutomaticModeChanged reports a write to the automatic-mode key.
type AutomaticModeChanged struct{}

// ambientReady carries the result of an asynchronous ambient connect.
type ambientReady struct {
	handle  platform.AmbientHandle
	active  bool
	readErr error
	err     error
}

func (WallpaperChanged) isEvent()     {}
func (StyleChanged) isEvent()         {}
func (AmbientChanged) isEvent()       {}
func (AutomaticModeChanged) isEvent() {}
func (ambientReady) isEvent()         {}
