package core

import "github.com/darkawower/themeshift/internal/theme"

// Scope names the settings scope a WriteSetting targets.
type Scope int

const (
	ScopeBackground Scope = iota
	ScopeInterface
)

func (s Scope) String() string {
	switch s {
	case ScopeBackground:
		return "background"
	case ScopeInterface:
		return "interface"
	}
	return "unknown"
}

// Effect is a single side effect produced by a planner.
type Effect interface {
	isEffect()
}

// WriteSetting stores Value under Key in Scope.
type WriteSetting struct {
	Scope Scope
	Key   string
	Value string
}

// RememberWallpaper memorizes URI as the wallpaper of Mode.
type RememberWallpaper struct {
	Mode theme.Mode
	URI  string
}

// SaveSnapshot persists Snapshot as the appearance of Mode.
type SaveSnapshot struct {
	Mode     theme.Mode
	Snapshot Snapshot
}

// SetShellTheme selects the named shell theme.
type SetShellTheme struct {
	Name string
}

// ResetShellTheme removes the shell theme override.
type ResetShellTheme struct{}

func (WriteSetting) isEffect()      {}
func (RememberWallpaper) isEffect() {}
func (SaveSnapshot) isEffect()      {}
func (SetShellTheme) isEffect()     {}
func (ResetShellTheme) isEffect()   {}

// PlanWallpaper decides what to do after the wallpaper of slot changed to
// value while the desktop is in mode scheme.
//
// Paired wallpapers are always accepted. An unpaired light wallpaper set while
// dark is reverted to the memorized one. An unpaired dark wallpaper set while
// light is left alone and not memorized; the next ambient transition into
// dark restores the memorized one.
func PlanWallpaper(slot theme.Mode, value string, scheme theme.Mode, mem ModeMemory) []Effect {
	if value == mem.Get(slot) {
		return nil
	}

	if theme.IsPaired(value) || slot == scheme {
		return []Effect{RememberWallpaper{Mode: slot, URI: value}}
	}

	if slot == theme.Light && mem.Light != "" {
		return []Effect{WriteSetting{Scope: ScopeBackground, Key: KeyLightWallpaper, Value: mem.Light}}
	}

	return nil
}

// PlanStyleChange captures the live appearance into the snapshot of the mode
// being left and applies the snapshot of entering.
func PlanStyleChange(entering theme.Mode, live, target Snapshot) []Effect {
	effects := []Effect{SaveSnapshot{Mode: entering.Opposite(), Snapshot: live}}
	return append(effects, PlanApply(target)...)
}

// PlanAmbient switches the color scheme to follow the ambient signal and
// repairs the wallpaper of the target mode against memory. live holds the
// wallpapers currently set.
func PlanAmbient(active bool, colorScheme string, live, mem ModeMemory) []Effect {
	target := theme.Light
	if active {
		target = theme.Dark
	}

	var effects []Effect
	if theme.FromColorScheme(colorScheme) != target {
		effects = append(effects, WriteSetting{Scope: ScopeInterface, Key: KeyColorScheme, Value: target.ColorScheme()})
	}

	if want := mem.Get(target); want != "" && live.Get(target) != want {
		effects = append(effects, WriteSetting{Scope: ScopeBackground, Key: WallpaperKey(target), Value: want})
	}

	return effects
}

// PlanApply writes every captured attribute of snap to the desktop.
func PlanApply(snap Snapshot) []Effect {
	var effects []Effect
	for _, w := range []struct{ key, value string }{
		{KeyGTKTheme, snap.GTK},
		{KeyIconTheme, snap.Icon},
		{KeyCursorTheme, snap.Cursor},
		{KeyAccentColor, snap.Accent},
	} {
		if w.value != "" {
			effects = append(effects, WriteSetting{Scope: ScopeInterface, Key: w.key, Value: w.value})
		}
	}

	if snap.Shell != "" && snap.Shell != DefaultShellTheme {
		effects = append(effects, SetShellTheme{Name: snap.Shell})
	} else {
		effects = append(effects, ResetShellTheme{})
	}

	return effects
}
