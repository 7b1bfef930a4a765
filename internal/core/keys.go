package core

import "github.com/darkawower/themeshift/internal/theme"

// Background keys.
const (
	KeyLightWallpaper = "picture-uri"
	KeyDarkWallpaper  = "picture-uri-dark"
)

// Interface keys.
const (
	KeyGTKTheme    = "gtk-theme"
	KeyIconTheme   = "icon-theme"
	KeyCursorTheme = "cursor-theme"
	KeyAccentColor = "accent-color"
	KeyColorScheme = "color-scheme"
)

// KeyAutomaticMode is the agent key gating ambient reconciliation.
const KeyAutomaticMode = "automatic-mode"

// DefaultShellTheme is the shell theme value meaning "no override".
const DefaultShellTheme = "Default"

// WallpaperKey returns the background key holding the wallpaper of mode.
func WallpaperKey(mode theme.Mode) string {
	if mode == theme.Dark {
		return KeyDarkWallpaper
	}
	return KeyLightWallpaper
}

// snapshotKey returns the agent key storing attr for mode, e.g. dark-gtk-theme.
func snapshotKey(mode theme.Mode, attr string) string {
	return mode.String() + "-" + attr
}
