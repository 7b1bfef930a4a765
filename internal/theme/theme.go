// Package theme defines the light/dark mode and the conventions that map
// desktop settings values onto it.
package theme

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Mode is one of the two appearance modes.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Canonical color-scheme values written by the agent.
const (
	SchemeDefault    = "default"
	SchemePreferDark = "prefer-dark"
)

// FromColorScheme derives the mode from a color-scheme value. Any value
// mentioning "dark" is dark.
func FromColorScheme(value string) Mode {
	if strings.Contains(value, "dark") {
		return Dark
	}
	return Light
}

// Parse parses a mode name.
func Parse(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("invalid mode: %q (must be light or dark)", s)
}

// ColorScheme returns the color-scheme value that selects m.
func (m Mode) ColorScheme() string {
	if m == Dark {
		return SchemePreferDark
	}
	return SchemeDefault
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// pairedName matches file names authored as one half of a light/dark pair.
var pairedName = regexp.MustCompile(`^.+-([ld])\.\w+$`)

// PairedMode reports which half of a wallpaper pair uri belongs to. A leading
// file:// scheme is ignored.
func PairedMode(uri string) (Mode, bool) {
	if uri == "" {
		return "", false
	}
	name := path.Base(strings.TrimPrefix(uri, "file://"))
	m := pairedName.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	if m[1] == "d" {
		return Dark, true
	}
	return Light, true
}

// IsPaired reports whether uri names a wallpaper from a light/dark pair.
func IsPaired(uri string) bool {
	_, ok := PairedMode(uri)
	return ok
}
