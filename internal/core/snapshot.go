package core

import (
	"context"

	"github.com/darkawower/themeshift/internal/store"
	"github.com/darkawower/themeshift/internal/theme"
)

// Snapshot is the set of appearance attributes remembered for one mode.
type Snapshot struct {
	GTK    string `json:"gtk_theme"`
	Icon   string `json:"icon_theme"`
	Cursor string `json:"cursor_theme"`
	Accent string `json:"accent_color"`
	Shell  string `json:"shell_theme"`
}

// IsZero reports whether nothing has been captured.
func (s Snapshot) IsZero() bool {
	return s == Snapshot{}
}

// snapshotField pairs an interface key with the snapshot attribute it feeds.
type snapshotField struct {
	attr string
	get  func(*Snapshot) *string
}

var snapshotFields = []snapshotField{
	{KeyGTKTheme, func(s *Snapshot) *string { return &s.GTK }},
	{KeyIconTheme, func(s *Snapshot) *string { return &s.Icon }},
	{KeyCursorTheme, func(s *Snapshot) *string { return &s.Cursor }},
	{KeyAccentColor, func(s *Snapshot) *string { return &s.Accent }},
	{"shell-theme", func(s *Snapshot) *string { return &s.Shell }},
}

// Snapshots persists one Snapshot per mode in the agent settings.
type Snapshots struct {
	settings *store.Settings
}

// NewSnapshots creates a snapshot store over the agent settings.
func NewSnapshots(settings *store.Settings) *Snapshots {
	return &Snapshots{settings: settings}
}

// Load reads the snapshot of mode. Unset attributes are empty.
func (s *Snapshots) Load(ctx context.Context, mode theme.Mode) Snapshot {
	var snap Snapshot
	for _, f := range snapshotFields {
		*f.get(&snap) = s.settings.String(ctx, snapshotKey(mode, f.attr), "")
	}
	return snap
}

// Save stores snap as the snapshot of mode.
func (s *Snapshots) Save(ctx context.Context, mode theme.Mode, snap Snapshot) {
	for _, f := range snapshotFields {
		s.settings.SetString(ctx, snapshotKey(mode, f.attr), *f.get(&snap))
	}
}
