// Package gnome provides the GNOME platform: dconf for settings, D-Bus for
// change notifications and the night light signal, gsettings for the shell
// theme.
package gnome

import (
	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/platform"
)

func init() {
	platform.Register("gnome", func(cfg *config.Config) platform.Platform {
		return New(cfg)
	})
}

// Platform implements platform.Platform for GNOME sessions.
type Platform struct {
	commands *platform.ExecRunner
	settings *Dconf
	watcher  *Watcher
	ambient  *Ambient
}

// New creates a new GNOME platform instance.
func New(cfg *config.Config) *Platform {
	commands := platform.NewExecRunner()
	return &Platform{
		commands: commands,
		settings: NewDconf(commands),
		watcher:  NewWatcher(),
		ambient:  NewAmbient(cfg.Ambient),
	}
}

// Name returns the platform identifier.
func (p *Platform) Name() string {
	return "gnome"
}

// IsSupported returns true as GNOME is fully supported.
func (p *Platform) IsSupported() bool {
	return true
}

// Settings returns the dconf settings backend.
func (p *Platform) Settings() platform.SettingsBackend {
	return p.settings
}

// Watcher returns the dconf change notification service.
func (p *Platform) Watcher() platform.WatchService {
	return p.watcher
}

// Ambient returns the night light service.
func (p *Platform) Ambient() platform.AmbientService {
	return p.ambient
}

// Commands returns the external command runner.
func (p *Platform) Commands() platform.CommandService {
	return p.commands
}

// Compile-time check that Platform implements platform.Platform.
var _ platform.Platform = (*Platform)(nil)
