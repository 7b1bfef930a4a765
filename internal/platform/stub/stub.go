// Package stub provides the file-backed fallback platform used where no
// desktop settings daemon is available. Settings live in a JSON file and
// change notifications come from watching that file.
package stub

import (
	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/platform"
)

func init() {
	platform.Register("file", func(cfg *config.Config) platform.Platform {
		return New(cfg.Store.Path)
	})
}

// Platform implements platform.Platform on top of a settings file.
type Platform struct {
	settings *FileBackend
	watcher  *FileWatcher
	commands *platform.ExecRunner
}

// New creates a file platform storing settings at path.
func New(path string) *Platform {
	backend := NewFileBackend(path)
	return &Platform{
		settings: backend,
		watcher:  NewFileWatcher(backend),
		commands: platform.NewExecRunner(),
	}
}

// Name returns the platform identifier.
func (p *Platform) Name() string {
	return "file"
}

// IsSupported returns false: there is no ambient signal on this platform.
func (p *Platform) IsSupported() bool {
	return false
}

// Settings returns the JSON file backend.
func (p *Platform) Settings() platform.SettingsBackend {
	return p.settings
}

// Watcher returns the file change watcher.
func (p *Platform) Watcher() platform.WatchService {
	return p.watcher
}

// Ambient returns a service that never connects.
func (p *Platform) Ambient() platform.AmbientService {
	return platform.UnsupportedAmbient{}
}

// Commands returns the external command runner.
func (p *Platform) Commands() platform.CommandService {
	return p.commands
}

// StoresShellTheme reports true: without a shell to notify, the theme name is
// kept in the settings file like every other key.
func (p *Platform) StoresShellTheme() bool {
	return true
}

// Compile-time checks.
var (
	_ platform.Platform        = (*Platform)(nil)
	_ platform.ShellThemeStore = (*Platform)(nil)
)
