package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/platform"
	"github.com/darkawower/themeshift/internal/store"
	"github.com/darkawower/themeshift/internal/theme"
)

// Engine reconciles the desktop settings after each notification. It is not
// safe for concurrent use; the agent calls it from a single goroutine.
type Engine struct {
	platform   platform.Platform
	background *store.Settings
	iface      *store.Settings
	shell      *store.Settings
	agent      *store.Settings
	snapshots  *Snapshots
	commands   platform.CommandService
	logger     *slog.Logger

	shellSchema string
	shellKey    string
	shellStored bool
	syncCmds    bool

	memory        ModeMemory
	scheme        theme.Mode
	ambientKnown  bool
	ambientActive bool

	stopped atomic.Bool
	wg      sync.WaitGroup
}

// Option is a function that configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSyncCommands runs shell theme commands on the calling goroutine.
func WithSyncCommands() Option {
	return func(e *Engine) {
		e.syncCmds = true
	}
}

// NewEngine creates an engine over the settings scopes named in cfg.
func NewEngine(p platform.Platform, cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		platform:    p,
		commands:    p.Commands(),
		logger:      slog.Default(),
		shellSchema: cfg.Desktop.ShellSchema,
		shellKey:    cfg.Desktop.ShellKey,
	}

	if s, ok := p.(platform.ShellThemeStore); ok {
		e.shellStored = s.StoresShellTheme()
	}

	for _, opt := range opts {
		opt(e)
	}

	backend := p.Settings()
	e.background = store.New(backend, cfg.Desktop.BackgroundPath, e.logger)
	e.iface = store.New(backend, cfg.Desktop.InterfacePath, e.logger)
	e.shell = store.New(backend, cfg.Desktop.ShellPath, e.logger)
	e.agent = store.New(backend, cfg.Agent.SettingsPath, e.logger)
	e.snapshots = NewSnapshots(e.agent)

	return e
}

// Init loads Mode Memory and the current scheme from the live settings.
func (e *Engine) Init(ctx context.Context) {
	e.stopped.Store(false)
	e.memory = e.liveWallpapers(ctx)
	e.scheme = theme.FromColorScheme(e.iface.String(ctx, KeyColorScheme, theme.SchemeDefault))
	e.ambientKnown = false

	e.logger.Debug("engine initialized",
		"scheme", e.scheme,
		"light", e.memory.Light,
		"dark", e.memory.Dark,
	)
}

// Shutdown forgets the in-memory state. Shell commands still running finish
// without logging.
func (e *Engine) Shutdown() {
	e.stopped.Store(true)
	e.memory = ModeMemory{}
	e.scheme = ""
	e.ambientKnown = false
}

// Wait blocks until dispatched shell commands have returned.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Memory returns the memorized wallpapers.
func (e *Engine) Memory() ModeMemory {
	return e.memory
}

// AutomaticMode reports whether ambient changes drive the color scheme. An
// unset flag is initialized to true.
func (e *Engine) AutomaticMode(ctx context.Context) bool {
	return e.agent.EnsureBool(ctx, KeyAutomaticMode, true)
}

// SetAutomaticMode stores the automatic-mode flag.
func (e *Engine) SetAutomaticMode(ctx context.Context, enabled bool) {
	e.agent.SetBool(ctx, KeyAutomaticMode, enabled)
}

// ForgetAmbient drops the cached ambient state so the next observation is
// handled even if it repeats the last one.
func (e *Engine) ForgetAmbient() {
	e.ambientKnown = false
}

// SeedAmbient records the ambient state observed at connect time without
// acting on it. Only later transitions drive the appearance.
func (e *Engine) SeedAmbient(active bool) {
	e.ambientKnown = true
	e.ambientActive = active
	e.logger.Debug("ambient state seeded", "active", active)
}

// WatchKeys returns the full key paths the agent subscribes to.
func (e *Engine) WatchKeys() (wallpapers, scheme, automatic []string) {
	return []string{e.background.Path(KeyLightWallpaper), e.background.Path(KeyDarkWallpaper)},
		[]string{e.iface.Path(KeyColorScheme)},
		[]string{e.agent.Path(KeyAutomaticMode)}
}

// SlotForKey maps a wallpaper key path to its mode.
func (e *Engine) SlotForKey(key string) theme.Mode {
	if strings.HasSuffix(key, "/"+KeyDarkWallpaper) {
		return theme.Dark
	}
	return theme.Light
}

// Handle reconciles the settings after ev.
func (e *Engine) Handle(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case WallpaperChanged:
		e.handleWallpaper(ctx, ev.Slot)
	case StyleChanged:
		e.handleStyle(ctx)
	case AmbientChanged:
		e.handleAmbient(ctx, ev.Active)
	default:
		e.logger.Debug("ignoring event", "event", ev)
	}
}

func (e *Engine) handleWallpaper(ctx context.Context, slot theme.Mode) {
	value := e.background.String(ctx, WallpaperKey(slot), "")
	scheme := theme.FromColorScheme(e.iface.String(ctx, KeyColorScheme, theme.SchemeDefault))

	effects := PlanWallpaper(slot, value, scheme, e.memory)
	if len(effects) > 0 {
		e.logger.Info("wallpaper changed", "slot", slot, "uri", value, "scheme", scheme)
	}
	e.execute(ctx, effects)
}

func (e *Engine) handleStyle(ctx context.Context) {
	mode := theme.FromColorScheme(e.iface.String(ctx, KeyColorScheme, theme.SchemeDefault))
	if mode == e.scheme {
		return
	}
	e.scheme = mode

	e.logger.Info("color scheme changed", "mode", mode)
	e.execute(ctx, PlanStyleChange(mode, e.liveSnapshot(ctx), e.snapshots.Load(ctx, mode)))
}

func (e *Engine) handleAmbient(ctx context.Context, active bool) {
	if e.ambientKnown && e.ambientActive == active {
		return
	}
	e.ambientKnown = true
	e.ambientActive = active

	if !e.AutomaticMode(ctx) {
		e.logger.Debug("automatic mode disabled, ignoring ambient change", "active", active)
		return
	}

	e.logger.Info("ambient changed", "active", active)
	colorScheme := e.iface.String(ctx, KeyColorScheme, theme.SchemeDefault)
	e.execute(ctx, PlanAmbient(active, colorScheme, e.liveWallpapers(ctx), e.memory))
}

// Apply writes the stored snapshot of mode to the desktop.
func (e *Engine) Apply(ctx context.Context, mode theme.Mode) {
	e.execute(ctx, PlanApply(e.snapshots.Load(ctx, mode)))
}

// Snapshot returns the stored snapshot of mode.
func (e *Engine) Snapshot(ctx context.Context, mode theme.Mode) Snapshot {
	return e.snapshots.Load(ctx, mode)
}

// Wallpaper returns the live wallpaper of mode.
func (e *Engine) Wallpaper(ctx context.Context, mode theme.Mode) string {
	return e.background.String(ctx, WallpaperKey(mode), "")
}

// Scheme returns the live color scheme mode.
func (e *Engine) Scheme(ctx context.Context) theme.Mode {
	return theme.FromColorScheme(e.iface.String(ctx, KeyColorScheme, theme.SchemeDefault))
}

// Status reports the current settings.
func (e *Engine) Status(ctx context.Context) *Status {
	colorScheme := e.iface.String(ctx, KeyColorScheme, theme.SchemeDefault)
	return &Status{
		Platform:      e.platform.Name(),
		Supported:     e.platform.IsSupported(),
		AutomaticMode: e.AutomaticMode(ctx),
		ColorScheme:   colorScheme,
		Mode:          theme.FromColorScheme(colorScheme),
		Wallpapers:    e.liveWallpapers(ctx),
		Light:         e.snapshots.Load(ctx, theme.Light),
		Dark:          e.snapshots.Load(ctx, theme.Dark),
	}
}

func (e *Engine) liveWallpapers(ctx context.Context) ModeMemory {
	return ModeMemory{
		Light: e.background.String(ctx, KeyLightWallpaper, ""),
		Dark:  e.background.String(ctx, KeyDarkWallpaper, ""),
	}
}

func (e *Engine) liveSnapshot(ctx context.Context) Snapshot {
	return Snapshot{
		GTK:    e.iface.String(ctx, KeyGTKTheme, ""),
		Icon:   e.iface.String(ctx, KeyIconTheme, ""),
		Cursor: e.iface.String(ctx, KeyCursorTheme, ""),
		Accent: e.iface.String(ctx, KeyAccentColor, ""),
		Shell:  e.shell.String(ctx, e.shellKey, DefaultShellTheme),
	}
}

func (e *Engine) execute(ctx context.Context, effects []Effect) {
	for _, eff := range effects {
		switch eff := eff.(type) {
		case WriteSetting:
			e.scope(eff.Scope).SetString(ctx, eff.Key, eff.Value)
		case RememberWallpaper:
			e.memory.Set(eff.Mode, eff.URI)
		case SaveSnapshot:
			e.snapshots.Save(ctx, eff.Mode, eff.Snapshot)
		case SetShellTheme:
			if e.shellStored {
				e.shell.SetString(ctx, e.shellKey, eff.Name)
				continue
			}
			e.runCommand(ctx, "gsettings", "set", e.shellSchema, e.shellKey, eff.Name)
		case ResetShellTheme:
			if e.shellStored {
				e.shell.Reset(ctx, e.shellKey)
				continue
			}
			e.runCommand(ctx, "gsettings", "reset", e.shellSchema, e.shellKey)
		}
	}
}

func (e *Engine) scope(s Scope) *store.Settings {
	if s == ScopeInterface {
		return e.iface
	}
	return e.background
}

// runCommand runs an external command without waiting for it unless the
// engine was built WithSyncCommands. The command is not cancelled when the
// agent stops.
func (e *Engine) runCommand(ctx context.Context, name string, args ...string) {
	ctx = context.WithoutCancel(ctx)

	run := func() {
		out, err := e.commands.Run(ctx, name, args...)
		if e.stopped.Load() {
			return
		}
		if err != nil {
			e.logger.Warn("command failed", "command", name, "args", args, "error", err)
			return
		}
		e.logger.Debug("command finished", "command", name, "args", args, "output", out)
	}

	if e.syncCmds {
		run()
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		run()
	}()
}
