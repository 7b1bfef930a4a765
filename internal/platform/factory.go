package platform

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/darkawower/themeshift/internal/config"
)

var ErrUnsupported = errors.New("operation not supported on this platform")

type platformBuilder func(cfg *config.Config) Platform

var (
	registry     = make(map[string]platformBuilder)
	registryLock sync.RWMutex
)

// Register makes a platform available under name.
func Register(name string, builder platformBuilder) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[name] = builder
}

// Open builds the platform selected by cfg.Store.Backend. The auto backend
// picks gnome on linux and the file backend elsewhere.
func Open(cfg *config.Config) Platform {
	name := ResolveName(cfg.Store.Backend, runtime.GOOS)

	registryLock.RLock()
	defer registryLock.RUnlock()

	if builder, ok := registry[name]; ok {
		return builder(cfg)
	}

	return &unsupportedPlatform{name: name}
}

// ResolveName maps a configured backend to a registered platform name.
func ResolveName(backend config.Backend, goos string) string {
	switch backend {
	case config.BackendDconf:
		return "gnome"
	case config.BackendFile:
		return "file"
	case config.BackendAuto, "":
		if goos == "linux" {
			return "gnome"
		}
		return "file"
	default:
		return string(backend)
	}
}

type unsupportedPlatform struct {
	name string
}

func (p *unsupportedPlatform) Name() string              { return p.name }
func (p *unsupportedPlatform) IsSupported() bool         { return false }
func (p *unsupportedPlatform) Settings() SettingsBackend { return unsupportedSettings{} }
func (p *unsupportedPlatform) Watcher() WatchService     { return unsupportedWatcher{} }
func (p *unsupportedPlatform) Ambient() AmbientService   { return UnsupportedAmbient{} }
func (p *unsupportedPlatform) Commands() CommandService  { return unsupportedCommands{} }

type unsupportedSettings struct{}

func (unsupportedSettings) Read(ctx context.Context, key string) (string, bool, error) {
	return "", false, ErrUnsupported
}
func (unsupportedSettings) Write(ctx context.Context, key, raw string) error { return ErrUnsupported }
func (unsupportedSettings) Reset(ctx context.Context, key string) error      { return ErrUnsupported }

type unsupportedWatcher struct{}

func (unsupportedWatcher) Watch(keys []string, fn func(key string)) (Subscription, error) {
	return nil, ErrUnsupported
}

// UnsupportedAmbient is an ambient service that never connects.
type UnsupportedAmbient struct{}

func (UnsupportedAmbient) Connect(ctx context.Context) (AmbientHandle, error) {
	return nil, ErrUnsupported
}

type unsupportedCommands struct{}

func (unsupportedCommands) Run(ctx context.Context, name string, args ...string) (string, error) {
	return "", ErrUnsupported
}

func (unsupportedCommands) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", ErrUnsupported
}
