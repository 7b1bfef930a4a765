// Package platform provides desktop-agnostic abstractions for the services the
// agent talks to: a key/value settings backend, change notifications, the
// ambient light signal and external command execution.
package platform

import "context"

// Platform provides access to desktop-specific services.
type Platform interface {
	// Name returns the platform identifier (e.g., "gnome", "file").
	Name() string

	// IsSupported returns true if this platform is fully supported.
	IsSupported() bool

	// Settings returns the raw key/value settings backend.
	Settings() SettingsBackend

	// Watcher returns the settings change notification service.
	Watcher() WatchService

	// Ambient returns the ambient signal service.
	Ambient() AmbientService

	// Commands returns the external command runner.
	Commands() CommandService
}

// SettingsBackend reads and writes serialized values at absolute key paths.
// Values are GVariant text (strings quoted, booleans bare).
type SettingsBackend interface {
	// Read returns the raw value and whether the key holds one.
	Read(ctx context.Context, key string) (string, bool, error)

	// Write stores a raw value.
	Write(ctx context.Context, key, raw string) error

	// Reset removes the value so the key falls back to its default.
	Reset(ctx context.Context, key string) error
}

// WatchService delivers change notifications for a set of keys.
type WatchService interface {
	// Watch calls fn with the full key path whenever one of keys changes.
	// fn runs on the watcher's goroutine.
	Watch(keys []string, fn func(key string)) (Subscription, error)
}

// Subscription is an active notification subscription.
type Subscription interface {
	Close() error
}

// AmbientService connects to the automatic ambient signal.
type AmbientService interface {
	// Connect establishes the service connection.
	Connect(ctx context.Context) (AmbientHandle, error)
}

// AmbientHandle is a live connection to the ambient signal.
type AmbientHandle interface {
	// Active reads the current activation state.
	Active(ctx context.Context) (bool, error)

	// Subscribe calls fn with the new state on every property change.
	Subscribe(fn func(active bool)) (Subscription, error)

	// Close drops the connection and all of its subscriptions.
	Close() error
}

// ShellThemeStore is implemented by platforms that keep the shell theme in
// their settings backend. Others apply it through gsettings.
type ShellThemeStore interface {
	StoresShellTheme() bool
}

// CommandService runs external commands.
type CommandService interface {
	// Run executes name with args and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// Output executes name with args and returns its stdout only.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func() error

func (f SubscriptionFunc) Close() error { return f() }
