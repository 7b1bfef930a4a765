// Package fake provides an in-process platform for tests. Settings live in a
// map, watchers are notified synchronously on write, and the ambient signal
// and commands are driven by the test.
package fake

import (
	"context"
	"errors"
	"sync"

	"github.com/darkawower/themeshift/internal/platform"
)

// ErrUnavailable is returned by operations configured to fail.
var ErrUnavailable = errors.New("fake: unavailable")

// Platform implements platform.Platform entirely in memory.
type Platform struct {
	Store   *Settings
	Signal  *Ambient
	Runner  *Commands
	Watches *Watches

	// ShellInStore makes the platform keep the shell theme in Store.
	ShellInStore bool
}

// New creates an empty fake platform.
func New() *Platform {
	store := NewSettings()
	return &Platform{
		Store:   store,
		Signal:  &Ambient{},
		Runner:  &Commands{},
		Watches: &Watches{store: store},
	}
}

func (p *Platform) Name() string                       { return "fake" }
func (p *Platform) IsSupported() bool                  { return true }
func (p *Platform) Settings() platform.SettingsBackend { return p.Store }
func (p *Platform) Watcher() platform.WatchService     { return p.Watches }
func (p *Platform) Ambient() platform.AmbientService   { return p.Signal }
func (p *Platform) Commands() platform.CommandService  { return p.Runner }

func (p *Platform) StoresShellTheme() bool { return p.ShellInStore }

var (
	_ platform.Platform        = (*Platform)(nil)
	_ platform.ShellThemeStore = (*Platform)(nil)
)

type watch struct {
	keys map[string]bool
	fn   func(string)
}

// Settings is an in-memory settings backend.
type Settings struct {
	mu        sync.Mutex
	values    map[string]string
	writes    []string
	watches   map[int]*watch
	nextID    int
	FailRead  bool
	FailWrite bool
}

// NewSettings creates an empty in-memory backend.
func NewSettings() *Settings {
	return &Settings{
		values:  make(map[string]string),
		watches: make(map[int]*watch),
	}
}

func (s *Settings) Read(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRead {
		return "", false, ErrUnavailable
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Settings) Write(ctx context.Context, key, raw string) error {
	s.mu.Lock()
	if s.FailWrite {
		s.mu.Unlock()
		return ErrUnavailable
	}
	s.values[key] = raw
	s.writes = append(s.writes, key)
	fns := s.watchersFor(key)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
	return nil
}

func (s *Settings) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.FailWrite {
		s.mu.Unlock()
		return ErrUnavailable
	}
	delete(s.values, key)
	s.writes = append(s.writes, key)
	fns := s.watchersFor(key)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
	return nil
}

// Seed sets a raw value without recording a write or notifying watchers.
func (s *Settings) Seed(key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
}

// Raw returns the stored raw value.
func (s *Settings) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Writes returns the keys written or reset so far, in order.
func (s *Settings) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

// ClearWrites forgets recorded writes.
func (s *Settings) ClearWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}

// Watchers returns the number of active watches.
func (s *Settings) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}

func (s *Settings) watchersFor(key string) []func(string) {
	var fns []func(string)
	for _, w := range s.watches {
		if w.keys[key] {
			fns = append(fns, w.fn)
		}
	}
	return fns
}

// Watches implements platform.WatchService over Settings.
type Watches struct {
	store *Settings
	Fail  bool
}

func (w *Watches) Watch(keys []string, fn func(key string)) (platform.Subscription, error) {
	if w.Fail {
		return nil, ErrUnavailable
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}

	s := w.store
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watches[id] = &watch{keys: set, fn: fn}
	s.mu.Unlock()

	return platform.SubscriptionFunc(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watches, id)
		return nil
	}), nil
}

// Ambient is a controllable ambient service.
type Ambient struct {
	mu       sync.Mutex
	active   bool
	fail     bool
	handles  []*AmbientHandle
	connects int
}

// SetFail makes Connect fail.
func (a *Ambient) SetFail(fail bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail = fail
}

// Connects returns how many connections were attempted.
func (a *Ambient) Connects() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connects
}

func (a *Ambient) Connect(ctx context.Context) (platform.AmbientHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connects++
	if a.fail {
		return nil, ErrUnavailable
	}
	h := &AmbientHandle{owner: a, subs: make(map[int]func(bool))}
	a.handles = append(a.handles, h)
	return h, nil
}

// SetActive changes the signal and notifies every open handle's subscribers.
func (a *Ambient) SetActive(active bool) {
	a.mu.Lock()
	a.active = active
	var fns []func(bool)
	for _, h := range a.handles {
		if h.closed {
			continue
		}
		for _, fn := range h.subs {
			fns = append(fns, fn)
		}
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(active)
	}
}

// Subscribers returns the number of live subscriptions on open handles.
func (a *Ambient) Subscribers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, h := range a.handles {
		if !h.closed {
			n += len(h.subs)
		}
	}
	return n
}

// OpenHandles returns the number of handles not yet closed.
func (a *Ambient) OpenHandles() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, h := range a.handles {
		if !h.closed {
			n++
		}
	}
	return n
}

// AmbientHandle is a connection to the fake ambient service.
type AmbientHandle struct {
	owner  *Ambient
	subs   map[int]func(bool)
	nextID int
	closed bool
}

func (h *AmbientHandle) Active(ctx context.Context) (bool, error) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	return h.owner.active, nil
}

func (h *AmbientHandle) Subscribe(fn func(active bool)) (platform.Subscription, error) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	return platform.SubscriptionFunc(func() error {
		h.owner.mu.Lock()
		defer h.owner.mu.Unlock()
		delete(h.subs, id)
		return nil
	}), nil
}

func (h *AmbientHandle) Close() error {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	h.closed = true
	h.subs = make(map[int]func(bool))
	return nil
}

// Call is a recorded command invocation.
type Call struct {
	Name string
	Args []string
}

// Commands records invocations instead of running them.
type Commands struct {
	mu    sync.Mutex
	calls []Call
	Err   error
}

func (c *Commands) Run(ctx context.Context, name string, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Name: name, Args: append([]string(nil), args...)})
	return "", c.Err
}

func (c *Commands) Output(ctx context.Context, name string, args ...string) (string, error) {
	return c.Run(ctx, name, args...)
}

// Calls returns the recorded invocations.
func (c *Commands) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}
