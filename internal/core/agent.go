package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/platform"
)

// eventBuffer is the capacity of the agent event queue.
const eventBuffer = 64

// Agent owns the subscriptions and the event loop that feed the engine.
type Agent struct {
	platform platform.Platform
	cfg      *config.Config
	logger   *slog.Logger
	opts     []Option

	mu  sync.Mutex
	run *session
}

// session is the state of one Start/Stop cycle.
type session struct {
	engine *Engine
	events chan Event
	done   chan struct{}
	exited chan struct{}
	cancel context.CancelFunc
	subs   []platform.Subscription

	// Tracks connect goroutines so Stop can collect their handles.
	pending sync.WaitGroup

	// Owned by the loop goroutine.
	connecting bool
	ambient    platform.AmbientHandle
	ambientSub platform.Subscription
}

// NewAgent creates a stopped agent. opts configure the engine of each run.
func NewAgent(p platform.Platform, cfg *config.Config, logger *slog.Logger, opts ...Option) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		platform: p,
		cfg:      cfg,
		logger:   logger,
		opts:     append([]Option{WithLogger(logger)}, opts...),
	}
}

// Running reports whether the agent has been started.
func (a *Agent) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.run != nil
}

// Start loads the live state, subscribes to the watched keys and starts the
// event loop. Starting a running agent does nothing. If any subscription
// fails, the ones already made are closed and the error is returned.
func (a *Agent) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.run != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &session{
		engine: NewEngine(a.platform, a.cfg, a.opts...),
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		cancel: cancel,
	}
	s.engine.Init(ctx)

	if err := a.subscribe(s); err != nil {
		cancel()
		s.closeSubscriptions(a.logger)
		return err
	}

	if s.engine.AutomaticMode(ctx) {
		a.connectAmbient(loopCtx, s)
	}

	go a.loop(loopCtx, s)

	a.run = s
	a.logger.Info("agent started", "platform", a.platform.Name())
	return nil
}

func (a *Agent) subscribe(s *session) error {
	wallpapers, scheme, automatic := s.engine.WatchKeys()
	watcher := a.platform.Watcher()

	for _, w := range []struct {
		name string
		keys []string
		fn   func(key string)
	}{
		{"wallpaper", wallpapers, func(key string) { s.post(WallpaperChanged{Slot: s.engine.SlotForKey(key)}) }},
		{"color-scheme", scheme, func(string) { s.post(StyleChanged{}) }},
		{"automatic-mode", automatic, func(string) { s.post(AutomaticModeChanged{}) }},
	} {
		sub, err := watcher.Watch(w.keys, w.fn)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", w.name, err)
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// Stop closes every subscription, stops the event loop and forgets the
// in-memory state. Stopping a stopped agent does nothing.
func (a *Agent) Stop() {
	a.mu.Lock()
	s := a.run
	a.run = nil
	a.mu.Unlock()

	if s == nil {
		return
	}

	s.closeSubscriptions(a.logger)

	close(s.done)
	<-s.exited
	s.cancel()
	s.pending.Wait()

	// A connect that finished after the loop exited may still be queued.
drain:
	for {
		select {
		case ev := <-s.events:
			if ready, ok := ev.(ambientReady); ok && ready.handle != nil {
				ready.handle.Close()
			}
		default:
			break drain
		}
	}

	a.dropAmbient(s)
	s.engine.Shutdown()
	a.logger.Info("agent stopped")
}

func (a *Agent) loop(ctx context.Context, s *session) {
	defer close(s.exited)

	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			a.dispatch(ctx, s, ev)
		}
	}
}

func (a *Agent) dispatch(ctx context.Context, s *session, ev Event) {
	switch ev := ev.(type) {
	case ambientReady:
		a.ambientConnected(ctx, s, ev)
	case AutomaticModeChanged:
		a.automaticModeChanged(ctx, s)
	default:
		s.engine.Handle(ctx, ev)
	}
}

// connectAmbient dials the ambient service off the loop goroutine and posts
// the result back as an ambientReady event.
func (a *Agent) connectAmbient(ctx context.Context, s *session) {
	s.connecting = true
	s.pending.Add(1)

	go func() {
		defer s.pending.Done()

		var ready ambientReady
		ready.handle, ready.err = a.platform.Ambient().Connect(ctx)
		if ready.err == nil {
			ready.active, ready.readErr = ready.handle.Active(ctx)
		}

		select {
		case <-s.done:
		default:
			select {
			case s.events <- ready:
				return
			case <-s.done:
			}
		}
		if ready.handle != nil {
			ready.handle.Close()
		}
	}()
}

func (a *Agent) ambientConnected(ctx context.Context, s *session, ev ambientReady) {
	s.connecting = false

	if ev.err != nil {
		if errors.Is(ev.err, platform.ErrUnsupported) {
			a.logger.Info("ambient signal not available on this platform")
		} else {
			a.logger.Warn("failed to connect to ambient service", "error", ev.err)
		}
		return
	}

	if s.ambient != nil || !s.engine.AutomaticMode(ctx) {
		ev.handle.Close()
		return
	}

	sub, err := ev.handle.Subscribe(func(active bool) {
		s.post(AmbientChanged{Active: active})
	})
	if err != nil {
		a.logger.Warn("failed to subscribe to ambient service", "error", err)
		ev.handle.Close()
		return
	}

	s.ambient = ev.handle
	s.ambientSub = sub
	a.logger.Info("ambient service connected")

	if ev.readErr != nil {
		a.logger.Warn("failed to read ambient state", "error", ev.readErr)
		return
	}
	s.engine.SeedAmbient(ev.active)
}

func (a *Agent) automaticModeChanged(ctx context.Context, s *session) {
	enabled := s.engine.AutomaticMode(ctx)
	a.logger.Info("automatic mode changed", "enabled", enabled)

	switch {
	case enabled && s.ambient == nil && !s.connecting:
		a.connectAmbient(ctx, s)
	case !enabled && s.ambient != nil:
		a.dropAmbient(s)
		s.engine.ForgetAmbient()
	}
}

func (a *Agent) dropAmbient(s *session) {
	if s.ambientSub != nil {
		if err := s.ambientSub.Close(); err != nil {
			a.logger.Debug("failed to close ambient subscription", "error", err)
		}
		s.ambientSub = nil
	}
	if s.ambient != nil {
		if err := s.ambient.Close(); err != nil {
			a.logger.Debug("failed to close ambient connection", "error", err)
		}
		s.ambient = nil
	}
}

// post queues ev for the loop. It never blocks the caller, which may be the
// loop itself.
func (s *session) post(ev Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- ev:
	default:
		go func() {
			select {
			case s.events <- ev:
			case <-s.done:
			}
		}()
	}
}

func (s *session) closeSubscriptions(logger *slog.Logger) {
	for _, sub := range s.subs {
		if err := sub.Close(); err != nil {
			logger.Debug("failed to close subscription", "error", err)
		}
	}
	s.subs = nil
}
