package gnome

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/platform"
)

const (
	propertiesInterface = "org.freedesktop.DBus.Properties"
	propertiesChanged   = propertiesInterface + ".PropertiesChanged"
)

// Ambient implements platform.AmbientService for the gnome-settings-daemon
// night light.
type Ambient struct {
	cfg config.AmbientConfig
}

// NewAmbient creates an ambient service for the configured D-Bus property.
func NewAmbient(cfg config.AmbientConfig) *Ambient {
	return &Ambient{cfg: cfg}
}

// Connect opens a private session bus connection and checks that the service
// is running.
func (a *Ambient) Connect(ctx context.Context) (platform.AmbientHandle, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var owned bool
	err = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, a.cfg.Service).Store(&owned)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to look up %s: %w", a.cfg.Service, err)
	}
	if !owned {
		conn.Close()
		return nil, fmt.Errorf("service %s is not running", a.cfg.Service)
	}

	return &ambientHandle{
		cfg:  a.cfg,
		conn: conn,
		obj:  conn.Object(a.cfg.Service, dbus.ObjectPath(a.cfg.ObjectPath)),
	}, nil
}

type ambientHandle struct {
	cfg  config.AmbientConfig
	conn *dbus.Conn
	obj  dbus.BusObject

	mu   sync.Mutex
	subs []*ambientSubscription
}

func (h *ambientHandle) Active(ctx context.Context) (bool, error) {
	var v dbus.Variant
	err := h.obj.CallWithContext(ctx, propertiesInterface+".Get", 0, h.cfg.Interface, h.cfg.Property).Store(&v)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", h.cfg.Property, err)
	}
	active, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%s is %s, not a boolean", h.cfg.Property, v.Signature())
	}
	return active, nil
}

func (h *ambientHandle) Subscribe(fn func(active bool)) (platform.Subscription, error) {
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(dbus.ObjectPath(h.cfg.ObjectPath)),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchArg(0, h.cfg.Interface),
	}
	if err := h.conn.AddMatchSignal(match...); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s changes: %w", h.cfg.Property, err)
	}

	sub := &ambientSubscription{
		conn:    h.conn,
		match:   match,
		signals: make(chan *dbus.Signal, 8),
		done:    make(chan struct{}),
	}
	h.conn.Signal(sub.signals)

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case sig, ok := <-sub.signals:
				if !ok {
					return
				}
				active, changed, invalidated := parsePropertiesChanged(sig, h.cfg.Interface, h.cfg.Property)
				if invalidated {
					v, err := h.Active(context.Background())
					if err != nil {
						continue
					}
					active, changed = v, true
				}
				if changed {
					fn(active)
				}
			}
		}
	}()

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.mu.Unlock()

	return sub, nil
}

func (h *ambientHandle) Close() error {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	return h.conn.Close()
}

type ambientSubscription struct {
	conn    *dbus.Conn
	match   []dbus.MatchOption
	signals chan *dbus.Signal
	done    chan struct{}
	once    sync.Once
}

func (s *ambientSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		s.conn.RemoveSignal(s.signals)
		err = s.conn.RemoveMatchSignal(s.match...)
	})
	return err
}

// parsePropertiesChanged reports the new value of property when sig carries
// it, or whether the property was invalidated and must be re-read.
func parsePropertiesChanged(sig *dbus.Signal, iface, property string) (active, changed, invalidated bool) {
	if sig == nil || sig.Name != propertiesChanged || len(sig.Body) < 2 {
		return false, false, false
	}
	if name, ok := sig.Body[0].(string); !ok || name != iface {
		return false, false, false
	}
	if props, ok := sig.Body[1].(map[string]dbus.Variant); ok {
		if v, ok := props[property]; ok {
			if b, ok := v.Value().(bool); ok {
				return b, true, false
			}
		}
	}
	if len(sig.Body) > 2 {
		if names, ok := sig.Body[2].([]string); ok {
			for _, name := range names {
				if name == property {
					return false, false, true
				}
			}
		}
	}
	return false, false, false
}
