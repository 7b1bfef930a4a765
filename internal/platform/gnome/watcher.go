package gnome

import (
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/darkawower/themeshift/internal/platform"
)

const (
	dconfWriterInterface = "ca.desrt.dconf.Writer"
	dconfNotifyMember    = "Notify"
)

// Watcher implements platform.WatchService by listening for the Notify
// signal the dconf writer emits on the session bus after every change.
type Watcher struct {
	connect func() (*dbus.Conn, error)
}

// NewWatcher creates a watcher on the session bus.
func NewWatcher() *Watcher {
	return &Watcher{
		connect: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() },
	}
}

// Watch subscribes to changes of keys. Each subscription owns a private bus
// connection that is closed with it.
func (w *Watcher) Watch(keys []string, fn func(key string)) (platform.Subscription, error) {
	conn, err := w.connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	match := []dbus.MatchOption{
		dbus.WithMatchInterface(dconfWriterInterface),
		dbus.WithMatchMember(dconfNotifyMember),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to dconf notifications: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				prefix, changes, ok := parseNotify(sig)
				if !ok {
					continue
				}
				for _, key := range notifiedKeys(prefix, changes, keys) {
					fn(key)
				}
			}
		}
	}()

	var once sync.Once
	return platform.SubscriptionFunc(func() error {
		var err error
		once.Do(func() {
			close(done)
			err = conn.Close()
		})
		return err
	}), nil
}

// parseNotify extracts the (prefix, changes) pair of a dconf Notify signal.
func parseNotify(sig *dbus.Signal) (string, []string, bool) {
	if sig == nil || sig.Name != dconfWriterInterface+"."+dconfNotifyMember || len(sig.Body) < 2 {
		return "", nil, false
	}
	prefix, ok := sig.Body[0].(string)
	if !ok {
		return "", nil, false
	}
	changes, ok := sig.Body[1].([]string)
	if !ok {
		return "", nil, false
	}
	return prefix, changes, true
}

// notifiedKeys returns the watched keys touched by a notification. A change
// path ending in '/' names a whole directory.
func notifiedKeys(prefix string, changes []string, keys []string) []string {
	if len(changes) == 0 {
		changes = []string{""}
	}

	var hit []string
	seen := make(map[string]bool)
	for _, change := range changes {
		path := prefix + change
		for _, key := range keys {
			if seen[key] {
				continue
			}
			if path == key || (strings.HasSuffix(path, "/") && strings.HasPrefix(key, path)) {
				seen[key] = true
				hit = append(hit, key)
			}
		}
	}
	return hit
}
