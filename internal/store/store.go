// Package store provides typed access to a settings backend under a key-path
// prefix. It never returns backend errors: failed reads fall back to the
// caller's default and failed writes are dropped, both with a log entry.
package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/darkawower/themeshift/internal/platform"
)

// Settings is a key-path scope of a settings backend.
type Settings struct {
	backend platform.SettingsBackend
	prefix  string
	logger  *slog.Logger
}

// New creates settings for keys under prefix. prefix must end in '/'.
func New(backend platform.SettingsBackend, prefix string, logger *slog.Logger) *Settings {
	if logger == nil {
		logger = slog.Default()
	}
	return &Settings{
		backend: backend,
		prefix:  prefix,
		logger:  logger.With("scope", prefix),
	}
}

// Path returns the full key path of key.
func (s *Settings) Path(key string) string {
	return s.prefix + key
}

// String returns the value of key, or def when unset or unreadable.
func (s *Settings) String(ctx context.Context, key, def string) string {
	raw, found := s.read(ctx, key)
	if !found {
		return def
	}
	value, ok := Unquote(raw)
	if !ok {
		s.logger.Debug("malformed string value", "key", key, "raw", raw)
	}
	return value
}

// SetString stores value under key.
func (s *Settings) SetString(ctx context.Context, key, value string) {
	s.write(ctx, key, Quote(value))
}

// Bool returns the value of key, or def when unset, unreadable or malformed.
func (s *Settings) Bool(ctx context.Context, key string, def bool) bool {
	raw, found := s.read(ctx, key)
	if !found {
		return def
	}
	value, ok := ParseBool(raw)
	if !ok {
		s.logger.Debug("malformed boolean value", "key", key, "raw", raw)
		return def
	}
	return value
}

// SetBool stores value under key.
func (s *Settings) SetBool(ctx context.Context, key string, value bool) {
	s.write(ctx, key, FormatBool(value))
}

// EnsureBool returns the value of key. An unset key is initialized to def so
// that later reads agree with this one.
func (s *Settings) EnsureBool(ctx context.Context, key string, def bool) bool {
	raw, found, err := s.backend.Read(ctx, s.Path(key))
	if err != nil {
		s.logger.Warn("settings read failed", "key", key, "error", err)
		return def
	}
	if !found {
		s.SetBool(ctx, key, def)
		return def
	}
	value, ok := ParseBool(raw)
	if !ok {
		s.logger.Debug("malformed boolean value", "key", key, "raw", raw)
		return def
	}
	return value
}

// Reset removes the value of key.
func (s *Settings) Reset(ctx context.Context, key string) {
	if err := s.backend.Reset(ctx, s.Path(key)); err != nil {
		s.logger.Warn("settings reset failed", "key", key, "error", err)
	}
}

func (s *Settings) read(ctx context.Context, key string) (string, bool) {
	raw, found, err := s.backend.Read(ctx, s.Path(key))
	if err != nil {
		s.logger.Warn("settings read failed", "key", key, "error", err)
		return "", false
	}
	return raw, found
}

func (s *Settings) write(ctx context.Context, key, raw string) {
	if err := s.backend.Write(ctx, s.Path(key), raw); err != nil {
		s.logger.Warn("settings write failed", "key", key, "error", err)
	}
}

// Quote renders value as a single-quoted GVariant string literal.
func Quote(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for _, r := range value {
		switch r {
		case '\\', '\'':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// Unquote strips GVariant string quoting from raw. ok is false when raw was
// not a well-formed literal; the returned value is then raw with stray
// quotes trimmed.
func Unquote(raw string) (value string, ok bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		q := raw[0]
		if (q == '\'' || q == '"') && raw[len(raw)-1] == q {
			return unescape(raw[1 : len(raw)-1]), true
		}
	}
	return strings.Trim(raw, `'"`), false
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			switch r {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

// ParseBool parses a GVariant boolean.
func ParseBool(raw string) (bool, bool) {
	switch strings.TrimSpace(raw) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// FormatBool renders a GVariant boolean.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
