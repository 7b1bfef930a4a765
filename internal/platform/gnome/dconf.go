package gnome

import (
	"context"
	"fmt"
	"strings"

	"github.com/darkawower/themeshift/internal/platform"
)

// Dconf implements platform.SettingsBackend on top of the dconf CLI.
type Dconf struct {
	cmd platform.CommandService
}

// NewDconf creates a dconf backend that runs commands through cmd.
func NewDconf(cmd platform.CommandService) *Dconf {
	return &Dconf{cmd: cmd}
}

// Read returns the raw GVariant text stored at key. dconf prints nothing for
// unset keys. Only stdout is parsed; GLib warnings go to stderr.
func (d *Dconf) Read(ctx context.Context, key string) (string, bool, error) {
	out, err := d.cmd.Output(ctx, "dconf", "read", key)
	if err != nil {
		return "", false, fmt.Errorf("dconf read %s: %w", key, err)
	}
	value := strings.TrimSpace(out)
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Write stores raw GVariant text at key.
func (d *Dconf) Write(ctx context.Context, key, raw string) error {
	if _, err := d.cmd.Run(ctx, "dconf", "write", key, raw); err != nil {
		return fmt.Errorf("dconf write %s: %w", key, err)
	}
	return nil
}

// Reset removes the user value at key.
func (d *Dconf) Reset(ctx context.Context, key string) error {
	if _, err := d.cmd.Run(ctx, "dconf", "reset", key); err != nil {
		return fmt.Errorf("dconf reset %s: %w", key, err)
	}
	return nil
}
