package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/core"
	"github.com/darkawower/themeshift/internal/logging"
	"github.com/darkawower/themeshift/internal/platform/fake"
	"github.com/darkawower/themeshift/internal/theme"
	"github.com/darkawower/themeshift/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToggle(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{"true", true, false},
		{"off", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseToggle(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortenPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "~/Pictures/a-l.jpg", shortenPath(filepath.Join(home, "Pictures", "a-l.jpg")))
	assert.Equal(t, "/usr/share/backgrounds/x.jpg", shortenPath("/usr/share/backgrounds/x.jpg"))
	assert.Equal(t, "", shortenPath(""))
}

func TestWallpaperDisplay(t *testing.T) {
	assert.Equal(t, "/usr/share/backgrounds/a-d.jpg", wallpaperDisplay("file:///usr/share/backgrounds/a-d.jpg"))
	assert.Equal(t, "", wallpaperDisplay(""))
}

func TestSnapshotRows(t *testing.T) {
	rows := snapshotRows(
		core.Snapshot{GTK: "Adwaita", Shell: core.DefaultShellTheme},
		core.Snapshot{GTK: "Adwaita-dark", Accent: "purple"},
	)

	require.Len(t, rows, 5)
	assert.Equal(t, []string{"gtk-theme", "Adwaita", "Adwaita-dark"}, rows[0])
	assert.Equal(t, []string{"accent-color", "-", "purple"}, rows[3])
	assert.Equal(t, []string{"shell-theme", "Default", "-"}, rows[4])
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	o := ui.NewOutput(&buf)
	o.SetNoColor(true)

	printStatus(o, &core.Status{
		Platform:      "gnome",
		AutomaticMode: true,
		ColorScheme:   "prefer-dark",
		Mode:          theme.Dark,
		Wallpapers:    core.ModeMemory{Light: "file:///w/a-l.jpg", Dark: "file:///w/a-d.jpg"},
		Dark:          core.Snapshot{GTK: "Adwaita-dark"},
	})

	s := buf.String()
	assert.Contains(t, s, "Automatic mode: on")
	assert.Contains(t, s, "Mode: dark")
	assert.Contains(t, s, "Dark: /w/a-d.jpg")
	assert.Contains(t, s, "Adwaita-dark")
}

func TestRunAgent(t *testing.T) {
	p := fake.New()
	agent := core.NewAgent(p, config.DefaultConfig(), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, runAgent(ctx, agent))
	assert.False(t, agent.Running())
	assert.Equal(t, 0, p.Store.Watchers())
}

func TestRunAgent_StartFailure(t *testing.T) {
	p := fake.New()
	p.Watches.Fail = true
	agent := core.NewAgent(p, config.DefaultConfig(), logging.Discard())

	err := runAgent(context.Background(), agent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start agent")
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themeshift", "config.toml")

	root := newRootCmd()
	root.SetArgs([]string{"--config", path, "--quiet", "init"})
	t.Cleanup(func() { cfgFile, quiet = "", false })

	require.NoError(t, root.Execute())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.BackendAuto, cfg.Store.Backend)
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"version"})

	assert.NoError(t, root.Execute())
}
