package core

import (
	"context"
	"testing"
	"time"

	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/logging"
	"github.com/darkawower/themeshift/internal/platform/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func startAgent(t *testing.T, p *fake.Platform) *Agent {
	t.Helper()

	a := NewAgent(p, config.DefaultConfig(), logging.Discard())
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(a.Stop)
	return a
}

func TestAgent_StartStop(t *testing.T) {
	p, _ := desktop(t)
	a := startAgent(t, p)

	assert.True(t, a.Running())
	assert.Equal(t, 3, p.Store.Watchers())
	assert.Eventually(t, func() bool { return p.Signal.Subscribers() == 1 }, waitFor, tick)

	a.Stop()

	assert.False(t, a.Running())
	assert.Equal(t, 0, p.Store.Watchers())
	assert.Equal(t, 0, p.Signal.OpenHandles())
}

func TestAgent_StartTwiceAndStopTwice(t *testing.T) {
	p, _ := desktop(t)
	a := startAgent(t, p)

	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, 3, p.Store.Watchers())

	a.Stop()
	a.Stop()
	assert.False(t, a.Running())
}

func TestAgent_StopWithoutStart(t *testing.T) {
	p, cfg := desktop(t)
	a := NewAgent(p, cfg, nil)

	assert.NotPanics(t, a.Stop)
	assert.False(t, a.Running())
}

func TestAgent_RestartAfterStop(t *testing.T) {
	p, _ := desktop(t)
	a := startAgent(t, p)
	a.Stop()

	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, 3, p.Store.Watchers())
	assert.Eventually(t, func() bool { return p.Signal.Subscribers() == 1 }, waitFor, tick)
}

func TestAgent_AmbientDrivesAppearance(t *testing.T) {
	p, _ := desktop(t)
	seed(p, agentPath+"dark-gtk-theme", "Adwaita-dark")
	seed(p, agentPath+"dark-shell-theme", "Orchis-Dark")
	startAgent(t, p)

	require.Eventually(t, func() bool { return p.Signal.Subscribers() == 1 }, waitFor, tick)

	p.Signal.SetActive(true)

	assert.Eventually(t, func() bool {
		return get(t, p, ifacePath+KeyColorScheme) == "prefer-dark" &&
			get(t, p, ifacePath+KeyGTKTheme) == "Adwaita-dark"
	}, waitFor, tick)
	assert.Equal(t, "Adwaita", get(t, p, agentPath+"light-gtk-theme"))

	assert.Eventually(t, func() bool {
		for _, c := range p.Runner.Calls() {
			if len(c.Args) == 4 && c.Args[0] == "set" && c.Args[3] == "Orchis-Dark" {
				return true
			}
		}
		return false
	}, waitFor, tick)

	p.Signal.SetActive(false)

	assert.Eventually(t, func() bool {
		return get(t, p, ifacePath+KeyColorScheme) == "default" &&
			get(t, p, ifacePath+KeyGTKTheme) == "Adwaita"
	}, waitFor, tick)
}

func TestAgent_InitialAmbientStateOnlySeeds(t *testing.T) {
	p, _ := desktop(t)
	p.Signal.SetActive(true)
	startAgent(t, p)

	require.Eventually(t, func() bool { return p.Signal.Subscribers() == 1 }, waitFor, tick)
	assert.Never(t, func() bool {
		return get(t, p, ifacePath+KeyColorScheme) != "default"
	}, 100*time.Millisecond, tick)

	p.Signal.SetActive(true)
	assert.Never(t, func() bool {
		return get(t, p, ifacePath+KeyColorScheme) != "default"
	}, 100*time.Millisecond, tick)

	p.Signal.SetActive(false)
	p.Signal.SetActive(true)
	assert.Eventually(t, func() bool {
		return get(t, p, ifacePath+KeyColorScheme) == "prefer-dark"
	}, waitFor, tick)
}

func TestAgent_WallpaperDriftRepaired(t *testing.T) {
	ctx := context.Background()
	p, _ := desktop(t)
	p.Store.Seed(agentPath+KeyAutomaticMode, "false")
	startAgent(t, p)

	require.NoError(t, p.Store.Write(ctx, ifacePath+KeyColorScheme, "'prefer-dark'"))
	assert.Eventually(t, func() bool {
		return get(t, p, agentPath+"light-gtk-theme") == "Adwaita"
	}, waitFor, tick)

	require.NoError(t, p.Store.Write(ctx, bgPath+KeyLightWallpaper, "'"+unpaired+"'"))

	assert.Eventually(t, func() bool {
		return get(t, p, bgPath+KeyLightWallpaper) == pairedLight
	}, waitFor, tick)
}

func TestAgent_AutomaticModeOff(t *testing.T) {
	ctx := context.Background()
	p, _ := desktop(t)
	p.Store.Seed(agentPath+KeyAutomaticMode, "false")
	startAgent(t, p)

	assert.Never(t, func() bool { return p.Signal.Connects() > 0 }, 100*time.Millisecond, tick)

	require.NoError(t, p.Store.Write(ctx, agentPath+KeyAutomaticMode, "true"))
	require.Eventually(t, func() bool { return p.Signal.Subscribers() == 1 }, waitFor, tick)

	p.Signal.SetActive(true)
	assert.Eventually(t, func() bool {
		return get(t, p, ifacePath+KeyColorScheme) == "prefer-dark"
	}, waitFor, tick)

	require.NoError(t, p.Store.Write(ctx, agentPath+KeyAutomaticMode, "false"))
	assert.Eventually(t, func() bool { return p.Signal.OpenHandles() == 0 }, waitFor, tick)

	p.Store.ClearWrites()
	p.Signal.SetActive(false)
	assert.Never(t, func() bool { return len(p.Store.Writes()) > 0 }, 100*time.Millisecond, tick)
	assert.Equal(t, "prefer-dark", get(t, p, ifacePath+KeyColorScheme))
}

func TestAgent_AmbientUnavailable(t *testing.T) {
	ctx := context.Background()
	p, _ := desktop(t)
	p.Signal.SetFail(true)
	a := startAgent(t, p)

	assert.Eventually(t, func() bool { return p.Signal.Connects() == 1 }, waitFor, tick)
	assert.True(t, a.Running())

	require.NoError(t, p.Store.Write(ctx, ifacePath+KeyColorScheme, "'prefer-dark'"))
	assert.Eventually(t, func() bool {
		return get(t, p, agentPath+"light-gtk-theme") == "Adwaita"
	}, waitFor, tick)
}

func TestAgent_WatchFailure(t *testing.T) {
	p, cfg := desktop(t)
	p.Watches.Fail = true
	a := NewAgent(p, cfg, logging.Discard())

	err := a.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch wallpaper")
	assert.False(t, a.Running())
	assert.Equal(t, 0, p.Store.Watchers())
	assert.Equal(t, 0, p.Signal.Connects())
}

func TestAgent_StopIgnoresLateEvents(t *testing.T) {
	ctx := context.Background()
	p, _ := desktop(t)
	a := startAgent(t, p)
	require.Eventually(t, func() bool { return p.Signal.Subscribers() == 1 }, waitFor, tick)

	a.Stop()
	p.Store.ClearWrites()

	p.Signal.SetActive(true)
	require.NoError(t, p.Store.Write(ctx, bgPath+KeyLightWallpaper, "'"+unpaired+"'"))

	assert.Equal(t, []string{bgPath + KeyLightWallpaper}, p.Store.Writes())
	assert.Equal(t, "default", get(t, p, ifacePath+KeyColorScheme))
}
