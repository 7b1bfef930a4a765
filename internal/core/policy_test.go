package core

import (
	"testing"

	"github.com/darkawower/themeshift/internal/theme"
	"github.com/stretchr/testify/assert"
)

const (
	pairedLight = "file:///usr/share/backgrounds/sunset-l.jpg"
	pairedDark  = "file:///usr/share/backgrounds/sunset-d.jpg"
	unpaired    = "file:///home/me/Pictures/random.jpg"
)

func TestPlanWallpaper(t *testing.T) {
	mem := ModeMemory{Light: pairedLight, Dark: pairedDark}

	tests := []struct {
		name   string
		slot   theme.Mode
		value  string
		scheme theme.Mode
		mem    ModeMemory
		want   []Effect
	}{
		{
			name:   "paired light while dark is remembered",
			slot:   theme.Light,
			value:  "file:///w/forest-l.png",
			scheme: theme.Dark,
			mem:    mem,
			want:   []Effect{RememberWallpaper{Mode: theme.Light, URI: "file:///w/forest-l.png"}},
		},
		{
			name:   "paired dark while light is remembered",
			slot:   theme.Dark,
			value:  "file:///w/forest-d.png",
			scheme: theme.Light,
			mem:    mem,
			want:   []Effect{RememberWallpaper{Mode: theme.Dark, URI: "file:///w/forest-d.png"}},
		},
		{
			name:   "unpaired light while dark is reverted",
			slot:   theme.Light,
			value:  unpaired,
			scheme: theme.Dark,
			mem:    mem,
			want:   []Effect{WriteSetting{Scope: ScopeBackground, Key: KeyLightWallpaper, Value: pairedLight}},
		},
		{
			name:   "unpaired light while dark without memory is left alone",
			slot:   theme.Light,
			value:  unpaired,
			scheme: theme.Dark,
			mem:    ModeMemory{},
		},
		{
			name:   "unpaired dark while light is neither written nor remembered",
			slot:   theme.Dark,
			value:  unpaired,
			scheme: theme.Light,
			mem:    mem,
		},
		{
			name:   "unpaired light while light is remembered",
			slot:   theme.Light,
			value:  unpaired,
			scheme: theme.Light,
			mem:    mem,
			want:   []Effect{RememberWallpaper{Mode: theme.Light, URI: unpaired}},
		},
		{
			name:   "unpaired dark while dark is remembered",
			slot:   theme.Dark,
			value:  unpaired,
			scheme: theme.Dark,
			mem:    mem,
			want:   []Effect{RememberWallpaper{Mode: theme.Dark, URI: unpaired}},
		},
		{
			name:   "echo of the memorized value",
			slot:   theme.Light,
			value:  pairedLight,
			scheme: theme.Dark,
			mem:    mem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanWallpaper(tt.slot, tt.value, tt.scheme, tt.mem))
		})
	}
}

func TestPlanStyleChange(t *testing.T) {
	live := Snapshot{GTK: "Adwaita", Icon: "Papirus", Cursor: "Bibata", Accent: "blue", Shell: DefaultShellTheme}
	target := Snapshot{GTK: "Adwaita-dark", Shell: "Orchis-Dark"}

	effects := PlanStyleChange(theme.Dark, live, target)

	assert.Equal(t, []Effect{
		SaveSnapshot{Mode: theme.Light, Snapshot: live},
		WriteSetting{Scope: ScopeInterface, Key: KeyGTKTheme, Value: "Adwaita-dark"},
		SetShellTheme{Name: "Orchis-Dark"},
	}, effects)
}

func TestPlanStyleChange_EmptyTarget(t *testing.T) {
	live := Snapshot{GTK: "Adwaita-dark"}

	effects := PlanStyleChange(theme.Light, live, Snapshot{})

	assert.Equal(t, []Effect{
		SaveSnapshot{Mode: theme.Dark, Snapshot: live},
		ResetShellTheme{},
	}, effects)
}

func TestPlanAmbient(t *testing.T) {
	mem := ModeMemory{Light: pairedLight, Dark: pairedDark}

	tests := []struct {
		name        string
		active      bool
		colorScheme string
		live        ModeMemory
		mem         ModeMemory
		want        []Effect
	}{
		{
			name:        "activation switches to dark",
			active:      true,
			colorScheme: "default",
			live:        mem,
			mem:         mem,
			want:        []Effect{WriteSetting{Scope: ScopeInterface, Key: KeyColorScheme, Value: "prefer-dark"}},
		},
		{
			name:        "deactivation switches to light",
			active:      false,
			colorScheme: "prefer-dark",
			live:        mem,
			mem:         mem,
			want:        []Effect{WriteSetting{Scope: ScopeInterface, Key: KeyColorScheme, Value: "default"}},
		},
		{
			name:        "activation repairs dark wallpaper",
			active:      true,
			colorScheme: "default",
			live:        ModeMemory{Light: pairedLight, Dark: unpaired},
			mem:         mem,
			want: []Effect{
				WriteSetting{Scope: ScopeInterface, Key: KeyColorScheme, Value: "prefer-dark"},
				WriteSetting{Scope: ScopeBackground, Key: KeyDarkWallpaper, Value: pairedDark},
			},
		},
		{
			name:        "deactivation repairs light wallpaper",
			active:      false,
			colorScheme: "prefer-dark",
			live:        ModeMemory{Light: unpaired, Dark: pairedDark},
			mem:         mem,
			want: []Effect{
				WriteSetting{Scope: ScopeInterface, Key: KeyColorScheme, Value: "default"},
				WriteSetting{Scope: ScopeBackground, Key: KeyLightWallpaper, Value: pairedLight},
			},
		},
		{
			name:        "scheme already dark",
			active:      true,
			colorScheme: "prefer-dark",
			live:        mem,
			mem:         mem,
		},
		{
			name:        "nothing memorized",
			active:      true,
			colorScheme: "prefer-dark",
			live:        ModeMemory{Dark: unpaired},
			mem:         ModeMemory{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanAmbient(tt.active, tt.colorScheme, tt.live, tt.mem))
		})
	}
}

func TestPlanApply(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want []Effect
	}{
		{
			name: "full snapshot",
			snap: Snapshot{GTK: "Adwaita", Icon: "Papirus", Cursor: "Bibata", Accent: "teal", Shell: "Orchis"},
			want: []Effect{
				WriteSetting{Scope: ScopeInterface, Key: KeyGTKTheme, Value: "Adwaita"},
				WriteSetting{Scope: ScopeInterface, Key: KeyIconTheme, Value: "Papirus"},
				WriteSetting{Scope: ScopeInterface, Key: KeyCursorTheme, Value: "Bibata"},
				WriteSetting{Scope: ScopeInterface, Key: KeyAccentColor, Value: "teal"},
				SetShellTheme{Name: "Orchis"},
			},
		},
		{
			name: "default shell resets",
			snap: Snapshot{GTK: "Adwaita", Shell: DefaultShellTheme},
			want: []Effect{
				WriteSetting{Scope: ScopeInterface, Key: KeyGTKTheme, Value: "Adwaita"},
				ResetShellTheme{},
			},
		},
		{
			name: "empty snapshot only resets shell",
			snap: Snapshot{},
			want: []Effect{ResetShellTheme{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanApply(tt.snap))
		})
	}
}

func TestModeMemory(t *testing.T) {
	var m ModeMemory
	m.Set(theme.Dark, pairedDark)
	m.Set(theme.Light, pairedLight)

	assert.Equal(t, pairedDark, m.Get(theme.Dark))
	assert.Equal(t, pairedLight, m.Get(theme.Light))
}

func TestScope_String(t *testing.T) {
	assert.Equal(t, "background", ScopeBackground.String())
	assert.Equal(t, "interface", ScopeInterface.String())
	assert.Equal(t, "unknown", Scope(7).String())
}
