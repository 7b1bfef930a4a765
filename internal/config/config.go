// Package config loads the themeshift agent configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Backend string

const (
	BackendAuto  Backend = "auto"
	BackendDconf Backend = "dconf"
	BackendFile  Backend = "file"
)

type StoreConfig struct {
	Backend Backend `toml:"backend"`
	Path    string  `toml:"path"`
}

type AgentConfig struct {
	SettingsPath string `toml:"settings-path"`
}

type DesktopConfig struct {
	BackgroundPath string `toml:"background-path"`
	InterfacePath  string `toml:"interface-path"`
	ShellPath      string `toml:"shell-path"`
	ShellSchema    string `toml:"shell-schema"`
	ShellKey       string `toml:"shell-key"`
}

type AmbientConfig struct {
	Service    string `toml:"service"`
	ObjectPath string `toml:"object-path"`
	Interface  string `toml:"interface"`
	Property   string `toml:"property"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max-size"`
	MaxBackups int    `toml:"max-backups"`
	MaxAge     int    `toml:"max-age"`
}

type Config struct {
	EnvFile string        `toml:"env-file"`
	Store   StoreConfig   `toml:"store"`
	Agent   AgentConfig   `toml:"agent"`
	Desktop DesktopConfig `toml:"desktop"`
	Ambient AmbientConfig `toml:"ambient"`
	Log     LogConfig     `toml:"log"`

	configPath string
}

func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "themeshift")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "themeshift")
}

func DefaultConfig() *Config {
	configDir := DefaultConfigDir()

	return &Config{
		EnvFile: filepath.Join(configDir, "env"),
		Store: StoreConfig{
			Backend: BackendAuto,
			Path:    filepath.Join(configDir, "settings.json"),
		},
		Agent: AgentConfig{
			SettingsPath: "/org/gnome/shell/extensions/themeshift/",
		},
		Desktop: DesktopConfig{
			BackgroundPath: "/org/gnome/desktop/background/",
			InterfacePath:  "/org/gnome/desktop/interface/",
			ShellPath:      "/org/gnome/shell/extensions/user-theme/",
			ShellSchema:    "org.gnome.shell.extensions.user-theme",
			ShellKey:       "name",
		},
		Ambient: AmbientConfig{
			Service:    "org.gnome.SettingsDaemon.Color",
			ObjectPath: "/org/gnome/SettingsDaemon/Color",
			Interface:  "org.gnome.SettingsDaemon.Color",
			Property:   "NightLightActive",
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(configDir, "agent.log"),
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load reads the config at path, falling back to defaults when the file does
// not exist. An empty path means the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	cfg := DefaultConfig()
	cfg.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.postProcess()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) postProcess() {
	c.EnvFile = expandPath(c.EnvFile)
	c.Store.Path = expandPath(c.Store.Path)
	c.Log.File = expandPath(c.Log.File)

	if c.Store.Backend == "" {
		c.Store.Backend = BackendAuto
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendAuto, BackendDconf, BackendFile:
	default:
		return fmt.Errorf("invalid store backend: %s (must be auto, dconf, or file)", c.Store.Backend)
	}

	if c.Store.Backend == BackendFile && c.Store.Path == "" {
		return fmt.Errorf("store: path is required for the file backend")
	}

	paths := map[string]string{
		"agent.settings-path":     c.Agent.SettingsPath,
		"desktop.background-path": c.Desktop.BackgroundPath,
		"desktop.interface-path":  c.Desktop.InterfacePath,
		"desktop.shell-path":      c.Desktop.ShellPath,
	}
	for name, p := range paths {
		if !isDirPath(p) {
			return fmt.Errorf("%s: %q must start and end with '/'", name, p)
		}
	}

	if c.Desktop.ShellSchema == "" || c.Desktop.ShellKey == "" {
		return fmt.Errorf("desktop: shell-schema and shell-key are required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}

func (c *Config) ConfigPath() string {
	return c.configPath
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = c.configPath
	}
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// LoadEnv populates missing environment variables from the configured env
// file. Variables already set are left untouched. A missing file is not an
// error.
func (c *Config) LoadEnv() error {
	if c.EnvFile == "" {
		return nil
	}
	info, err := os.Stat(c.EnvFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("env file %s is a directory", c.EnvFile)
	}
	if err := godotenv.Load(c.EnvFile); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func isDirPath(p string) bool {
	return len(p) > 1 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/")
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
