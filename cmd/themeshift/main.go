// Package main is the entry point for the themeshift CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/darkawower/themeshift/internal/config"
	"github.com/darkawower/themeshift/internal/core"
	"github.com/darkawower/themeshift/internal/logging"
	"github.com/darkawower/themeshift/internal/platform"
	_ "github.com/darkawower/themeshift/internal/platform/gnome"
	_ "github.com/darkawower/themeshift/internal/platform/stub"
	"github.com/darkawower/themeshift/internal/theme"
	"github.com/darkawower/themeshift/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	// Global flags
	cfgFile string
	verbose bool
	quiet   bool

	// Global output
	out *ui.Output
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "themeshift",
		Short: "Light/dark appearance synchronizer for GNOME",
		Long: `Themeshift keeps the GNOME appearance in step with the light/dark mode.
It remembers themes, icons, cursor, accent color and shell theme per mode,
follows night light when automatic mode is on, and keeps paired wallpapers
from drifting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/themeshift/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddCommand(
		newInitCmd(),
		newRunCmd(),
		newStatusCmd(),
		newApplyCmd(),
		newAutoCmd(),
		newAccentCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// initOutput initializes the output.
func initOutput() {
	out = ui.DefaultOutput()
	out.SetVerbose(verbose)
	out.SetQuiet(quiet)
}

// session bundles what every command that touches settings needs.
type session struct {
	cfg      *config.Config
	platform platform.Platform
	logger   *slog.Logger
	closer   io.Closer
}

func (s *session) Close() {
	s.closer.Close()
}

// openSession loads the config and env file, sets up logging and opens the
// platform. console receives log output besides the log file.
func openSession(console io.Writer) (*session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	logger, closer := logging.New(cfg.Log, console)

	return &session{
		cfg:      cfg,
		platform: platform.Open(cfg),
		logger:   logger,
		closer:   closer,
	}, nil
}

// newEngine creates an engine over the live settings.
func (s *session) newEngine(ctx context.Context) *core.Engine {
	e := core.NewEngine(s.platform, s.cfg, core.WithLogger(s.logger), core.WithSyncCommands())
	e.Init(ctx)
	return e
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			configPath := cfgFile
			if configPath == "" {
				configPath = filepath.Join(config.DefaultConfigDir(), "config.toml")
			}

			if _, err := os.Stat(configPath); err == nil && !force {
				out.Warning("Configuration already exists at %s", shortenPath(configPath))
				out.Info("Use --force to overwrite")
				return nil
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(configPath); err != nil {
				out.Error("Failed to write config: %v", err)
				return err
			}

			out.Success("Themeshift initialized")
			out.Field("Config", shortenPath(configPath))
			out.Field("Log", shortenPath(cfg.Log.File))
			out.Field("Env file", shortenPath(cfg.EnvFile))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration")

	return cmd
}

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the synchronization agent until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			s, err := openSession(os.Stderr)
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'themeshift init' to create a default configuration")
				return err
			}
			defer s.Close()

			if !s.platform.IsSupported() {
				s.logger.Warn("platform has no ambient signal, automatic mode is inactive", "platform", s.platform.Name())
			}

			return runAgent(cmd.Context(), core.NewAgent(s.platform, s.cfg, s.logger))
		},
	}
}

// runAgent starts agent and stops it once ctx is done.
func runAgent(ctx context.Context, agent *core.Agent) error {
	if err := agent.Start(ctx); err != nil {
		return fmt.Errorf("failed to start agent: %w", err)
	}
	<-ctx.Done()
	agent.Stop()
	return nil
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the synchronized settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			s, err := openSession(io.Discard)
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'themeshift init' to create a default configuration")
				return err
			}
			defer s.Close()

			printStatus(out, s.newEngine(cmd.Context()).Status(cmd.Context()))
			return nil
		},
	}
}

func printStatus(o *ui.Output, status *core.Status) {
	o.Section("Desktop")
	o.Field("Platform", status.Platform)
	if status.AutomaticMode {
		o.FieldColored("Automatic mode", "on", ui.Green)
	} else {
		o.FieldColored("Automatic mode", "off", ui.Yellow)
	}
	o.FieldColored("Mode", status.Mode.String(), ui.Cyan)
	o.Field("Color scheme", status.ColorScheme)
	o.Print("")

	o.Section("Wallpapers")
	o.Field("Light", shortenPath(wallpaperDisplay(status.Wallpapers.Light)))
	o.Field("Dark", shortenPath(wallpaperDisplay(status.Wallpapers.Dark)))
	o.Print("")

	o.Section("Snapshots")
	o.Table([]string{"Attribute", "Light", "Dark"}, snapshotRows(status.Light, status.Dark))
}

func snapshotRows(light, dark core.Snapshot) [][]string {
	cell := func(v string) string {
		if v == "" {
			return "-"
		}
		return v
	}
	return [][]string{
		{core.KeyGTKTheme, cell(light.GTK), cell(dark.GTK)},
		{core.KeyIconTheme, cell(light.Icon), cell(dark.Icon)},
		{core.KeyCursorTheme, cell(light.Cursor), cell(dark.Cursor)},
		{core.KeyAccentColor, cell(light.Accent), cell(dark.Accent)},
		{"shell-theme", cell(light.Shell), cell(dark.Shell)},
	}
}

// newApplyCmd creates the apply command.
func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "apply <light|dark>",
		Short:     "Apply the stored appearance of a mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			mode, err := theme.Parse(args[0])
			if err != nil {
				out.Error("%v", err)
				return err
			}

			s, err := openSession(io.Discard)
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'themeshift init' to create a default configuration")
				return err
			}
			defer s.Close()

			e := s.newEngine(cmd.Context())
			if e.Snapshot(cmd.Context(), mode).IsZero() {
				out.Warning("No %s appearance stored yet", mode)
				return nil
			}

			e.Apply(cmd.Context(), mode)
			out.Success("Applied %s appearance", mode)
			return nil
		},
	}
}

// newAutoCmd creates the auto command.
func newAutoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto [on|off]",
		Short: "Show or set automatic mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			s, err := openSession(io.Discard)
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'themeshift init' to create a default configuration")
				return err
			}
			defer s.Close()

			e := core.NewEngine(s.platform, s.cfg, core.WithLogger(s.logger))
			if len(args) == 0 {
				out.Field("Automatic mode", onOff(e.AutomaticMode(cmd.Context())))
				return nil
			}

			enabled, err := parseToggle(args[0])
			if err != nil {
				out.Error("%v", err)
				return err
			}

			e.SetAutomaticMode(cmd.Context(), enabled)
			out.Success("Automatic mode %s", onOff(enabled))
			return nil
		},
	}
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (must be on or off)", s)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// newAccentCmd creates the accent command.
func newAccentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accent",
		Short: "Suggest an accent color for the current wallpaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			s, err := openSession(io.Discard)
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'themeshift init' to create a default configuration")
				return err
			}
			defer s.Close()

			result, err := s.newEngine(cmd.Context()).SuggestAccent(cmd.Context())
			if err != nil {
				out.Error("Failed to suggest accent: %v", err)
				return err
			}

			out.Field("Wallpaper", shortenPath(result.Wallpaper))
			out.Field("Mode", result.Mode.String())
			out.Print("")
			for _, c := range result.Dominant {
				out.ColorSwatch(c.Hex(), "")
			}
			out.Print("")
			out.FieldColored("Suggested", result.Accent, ui.Cyan)
			out.Field("Current", result.Current)
			return nil
		},
	}
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			initOutput()
			out.Print("themeshift version %s", version)
		},
	}
}

// wallpaperDisplay strips the file scheme for display.
func wallpaperDisplay(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// shortenPath shortens a path for display.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~/" + rest
	}
	return path
}
