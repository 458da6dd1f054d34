package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/keyosd/internal/app"
	"github.com/jmylchreest/keyosd/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	globalOpts struct {
		verbose     bool
		configPath  string
		window      bool
		windowColor string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "keyosd",
	Short: "Keyboard activity overlay for Wayland desktops",
	Long: `keyosd draws a live picture of your keyboard on screen, highlighting
keys as they are pressed. It talks to the compositor directly over the
wlr-layer-shell protocol so the overlay floats above everything without
taking focus; compositors without a layer shell get a regular window
instead.

Key layout and colors come from a TOML configuration file, which is
watched and reloaded while the overlay is running.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx, app.Options{
			ConfigPath:  configPath(),
			WindowMode:  globalOpts.window,
			WindowColor: windowColor(),
			Logger:      logger,
		})
	},
}

// Execute runs the root command and exits non-zero on fatal errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/keyosd/keys.toml)")
	rootCmd.Flags().BoolVar(&globalOpts.window, "window", false,
		"Run in window mode instead of the default overlay mode")
	rootCmd.Flags().StringVar(&globalOpts.windowColor, "window-color", "#000000FF",
		"Window background color in window mode (e.g. #RRGGBBAA)")
}

func configPath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}

func windowColor() color.NRGBA {
	c, err := config.ParseColor(globalOpts.windowColor)
	if err != nil {
		logger.Warn("invalid --window-color, using opaque black", "value", globalOpts.windowColor, "error", err)
		return color.NRGBA{A: 255}
	}
	return c
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout stays clean for check output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
