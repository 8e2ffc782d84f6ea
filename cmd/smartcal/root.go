package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/nhle/smartcal/internal/app"
	"github.com/nhle/smartcal/internal/model"
)

var (
	verbose    bool
	configPath string
	envFile    string

	cfg      *model.AppConfig
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smartcal",
	Short: "A local-first calendar with notes and reminders",
	Long: `smartcal keeps notes and reminders attached to calendar dates.
Run 'smartcal run' (or 'smartcal agenda') to get reminder notifications.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := model.LoadDotEnv(envFile); err != nil {
			return err
		}

		var err error
		cfg, err = model.LoadConfig(configPath)
		if err != nil {
			return err
		}

		level := parseLevel(cfg.Log.Level)
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")
}

// openApp builds the app for one-shot commands. Action toasts print to
// stdout.
func openApp(ctx context.Context, opts ...app.Option) *app.App {
	base := []app.Option{
		app.WithLogger(slog.Default()),
		app.WithTerminalToasts(os.Stdout),
	}
	a, err := app.Build(ctx, cfg, append(base, opts...)...)
	if err != nil {
		fatal("Failed to open calendar", err)
	}
	return a
}

// resolveDate accepts YYYY-MM-DD, "today", "tomorrow" and "yesterday".
func resolveDate(a *app.App, s string) (string, error) {
	now := a.Now()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return model.FormatDate(now), nil
	case "tomorrow":
		return model.FormatDate(now.AddDate(0, 0, 1)), nil
	case "yesterday":
		return model.FormatDate(now.AddDate(0, 0, -1)), nil
	}
	t, err := model.ParseDate(s, a.Location())
	if err != nil {
		return "", err
	}
	return model.FormatDate(t), nil
}
