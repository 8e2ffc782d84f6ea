package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends understood by kv.Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// MaxScanIntervalSec bounds the scanner period; minute matching needs a
// tick inside every minute.
const MaxScanIntervalSec = 60

// StorageConfig selects where the calendar state is persisted.
type StorageConfig struct {
	// Backend is one of "file", "sqlite" or "memory".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Dir is the data directory for file and sqlite backends.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ScannerConfig controls the reminder scanning period.
type ScannerConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`

	// Schedule is an optional cron spec that overrides IntervalSec.
	Schedule string `mapstructure:"schedule" yaml:"schedule"`
}

// NotificationsConfig holds the platform notification and sound settings.
type NotificationsConfig struct {
	// Platform enables desktop notifications.
	Platform bool   `mapstructure:"platform" yaml:"platform"`
	Icon     string `mapstructure:"icon" yaml:"icon"`
	SoundURL string `mapstructure:"sound_url" yaml:"sound_url"`

	// Player is the command used to play SoundURL. Empty rings the
	// terminal bell.
	Player string `mapstructure:"player" yaml:"player"`
}

// BasicAuthConfig protects the HTTP API. The password is read from the
// system keyring under PasswordKey.
type BasicAuthConfig struct {
	Username    string `mapstructure:"username" yaml:"username"`
	PasswordKey string `mapstructure:"password_key" yaml:"password_key"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Listen    string          `mapstructure:"listen" yaml:"listen"`
	BasicAuth BasicAuthConfig `mapstructure:"basic_auth" yaml:"basic_auth"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	// WeekStart is "sunday" or "monday".
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`
	Theme     string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage       StorageConfig       `mapstructure:"storage" yaml:"storage"`
	Scanner       ScannerConfig       `mapstructure:"scanner" yaml:"scanner"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Server        ServerConfig        `mapstructure:"server" yaml:"server"`
	Display       DisplayConfig       `mapstructure:"display" yaml:"display"`
	Log           LogConfig           `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/smartcal/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "smartcal", "config.yaml")
}

// DefaultDataDir returns ~/.local/share/smartcal.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "smartcal-data")
	}
	return filepath.Join(home, ".local", "share", "smartcal")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     DefaultDataDir(),
		},
		Scanner: ScannerConfig{
			IntervalSec: 30,
		},
		Notifications: NotificationsConfig{
			Platform: true,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8630",
			BasicAuth: BasicAuthConfig{
				PasswordKey: "server-password",
			},
		},
		Display: DisplayConfig{
			WeekStart: "sunday",
			Theme:     "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("scanner.interval_sec", cfg.Scanner.IntervalSec)
	v.SetDefault("scanner.schedule", cfg.Scanner.Schedule)
	v.SetDefault("notifications.platform", cfg.Notifications.Platform)
	v.SetDefault("notifications.icon", cfg.Notifications.Icon)
	v.SetDefault("notifications.sound_url", cfg.Notifications.SoundURL)
	v.SetDefault("notifications.player", cfg.Notifications.Player)
	v.SetDefault("server.listen", cfg.Server.Listen)
	v.SetDefault("server.basic_auth.username", cfg.Server.BasicAuth.Username)
	v.SetDefault("server.basic_auth.password_key", cfg.Server.BasicAuth.PasswordKey)
	v.SetDefault("display.week_start", cfg.Display.WeekStart)
	v.SetDefault("display.theme", cfg.Display.Theme)
	v.SetDefault("log.level", cfg.Log.Level)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// SMARTCAL_* environment variables override file values. If the file does
// not exist, defaults (plus environment) are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SMARTCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q: want file, sqlite or memory", c.Storage.Backend)
	}
	if c.Scanner.Schedule == "" {
		if c.Scanner.IntervalSec < 1 || c.Scanner.IntervalSec > MaxScanIntervalSec {
			return fmt.Errorf("scanner.interval_sec %d: want 1..%d", c.Scanner.IntervalSec, MaxScanIntervalSec)
		}
	}
	switch strings.ToLower(c.Display.WeekStart) {
	case "sunday", "monday":
	default:
		return fmt.Errorf("display.week_start %q: want sunday or monday", c.Display.WeekStart)
	}
	return nil
}

// ScanSchedule returns the cron spec driving the reminder scanner.
func (c *AppConfig) ScanSchedule() string {
	if c.Scanner.Schedule != "" {
		return c.Scanner.Schedule
	}
	return fmt.Sprintf("@every %ds", c.Scanner.IntervalSec)
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("scanner", cfg.Scanner)
	v.Set("notifications", cfg.Notifications)
	v.Set("server", cfg.Server)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// LoadDotEnv seeds the process environment from .env files. Missing files
// are ignored; existing variables are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading env file %s: %w", p, err)
		}
	}
	return nil
}
