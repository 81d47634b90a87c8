// Package config loads onboard configuration from defaults, an optional
// config file, and ONBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config contains all tunable settings for the onboarding player.
type Config struct {
	// TypingInterval is the base per-character reveal interval.
	TypingInterval time.Duration

	// FastInterval is the reveal interval inside structured-content blocks.
	FastInterval time.Duration

	// NarrativePause is the extra pause after a revealed line break.
	NarrativePause time.Duration

	// AnimationInterval is the gradient/hint animation frame interval.
	AnimationInterval time.Duration

	// CommandTimeout bounds scripted command execution.
	CommandTimeout time.Duration

	// SlowCommandTimeout bounds commands known to be slow (installs).
	SlowCommandTimeout time.Duration

	// DataDir holds the progress database.
	DataDir string

	// LogFile and LogLevel configure the file logger.
	LogFile  string
	LogLevel string

	// Theme selects the style palette.
	Theme string
}

const envPrefix = "ONBOARD"

// Load reads configuration. An explicit file path is required to exist;
// the default location is optional.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := defaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		TypingInterval:     v.GetDuration("typing_interval"),
		FastInterval:       v.GetDuration("fast_interval"),
		NarrativePause:     v.GetDuration("narrative_pause"),
		AnimationInterval:  v.GetDuration("animation_interval"),
		CommandTimeout:     v.GetDuration("command_timeout"),
		SlowCommandTimeout: v.GetDuration("slow_command_timeout"),
		DataDir:            v.GetString("data_dir"),
		LogFile:            v.GetString("log_file"),
		LogLevel:           v.GetString("log_level"),
		Theme:              v.GetString("theme"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("typing_interval", "40ms")
	v.SetDefault("fast_interval", "8ms")
	v.SetDefault("narrative_pause", "800ms")
	v.SetDefault("animation_interval", "80ms")
	v.SetDefault("command_timeout", "30s")
	v.SetDefault("slow_command_timeout", "120s")
	v.SetDefault("log_level", "info")
	v.SetDefault("theme", "default")

	if dir, err := defaultDataDir(); err == nil {
		v.SetDefault("data_dir", dir)
		v.SetDefault("log_file", filepath.Join(dir, "onboard.log"))
	} else {
		v.SetDefault("data_dir", ".onboard")
		v.SetDefault("log_file", filepath.Join(".onboard", "onboard.log"))
	}
}

func (c *Config) validate() error {
	if c.TypingInterval <= 0 {
		return fmt.Errorf("typing_interval must be positive, got %s", c.TypingInterval)
	}
	if c.FastInterval <= 0 {
		return fmt.Errorf("fast_interval must be positive, got %s", c.FastInterval)
	}
	if c.NarrativePause < 0 {
		return fmt.Errorf("narrative_pause must not be negative, got %s", c.NarrativePause)
	}
	if c.AnimationInterval <= 0 {
		return fmt.Errorf("animation_interval must be positive, got %s", c.AnimationInterval)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.SlowCommandTimeout < c.CommandTimeout {
		return fmt.Errorf("slow_command_timeout must be at least command_timeout")
	}
	return nil
}

// DatabasePath returns the progress database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "progress.db")
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "onboard"), nil
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "onboard"), nil
}
