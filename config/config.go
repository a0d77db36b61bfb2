// Package config loads rig runtime settings from a YAML file and RIG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/oriumgames/rig"
)

// Config holds all runtime settings of the armature engine.
type Config struct {
	Armature ArmatureConfig `mapstructure:"armature"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ArmatureConfig holds armature lifecycle and application settings.
type ArmatureConfig struct {
	Expiration       time.Duration `mapstructure:"expiration"`
	VisibilityWindow time.Duration `mapstructure:"visibility_window"`
	DebounceDelay    time.Duration `mapstructure:"debounce_delay"`
	RootBoneName     string        `mapstructure:"root_bone_name"`
	MoveEpsilon      float64       `mapstructure:"move_epsilon"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from path (optional) and environment variables.
// An empty path searches for rig.yaml in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("armature.expiration", rig.DefaultExpiration)
	v.SetDefault("armature.visibility_window", rig.DefaultVisibilityWindow)
	v.SetDefault("armature.debounce_delay", rig.DefaultDebounceDelay)
	v.SetDefault("armature.root_bone_name", rig.DefaultRootBoneName)
	v.SetDefault("armature.move_epsilon", rig.DefaultMoveEpsilon)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rig")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RIG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Armature.Expiration <= 0 {
		return fmt.Errorf("armature.expiration must be greater than 0")
	}
	if c.Armature.VisibilityWindow <= 0 {
		return fmt.Errorf("armature.visibility_window must be greater than 0")
	}
	if c.Armature.VisibilityWindow > c.Armature.Expiration {
		return fmt.Errorf("armature.visibility_window (%s) must not exceed armature.expiration (%s)",
			c.Armature.VisibilityWindow, c.Armature.Expiration)
	}
	if c.Armature.DebounceDelay < 0 {
		return fmt.Errorf("armature.debounce_delay must be >= 0")
	}
	if c.Armature.RootBoneName == "" {
		return fmt.Errorf("armature.root_bone_name must not be empty")
	}
	if c.Armature.MoveEpsilon < 0 {
		return fmt.Errorf("armature.move_epsilon must be >= 0")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Options converts the settings into manager options, using logger for the manager.
func (c *Config) Options(logger *slog.Logger) []rig.Option {
	return []rig.Option{
		rig.WithExpiration(c.Armature.Expiration),
		rig.WithVisibilityWindow(c.Armature.VisibilityWindow),
		rig.WithDebounceDelay(c.Armature.DebounceDelay),
		rig.WithRootBoneName(c.Armature.RootBoneName),
		rig.WithMoveEpsilon(c.Armature.MoveEpsilon),
		rig.WithLogger(logger),
	}
}

// NewLogger builds a stderr logger from the logging settings.
func NewLogger(c LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
