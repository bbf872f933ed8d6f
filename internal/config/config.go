// Package config loads startup settings from a YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "countdown"
	envPrefix = "COUNTDOWN"
)

// Config holds everything needed before the store is opened. User facing
// preferences such as volume live in the store's settings table instead.
type Config struct {
	DBPath      string `mapstructure:"db_path"`
	LogFile     string `mapstructure:"log_file"`
	LogLevel    string `mapstructure:"log_level"`
	SoundFile   string `mapstructure:"sound_file"`
	LegacyState string `mapstructure:"legacy_state"`

	// File is the config file that was read or created.
	File string
}

// Dir returns the per-user config directory for the app.
func Dir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(homeDir, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(configHome, appName), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is created with the default values. Environment
// variables prefixed with COUNTDOWN_ override the file, and a .env file in
// the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = filepath.Join(dir, appName+".yml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", filepath.Join(dir, appName+".db"))
	v.SetDefault("log_file", filepath.Join(dir, appName+".log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("sound_file", "")
	v.SetDefault("legacy_state", "")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			if err := v.WriteConfigAs(path); err != nil {
				return nil, fmt.Errorf("create config file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = path
	return cfg, nil
}

// Level maps log_level to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
