package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds agenda's runtime settings. Paths are absolute after Load.
type Config struct {
	Namespace      string
	StatePath      string
	DatabaseURL    string
	LogPath        string
	LogLevel       slog.Level
	RequestTimeout time.Duration
	PollInterval   time.Duration
	Fallback       Fallback
}

// Fallback is the local credential accepted when the remote login fails.
// An empty PasswordHash selects the built-in password.
type Fallback struct {
	Username     string
	PasswordHash string
}

const (
	defaultConfigPath     = "~/.config/agenda/config.toml"
	defaultNamespace      = "agenda_oxum"
	defaultStatePath      = "~/.local/share/agenda/state.toml"
	defaultLogPath        = "~/.local/share/agenda/agenda.log"
	defaultRequestTimeout = 10 * time.Second
	defaultPollInterval   = 30 * time.Second
	defaultFallbackUser   = "admin"
)

type rawFallback struct {
	Username     string `toml:"username" yaml:"username"`
	PasswordHash string `toml:"password_hash" yaml:"password_hash"`
}

type rawConfig struct {
	Namespace      string      `toml:"namespace" yaml:"namespace"`
	StatePath      string      `toml:"state_path" yaml:"state_path"`
	DatabaseURL    string      `toml:"database_url" yaml:"database_url"`
	LogPath        string      `toml:"log_path" yaml:"log_path"`
	LogLevel       string      `toml:"log_level" yaml:"log_level"`
	RequestTimeout string      `toml:"request_timeout" yaml:"request_timeout"`
	PollInterval   string      `toml:"poll_interval" yaml:"poll_interval"`
	Fallback       rawFallback `toml:"fallback" yaml:"fallback"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Namespace:      defaultNamespace,
		StatePath:      mustExpand(defaultStatePath),
		LogPath:        mustExpand(defaultLogPath),
		LogLevel:       slog.LevelInfo,
		RequestTimeout: defaultRequestTimeout,
		PollInterval:   defaultPollInterval,
		Fallback:       Fallback{Username: defaultFallbackUser},
	}
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing. Files ending in .yaml or .yml are parsed
// as YAML, everything else as TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return raw.resolve()
}

func (raw rawConfig) resolve() (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.Namespace); v != "" {
		cfg.Namespace = v
	}
	if v := strings.TrimSpace(raw.StatePath); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("state_path: %w", err)
		}
		cfg.StatePath = expanded
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("log_path: %w", err)
		}
		cfg.LogPath = expanded
	}
	cfg.DatabaseURL = strings.TrimSpace(raw.DatabaseURL)

	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, defaultPollInterval); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(raw.Fallback.Username); v != "" {
		cfg.Fallback.Username = v
	}
	cfg.Fallback.PasswordHash = strings.TrimSpace(raw.Fallback.PasswordHash)

	return cfg, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive", field)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
