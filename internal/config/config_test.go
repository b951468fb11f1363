package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Namespace != defaultNamespace {
		t.Fatalf("Namespace = %q, want %q", cfg.Namespace, defaultNamespace)
	}
	wantState, err := expandPath(defaultStatePath)
	if err != nil {
		t.Fatalf("expandPath(defaultStatePath) returned error: %v", err)
	}
	if cfg.StatePath != wantState {
		t.Fatalf("StatePath = %q, want %q", cfg.StatePath, wantState)
	}
	if !strings.HasPrefix(cfg.LogPath, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", cfg.LogPath, home)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 10*time.Second || cfg.PollInterval != 30*time.Second {
		t.Fatalf("timeouts = %v/%v, want 10s/30s", cfg.RequestTimeout, cfg.PollInterval)
	}
	if cfg.Fallback.Username != "admin" || cfg.Fallback.PasswordHash != "" {
		t.Fatalf("Fallback = %+v, want admin with built-in password", cfg.Fallback)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestLoad_ParsesAndTrimsTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, "config.toml", `
namespace = "  clinic  "
state_path = "  ~/.agenda/state.toml  "
database_url = " postgres://agenda@localhost/agenda?sslmode=disable "
log_level = "DEBUG"
request_timeout = "3s"
poll_interval = "1m"

[fallback]
username = " ops "
password_hash = "$2a$10$abcdefghijklmnopqrstuv"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Namespace != "clinic" {
		t.Fatalf("Namespace = %q, want clinic", cfg.Namespace)
	}
	if cfg.StatePath != filepath.Join(home, ".agenda/state.toml") {
		t.Fatalf("StatePath = %q, want it under HOME", cfg.StatePath)
	}
	if cfg.DatabaseURL != "postgres://agenda@localhost/agenda?sslmode=disable" {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.PollInterval != time.Minute {
		t.Fatalf("timeouts = %v/%v, want 3s/1m", cfg.RequestTimeout, cfg.PollInterval)
	}
	if cfg.Fallback.Username != "ops" || cfg.Fallback.PasswordHash != "$2a$10$abcdefghijklmnopqrstuv" {
		t.Fatalf("Fallback = %+v", cfg.Fallback)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	for _, name := range []string{"config.yaml", "config.YML"} {
		path := writeConfig(t, name, `
namespace: clinic
log_level: warn
poll_interval: 45s
fallback:
  username: ops
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) returned error: %v", name, err)
		}
		if cfg.Namespace != "clinic" || cfg.LogLevel != slog.LevelWarn || cfg.PollInterval != 45*time.Second {
			t.Fatalf("Load(%s) = %+v", name, cfg)
		}
		if cfg.Fallback.Username != "ops" {
			t.Fatalf("Fallback.Username = %q, want ops", cfg.Fallback.Username)
		}
		if cfg.RequestTimeout != defaultRequestTimeout {
			t.Fatalf("RequestTimeout = %v, want default", cfg.RequestTimeout)
		}
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, "config.toml", `
namespace = "   "
log_path = ""
request_timeout = " "
[fallback]
username = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.Namespace != def.Namespace || cfg.LogPath != def.LogPath || cfg.RequestTimeout != def.RequestTimeout {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, def)
	}
	if cfg.Fallback.Username != "admin" {
		t.Fatalf("Fallback.Username = %q, want admin", cfg.Fallback.Username)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	cases := map[string]string{
		"bad toml":     `namespace = [`,
		"bad duration": `request_timeout = "soon"`,
		"zero poll":    `poll_interval = "0s"`,
		"bad level":    `log_level = "loud"`,
	}
	for name, body := range cases {
		path := writeConfig(t, "config.toml", body)
		_, err := Load(path)
		if err == nil {
			t.Fatalf("%s: Load returned nil error, want parse error", name)
		}
		if !strings.Contains(err.Error(), "parse config") {
			t.Fatalf("%s: Load error = %q, want it to mention parse config", name, err.Error())
		}
	}
}

func TestLoad_InvalidYAMLFails(t *testing.T) {
	path := writeConfig(t, "config.yaml", "namespace: [unclosed")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
