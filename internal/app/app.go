package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/agenda/internal/api"
	"github.com/five82/agenda/internal/auth"
	"github.com/five82/agenda/internal/config"
	"github.com/five82/agenda/internal/kv"
	"github.com/five82/agenda/internal/kv/postgres"
	"github.com/five82/agenda/internal/state"
	"github.com/five82/agenda/internal/ui"
)

// Options configure the agenda application.
type Options struct {
	ConfigPath string
	StatePath  string // overrides state_path from the config file
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the agenda TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.StatePath != "" {
		cfg.StatePath = opts.StatePath
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	settings, err := api.LoadSettings(ctx, store, cfg.Namespace)
	if err != nil {
		return fmt.Errorf("load api settings: %w", err)
	}
	client := api.NewClient(settings,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)

	sessions, err := auth.NewManager(ctx, client, store,
		auth.WithFallback(auth.Credential{
			Username:     cfg.Fallback.Username,
			PasswordHash: cfg.Fallback.PasswordHash,
		}),
		auth.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init sessions: %w", err)
	}

	snapshots := &state.Store{}
	poller := NewPoller(snapshots, client, sessions, cfg.PollInterval, logger)
	poller.Start(ctx)

	themeName, _, err := store.Get(ctx, ui.ThemeKey)
	if err != nil {
		logger.Warn("load theme preference failed", "error", err)
	}

	logger.Info("agenda started",
		"api_configured", settings.IsConfigured(),
		"authenticated", sessions.IsAuthenticated(),
		"poll_interval", cfg.PollInterval,
	)

	return ui.Run(ui.Options{
		Context:   ctx,
		Settings:  settings,
		Client:    client,
		Sessions:  sessions,
		Store:     snapshots,
		Poller:    poller,
		Prefs:     store,
		ThemeName: themeName,
		LogPath:   cfg.LogPath,
		Logger:    logger,
	})
}

// openLogger writes structured logs to cfg.LogPath; the terminal belongs to the UI.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if strings.TrimSpace(cfg.LogPath) == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return logger, func() { _ = f.Close() }, nil
}

// openStore selects PostgreSQL when a database URL is configured, the TOML
// state file otherwise.
func openStore(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		pg, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return pg, func() { _ = pg.Close() }, nil
	}
	f, err := kv.OpenFile(cfg.StatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open state file: %w", err)
	}
	return f, func() {}, nil
}
