package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/agenda/internal/api"
	"github.com/five82/agenda/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// Fetcher is the slice of the API client the poller uses.
type Fetcher interface {
	IsConfigured() bool
	ListClientes(ctx context.Context) ([]api.Cliente, error)
	ListAgendamentos(ctx context.Context) ([]api.Agendamento, error)
}

// Authenticator reports whether a session is active.
type Authenticator interface {
	IsAuthenticated() bool
}

// Poller refreshes the store in the background while a user is signed in and
// the API is configured.
type Poller struct {
	store    *state.Store
	client   Fetcher
	auth     Authenticator
	interval time.Duration
	logger   *slog.Logger
	trigger  chan struct{}
}

// NewPoller builds a Poller. A non-positive interval uses the default.
func NewPoller(store *state.Store, client Fetcher, auth Authenticator, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		store:    store,
		client:   client,
		auth:     auth,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the polling goroutine and returns immediately. It stops when
// ctx is done.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-p.trigger:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}

			wait := p.interval
			if p.ready() {
				p.refresh(ctx)
				wait = calculateBackoff(p.store.Snapshot().ConsecutiveFailures, p.interval)
			}
			timer.Reset(wait)
		}
	}()
}

// Trigger requests an immediate refresh. Extra triggers while one is pending
// are dropped.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

func (p *Poller) ready() bool {
	return p.auth.IsAuthenticated() && p.client.IsConfigured()
}

func (p *Poller) refresh(ctx context.Context) {
	clientes, err := p.client.ListClientes(ctx)
	if err != nil {
		p.store.Update(nil, nil, err)
		p.logger.Warn("clientes poll failed", "error", err)
		return
	}
	agendamentos, err := p.client.ListAgendamentos(ctx)
	if err != nil {
		p.store.Update(nil, nil, err)
		p.logger.Warn("agendamentos poll failed", "error", err)
		return
	}
	p.store.Update(clientes, agendamentos, nil)
	p.logger.Debug("poll complete", "clientes", len(clientes), "agendamentos", len(agendamentos))
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
