package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/five82/agenda/internal/api"
	"github.com/five82/agenda/internal/kv"
)

// Storage keys for the persisted session.
const (
	KeyToken     = "authToken"
	KeyUser      = "authUser"
	KeyExpiresAt = "authExpiresAt"
)

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
)

// ErrInvalidResponse reports a login response without a token or user.
var ErrInvalidResponse = errors.New("invalid response from API")

// Remote is the part of the request gateway the manager needs.
type Remote interface {
	IsConfigured() bool
	Post(ctx context.Context, path string, body, dest any) error
}

var _ Remote = (*api.Client)(nil)

// User is the profile returned with a session.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *User) wellFormed() bool {
	return u != nil && strings.TrimSpace(u.ID) != "" && strings.TrimSpace(u.Username) != ""
}

// Session is an authenticated token and user. ExpiresAt is zero when unknown.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
	Local     bool
}

// State is the manager's authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	User      *User  `json:"user"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Manager owns the current session and its persistence.
type Manager struct {
	remote   Remote
	store    kv.Store
	fallback Credential
	logger   *slog.Logger

	mu      sync.RWMutex
	state   State
	session *Session
}

// Option customizes a Manager.
type Option func(*Manager)

// WithFallback replaces the local credential accepted when the remote login fails.
func WithFallback(c Credential) Option {
	return func(m *Manager) {
		m.fallback = c
	}
}

// WithLogger sets the logger used for suppressed failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager restores any saved session from store without contacting the
// remote. A saved user record that cannot be decoded is ignored.
func NewManager(ctx context.Context, remote Remote, store kv.Store, opts ...Option) (*Manager, error) {
	if remote == nil || store == nil {
		return nil, fmt.Errorf("remote and store are required")
	}
	m := &Manager{
		remote:   remote,
		store:    store,
		fallback: DefaultCredential(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.restore(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) restore(ctx context.Context) error {
	token, hasToken, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyToken, err)
	}
	raw, hasUser, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyUser, err)
	}
	if !hasToken || !hasUser || token == "" {
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.Warn("saved user record unreadable; starting signed out", "error", err)
		return nil
	}
	if !user.wellFormed() {
		m.logger.Warn("saved user record incomplete; starting signed out")
		return nil
	}

	s := &Session{Token: token, User: user, Local: strings.HasPrefix(token, localTokenPrefix)}
	if v, ok, err := m.store.Get(ctx, KeyExpiresAt); err == nil && ok {
		if t, perr := time.Parse(time.RFC3339, v); perr == nil {
			s.ExpiresAt = t
		}
	}

	m.mu.Lock()
	m.session = s
	m.state = Authenticated
	m.mu.Unlock()
	return nil
}

// Login authenticates against the remote and falls back to the local
// credential when the remote attempt fails. An unconfigured remote fails
// immediately. A failed attempt leaves any existing session in place.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if !m.remote.IsConfigured() {
		return nil, fmt.Errorf("login: %w", api.ErrNotConfigured)
	}

	prev := m.setState(Authenticating)

	s, remoteErr := m.remoteLogin(ctx, username, password)
	if remoteErr != nil {
		if !m.fallback.Matches(username, password) {
			m.setState(prev)
			return nil, remoteErr
		}
		m.logger.Info("remote login failed; using local credential", "username", username, "error", remoteErr)
		s = localSession(m.fallback.Username)
	}

	if err := m.persist(ctx, s); err != nil {
		m.setState(prev)
		return nil, err
	}

	m.mu.Lock()
	m.session = s
	m.state = Authenticated
	m.mu.Unlock()

	m.logger.Info("signed in", "username", s.User.Username, "local", s.Local)
	cp := *s
	return &cp, nil
}

func (m *Manager) remoteLogin(ctx context.Context, username, password string) (*Session, error) {
	var resp loginResponse
	if err := m.remote.Post(ctx, loginPath, loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Token) == "" || !resp.User.wellFormed() {
		return nil, fmt.Errorf("login: %w", ErrInvalidResponse)
	}

	s := &Session{Token: resp.Token, User: *resp.User}
	if resp.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, resp.ExpiresAt); err == nil {
			s.ExpiresAt = t
		}
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = tokenExpiry(resp.Token)
	}
	return s, nil
}

func (m *Manager) persist(ctx context.Context, s *Session) error {
	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.store.Set(ctx, KeyToken, s.Token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := m.store.Set(ctx, KeyUser, string(user)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if s.ExpiresAt.IsZero() {
		err = m.store.Remove(ctx, KeyExpiresAt)
	} else {
		err = m.store.Set(ctx, KeyExpiresAt, s.ExpiresAt.UTC().Format(time.RFC3339))
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout notifies the remote when configured and always clears the session.
// The remote error is logged and dropped; the returned error only reports
// storage cleanup failures.
func (m *Manager) Logout(ctx context.Context) error {
	if m.remote.IsConfigured() {
		if err := m.remote.Post(ctx, logoutPath, struct{}{}, nil); err != nil {
			m.logger.Warn("remote logout failed", "error", err)
		}
	}

	m.mu.Lock()
	m.session = nil
	m.state = Unauthenticated
	m.mu.Unlock()

	return errors.Join(
		m.store.Remove(ctx, KeyToken),
		m.store.Remove(ctx, KeyUser),
		m.store.Remove(ctx, KeyExpiresAt),
	)
}

// IsAuthenticated reports whether a token and user are held in memory.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil && m.session.Token != "" && m.session.User.wellFormed()
}

// Session returns a copy of the current session, or nil when signed out.
func (m *Manager) Session() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	cp := *m.session
	return &cp
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) setState(s State) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	m.state = s
	return prev
}
