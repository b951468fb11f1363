package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/agenda/internal/api"
	"github.com/five82/agenda/internal/auth"
	"github.com/five82/agenda/internal/kv"
	"github.com/five82/agenda/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewSettings
	ViewClientes
	ViewAgendamentos
	ViewLogs
)

// ThemeKey is the storage key holding the selected theme name.
const ThemeKey = "theme"

// Sessions is the session manager as seen by the UI.
type Sessions interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Logout(ctx context.Context) error
	Session() *auth.Session
	IsAuthenticated() bool
}

// HealthChecker backs the settings "test connection" action.
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// Refresher asks the background poller for an immediate refresh.
type Refresher interface {
	Trigger()
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Settings  *api.Settings
	Client    HealthChecker
	Sessions  Sessions
	Store     *state.Store
	Poller    Refresher
	Prefs     kv.Store
	ThemeName string
	LogPath   string
	Logger    *slog.Logger
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx      context.Context
	settings *api.Settings
	client   HealthChecker
	sessions Sessions
	store    *state.Store
	poller   Refresher
	prefs    kv.Store
	logPath  string
	logger   *slog.Logger
	pollTick time.Duration

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	returnView  View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot
	session  *auth.Session

	// Views
	login        loginForm
	settingsForm settingsForm
	clientes     clientesPane
	agendamentos agendamentosPane
	logs         logPane

	// Activity
	spinner  spinner.Model
	busy     bool
	flash    string
	flashErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:          ctx,
		settings:     opts.Settings,
		client:       opts.Client,
		sessions:     opts.Sessions,
		store:        opts.Store,
		poller:       opts.Poller,
		prefs:        opts.Prefs,
		logPath:      opts.LogPath,
		logger:       logger,
		pollTick:     pollTick,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		theme:        GetTheme(themeName),
		login:        newLoginForm(),
		settingsForm: newSettingsForm(),
		clientes:     newClientesPane(),
		agendamentos: newAgendamentosPane(),
		logs:         newLogPane(),
		spinner:      sp,
	}

	if m.sessions != nil && m.sessions.IsAuthenticated() {
		m.session = m.sessions.Session()
		m.currentView = ViewClientes
	} else {
		m.currentView = ViewLogin
		m.login.focus(0)
		if m.settings != nil && !m.settings.IsConfigured() {
			m.setFlash("API not configured. Press ctrl+s to open settings.", false)
		}
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clientes.setData(m.snapshot.Clientes)
		m.agendamentos.setData(m.snapshot.Agendamentos)
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case logoutResultMsg:
		m.busy = false
		if m.store != nil {
			m.store.Reset()
		}
		m.snapshot = state.Snapshot{}
		m.clientes.setData(nil)
		m.agendamentos.setData(nil)
		m.session = nil
		m.currentView = ViewLogin
		m.login.reset()
		if msg.err != nil {
			m.logger.Warn("logout cleanup failed", "error", msg.err)
			m.setFlash("Signed out; local cleanup failed: "+describeError(msg.err), true)
		} else {
			m.setFlash("Signed out.", false)
		}
		return m, m.login.focus(0)

	case healthResultMsg:
		m.busy = false
		if msg.err != nil {
			m.setFlash("Connection failed: "+describeError(msg.err), true)
		} else {
			m.setFlash(fmt.Sprintf("Connection OK (status %s).", valueOr(msg.resp.Status, "unknown")), false)
		}
		return m, nil

	case settingsResultMsg:
		m.busy = false
		if msg.err != nil {
			m.setFlash(describeError(msg.err), true)
			return m, nil
		}
		if msg.cleared {
			m.settingsForm.load(m.settings)
			m.setFlash("Settings cleared.", false)
			return m, nil
		}
		m.setFlash("Settings saved.", false)
		if m.poller != nil {
			m.poller.Trigger()
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save theme failed", "theme", msg.name, "error", msg.err)
		}
		return m, nil

	case logLinesMsg:
		if msg.err != nil {
			m.logs.err = msg.err
			return m, nil
		}
		m.logs.setLines(msg.lines, m.theme)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.renderLogin()
	case ViewSettings:
		return m.renderSettings()
	case ViewClientes:
		return m.renderClientes()
	case ViewAgendamentos:
		return m.renderAgendamentos()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// contentHeight is the space between the header line and the two footer lines.
func (m Model) contentHeight() int {
	return maxInt(m.height-3, 3)
}

func (m *Model) resize() {
	w := maxInt(m.width-4, 10)
	h := m.contentHeight() - 2
	m.help.Width = m.width
	m.clientes.resize(w, h-2)
	m.agendamentos.resize(w, h-1)
	m.logs.resize(w, h-1)
	m.login.setWidth(minInt(w, 48))
	m.settingsForm.setWidth(minInt(w, 72))
}

func (m *Model) applyTheme() {
	m.spinner.Style = m.theme.Styles().AccentText
	m.clientes.applyTheme(m.theme)
	m.agendamentos.applyTheme(m.theme)
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// inputFocused reports whether keystrokes belong to a text field.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewLogin, ViewSettings:
		return true
	case ViewClientes:
		return m.clientes.searching
	}
	return false
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.inputFocused() {
		switch m.currentView {
		case ViewLogin:
			return m.handleLoginKey(msg)
		case ViewSettings:
			return m.handleSettingsKey(msg)
		case ViewClientes:
			return m.handleClientesSearchKey(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.logs.rerender(m.theme)
		return m, saveThemeCmd(m.ctx, m.prefs, m.theme.Name)
	case key.Matches(msg, m.keys.ViewClientes):
		m.currentView = ViewClientes
		return m, nil
	case key.Matches(msg, m.keys.ViewAgendamentos):
		m.currentView = ViewAgendamentos
		return m, nil
	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.ViewSettings):
		return m.openSettings()
	case key.Matches(msg, m.keys.Refresh):
		if m.poller != nil {
			m.poller.Trigger()
			m.setFlash("Refreshing...", false)
		}
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setFlash("Signing out...", false)
		return m, tea.Batch(m.spinner.Tick, logoutCmd(m.ctx, m.sessions))
	}

	switch m.currentView {
	case ViewClientes:
		return m.handleClientesKey(msg)
	case ViewAgendamentos:
		return m.handleAgendamentosKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// updateFocused forwards non-key messages (cursor blink) to the focused input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewLogin:
		cmd = m.login.update(msg)
	case ViewSettings:
		cmd = m.settingsForm.update(msg)
	case ViewClientes:
		if m.clientes.searching {
			cmd = m.clientes.updateSearch(msg)
		}
	}
	return m, cmd
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	if m.currentView != ViewSettings {
		m.returnView = m.currentView
	}
	m.currentView = ViewSettings
	m.settingsForm.load(m.settings)
	return m, m.settingsForm.focus(0)
}

func (m Model) closeSettings() (tea.Model, tea.Cmd) {
	m.settingsForm.blur()
	m.currentView = m.returnView
	if m.currentView == ViewLogin || m.session == nil {
		m.currentView = ViewLogin
		return m, m.login.focus(m.login.focused)
	}
	return m, nil
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logs.follow {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.login.password.SetValue("")
		m.setFlash(describeError(msg.err), true)
		return m, m.login.focus(1)
	}
	m.session = msg.session
	m.login.reset()
	m.currentView = ViewClientes
	name := valueOr(msg.session.User.Name, msg.session.User.Username)
	if msg.session.Local {
		m.setFlash("Signed in as "+name+" (offline credential).", false)
	} else {
		m.setFlash("Signed in as "+name+".", false)
	}
	if m.poller != nil {
		m.poller.Trigger()
	}
	return m, nil
}

// describeError turns gateway and session errors into a single status line.
func describeError(err error) string {
	var apiErr *api.APIError
	var transportErr *api.TransportError
	var parseErr *api.ParseError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrNotConfigured):
		return "API not configured. Press ctrl+s to open settings."
	case errors.Is(err, api.ErrValidation):
		return "Base URL and API key are required."
	case errors.Is(err, auth.ErrInvalidResponse):
		return "Invalid response from API."
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == 401 || apiErr.StatusCode == 403 {
			return fmt.Sprintf("Invalid credentials (%d %s).", apiErr.StatusCode, apiErr.StatusText)
		}
		return fmt.Sprintf("API error: %d %s.", apiErr.StatusCode, apiErr.StatusText)
	case errors.As(err, &transportErr):
		return "API unreachable: " + transportErr.Err.Error()
	case errors.As(err, &parseErr):
		return "Unreadable response from API."
	default:
		return err.Error()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type loginResultMsg struct {
	session *auth.Session
	err     error
}

type logoutResultMsg struct {
	err error
}

type healthResultMsg struct {
	resp *api.HealthResponse
	err  error
}

type settingsResultMsg struct {
	cleared bool
	err     error
}

type themeSavedMsg struct {
	name string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func loginCmd(ctx context.Context, sessions Sessions, username, password string) tea.Cmd {
	return func() tea.Msg {
		s, err := sessions.Login(ctx, username, password)
		return loginResultMsg{session: s, err: err}
	}
}

func logoutCmd(ctx context.Context, sessions Sessions) tea.Cmd {
	return func() tea.Msg {
		return logoutResultMsg{err: sessions.Logout(ctx)}
	}
}

func healthCmd(ctx context.Context, client HealthChecker) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Health(ctx)
		return healthResultMsg{resp: resp, err: err}
	}
}

func saveSettingsCmd(ctx context.Context, settings *api.Settings, baseURL, apiKey string) tea.Cmd {
	return func() tea.Msg {
		return settingsResultMsg{err: settings.Set(ctx, baseURL, apiKey)}
	}
}

func clearSettingsCmd(ctx context.Context, settings *api.Settings) tea.Cmd {
	return func() tea.Msg {
		return settingsResultMsg{cleared: true, err: settings.Clear(ctx)}
	}
}

func saveThemeCmd(ctx context.Context, prefs kv.Store, name string) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		return themeSavedMsg{name: name, err: prefs.Set(ctx, ThemeKey, name)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil || opts.Sessions == nil || opts.Settings == nil {
		return fmt.Errorf("ui requires store, sessions, and settings")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
