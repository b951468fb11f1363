package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginForm holds the username and password inputs.
type loginForm struct {
	username textinput.Model
	password textinput.Model
	focused  int
}

func newLoginForm() loginForm {
	user := textinput.New()
	user.Placeholder = "username"
	user.Prompt = "User     "
	user.CharLimit = 64

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = "Password "
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginForm{username: user, password: pass}
}

func (f *loginForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.username, &f.password}
}

func (f *loginForm) focus(i int) tea.Cmd {
	inputs := f.inputs()
	f.focused = (i + len(inputs)) % len(inputs)
	var cmd tea.Cmd
	for idx, in := range inputs {
		if idx == f.focused {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (f *loginForm) reset() {
	f.username.SetValue("")
	f.password.SetValue("")
	f.focused = 0
}

func (f *loginForm) setWidth(w int) {
	f.username.Width = maxInt(w-12, 8)
	f.password.Width = maxInt(w-12, 8)
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	in := f.inputs()[f.focused]
	*in, cmd = in.Update(msg)
	return cmd
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+s":
		return m.openSettings()
	case "tab", "down":
		return m, m.login.focus(m.login.focused + 1)
	case "shift+tab", "up":
		return m, m.login.focus(m.login.focused - 1)
	case "esc":
		return m, tea.Quit
	case "enter":
		if m.login.focused == 0 {
			return m, m.login.focus(1)
		}
		username := strings.TrimSpace(m.login.username.Value())
		password := m.login.password.Value()
		if username == "" || password == "" {
			m.setFlash("Enter username and password.", true)
			return m, nil
		}
		m.busy = true
		m.setFlash("Signing in...", false)
		return m, tea.Batch(m.spinner.Tick, loginCmd(m.ctx, m.sessions, username, password))
	}
	return m, m.login.update(msg)
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("agenda"))
	b.WriteString(styles.MutedText.Render("  sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.login.username.View())
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Authenticating..."))
	} else if m.settings != nil && m.settings.IsConfigured() {
		b.WriteString(styles.FaintText.Render("API " + truncateMiddle(m.settings.BaseURL(), 40)))
	} else {
		b.WriteString(styles.WarningText.Render("API not configured (ctrl+s)"))
	}

	panel := styles.FocusPanel.Width(minInt(maxInt(m.width-4, 20), 52)).Render(b.String())
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, panel)
}
