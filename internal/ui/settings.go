package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/agenda/internal/api"
)

// settingsForm edits the API base URL and key.
type settingsForm struct {
	baseURL textinput.Model
	apiKey  textinput.Model
	focused int
}

func newSettingsForm() settingsForm {
	base := textinput.New()
	base.Placeholder = "https://api.example.com"
	base.Prompt = "Base URL "
	base.CharLimit = 256

	k := textinput.New()
	k.Placeholder = "api key"
	k.Prompt = "API key  "
	k.CharLimit = 512
	k.EchoMode = textinput.EchoPassword
	k.EchoCharacter = '•'

	return settingsForm{baseURL: base, apiKey: k}
}

func (f *settingsForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.baseURL, &f.apiKey}
}

func (f *settingsForm) focus(i int) tea.Cmd {
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

func (f *settingsForm) blur() {
	for _, in := range f.inputs() {
		in.Blur()
	}
}

// load copies the saved values into the inputs.
func (f *settingsForm) load(s *api.Settings) {
	if s == nil {
		return
	}
	f.baseURL.SetValue(s.BaseURL())
	f.apiKey.SetValue(s.APIKey())
}

func (f *settingsForm) setWidth(w int) {
	f.baseURL.Width = maxInt(w-12, 8)
	f.apiKey.Width = maxInt(w-12, 8)
}

func (f *settingsForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	in := f.inputs()[f.focused]
	*in, cmd = in.Update(msg)
	return cmd
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch {
	case msg.String() == "esc":
		return m.closeSettings()
	case msg.String() == "tab" || msg.String() == "down":
		return m, m.settingsForm.focus(m.settingsForm.focused + 1)
	case msg.String() == "shift+tab" || msg.String() == "up":
		return m, m.settingsForm.focus(m.settingsForm.focused - 1)
	case msg.String() == "enter":
		m.busy = true
		m.setFlash("Saving settings...", false)
		return m, tea.Batch(m.spinner.Tick, saveSettingsCmd(
			m.ctx, m.settings,
			m.settingsForm.baseURL.Value(),
			m.settingsForm.apiKey.Value(),
		))
	case msg.String() == "ctrl+t":
		if m.client == nil {
			return m, nil
		}
		m.busy = true
		m.setFlash("Testing connection...", false)
		return m, tea.Batch(m.spinner.Tick, healthCmd(m.ctx, m.client))
	case msg.String() == "ctrl+x":
		m.busy = true
		m.setFlash("Clearing settings...", false)
		return m, tea.Batch(m.spinner.Tick, clearSettingsCmd(m.ctx, m.settings))
	}
	return m, m.settingsForm.update(msg)
}

func (m Model) renderSettings() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("API settings"))
	b.WriteString("\n\n")
	b.WriteString(m.settingsForm.baseURL.View())
	b.WriteString("\n")
	b.WriteString(m.settingsForm.apiKey.View())
	b.WriteString("\n\n")

	if m.settings != nil && m.settings.IsConfigured() {
		b.WriteString(styles.SuccessText.Render("● configured"))
		b.WriteString(styles.MutedText.Render("  key " + m.settings.RedactedKey()))
	} else {
		b.WriteString(styles.WarningText.Render("○ not configured"))
	}
	if m.busy {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter save · ctrl+t test · ctrl+x clear · esc back"))

	panel := styles.FocusPanel.Width(minInt(maxInt(m.width-4, 20), 76)).Render(b.String())
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, panel)
}
