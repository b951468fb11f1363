package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, user, API state, freshness.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("agenda", styles.Logo)}

	if m.session != nil {
		user := valueOr(m.session.User.Name, m.session.User.Username)
		who := bg.Render(user, styles.Text)
		if role := m.session.User.Role; role != "" {
			who += bg.Space() + bg.Render("("+role+")", styles.MutedText)
		}
		if m.session.Local {
			who += bg.Space() + bg.Render("local", styles.WarningText)
		}
		parts = append(parts, who)
	} else {
		parts = append(parts, bg.Render("signed out", styles.MutedText))
	}

	if m.settings != nil && m.settings.IsConfigured() {
		parts = append(parts, bg.Render("● API", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("○ API not configured", styles.WarningText))
	}

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	}

	if ts := formatUpdated(m.snapshot.LastUpdated, time.Now()); ts != "" && m.session != nil {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.session != nil && !m.session.ExpiresAt.IsZero() && m.width >= 100 {
		parts = append(parts, bg.Render("expires "+m.session.ExpiresAt.Local().Format("02/01 15:04"), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(bg.Join(parts, sep))
}

// renderFooter renders the flash line and key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	flash := styles.MutedText.Render(truncate(m.flash, maxInt(m.width-2, 10)))
	if m.flashErr {
		flash = styles.DangerText.Render(truncate(m.flash, maxInt(m.width-2, 10)))
	}
	if m.busy && m.currentView != ViewLogin && m.currentView != ViewSettings {
		flash = m.spinner.View() + " " + flash
	}

	var keys string
	switch m.currentView {
	case ViewLogin:
		keys = m.help.View(formKeys{keyMap: m.keys})
	case ViewSettings:
		keys = m.help.View(formKeys{keyMap: m.keys, settings: true})
	default:
		keys = m.help.View(m.keys)
	}
	return flash + "\n" + keys
}

func formatUpdated(last, now time.Time) string {
	if last.IsZero() {
		return ""
	}
	age := now.Sub(last)
	switch {
	case age < 5*time.Second:
		return "updated just now"
	case age < time.Minute:
		return fmt.Sprintf("updated %ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("updated %dm ago", int(age.Minutes()))
	default:
		return "updated " + last.Format("15:04")
	}
}
