package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/agenda/internal/logtail"
)

const logTailLines = 500

// logPane shows the tail of agenda's own log file.
type logPane struct {
	viewport viewport.Model
	entries  []logtail.Entry
	follow   bool
	err      error
}

type logLinesMsg struct {
	lines []string
	err   error
}

func newLogPane() logPane {
	return logPane{viewport: viewport.New(80, 20), follow: true}
}

func (p *logPane) resize(w, h int) {
	p.viewport.Width = maxInt(w, 10)
	p.viewport.Height = maxInt(h, 3)
}

func (p *logPane) setLines(lines []string, t Theme) {
	p.err = nil
	p.entries = logtail.ParseLines(lines)
	p.rerender(t)
}

func (p *logPane) rerender(t Theme) {
	styles := t.Styles()
	var b strings.Builder
	for i, e := range p.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatEntry(e, styles))
	}
	p.viewport.SetContent(b.String())
	if p.follow {
		p.viewport.GotoBottom()
	}
}

func formatEntry(e logtail.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.Text.Render(e.Msg)
	}
	parts := make([]string, 0, 4)
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Format("15:04:05")))
	}
	parts = append(parts, levelStyle(e.Level, styles).Render(padRight(e.Level, 5)))
	parts = append(parts, styles.Text.Render(e.Msg))
	if len(e.Attrs) > 0 {
		attrs := make([]string, 0, len(e.Attrs))
		for _, a := range e.Attrs {
			attrs = append(attrs, a.Key+"="+a.Value)
		}
		parts = append(parts, styles.MutedText.Render(strings.Join(attrs, " ")))
	}
	return strings.Join(parts, " ")
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch {
	case strings.HasPrefix(level, "ERROR"):
		return styles.DangerText
	case strings.HasPrefix(level, "WARN"):
		return styles.WarningText
	case strings.HasPrefix(level, "DEBUG"):
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

func readLogsCmd(path string) tea.Cmd {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
			return m, readLogsCmd(m.logPath)
		}
		return m, nil
	case "g", "home":
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case "G", "end":
		m.logs.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	if !m.logs.viewport.AtBottom() {
		m.logs.follow = false
	}
	return m, cmd
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	follow := styles.MutedText.Render("paused")
	if m.logs.follow {
		follow = styles.SuccessText.Render("following")
	}
	title := styles.AccentText.Bold(true).Render("Log") + "  " + follow + "  " +
		styles.FaintText.Render(truncateMiddle(m.logPath, maxInt(m.width-30, 10)))

	body := m.logs.viewport.View()
	switch {
	case m.logs.err != nil:
		body = styles.DangerText.Render(m.logs.err.Error())
	case len(m.logs.entries) == 0:
		body = styles.MutedText.Render("Log is empty.")
	}
	return styles.FocusPanel.Width(maxInt(m.width-2, 10)).Render(title + "\n" + body)
}
