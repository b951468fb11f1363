package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/agenda/internal/api"
)

const dateDisplayLayout = "02/01/2006 15:04"

func newTable(cols []table.Column) table.Model {
	return table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
}

func tableStyles(t Theme) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(t.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(t.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(t.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(t.SelectionText)).
		Background(lipgloss.Color(t.SelectionBg)).
		Bold(false)
	return s
}

// scaleColumns distributes width across columns by weight.
func scaleColumns(titles []string, weights []int, width int) []table.Column {
	total := 0
	for _, w := range weights {
		total += w
	}
	// Each cell carries one column of padding on either side.
	avail := maxInt(width-2*len(titles), len(titles))
	cols := make([]table.Column, len(titles))
	used := 0
	for i, title := range titles {
		w := avail * weights[i] / total
		if i == len(titles)-1 {
			w = avail - used
		}
		cols[i] = table.Column{Title: title, Width: maxInt(w, 1)}
		used += w
	}
	return cols
}

// clientesPane is the searchable client table.
type clientesPane struct {
	table     table.Model
	search    textinput.Model
	searching bool
	all       []api.Cliente
	visible   []api.Cliente
}

var (
	clienteTitles  = []string{"Nome", "E-mail", "Telefone", "CPF"}
	clienteWeights = []int{4, 4, 2, 2}
)

func newClientesPane() clientesPane {
	ti := textinput.New()
	ti.Placeholder = "name, e-mail, phone or CPF"
	ti.Prompt = "/"
	ti.CharLimit = 100

	return clientesPane{
		table:  newTable(scaleColumns(clienteTitles, clienteWeights, 80)),
		search: ti,
	}
}

func (p *clientesPane) applyTheme(t Theme) {
	p.table.SetStyles(tableStyles(t))
}

func (p *clientesPane) resize(w, h int) {
	p.table.SetColumns(scaleColumns(clienteTitles, clienteWeights, w))
	p.table.SetWidth(w)
	p.table.SetHeight(maxInt(h, 3))
	p.search.Width = maxInt(w-4, 8)
}

func (p *clientesPane) setData(items []api.Cliente) {
	p.all = items
	p.refilter()
}

func (p *clientesPane) refilter() {
	p.visible = api.FilterClientes(p.all, p.search.Value())
	rows := make([]table.Row, 0, len(p.visible))
	for _, c := range p.visible {
		rows = append(rows, table.Row{valueOr(c.Nome, "-"), valueOr(c.Email, "-"), valueOr(c.Telefone, "-"), valueOr(c.CPF, "-")})
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(maxInt(len(rows)-1, 0))
	}
}

func (p *clientesPane) updateSearch(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	p.refilter()
	return cmd
}

func (m Model) handleClientesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.clientes.searching = true
		m.clientes.table.Blur()
		return m, m.clientes.search.Focus()
	case "esc":
		if m.clientes.search.Value() != "" {
			m.clientes.search.SetValue("")
			m.clientes.refilter()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.clientes.table, cmd = m.clientes.table.Update(msg)
	return m, cmd
}

func (m Model) handleClientesSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clientes.search.SetValue("")
		m.clientes.refilter()
		fallthrough
	case "enter":
		m.clientes.searching = false
		m.clientes.search.Blur()
		m.clientes.table.Focus()
		return m, nil
	}
	return m, m.clientes.updateSearch(msg)
}

func (m Model) renderClientes() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("Clients") +
		styles.MutedText.Render(fmt.Sprintf("  %d of %d", len(m.clientes.visible), len(m.clientes.all)))

	search := styles.FaintText.Render("press / to search")
	if m.clientes.searching || m.clientes.search.Value() != "" {
		search = m.clientes.search.View()
	}

	body := title + "\n" + search + "\n" + m.renderTableBody(m.clientes.table, len(m.clientes.visible), "No clients.")
	return styles.FocusPanel.Width(maxInt(m.width-2, 10)).Render(body)
}

// agendamentosPane is the appointment table sorted by date and time.
type agendamentosPane struct {
	table table.Model
	items []api.Agendamento
}

var (
	agendamentoTitles  = []string{"Data", "Cliente", "Consultor", "Serviço", "Status"}
	agendamentoWeights = []int{3, 4, 3, 4, 2}
)

func newAgendamentosPane() agendamentosPane {
	return agendamentosPane{
		table: newTable(scaleColumns(agendamentoTitles, agendamentoWeights, 80)),
	}
}

func (p *agendamentosPane) applyTheme(t Theme) {
	p.table.SetStyles(tableStyles(t))
}

func (p *agendamentosPane) resize(w, h int) {
	p.table.SetColumns(scaleColumns(agendamentoTitles, agendamentoWeights, w))
	p.table.SetWidth(w)
	p.table.SetHeight(maxInt(h, 3))
}

func (p *agendamentosPane) setData(items []api.Agendamento) {
	sorted := make([]api.Agendamento, len(items))
	copy(sorted, items)
	sortAgendamentos(sorted)
	p.items = sorted

	rows := make([]table.Row, 0, len(sorted))
	for _, a := range sorted {
		rows = append(rows, table.Row{
			formatSchedule(a),
			valueOr(a.Cliente, "-"),
			valueOr(a.Consultor, "-"),
			valueOr(a.Servico, "-"),
			a.StatusLabel(),
		})
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(maxInt(len(rows)-1, 0))
	}
}

// sortAgendamentos orders by scheduled time; unparseable dates go last.
func sortAgendamentos(items []api.Agendamento) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].ScheduledAt(), items[j].ScheduledAt()
		switch {
		case ti.IsZero() && tj.IsZero():
			return false
		case ti.IsZero():
			return false
		case tj.IsZero():
			return true
		default:
			return ti.Before(tj)
		}
	})
}

func formatSchedule(a api.Agendamento) string {
	if t := a.ScheduledAt(); !t.IsZero() {
		return t.Format(dateDisplayLayout)
	}
	return valueOr(strings.TrimSpace(a.Data+" "+a.Hora), "-")
}

func (m Model) handleAgendamentosKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.agendamentos.table, cmd = m.agendamentos.table.Update(msg)
	return m, cmd
}

func (m Model) renderAgendamentos() string {
	styles := m.theme.Styles()

	counts := map[string]int{}
	for _, a := range m.agendamentos.items {
		counts[strings.ToLower(strings.TrimSpace(a.Status))]++
	}
	title := styles.AccentText.Bold(true).Render("Appointments") +
		styles.MutedText.Render(fmt.Sprintf("  %d", len(m.agendamentos.items)))
	for _, status := range []string{api.StatusConfirmado, api.StatusPendente, api.StatusCancelado} {
		label := api.Agendamento{Status: status}.StatusLabel()
		title += "  " + styles.StatusStyle(status).Render(fmt.Sprintf("%s %d", label, counts[status]))
	}

	body := title + "\n" + m.renderTableBody(m.agendamentos.table, len(m.agendamentos.items), "No appointments.")
	return styles.FocusPanel.Width(maxInt(m.width-2, 10)).Render(body)
}

func (m Model) renderTableBody(t table.Model, rows int, empty string) string {
	styles := m.theme.Styles()
	if rows > 0 {
		return t.View()
	}
	switch {
	case m.snapshot.LastError != nil && !m.snapshot.HasData:
		return styles.DangerText.Render(describeError(m.snapshot.LastError))
	case !m.snapshot.HasData:
		return styles.MutedText.Render("Waiting for data...")
	default:
		return styles.MutedText.Render(empty)
	}
}
