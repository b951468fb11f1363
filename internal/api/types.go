package api

import (
	"strings"
	"time"
)

const agendaDateLayout = "2006-01-02 15:04"

// Cliente mirrors a record from /clientes.
type Cliente struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	CPF      string `json:"cpf"`
}

// Agendamento mirrors a record from /agendamentos.
type Agendamento struct {
	ID        string `json:"id"`
	Cliente   string `json:"cliente"`
	Consultor string `json:"consultor"`
	Servico   string `json:"servico"`
	Data      string `json:"data"`
	Hora      string `json:"hora"`
	Status    string `json:"status"`
}

// Appointment status values used by the API.
const (
	StatusConfirmado = "confirmado"
	StatusPendente   = "pendente"
	StatusCancelado  = "cancelado"
)

// ScheduledAt combines Data and Hora in local time. It returns the zero time
// when either field is missing or malformed.
func (a Agendamento) ScheduledAt() time.Time {
	data := strings.TrimSpace(a.Data)
	hora := strings.TrimSpace(a.Hora)
	if data == "" || hora == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(agendaDateLayout, data+" "+hora, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StatusLabel returns a capitalized status for display.
func (a Agendamento) StatusLabel() string {
	s := strings.ToLower(strings.TrimSpace(a.Status))
	if s == "" {
		return "-"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HealthResponse mirrors /health. Servers may return any JSON object; only
// status is interpreted.
type HealthResponse struct {
	Status string `json:"status"`
}
