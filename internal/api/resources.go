package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	clientesPath     = "/clientes"
	agendamentosPath = "/agendamentos"
	healthPath       = "/health"
)

// Resources is the set of typed calls the UI and poller use.
type Resources interface {
	ListClientes(ctx context.Context) ([]Cliente, error)
	ListAgendamentos(ctx context.Context) ([]Agendamento, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

var _ Resources = (*Client)(nil)

// Health calls GET /health. Any 2xx JSON response counts as reachable.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var payload HealthResponse
	if err := c.Get(ctx, healthPath, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListClientes retrieves all clients.
func (c *Client) ListClientes(ctx context.Context) ([]Cliente, error) {
	var payload []Cliente
	if err := c.Get(ctx, clientesPath, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateCliente posts a new client and returns the stored record.
func (c *Client) CreateCliente(ctx context.Context, cliente Cliente) (*Cliente, error) {
	var created Cliente
	if err := c.Post(ctx, clientesPath, cliente, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCliente replaces the client with the given id.
func (c *Client) UpdateCliente(ctx context.Context, id string, cliente Cliente) (*Cliente, error) {
	path, err := itemPath(clientesPath, id)
	if err != nil {
		return nil, err
	}
	var updated Cliente
	if err := c.Put(ctx, path, cliente, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCliente removes the client with the given id.
func (c *Client) DeleteCliente(ctx context.Context, id string) error {
	path, err := itemPath(clientesPath, id)
	if err != nil {
		return err
	}
	return c.Delete(ctx, path, nil)
}

// ListAgendamentos retrieves all appointments.
func (c *Client) ListAgendamentos(ctx context.Context) ([]Agendamento, error) {
	var payload []Agendamento
	if err := c.Get(ctx, agendamentosPath, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateAgendamento posts a new appointment and returns the stored record.
func (c *Client) CreateAgendamento(ctx context.Context, a Agendamento) (*Agendamento, error) {
	var created Agendamento
	if err := c.Post(ctx, agendamentosPath, a, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAgendamento replaces the appointment with the given id.
func (c *Client) UpdateAgendamento(ctx context.Context, id string, a Agendamento) (*Agendamento, error) {
	path, err := itemPath(agendamentosPath, id)
	if err != nil {
		return nil, err
	}
	var updated Agendamento
	if err := c.Put(ctx, path, a, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAgendamento removes the appointment with the given id.
func (c *Client) DeleteAgendamento(ctx context.Context, id string) error {
	path, err := itemPath(agendamentosPath, id)
	if err != nil {
		return err
	}
	return c.Delete(ctx, path, nil)
}

func itemPath(collection, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("id required")
	}
	return collection + "/" + url.PathEscape(id), nil
}

// FilterClientes returns the clients matching term: case-insensitive on name
// and e-mail, plain substring on phone and CPF. A blank term matches all.
func FilterClientes(items []Cliente, term string) []Cliente {
	term = strings.TrimSpace(term)
	if term == "" {
		out := make([]Cliente, len(items))
		copy(out, items)
		return out
	}
	lower := strings.ToLower(term)
	var out []Cliente
	for _, c := range items {
		if strings.Contains(strings.ToLower(c.Nome), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(c.Telefone, term) ||
			strings.Contains(c.CPF, term) {
			out = append(out, c)
		}
	}
	return out
}
