// Package api provides the settings store and HTTP request gateway for the
// appointment API.
//
// # Overview
//
// Settings persists the base URL and API key through a kv.Store and keeps the
// header set derived from them. Client builds every request from a copy of
// that header set, so saving or clearing settings affects only requests built
// afterwards.
//
//	settings, err := api.LoadSettings(ctx, store, api.DefaultNamespace)
//	client := api.NewClient(settings, api.WithTimeout(10*time.Second))
//
//	var clientes []api.Cliente
//	err = client.Get(ctx, "/clientes", &clientes)
//
// # Request Handling
//
// All requests:
//   - Resolve to baseURL + path (no path joining or normalization)
//   - Carry Content-Type: application/json, Accept: application/json, and
//     User-Agent: agenda/0.1
//   - Carry Authorization: Bearer <api key> when an API key is saved
//   - Let caller headers replace defaults of the same name
//
// Post and Put encode the body as JSON. Responses with a 2xx status are
// decoded as JSON into the destination; a nil destination discards the body.
//
// # Error Handling
//
//   - ErrNotConfigured: no base URL; returned before any network activity
//   - ErrValidation: Settings.Set called with an empty base URL or key
//   - *APIError: non-2xx status, carrying the code and status text
//   - *TransportError: the request could not be exchanged
//   - *ParseError: a 2xx body that is not valid JSON
//
// Nothing is retried. Use errors.Is and errors.As to classify failures.
package api
