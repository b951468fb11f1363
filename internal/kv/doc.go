// Package kv defines the durable key-value port used for API settings and the
// login session, together with its backends.
//
// # Backends
//
//   - Memory: in-process map, used by tests and as a scratch store
//   - File: a TOML document (default ~/.local/share/agenda/state.toml)
//   - postgres.Store: a kv_entries table, selected when database_url is set
//
// All values are strings. Callers that need structured values (the session's
// user record) encode them as JSON themselves.
//
// # File format
//
//	[values]
//	agenda_oxum_apiBaseUrl = "https://api.example.com"
//	agenda_oxum_apiKey = "secret"
//	authToken = "..."
//	authUser = "{\"id\":\"1\",...}"
//
// The file is rewritten through a temp file and rename on every mutation and
// is created with 0600 permissions because it holds the API key and token.
// A failed write leaves the in-memory view unchanged.
package kv
