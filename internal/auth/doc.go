// Package auth manages the signed-in session for the appointment API.
//
// # Overview
//
// Manager signs users in through POST /auth/login, keeps the resulting token
// and user profile in memory, and persists them to a kv.Store so the session
// survives restarts. A restored session is trusted as-is; nothing is checked
// against the server at startup.
//
//	mgr, err := auth.NewManager(ctx, client, store, auth.WithLogger(logger))
//	session, err := mgr.Login(ctx, "maria", "secret")
//	...
//	_ = mgr.Logout(ctx)
//
// # States
//
//	Unauthenticated -> Authenticating -> Authenticated -> Unauthenticated
//
// Authenticating lasts for the duration of one Login call. A failed Login
// returns to the state it started from.
//
// # Local Fallback
//
// When the remote login fails for any reason (HTTP error, transport error,
// malformed body, or a response missing token or user) the username and
// password are checked against a single local Credential. A match creates a
// local session with a generated "local-" token; a mismatch returns the
// original remote error. When the gateway is not configured at all, Login
// fails with api.ErrNotConfigured and the fallback is not consulted.
//
// The default credential is admin / admin123. It is kept as a bcrypt hash and
// can be replaced from the config file. It exists so the terminal can be used
// while the API is unreachable and should not be relied on in production.
//
// # Storage Keys
//
//   - authToken: the session token
//   - authUser: the user profile as JSON
//   - authExpiresAt: RFC 3339 expiry, when known
//
// Expiry comes from the login response's expiresAt field or the token's
// unverified JWT exp claim. It is shown to the user and never enforced.
//
// # Logout
//
// Logout posts to /auth/logout when configured. That call's error is logged
// and dropped. The in-memory session and all storage keys are cleared in
// every case.
package auth
