// Package app is the composition root of agenda.
//
// # Overview
//
// Run loads configuration, opens the key-value store, builds the API
// gateway and session manager, starts the background poller and hands
// everything to the UI. It blocks until the user quits or the context is
// cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         TOML or YAML config
//	       ├─────> openLogger()          slog text handler on the log file
//	       ├─────> openStore()           PostgreSQL or TOML state file
//	       ├─────> api.LoadSettings()    saved base URL and API key
//	       ├─────> auth.NewManager()     restores any persisted session
//	       ├─────> Poller.Start()        background refresh
//	       └─────> ui.Run()              TUI (blocks)
//
//	Poller loop:
//	┌─────────────────────────────────────────┐
//	│  wait (interval, backoff or Trigger)    │
//	│  ├─> ListClientes()                     │
//	│  ├─> ListAgendamentos()                 │
//	│  └─> store.Update()                     │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller only calls the API while settings are configured and a session
// is active. After a failure the wait doubles per consecutive failure, capped
// at five minutes. Trigger skips the current wait; the UI uses it after login
// and after settings change.
//
// # Error Handling
//
// Fatal (returned from Run): unreadable config, log file or store, and
// failure to load settings. Poll failures are logged and kept in the
// snapshot for the UI to show.
package app
