// Package state provides thread-safe state management for agenda.
//
// # Overview
//
// Store holds the latest clients and appointments fetched by the background
// poller so the UI can render them without touching the network. It is the
// coordination point where polling updates meet UI rendering.
//
//	Producer (Poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ ListClientes()   │           │                  │
//	│ ListAgendamentos │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│  repeat...       │           │  render tables   │
//	└──────────────────┘           └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace both lists
//	store.Update(clientes, agendamentos, nil)
//	→ HasData = true, LastError = nil, ConsecutiveFailures = 0
//
//	// Failure: keep old lists, record error
//	store.Update(nil, nil, err)
//	→ LastError = err, ConsecutiveFailures++
//
// Two or more consecutive failures mark the snapshot offline, which the UI
// shows in its header. Reset clears everything and is called on logout so a
// new user never sees the previous user's data.
//
// # Copying
//
// Update and Snapshot copy the slices, so neither the poller nor the UI can
// mutate what the other sees. The zero Store is ready to use.
package state
