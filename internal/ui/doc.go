// Package ui provides the terminal user interface for agenda.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds every piece of view state and
// talks to the rest of the application through small interfaces (Sessions,
// HealthChecker, Refresher) plus the shared state.Store. Slow work (login,
// logout, saving settings, reading the log file) runs in tea.Cmd functions
// and reports back as messages, so Update never blocks on I/O.
//
// # Views
//
//   - Login: username and password form, shown whenever no session is active
//   - Settings: API base URL and key, with a connection test
//   - Clients: searchable table of /clientes
//   - Appointments: /agendamentos sorted by date and time, with status badges
//   - Log: tail of agenda's own log file, colored by level
//
// # Event Flow
//
//  1. Run() builds the Model and starts the program
//  2. A tick copies the latest state.Snapshot into the tables
//  3. The background poller fills the store; Refresh asks it to run now
//  4. Logging out clears the store and returns to the login form
//
// # Key Bindings
//
//   - 1/c, 2/a, 3/l: Clients, Appointments, Log
//   - s or ctrl+s: Settings (ctrl+s also works from the login form)
//   - /: Search clients
//   - r: Refresh now
//   - f: Follow or pause the log
//   - T: Cycle theme (saved to the store)
//   - o: Log out
//   - ?: Help
//   - q or ctrl+c: Quit
//
// While a text field has focus only ctrl+c and the form keys are handled, so
// typing never triggers a global shortcut.
package ui
