// Package config loads agenda's configuration file.
//
// # Overview
//
// Load reads a single file and returns an immutable Config. A missing file is
// not an error; defaults are used so agenda runs without any setup. Files with
// a .yaml or .yml extension are parsed as YAML; any other extension is TOML.
//
// # Resolution Order
//
//  1. If a path is explicitly provided (the -config flag), use it
//  2. Otherwise, use ~/.config/agenda/config.toml
//  3. If the file doesn't exist, use defaults
//  4. If the file exists but fields are missing or blank, use defaults for them
//
// # Fields
//
//	namespace = "agenda_oxum"                      # storage key prefix for API settings
//	state_path = "~/.local/share/agenda/state.toml" # local key-value file
//	database_url = ""                              # PostgreSQL DSN; replaces state_path when set
//	log_path = "~/.local/share/agenda/agenda.log"
//	log_level = "info"                             # debug, info, warn, error
//	request_timeout = "10s"
//	poll_interval = "30s"
//
//	[fallback]
//	username = "admin"
//	password_hash = ""                             # bcrypt; empty keeps the built-in password
//
// Tilde expansion is performed on state_path and log_path, and both are made
// absolute. Durations use time.ParseDuration syntax and must be positive.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML or YAML syntax errors
//   - Invalid durations or log levels
//
// Parse failures mention "parse config" and the offending field.
package config
