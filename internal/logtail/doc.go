// Package logtail reads the tail of agenda's log file and parses its lines.
//
// # Reading
//
// Read returns the last N lines of a file using a ring buffer, so memory stays
// O(N) no matter how large the log has grown. A missing file is not an error
// because the log is created lazily on first write.
//
//	lines, err := logtail.Read(cfg.LogPath, 500)
//
// # Parsing
//
// agenda logs through slog.TextHandler, which writes one key=value line per
// record:
//
//	time=2026-01-15T09:00:00.000-03:00 level=WARN msg="remote logout failed" error="api error: 503 Service Unavailable"
//
// Parse turns such a line into an Entry with Time, Level, Msg, and the
// remaining attributes in order, decoded with go-logfmt. Quoted values are
// unquoted. Anything that is not key=value (panics, stack traces) is returned
// with Msg set to the trimmed line so the UI can still show it.
package logtail
