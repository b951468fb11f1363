package logtail

import (
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
)

// Attr is one key=value pair from a log line.
type Attr struct {
	Key   string
	Value string
}

// Entry is a parsed slog text line. Lines that are not in key=value form
// come back with only Raw and Msg set.
type Entry struct {
	Raw   string
	Time  time.Time
	Level string
	Msg   string
	Attrs []Attr
}

// Parse splits a line written by slog.TextHandler into its parts. A line
// counts as structured when it decodes as logfmt and carries a level or msg.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	structured := false

	dec := logfmt.NewDecoder(strings.NewReader(line))
	for dec.ScanRecord() {
		for dec.ScanKeyval() {
			key, value := string(dec.Key()), string(dec.Value())
			switch key {
			case "time":
				if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
					e.Time = t
				}
			case "level":
				e.Level = strings.ToUpper(value)
				structured = true
			case "msg":
				e.Msg = value
				structured = true
			default:
				e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
			}
		}
	}
	if dec.Err() != nil || !structured {
		return Entry{Raw: line, Msg: strings.TrimSpace(line)}
	}
	return e
}

// ParseLines parses every line in order.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		out = append(out, Parse(line))
	}
	return out
}
