package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"trims", "  hello  ", 10, "hello"},
		{"ellipsis", "hello world", 8, "hello..."},
		{"tiny_limit", "hello", 2, "he"},
		{"no_limit", "hello", 0, "hello"},
		{"runes", "agendamentação", 8, "agend..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.in, tc.limit); got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("https://api.example.com/v1", 11)
	if want := "https…om/v1"; got != want {
		t.Fatalf("truncateMiddle = %q, want %q", got, want)
	}
}

func TestPadRightAndValueOr(t *testing.T) {
	if got := padRight("INFO", 5); got != "INFO " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("ERROR", 3); got != "ERROR" {
		t.Fatalf("padRight longer = %q", got)
	}
	if got := valueOr(" \t", "-"); got != "-" {
		t.Fatalf("valueOr blank = %q", got)
	}
	if got := valueOr("x", "-"); got != "x" {
		t.Fatalf("valueOr value = %q", got)
	}
}

func TestFormatUpdated(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	cases := []struct {
		name string
		last time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"just_now", now.Add(-2 * time.Second), "updated just now"},
		{"seconds", now.Add(-42 * time.Second), "updated 42s ago"},
		{"minutes", now.Add(-5 * time.Minute), "updated 5m ago"},
		{"clock", now.Add(-3 * time.Hour), "updated 11:30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatUpdated(tc.last, now); got != tc.want {
				t.Fatalf("formatUpdated = %q, want %q", got, tc.want)
			}
		})
	}
}
