package logtail

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse_SlogTextLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Warn("remote logout failed", "error", `api error: 503 "Service Unavailable"`, "attempt", 2)

	e := Parse(strings.TrimSpace(buf.String()))
	if e.Level != "WARN" {
		t.Fatalf("Level = %q, want WARN", e.Level)
	}
	if e.Msg != "remote logout failed" {
		t.Fatalf("Msg = %q", e.Msg)
	}
	if e.Time.IsZero() {
		t.Fatalf("Time not parsed from %q", e.Raw)
	}
	want := []Attr{
		{Key: "error", Value: `api error: 503 "Service Unavailable"`},
		{Key: "attempt", Value: "2"},
	}
	if !reflect.DeepEqual(e.Attrs, want) {
		t.Fatalf("Attrs = %#v, want %#v", e.Attrs, want)
	}
}

func TestParse_PlainLine(t *testing.T) {
	tests := []string{
		"panic: something broke",
		"  goroutine 1 [running]:",
		`msg="unterminated`,
		"",
	}
	for _, line := range tests {
		e := Parse(line)
		if e.Level != "" || len(e.Attrs) != 0 {
			t.Fatalf("Parse(%q) = %#v, want plain entry", line, e)
		}
		if e.Msg != strings.TrimSpace(line) || e.Raw != line {
			t.Fatalf("Parse(%q) Msg=%q Raw=%q", line, e.Msg, e.Raw)
		}
	}
}

func TestParseLines(t *testing.T) {
	got := ParseLines([]string{"level=INFO msg=ok", "plain"})
	if len(got) != 2 || got[0].Level != "INFO" || got[0].Msg != "ok" || got[1].Msg != "plain" {
		t.Fatalf("ParseLines = %#v", got)
	}
}

func TestParse_EscapedValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Error("save failed", "path", `C:\state "draft".toml`, "detail", "line1\nline2\ttab", "empty", "")

	e := Parse(strings.TrimSpace(buf.String()))
	if e.Level != "ERROR" || e.Msg != "save failed" {
		t.Fatalf("Parse = %#v", e)
	}
	want := []Attr{
		{Key: "path", Value: `C:\state "draft".toml`},
		{Key: "detail", Value: "line1\nline2\ttab"},
		{Key: "empty", Value: ""},
	}
	if !reflect.DeepEqual(e.Attrs, want) {
		t.Fatalf("Attrs = %#v, want %#v", e.Attrs, want)
	}
}

func TestParse_WordsWithoutLevelOrMsgArePlain(t *testing.T) {
	line := "exit status 2 while flushing"
	e := Parse(line)
	if e.Msg != line || e.Level != "" || len(e.Attrs) != 0 {
		t.Fatalf("Parse(%q) = %#v, want plain entry", line, e)
	}
}
