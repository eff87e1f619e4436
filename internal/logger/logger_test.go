package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matkrin/shtokd/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"DEBUG", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input).String()
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shtokd.log")

	l, closer, err := New(config.Logging{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("dropped")
	l.Warn("kept", "uri", "file:///tmp/a.sh")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "dropped") {
		t.Errorf("info record written at warn level: %s", content)
	}
	if !strings.Contains(content, "msg=kept") || !strings.Contains(content, "uri=file:///tmp/a.sh") {
		t.Errorf("expected warn record, got %s", content)
	}
}

func TestNewStderr(t *testing.T) {
	l, closer, err := New(config.Logging{Level: "debug"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewBadPath(t *testing.T) {
	_, _, err := New(config.Logging{File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	if err == nil {
		t.Error("expected error for unwritable log path")
	}
}
