package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInitWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	closer, err := Init(Config{ConfigDir: dir})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Reset()

	Info("below warn level")
	Warn("habits blob is corrupt", "key", "habits")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	raw, err := os.ReadFile(LogPath(dir))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if strings.Contains(string(raw), "below warn level") {
		t.Errorf("info should be filtered without debug: %q", raw)
	}
	if !strings.Contains(string(raw), "key=habits") {
		t.Errorf("warning missing key/value pairs: %q", raw)
	}
}

func TestInitDebugLevel(t *testing.T) {
	closer, err := Init(Config{Debug: true, ConfigDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Reset()
	defer closer.Close()

	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/voidtrack")
	want := filepath.Join("/tmp/voidtrack", "logs", "voidtrack.log")
	if got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestSetOutputFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.InfoLevel)
	defer Reset()

	Debug("hidden")
	Info("seeded default habits", "count", 6)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked at info level: %q", out)
	}
	if !strings.Contains(out, "count=6") {
		t.Errorf("info message not written: %q", out)
	}
}

func TestHelpersAreNoOpsWithoutLogger(t *testing.T) {
	Reset()
	Debug("a")
	Info("b")
	Warn("c")
	Error("d")
}
