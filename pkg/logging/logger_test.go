package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	logger, err := New("orchestrator", dir)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	wantPath := filepath.Join(dir, RunID()+"-pomo.log")
	if logger.LogPath() != wantPath {
		t.Errorf("LogPath() = %q, want %q", logger.LogPath(), wantPath)
	}

	logger.Infof("cycle %d done", 3)
	logger.Warnf("reload failed: %s", "boom")

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"[orchestrator] [INFO] cycle 3 done",
		"[orchestrator] [WARN] reload failed: boom",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q, got:\n%s", want, content)
		}
	}
}

func TestNew_SharedRunID(t *testing.T) {
	dir := t.TempDir()

	a, err := New("a", dir)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := New("b", dir)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.LogPath() != b.LogPath() {
		t.Errorf("components should share one file: %q vs %q", a.LogPath(), b.LogPath())
	}
}

func TestNew_FallbackWhenDirUnusable(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}

	logger, err := New("test", filepath.Join(blocker, "logs"))
	if err == nil {
		t.Fatal("expected error for unusable directory")
	}
	if logger == nil {
		t.Fatal("expected fallback logger")
	}
	if logger.LogPath() != "" {
		t.Errorf("fallback logger should have no path, got %q", logger.LogPath())
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on fallback logger = %v", err)
	}
}

func TestNewWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter("timerpage", &buf)

	logger.Debugf("d")
	logger.Infof("i")
	logger.Warnf("w")
	logger.Errorf("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	for i, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		if !strings.Contains(lines[i], "[timerpage] ["+level+"]") {
			t.Errorf("line %d = %q, want level %s", i, lines[i], level)
		}
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter("c", &buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Infof("entry %d", n)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("expected 20 entries, got %d", got)
	}
}

func TestClose_Idempotent(t *testing.T) {
	logger, err := New("x", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("first Close() = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
