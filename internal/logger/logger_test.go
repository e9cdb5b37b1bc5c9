package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
// Returns the path to the temp file and a cleanup function.
func setupTestLogger(t *testing.T) (string, func()) {
	t.Helper()
	Reset()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}

	return logPath, func() {
		Reset()
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestLevels_Written(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	log := WithComponent("test")
	log.Info("info-marker", "count", 123)
	log.Warn("warn-marker")
	log.Error("error-marker", "err", "boom")

	content := readLog(t, logPath)
	for _, want := range []string{"info-marker", "count=123", "level=WARN", "error-marker", "err=boom"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q", want)
		}
	}
}

func TestDebug_FilteredByLevel(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	log := WithComponent("test")
	log.Debug("hidden-debug-marker")
	SetDebug(true)
	log.Debug("visible-debug-marker")
	SetDebug(false)
	log.Debug("hidden-again-marker")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden-debug-marker") {
		t.Error("debug message should be dropped at info level")
	}
	if !strings.Contains(content, "visible-debug-marker") {
		t.Error("debug message should be written once debug is enabled")
	}
	if strings.Contains(content, "hidden-again-marker") {
		t.Error("debug message should be dropped after debug is disabled")
	}
}

func TestInit_CreatesDirectory(t *testing.T) {
	Reset()
	defer Reset()

	logPath := filepath.Join(t.TempDir(), "nested", "dir", "confide.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	WithComponent("test").Info("hello")

	if content := readLog(t, logPath); !strings.Contains(content, "hello") {
		t.Errorf("log should contain the message, got %q", content)
	}
}

func TestClose(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	defer cleanup()

	Close()
	// Logging after Close falls back to the default logger rather than panicking.
	WithComponent("test").Info("after close")
}

func TestWithComponent(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	WithComponent("api").Info("request finished", "status", 200)

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=api") {
		t.Errorf("log should carry component attribute, got %q", content)
	}
	if !strings.Contains(content, "status=200") {
		t.Errorf("log should carry status attribute, got %q", content)
	}
}

func TestWithSession(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	WithSession("S1").Info("history loaded")

	if content := readLog(t, logPath); !strings.Contains(content, "sessionID=S1") {
		t.Errorf("log should carry session attribute, got %q", content)
	}
}

func TestLog_Concurrent(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	defer cleanup()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				WithSession("S1").Info("concurrent test", "n", n, "j", j)
			}
		}(i)
	}
	wg.Wait()
}

func TestReset(t *testing.T) {
	Reset()
	tmpDir := t.TempDir()
	logPath1 := filepath.Join(tmpDir, "log1.log")
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	WithComponent("test").Info("message to log1")

	Reset()

	logPath2 := filepath.Join(tmpDir, "log2.log")
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	WithComponent("test").Info("message to log2")
	defer Reset()

	content1 := readLog(t, logPath1)
	if !strings.Contains(content1, "message to log1") {
		t.Error("log1 should contain 'message to log1'")
	}
	if strings.Contains(content1, "message to log2") {
		t.Error("log1 should NOT contain 'message to log2'")
	}

	content2 := readLog(t, logPath2)
	if !strings.Contains(content2, "message to log2") {
		t.Error("log2 should contain 'message to log2'")
	}
	if strings.Contains(content2, "message to log1") {
		t.Error("log2 should NOT contain 'message to log1'")
	}
}

func TestRotatingWriter(t *testing.T) {
	w := RotatingWriter("/tmp/confide-test.log")
	if w.Filename != "/tmp/confide-test.log" {
		t.Errorf("Filename = %q", w.Filename)
	}
	if w.MaxSize != 10 || w.MaxBackups != 3 || w.MaxAge != 28 || !w.Compress {
		t.Errorf("unexpected rotation settings: %+v", w)
	}
}
