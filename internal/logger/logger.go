package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	slogLogger *slog.Logger
	levelVar   = new(slog.LevelVar)
	sink       *lumberjack.Logger
	mu         sync.Mutex
	once       sync.Once
	initDone   bool
)

// DefaultLogPath is the log file used when Init is never called.
const DefaultLogPath = "/tmp/confide-debug.log"

// TelemetryLogGlob matches the trace and metric files written by the telemetry package.
const TelemetryLogGlob = "/tmp/confide-*.jsonl"

// SetDebug switches between debug and info level output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// RotatingWriter returns a size-rotated writer for path. The telemetry
// exporters share it so every file confide writes rotates the same way.
func RotatingWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// Init initializes the logger with a custom path. If it is never called,
// the default path is opened on the first WithComponent or WithSession.
// Returns an error if the log directory cannot be created.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	open(path)
	slogLogger.Info("Logger initialized", "path", path)
	return nil
}

// open must be called with mu held.
func open(path string) {
	sink = RotatingWriter(path)
	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{Level: levelVar})
	slogLogger = slog.New(handler)
	initDone = true
}

func ensureInit() {
	if !initDone {
		once.Do(func() {
			open(DefaultLogPath)
			slogLogger.Info("Logger initialized", "path", DefaultLogPath)
		})
	}
}

// Close flushes and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if sink != nil {
		sink.Close()
		sink = nil
	}
	slogLogger = nil
}

// Reset resets the logger state, allowing reinitialization.
// This is primarily for testing purposes.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if sink != nil {
		sink.Close()
		sink = nil
	}
	initDone = false
	once = sync.Once{}
	slogLogger = nil
	levelVar = new(slog.LevelVar)
}

// ClearLogs removes the confide debug log, its rotated backups and the
// telemetry files. It returns the number of files removed.
func ClearLogs() (int, error) {
	count := 0

	var paths []string
	for _, pattern := range []string{"/tmp/confide-debug*.log*", TelemetryLogGlob + "*"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return count, err
		}
		paths = append(paths, matches...)
	}

	for _, p := range paths {
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}

	return count, nil
}

// WithComponent returns a slog.Logger with the component attribute pre-attached.
//
// Example:
//
//	log := logger.WithComponent("api")
//	log.Info("request finished", "path", path, "status", status)
func WithComponent(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()

	if slogLogger == nil {
		return slog.Default()
	}
	return slogLogger.With(slog.String("component", component))
}

// WithSession returns a slog.Logger with the backend session ID pre-attached.
func WithSession(sessionID string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()

	if slogLogger == nil {
		return slog.Default()
	}
	return slogLogger.With(slog.String("sessionID", sessionID))
}
