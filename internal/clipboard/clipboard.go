// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/confide/internal/logger"
)

// writeFunc stores text on the clipboard.
type writeFunc func(text string) error

var (
	mu          sync.Mutex
	initialized bool
	write       writeFunc = systemWrite
)

// Init initializes the clipboard. Must be called before other functions.
// This is safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := clipboard.Init(); err != nil {
		logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

func systemWrite(text string) error {
	if err := initLocked(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// WriteText copies text to the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if err := write(text); err != nil {
		return err
	}
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}

// SetWriter replaces the clipboard backend. Used by tests.
func SetWriter(fn func(text string) error) {
	mu.Lock()
	defer mu.Unlock()
	write = fn
}

// ResetWriter restores the system clipboard backend.
func ResetWriter() {
	mu.Lock()
	defer mu.Unlock()
	write = systemWrite
}
