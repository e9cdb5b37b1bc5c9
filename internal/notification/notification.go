// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"
	"github.com/zhubert/confide/internal/logger"
)

// AppName is the title used for every notification.
const AppName = "confide"

// notifyFunc matches beeep.Notify.
type notifyFunc func(title, message string, icon any) error

var notify notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. Used by tests.
func SetNotifier(fn func(title, message string, icon any) error) {
	notify = fn
}

// ResetNotifier restores the beeep backend.
func ResetNotifier() {
	notify = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)
	// Use empty string for icon - beeep handles platform defaults
	err := notify(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// ReplyReady announces that the assistant finished answering in the
// conversation titled title.
func ReplyReady(title string) error {
	if title == "" {
		return Send(AppName, "A new reply is ready")
	}
	return Send(AppName, "New reply in "+title)
}
