package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/confide/internal/ui"
)

// FlashDuration is how long a transient alert stays in the footer.
const FlashDuration = 2 * time.Second

// Alert texts.
const (
	EmptyInputText   = "Please enter a message first"
	NoSessionText    = "Please start or pick a conversation first"
	BusyText         = "Still working on your last request, please wait a moment~"
	CreateFailedText = "Couldn't start a new conversation. Please try again later."
	RefreshFailText  = "Couldn't refresh the conversation list."
)

// showFlash displays an alert and arms its single dismissal.
func (m *Model) showFlash(text string, flashType ui.FlashType) tea.Cmd {
	seq := m.footer.SetFlash(text, flashType)
	return m.tick(FlashDuration, func(time.Time) tea.Msg {
		return FlashExpiredMsg{Seq: seq}
	})
}

// handleFlashExpired clears the alert unless a newer one replaced it.
func (m *Model) handleFlashExpired(msg FlashExpiredMsg) {
	m.footer.ClearFlashSeq(msg.Seq)
}
