package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// FlashType selects the icon and color of a flash alert.
type FlashType int

const (
	FlashError FlashType = iota
	FlashWarning
	FlashInfo
	FlashSuccess
)

// Icon returns the glyph shown before the alert text.
func (t FlashType) Icon() string {
	switch t {
	case FlashError:
		return "✕"
	case FlashWarning:
		return "⚠"
	case FlashSuccess:
		return "✓"
	default:
		return "ℹ"
	}
}

func (t FlashType) style() lipgloss.Style {
	switch t {
	case FlashError:
		return FlashErrorStyle
	case FlashWarning:
		return FlashWarningStyle
	case FlashSuccess:
		return FlashSuccessStyle
	default:
		return FlashInfoStyle
	}
}

// FlashMessage is a transient alert. Seq identifies it so a timer armed for
// an older alert cannot dismiss a newer one.
type FlashMessage struct {
	Text string
	Type FlashType
	Seq  int
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	sidebarFocused bool
	hasActive      bool
	busy           bool
	modalOpen      bool

	flashMessage *FlashMessage
	flashSeq     int
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(sidebarFocused, hasActive, busy, modalOpen bool) {
	f.sidebarFocused = sidebarFocused
	f.hasActive = hasActive
	f.busy = busy
	f.modalOpen = modalOpen
}

// SetFlash shows an alert in place of the bindings and returns its sequence
// number.
func (f *Footer) SetFlash(text string, flashType FlashType) int {
	f.flashSeq++
	f.flashMessage = &FlashMessage{Text: text, Type: flashType, Seq: f.flashSeq}
	return f.flashSeq
}

// ClearFlash removes any alert.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// ClearFlashSeq removes the alert only if it is still the one numbered seq.
func (f *Footer) ClearFlashSeq(seq int) bool {
	if f.flashMessage == nil || f.flashMessage.Seq != seq {
		return false
	}
	f.flashMessage = nil
	return true
}

// HasFlash reports whether an alert is showing.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// Flash returns the current alert, or nil.
func (f *Footer) Flash() *FlashMessage {
	return f.flashMessage
}

// Bindings returns the shortcuts that apply in the current context.
func (f *Footer) Bindings() []KeyBinding {
	switch {
	case f.modalOpen:
		return []KeyBinding{
			{Key: "←/→", Desc: "choose"},
			{Key: "enter", Desc: "confirm"},
			{Key: "esc", Desc: "cancel"},
		}
	case f.sidebarFocused:
		bindings := []KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "ctrl+n", Desc: "new chat"},
		}
		if f.hasActive {
			bindings = append(bindings, KeyBinding{Key: "d", Desc: "delete"})
		}
		return append(bindings,
			KeyBinding{Key: "tab", Desc: "chat"},
			KeyBinding{Key: "q", Desc: "quit"},
		)
	case f.busy:
		return []KeyBinding{
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "tab", Desc: "conversations"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	default:
		return []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "alt+enter", Desc: "newline"},
			{Key: "ctrl+n", Desc: "new chat"},
			{Key: "ctrl+y", Desc: "copy reply"},
			{Key: "ctrl+b", Desc: "sidebar"},
			{Key: "tab", Desc: "conversations"},
		}
	}
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		style := f.flashMessage.Type.style()
		content := style.Render(f.flashMessage.Type.Icon() + " " + f.flashMessage.Text)
		return FooterStyle.Width(f.width).Render(content)
	}

	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
