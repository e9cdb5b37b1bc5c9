package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestNewFooter(t *testing.T) {
	footer := NewFooter()

	if footer == nil {
		t.Fatal("NewFooter() returned nil")
	}
	if footer.flashMessage != nil {
		t.Error("Expected no flash message initially")
	}
	if len(footer.Bindings()) == 0 {
		t.Error("Expected default bindings")
	}
}

func TestFooter_SetWidth(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(120)

	if footer.width != 120 {
		t.Errorf("Expected width 120, got %d", footer.width)
	}
}

func TestFooter_SetFlash(t *testing.T) {
	footer := NewFooter()

	seq := footer.SetFlash("Test error message", FlashError)

	if footer.flashMessage == nil {
		t.Fatal("Expected flash message to be set")
	}
	if footer.flashMessage.Text != "Test error message" {
		t.Errorf("Expected text 'Test error message', got %q", footer.flashMessage.Text)
	}
	if footer.flashMessage.Type != FlashError {
		t.Errorf("Expected type FlashError, got %v", footer.flashMessage.Type)
	}
	if footer.flashMessage.Seq != seq {
		t.Errorf("Expected seq %d, got %d", seq, footer.flashMessage.Seq)
	}
}

func TestFooter_ClearFlash(t *testing.T) {
	footer := NewFooter()

	footer.SetFlash("Test message", FlashInfo)
	if !footer.HasFlash() {
		t.Error("Expected HasFlash() to return true")
	}

	footer.ClearFlash()
	if footer.HasFlash() {
		t.Error("Expected HasFlash() to return false after ClearFlash()")
	}
}

func TestFooter_ClearFlashSeq(t *testing.T) {
	footer := NewFooter()

	first := footer.SetFlash("first", FlashWarning)
	second := footer.SetFlash("second", FlashWarning)

	if first == second {
		t.Fatal("each flash should get a new sequence number")
	}

	// A timer armed for the first alert must not dismiss the second.
	if footer.ClearFlashSeq(first) {
		t.Error("stale sequence should not clear the flash")
	}
	if footer.Flash() == nil || footer.Flash().Text != "second" {
		t.Error("second flash should still be showing")
	}

	if !footer.ClearFlashSeq(second) {
		t.Error("current sequence should clear the flash")
	}
	if footer.HasFlash() {
		t.Error("flash should be gone")
	}
	if footer.ClearFlashSeq(second) {
		t.Error("clearing twice should report false")
	}
}

func TestFooter_View_WithFlash(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(80)

	viewWithoutFlash := ansi.Strip(footer.View())
	if strings.Contains(viewWithoutFlash, "Test error") {
		t.Error("Should not contain flash message text when no flash is set")
	}
	if !strings.Contains(viewWithoutFlash, "send") {
		t.Error("Bindings should be visible without a flash")
	}

	footer.SetFlash("Test error message", FlashError)
	viewWithFlash := ansi.Strip(footer.View())

	if !strings.Contains(viewWithFlash, "Test error message") {
		t.Error("Flash message should be visible in view")
	}
	if !strings.Contains(viewWithFlash, "✕") {
		t.Error("Error flash should contain error icon")
	}
	if strings.Contains(viewWithFlash, "send") {
		t.Error("Flash should replace the bindings")
	}
}

func TestFooter_FlashTypes(t *testing.T) {
	tests := []struct {
		name         string
		flashType    FlashType
		expectedIcon string
	}{
		{"Error", FlashError, "✕"},
		{"Warning", FlashWarning, "⚠"},
		{"Info", FlashInfo, "ℹ"},
		{"Success", FlashSuccess, "✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := NewFooter()
			footer.SetWidth(80)
			footer.SetFlash("Test message", tt.flashType)

			view := footer.View()
			if !strings.Contains(view, tt.expectedIcon) {
				t.Errorf("Expected %s flash to contain icon %q", tt.name, tt.expectedIcon)
			}
		})
	}
}

func TestFooter_ContextBindings(t *testing.T) {
	tests := []struct {
		name                         string
		sidebarFocused, active, busy bool
		modalOpen                    bool
		want                         []string
		notWant                      []string
	}{
		{
			name:    "chat idle",
			want:    []string{"send", "new chat", "copy reply"},
			notWant: []string{"delete", "cancel"},
		},
		{
			name:    "chat busy",
			busy:    true,
			want:    []string{"scroll"},
			notWant: []string{"send"},
		},
		{
			name:           "sidebar with active conversation",
			sidebarFocused: true,
			active:         true,
			want:           []string{"navigate", "delete", "quit"},
		},
		{
			name:           "sidebar without conversations",
			sidebarFocused: true,
			want:           []string{"new chat"},
			notWant:        []string{"delete"},
		},
		{
			name:      "modal open",
			modalOpen: true,
			want:      []string{"confirm", "cancel"},
			notWant:   []string{"send", "navigate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := NewFooter()
			footer.SetWidth(160)
			footer.SetContext(tt.sidebarFocused, tt.active, tt.busy, tt.modalOpen)
			view := ansi.Strip(footer.View())

			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("footer should contain %q, got %q", w, view)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(view, w) {
					t.Errorf("footer should not contain %q, got %q", w, view)
				}
			}
		})
	}
}
