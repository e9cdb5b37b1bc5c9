package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHeader_View(t *testing.T) {
	h := NewHeader()
	h.SetWidth(60)

	view := ansi.Strip(h.View())
	if !strings.HasPrefix(view, appTitle) {
		t.Errorf("header should start with the app title, got %q", view)
	}
	if ansi.StringWidth(view) != 60 {
		t.Errorf("header width = %d, want 60", ansi.StringWidth(view))
	}
}

func TestHeader_Summary(t *testing.T) {
	h := NewHeader()
	h.SetWidth(80)
	h.SetSummary("I keep waking up at\n3am and can't get back to sleep")

	if h.Summary() != "I keep waking up at 3am and can't get back to sleep" {
		t.Errorf("summary whitespace not collapsed: %q", h.Summary())
	}
	view := ansi.Strip(h.View())
	if !strings.Contains(view, h.Summary()) {
		t.Errorf("full summary should be visible, got %q", view)
	}
}

func TestHeader_SummaryTruncated(t *testing.T) {
	h := NewHeader()
	h.SetWidth(30)
	h.SetSummary(strings.Repeat("long summary ", 10))

	view := ansi.Strip(h.View())
	if ansi.StringWidth(view) > 30 {
		t.Errorf("header overflowed: width %d", ansi.StringWidth(view))
	}
	if !strings.Contains(view, "…") {
		t.Errorf("long summary should be truncated, got %q", view)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b int
	}{
		{"#7C3AED", 0x7C, 0x3A, 0xED},
		{"#000000", 0, 0, 0},
		{"bad", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := parseHexColor(tt.hex)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseHexColor(%q) = %d,%d,%d", tt.hex, r, g, b)
		}
	}
}
