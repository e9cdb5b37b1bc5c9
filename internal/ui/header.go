package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const appTitle = " confide"

// Header represents the top header bar
type Header struct {
	width   int
	summary string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetSummary sets the full summary of the highlighted conversation. Sidebar
// titles are shortened, so this is where the whole text is readable.
func (h *Header) SetSummary(summary string) {
	h.summary = strings.Join(strings.Fields(summary), " ")
}

// Summary returns the summary being shown.
func (h *Header) Summary() string {
	return h.summary
}

// View renders the header
func (h *Header) View() string {
	var rightText string
	if h.summary != "" {
		room := h.width - ansi.StringWidth(appTitle) - 3
		if room > 0 {
			rightText = ansi.Truncate(h.summary, room, "…") + " "
		}
	}

	paddingLen := max(h.width-ansi.StringWidth(appTitle)-ansi.StringWidth(rightText), 0)
	fullContent := appTitle + strings.Repeat(" ", paddingLen) + rightText

	return h.renderGradient(fullContent, len([]rune(appTitle)))
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content on a background fading from the primary
// color to the panel background. The first boldRunes runes are bold.
func (h *Header) renderGradient(content string, boldRunes int) string {
	if len(content) == 0 {
		return ""
	}

	startR, startG, startB := parseHexColor(hexPrimary)
	endR, endG, endB := parseHexColor(hexBg)

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Foreground(ColorText).
			Bold(i < boldRunes)

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
