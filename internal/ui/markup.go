package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/net/html"
)

// RenderMarkup renders bubble markup for the terminal. <strong>/<b> toggle
// bold, <em>/<i> toggle italic, <br> breaks the line and every other tag is
// dropped. Text is entity-decoded and wrapped to width.
func RenderMarkup(markup string, base lipgloss.Style, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var sb strings.Builder
	var bold, italic int
	z := html.NewTokenizer(strings.NewReader(markup))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return lipgloss.NewStyle().Width(width).Render(sb.String())

		case html.TextToken:
			style := base.Bold(bold > 0 || base.GetBold()).Italic(italic > 0 || base.GetItalic())
			// Style each line on its own so a break does not carry the
			// escape sequences across the wrap.
			for i, line := range strings.Split(string(z.Text()), "\n") {
				if i > 0 {
					sb.WriteByte('\n')
				}
				if line != "" {
					sb.WriteString(style.Render(line))
				}
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				sb.WriteByte('\n')
			case "strong", "b":
				if tt == html.StartTagToken {
					bold++
				}
			case "em", "i":
				if tt == html.StartTagToken {
					italic++
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "strong", "b":
				bold = max(bold-1, 0)
			case "em", "i":
				italic = max(italic-1, 0)
			}
		}
	}
}
